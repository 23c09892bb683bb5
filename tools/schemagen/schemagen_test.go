package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/effect"
	"github.com/Sumatoshi-tech/splice/pkg/mcp"
	"github.com/Sumatoshi-tech/splice/pkg/rewrite"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

func validate(t *testing.T, schema *Schema, doc any) *gojsonschema.Result {
	t.Helper()

	schemaJSON, err := json.Marshal(schema)
	require.NoError(t, err)

	docJSON, err := json.Marshal(doc)
	require.NoError(t, err)

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(docJSON),
	)
	require.NoError(t, err)

	return result
}

func TestGenerateSchema_ApplyOutput(t *testing.T) {
	t.Parallel()

	schema := generateSchema("splice_apply.output", &mcp.ApplyOutput{})

	assert.Equal(t, "splice_apply output", schema.Title)
	assert.ElementsMatch(t, []string{"rewritten", "changed", "matches", "replacements"}, schema.Required)
	assert.Contains(t, schema.Definitions, "Match")
	assert.Contains(t, schema.Definitions, "Range")
	assert.Equal(t, "#/definitions/Position", schema.Definitions["Range"].Properties["start"].Ref)

	out := mcp.ApplyOutput{
		Rewritten: "log.Print(x)",
		Changed:   true,
		Diff:      "--- a/code.go\n+++ b/code.go\n",
		Matches: []rewrite.Match{{
			Rule:   "println_to_log",
			Action: rewrite.ActionRewrite,
			Range:  syntax.Range{Start: syntax.NewPosition(1, 1), End: syntax.NewPosition(1, 15), EndByte: 14},
			Text:   "fmt.Println(x)",
		}},
		Replacements: []effect.ReplacementInfo{{
			Source:      syntax.ByteRange{Start: 0, End: 14},
			Output:      syntax.ByteRange{Start: 0, End: 12},
			Replacement: "log.Print(x)",
		}},
		Logs: []analysislog.Log{{Level: 1, Message: "note", Position: &syntax.Position{Line: 1, Column: 1}}},
	}

	result := validate(t, schema, out)
	assert.True(t, result.Valid(), "%v", result.Errors())
}

func TestGenerateSchema_RejectsWrongTypes(t *testing.T) {
	t.Parallel()

	schema := generateSchema("splice_parse.output", &mcp.ParseOutput{})

	result := validate(t, schema, map[string]any{"language": 3, "nodes": []any{}})
	assert.False(t, result.Valid())

	result = validate(t, schema, mcp.ParseOutput{Language: "go"})
	assert.True(t, result.Valid(), "%v", result.Errors())
}

func TestGenerateSchema_InputDescriptions(t *testing.T) {
	t.Parallel()

	schema := generateSchema("splice_parse.input", &mcp.ParseInput{})

	assert.Equal(t, "source code to parse", schema.Properties["code"].Description)
	assert.ElementsMatch(t, []string{"code", "language"}, schema.Required)
}

func TestRun_WritesEverySchema(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "schemas")
	require.NoError(t, run(dir))

	for name := range payloads {
		data, err := os.ReadFile(filepath.Join(dir, name+".json"))
		require.NoError(t, err)

		var schema Schema
		require.NoError(t, json.Unmarshal(data, &schema), name)
		assert.Equal(t, draft07, schema.Schema)
	}
}
