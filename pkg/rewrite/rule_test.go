package rewrite_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/splice/pkg/effect"
	"github.com/Sumatoshi-tech/splice/pkg/rewrite"
)

const validRules = `
rules:
  - name: println_to_log
    description: route builtin println through the log package
    language: go
    query: |
      (call_expression
        function: (identifier) @fn
        arguments: (argument_list) @args) @call
    target: call
    action: rewrite
    replacement: log.Print$args
    where:
      - capture: fn
        equals: println
  - name: add_param
    language: Go
    query: (parameter_declaration) @param
    target: param.name
    action: insert
    replacement: extra
`

func TestParseRules_Valid(t *testing.T) {
	t.Parallel()

	rules, err := rewrite.ParseRules([]byte(validRules))
	require.NoError(t, err)
	require.Len(t, rules, 2)

	first := rules[0]
	assert.Equal(t, "println_to_log", first.Name)
	assert.Equal(t, rewrite.ActionRewrite, first.Action)
	assert.Equal(t, effect.Rewrite, first.Action.Kind())
	require.NotNil(t, first.Lang())
	assert.Equal(t, "go", first.Lang().Name())
	require.Len(t, first.Where, 1)
	assert.Equal(t, "fn", first.Where[0].Capture)

	second := rules[1]
	assert.Equal(t, effect.Insert, second.Action.Kind())
	assert.True(t, second.AppliesTo(first.Lang()))
}

func TestParseRules_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "not yaml",
			doc:  "rules: [",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "empty document",
			doc:  "",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "no rules",
			doc:  "rules: []\n",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "missing target",
			doc:  "rules:\n  - {name: r, language: go, query: '(identifier) @id', action: rewrite}\n",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "unknown action",
			doc:  "rules:\n  - {name: r, language: go, query: '(identifier) @id', target: id, action: delete}\n",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "insert without replacement",
			doc:  "rules:\n  - {name: r, language: go, query: '(identifier) @id', target: id, action: insert}\n",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "unknown field",
			doc:  "rules:\n  - {name: r, language: go, query: '(identifier) @id', target: id, action: rewrite, fix: x}\n",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "constraint without capture",
			doc:  "rules:\n  - {name: r, language: go, query: '(identifier) @id', target: id, action: rewrite, where: [{equals: x}]}\n",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "unknown language",
			doc:  "rules:\n  - {name: r, language: cobol, query: '(identifier) @id', target: id, action: rewrite}\n",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "filename target",
			doc:  "rules:\n  - {name: r, language: go, query: '(identifier) @id', target: filename, action: rewrite}\n",
			want: rewrite.ErrInvalidTarget,
		},
		{
			name: "bad template",
			doc:  "rules:\n  - {name: r, language: go, query: '(identifier) @id', target: id, action: rewrite, replacement: 'costs $ 5'}\n",
			want: rewrite.ErrTemplateSyntax,
		},
		{
			name: "bad regexp",
			doc:  "rules:\n  - {name: r, language: go, query: '(identifier) @id', target: id, action: rewrite, where: [{capture: id, matches: '('}]}\n",
			want: rewrite.ErrInvalidRules,
		},
		{
			name: "duplicate names",
			doc: "rules:\n" +
				"  - {name: r, language: go, query: '(identifier) @id', target: id, action: rewrite}\n" +
				"  - {name: r, language: go, query: '(identifier) @id', target: id, action: rewrite}\n",
			want: rewrite.ErrInvalidRules,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rules, err := rewrite.ParseRules([]byte(tt.doc))
			require.Error(t, err)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, rules)
		})
	}
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validRules), 0o600))

	rules, err := rewrite.LoadRules(path)
	require.NoError(t, err)
	assert.Len(t, rules, 2)

	_, err = rewrite.LoadRules(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
