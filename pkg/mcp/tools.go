package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/effect"
	"github.com/Sumatoshi-tech/splice/pkg/language"
	"github.com/Sumatoshi-tech/splice/pkg/rewrite"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

//go:generate go run ../../tools/schemagen -o ../../docs/schemas

// Tool names.
const (
	ToolNameApply = "splice_apply"
	ToolNameParse = "splice_parse"
)

// MaxCodeInputBytes caps inline code input.
const MaxCodeInputBytes = 1 << 20

// defaultDiffContext is the number of unchanged lines around each hunk.
const defaultDiffContext = 3

// Input validation errors.
var (
	ErrEmptyCode           = errors.New("code parameter is required and must not be empty")
	ErrEmptyLanguage       = errors.New("language parameter is required and must not be empty")
	ErrEmptyRules          = errors.New("rules parameter is required and must not be empty")
	ErrCodeTooLarge        = errors.New("code input exceeds maximum size")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

const (
	applyToolDescription = "Apply structural rewrite rules to inline source code. " +
		"Rules are a YAML document with a top-level rules list; each rule has a tree-sitter query, " +
		"a target capture and a replacement template. Returns the rewritten code, the matches and a diff."

	parseToolDescription = "Parse inline source code and return its syntax tree as an s-expression. " +
		"With kind set, only nodes of that kind are returned."
)

// ApplyInput is the input of splice_apply.
type ApplyInput struct {
	Code     string `json:"code"           jsonschema:"source code to rewrite"`
	Language string `json:"language"       jsonschema:"language name (e.g. go python javascript)"`
	Rules    string `json:"rules"          jsonschema:"YAML rule document"`
	Path     string `json:"path,omitempty" jsonschema:"file path bound to $filename (default: code.<language>)"`
}

// ApplyOutput is the result of splice_apply.
type ApplyOutput struct {
	Rewritten    string                   `json:"rewritten"`
	Changed      bool                     `json:"changed"`
	Diff         string                   `json:"diff,omitempty"`
	Matches      []rewrite.Match          `json:"matches"`
	Replacements []effect.ReplacementInfo `json:"replacements"`
	Logs         []analysislog.Log        `json:"logs,omitempty"`
}

// ParseInput is the input of splice_parse.
type ParseInput struct {
	Code     string `json:"code"           jsonschema:"source code to parse"`
	Language string `json:"language"       jsonschema:"language name (e.g. go python javascript)"`
	Kind     string `json:"kind,omitempty" jsonschema:"optional node kind filter (e.g. function_declaration)"`
}

// ParsedNode is one node of a splice_parse result.
type ParsedNode struct {
	Kind  string       `json:"kind"`
	Range syntax.Range `json:"range"`
	SExp  string       `json:"sexp"`
}

// ParseOutput is the result of splice_parse.
type ParseOutput struct {
	Language string       `json:"language"`
	Nodes    []ParsedNode `json:"nodes"`
}

// ToolOutput wraps structured tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleApply(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ApplyInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	lang, err := validateCodeInput(input.Code, input.Language)
	if err != nil {
		return errorResult(err)
	}

	if input.Rules == "" {
		return errorResult(ErrEmptyRules)
	}

	rules, err := rewrite.ParseRules([]byte(input.Rules))
	if err != nil {
		return errorResult(err)
	}

	path := input.Path
	if path == "" {
		path = syntheticFilename(lang)
	}

	res, err := s.engine.ApplyLanguage(ctx, lang, path, []byte(input.Code), rules)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(ApplyOutput{
		Rewritten:    res.Rewritten,
		Changed:      res.Changed(),
		Diff:         rewrite.FormatDiff(path, res.Diff(), defaultDiffContext),
		Matches:      res.Matches,
		Replacements: res.Replacements,
		Logs:         res.Logs,
	})
}

func (s *Server) handleParse(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ParseInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	lang, err := validateCodeInput(input.Code, input.Language)
	if err != nil {
		return errorResult(err)
	}

	tree, err := s.parser.Parse(ctx, lang.Grammar(), syntheticFilename(lang), []byte(input.Code))
	if err != nil {
		return errorResult(err)
	}
	defer tree.Close()

	out := ParseOutput{Language: lang.Name()}

	tree.Root().Walk(func(n *syntax.Node) bool {
		if input.Kind == "" && n != tree.Root() {
			return false
		}

		if n.Kind() == input.Kind || input.Kind == "" {
			out.Nodes = append(out.Nodes, ParsedNode{Kind: n.Kind(), Range: n.Range(), SExp: n.SExp()})
		}

		return true
	})

	return jsonResult(out)
}

func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, ToolOutput{}, nil
}

func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, ToolOutput{Data: value}, nil
}

func validateCodeInput(code, name string) (*language.Language, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}

	if name == "" {
		return nil, ErrEmptyLanguage
	}

	if len(code) > MaxCodeInputBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	lang, err := language.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedLanguage, err)
	}

	return lang, nil
}

func syntheticFilename(lang *language.Language) string {
	ext := "." + lang.Name()
	if exts := lang.Extensions(); len(exts) > 0 {
		ext = exts[0]
	}

	return "code" + ext
}
