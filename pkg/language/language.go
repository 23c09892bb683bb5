// Package language holds the per-language predicates the rewrite engine
// needs on top of a tree-sitter grammar: which nodes are comments, which are
// statements, which literals must never be re-indented, and whether snippet
// text is indentation sensitive.
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// ErrUnknownLanguage is returned when no language matches a name or path.
var ErrUnknownLanguage = errors.New("unknown language")

// Language describes one supported target language.
type Language struct {
	name        string
	grammar     string
	extensions  []string
	comments    map[string]struct{}
	statements  map[string]struct{}
	stmtSuffix  []string
	skipPadding map[string]struct{}
	padSnippets bool
}

// Name returns the canonical language name.
func (l *Language) Name() string { return l.name }

// Grammar returns the tree-sitter grammar name.
func (l *Language) Grammar() string { return l.grammar }

// Extensions returns the file extensions mapped to the language.
func (l *Language) Extensions() []string { return l.extensions }

// IsComment reports whether n is a comment node.
func (l *Language) IsComment(n *syntax.Node) bool {
	if n == nil {
		return false
	}

	_, ok := l.comments[n.Kind()]

	return ok
}

// IsStatement reports whether n is a statement-like node, i.e. one that
// normally occupies its own line.
func (l *Language) IsStatement(n *syntax.Node) bool {
	if n == nil || !n.IsNamed() {
		return false
	}

	kind := n.Kind()
	if _, ok := l.statements[kind]; ok {
		return true
	}

	for _, suffix := range l.stmtSuffix {
		if strings.HasSuffix(kind, suffix) {
			return true
		}
	}

	return false
}

// SkipPaddingRanges returns the ranges inside n whose lines must keep their
// indentation verbatim: multi-line raw strings, template literals, text
// blocks and block scalars.
func (l *Language) SkipPaddingRanges(n *syntax.Node) []syntax.CodeRange {
	if n == nil || len(l.skipPadding) == 0 {
		return nil
	}

	var out []syntax.CodeRange

	n.Walk(func(cur *syntax.Node) bool {
		if _, ok := l.skipPadding[cur.Kind()]; !ok {
			return true
		}

		if cur.StartPoint().Row != cur.EndPoint().Row {
			out = append(out, cur.CodeRange())
		}

		return false
	})

	return out
}

// ShouldPadSnippet reports whether inserted snippets must be re-indented to
// the column they are spliced at.
func (l *Language) ShouldPadSnippet() bool { return l.padSnippets }

func (l *Language) String() string { return l.name }

type definition struct {
	name        string
	extensions  []string
	aliases     []string
	comments    []string
	statements  []string
	stmtSuffix  []string
	skipPadding []string
	padSnippets bool
}

var definitions = []definition{
	{
		name:        "go",
		extensions:  []string{".go"},
		aliases:     []string{"golang"},
		comments:    []string{"comment"},
		statements:  []string{"block", "import_spec", "var_spec", "const_spec", "type_spec", "expression_case", "default_case", "type_case", "communication_case"},
		stmtSuffix:  []string{"_statement", "_declaration"},
		skipPadding: []string{"raw_string_literal"},
	},
	{
		name:        "javascript",
		extensions:  []string{".js", ".jsx", ".mjs", ".cjs"},
		aliases:     []string{"js", "node"},
		comments:    []string{"comment", "html_comment"},
		statements:  []string{"method_definition", "field_definition", "switch_case", "switch_default"},
		stmtSuffix:  []string{"_statement", "_declaration"},
		skipPadding: []string{"template_string"},
	},
	{
		name:        "typescript",
		extensions:  []string{".ts", ".mts", ".cts"},
		aliases:     []string{"ts"},
		comments:    []string{"comment", "html_comment"},
		statements:  []string{"method_definition", "public_field_definition", "method_signature", "property_signature", "switch_case", "switch_default"},
		stmtSuffix:  []string{"_statement", "_declaration"},
		skipPadding: []string{"template_string"},
	},
	{
		name:        "tsx",
		extensions:  []string{".tsx"},
		comments:    []string{"comment", "html_comment"},
		statements:  []string{"method_definition", "public_field_definition", "method_signature", "property_signature", "switch_case", "switch_default"},
		stmtSuffix:  []string{"_statement", "_declaration"},
		skipPadding: []string{"template_string"},
	},
	{
		name:        "python",
		extensions:  []string{".py", ".pyi"},
		aliases:     []string{"py"},
		comments:    []string{"comment"},
		statements:  []string{"decorated_definition", "elif_clause", "else_clause", "except_clause", "finally_clause", "case_clause"},
		stmtSuffix:  []string{"_statement", "_definition"},
		skipPadding: []string{"string"},
		padSnippets: true,
	},
	{
		name:        "rust",
		extensions:  []string{".rs"},
		aliases:     []string{"rs"},
		comments:    []string{"line_comment", "block_comment"},
		statements:  []string{"let_declaration", "attribute_item", "match_arm"},
		stmtSuffix:  []string{"_statement", "_item"},
		skipPadding: []string{"raw_string_literal"},
	},
	{
		name:        "java",
		extensions:  []string{".java"},
		comments:    []string{"line_comment", "block_comment"},
		statements:  []string{"switch_block_statement_group", "switch_rule"},
		stmtSuffix:  []string{"_statement", "_declaration"},
		skipPadding: []string{"text_block"},
	},
	{
		name:        "yaml",
		extensions:  []string{".yaml", ".yml"},
		aliases:     []string{"yml"},
		comments:    []string{"comment"},
		statements:  []string{"block_mapping_pair", "block_sequence_item", "document"},
		skipPadding: []string{"block_scalar"},
		padSnippets: true,
	},
}

var (
	byName      = map[string]*Language{}
	byExtension = map[string]*Language{}
)

func init() {
	for _, def := range definitions {
		lang := &Language{
			name:        def.name,
			grammar:     def.name,
			extensions:  def.extensions,
			comments:    toSet(def.comments),
			statements:  toSet(def.statements),
			stmtSuffix:  def.stmtSuffix,
			skipPadding: toSet(def.skipPadding),
			padSnippets: def.padSnippets,
		}

		byName[def.name] = lang

		for _, alias := range def.aliases {
			byName[alias] = lang
		}

		for _, ext := range def.extensions {
			byExtension[ext] = lang
		}
	}
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))

	for _, item := range items {
		out[item] = struct{}{}
	}

	return out
}

// Lookup returns the language registered under name or one of its aliases.
// Names are case-insensitive.
func Lookup(name string) (*Language, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	lang, ok := byName[key]
	if !ok {
		if hint := Suggest(key); hint != "" {
			return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownLanguage, name, hint)
		}

		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}

	return lang, nil
}

// Suggest returns the registered name or alias closest to a misspelled
// language name, or "" when nothing is close.
func Suggest(name string) string {
	if name == "" {
		return ""
	}

	keys := make([]string, 0, len(byName))
	for key := range byName {
		keys = append(keys, key)
	}

	ranks := fuzzy.RankFindNormalizedFold(name, keys)
	if len(ranks) == 0 {
		return ""
	}

	sort.Sort(ranks)

	return ranks[0].Target
}

// ForPath picks the language for a file: by extension first, then by
// linguist detection over the file name and content.
func ForPath(path string, content []byte) (*Language, error) {
	if lang, ok := byExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return lang, nil
	}

	detected := enry.GetLanguage(filepath.Base(path), content)
	if detected == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, path)
	}

	return Lookup(detected)
}

// Names returns the canonical names of all supported languages, sorted.
func Names() []string {
	names := make([]string, 0, len(definitions))

	for _, def := range definitions {
		names = append(names, def.name)
	}

	sort.Strings(names)

	return names
}
