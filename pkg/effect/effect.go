// Package effect turns a set of pending edits anchored to bindings into the
// final text of a source range. Nested edits are resolved recursively and
// memoized per code range; the results are spliced back into the original
// text with indentation kept consistent.
package effect

import (
	"github.com/Sumatoshi-tech/splice/pkg/binding"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// Kind distinguishes replacing a binding from adding text after it.
type Kind uint8

// Effect kinds.
const (
	Rewrite Kind = iota
	Insert
)

func (k Kind) String() string {
	switch k {
	case Rewrite:
		return "rewrite"
	case Insert:
		return "insert"
	}

	return "unknown"
}

// Effect is one pending edit: Rewrite replaces the binding's text with the
// pattern's text, Insert appends the pattern's text right after it.
type Effect struct {
	Binding binding.Binding
	Kind    Kind
	Pattern Pattern
}

// Language is the full set of language predicates linearization needs.
type Language interface {
	binding.Language
	SkipPaddingRanges(n *syntax.Node) []syntax.CodeRange
	ShouldPadSnippet() bool
}
