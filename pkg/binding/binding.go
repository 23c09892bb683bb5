// Package binding models the value a pattern variable is bound to after a
// match: a single syntax node, a field list, an absent field, a slice of
// source text, a file name or a synthesized constant.
//
// Every variant satisfies the same Binding contract so the matcher and the
// effect linearizer never switch on the concrete type unless they need a
// variant-specific fact.
package binding

import (
	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// Language is the subset of language predicates bindings rely on.
type Language interface {
	Name() string
	IsComment(n *syntax.Node) bool
	IsStatement(n *syntax.Node) bool
}

// Binding is the closed set of values a pattern variable can hold.
// Implementations are immutable views into a caller-owned syntax tree.
type Binding interface {
	// Text returns the source text the binding stands for.
	Text(lang Language) (string, error)
	// Singleton returns the one node bound, if there is exactly one.
	Singleton() (*syntax.Node, bool)
	IsEquivalentTo(other Binding, lang Language) bool
	// IsSuppressed reports whether a suppression comment covers the
	// binding. An empty currentName only matches unscoped comments.
	IsSuppressed(lang Language, currentName string) bool
	IsTruthy() bool
	// InsertionPadding returns the separator to put between existing
	// content and text inserted at the binding.
	InsertionPadding(text string, isFirst bool, lang Language) (string, bool)
	LogEmptyFieldRewriteError(lang Language, logs *analysislog.Logs) error

	ByteRange(lang Language) (syntax.ByteRange, bool)
	Position(lang Language) (syntax.Range, bool)
	CodeRange(lang Language) (syntax.CodeRange, bool)

	SExp() (string, bool)
	Source() (string, bool)
	ParentNode() (*syntax.Node, bool)

	sealed()
}

var (
	_ Binding = Node{}
	_ Binding = List{}
	_ Binding = Empty{}
	_ Binding = Slice{}
	_ Binding = FileName{}
	_ Binding = ConstantRef{}
)

// AsNode returns the node of a Node binding.
func AsNode(b Binding) (*syntax.Node, bool) {
	n, ok := b.(Node)
	if !ok {
		return nil, false
	}

	return n.node, true
}

// AsConstant returns the constant of a ConstantRef binding.
func AsConstant(b Binding) (*Constant, bool) {
	c, ok := b.(ConstantRef)
	if !ok {
		return nil, false
	}

	return c.constant, true
}

// AsFileName returns the path of a FileName binding.
func AsFileName(b Binding) (string, bool) {
	f, ok := b.(FileName)
	if !ok {
		return "", false
	}

	return f.path, true
}

// IsList reports whether b is a List binding.
func IsList(b Binding) bool {
	_, ok := b.(List)

	return ok
}

// ListItems returns the named children of a List binding.
func ListItems(b Binding) ([]*syntax.Node, bool) {
	l, ok := b.(List)
	if !ok {
		return nil, false
	}

	return l.Items(), true
}

// Equal is structural identity, stricter than IsEquivalentTo. Different
// variants are never equal, except a Node and a Slice with the same text.
func Equal(a, b Binding) bool {
	switch x := a.(type) {
	case Empty:
		_, ok := b.(Empty)

		return ok
	case Node:
		switch y := b.(type) {
		case Node:
			return x.node.Text() == y.node.Text()
		case Slice:
			return x.node.Text() == y.text()
		}
	case Slice:
		switch y := b.(type) {
		case Slice:
			return x.text() == y.text()
		case Node:
			return x.text() == y.node.Text()
		}
	case List:
		y, ok := b.(List)

		return ok && x.parent == y.parent && x.field == y.field
	case ConstantRef:
		y, ok := b.(ConstantRef)

		return ok && x.constant.Equal(y.constant)
	case FileName:
		y, ok := b.(FileName)

		return ok && x.path == y.path
	}

	return false
}
