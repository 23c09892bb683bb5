package binding

import (
	"strings"

	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// Node binds a single syntax node.
type Node struct {
	node *syntax.Node
}

// FromNode creates a Node binding.
func FromNode(n *syntax.Node) Node {
	return Node{node: n}
}

func (Node) sealed() {}

// Node returns the bound node.
func (b Node) Node() *syntax.Node { return b.node }

// Text implements Binding.
func (b Node) Text(Language) (string, error) { return b.node.Text(), nil }

// Singleton implements Binding.
func (b Node) Singleton() (*syntax.Node, bool) { return b.node, true }

// IsEquivalentTo implements Binding.
func (b Node) IsEquivalentTo(other Binding, lang Language) bool {
	return equivalent(b, other, lang)
}

// IsSuppressed implements Binding.
func (b Node) IsSuppressed(lang Language, currentName string) bool {
	return isSuppressed(b.node, lang, currentName)
}

// IsTruthy implements Binding.
func (Node) IsTruthy() bool { return true }

// InsertionPadding implements Binding. Text inserted after a statement
// goes on its own line.
func (b Node) InsertionPadding(text string, _ bool, lang Language) (string, bool) {
	if text == "" {
		return "", false
	}

	if lang.IsStatement(b.node) && !strings.HasSuffix(b.node.Text(), "\n") && !strings.HasPrefix(text, "\n") {
		return "\n", true
	}

	return "", false
}

// LogEmptyFieldRewriteError implements Binding.
func (Node) LogEmptyFieldRewriteError(Language, *analysislog.Logs) error { return nil }

// ByteRange implements Binding.
func (b Node) ByteRange(Language) (syntax.ByteRange, bool) { return b.node.ByteRange(), true }

// Position implements Binding.
func (b Node) Position(Language) (syntax.Range, bool) { return b.node.Range(), true }

// CodeRange implements Binding.
func (b Node) CodeRange(Language) (syntax.CodeRange, bool) { return b.node.CodeRange(), true }

// SExp implements Binding.
func (b Node) SExp() (string, bool) { return b.node.SExp(), true }

// Source implements Binding.
func (b Node) Source() (string, bool) { return b.node.Source(), true }

// ParentNode implements Binding.
func (b Node) ParentNode() (*syntax.Node, bool) {
	p := b.node.Parent()

	return p, p != nil
}
