package binding

import (
	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// Empty binds a field the pattern matched but the source leaves out, such
// as the missing result type of a Go function. It carries no text.
type Empty struct {
	parent *syntax.Node
	field  string
}

// NewEmpty creates an Empty binding.
func NewEmpty(parent *syntax.Node, field string) Empty {
	return Empty{parent: parent, field: field}
}

func (Empty) sealed() {}

// Parent returns the node missing the field.
func (b Empty) Parent() *syntax.Node { return b.parent }

// Field returns the missing field name.
func (b Empty) Field() string { return b.field }

// Text implements Binding.
func (Empty) Text(Language) (string, error) { return "", nil }

// Singleton implements Binding.
func (Empty) Singleton() (*syntax.Node, bool) { return nil, false }

// IsEquivalentTo implements Binding.
func (b Empty) IsEquivalentTo(other Binding, lang Language) bool {
	return equivalent(b, other, lang)
}

// IsSuppressed implements Binding.
func (b Empty) IsSuppressed(lang Language, currentName string) bool {
	return isSuppressed(b.parent, lang, currentName)
}

// IsTruthy implements Binding.
func (Empty) IsTruthy() bool { return false }

// InsertionPadding implements Binding.
func (Empty) InsertionPadding(string, bool, Language) (string, bool) { return "", false }

// LogEmptyFieldRewriteError implements Binding.
func (b Empty) LogEmptyFieldRewriteError(lang Language, logs *analysislog.Logs) error {
	return logEmptyField(b.parent, b.field, lang, logs)
}

// ByteRange implements Binding.
func (Empty) ByteRange(Language) (syntax.ByteRange, bool) { return syntax.ByteRange{}, false }

// Position implements Binding.
func (Empty) Position(Language) (syntax.Range, bool) { return syntax.Range{}, false }

// CodeRange implements Binding.
func (Empty) CodeRange(Language) (syntax.CodeRange, bool) { return syntax.CodeRange{}, false }

// SExp implements Binding.
func (Empty) SExp() (string, bool) { return "", false }

// Source implements Binding.
func (b Empty) Source() (string, bool) { return b.parent.Source(), true }

// ParentNode implements Binding.
func (b Empty) ParentNode() (*syntax.Node, bool) { return b.parent, true }
