package binding

import (
	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// Slice binds a byte range of source text that does not line up with any
// node, such as the body of a comment.
type Slice struct {
	source string
	rng    syntax.ByteRange
}

// FromRange creates a Slice binding over source. The source string must be
// the buffer the tree was parsed from for memo keys to line up.
func FromRange(source string, rng syntax.ByteRange) Slice {
	return Slice{source: source, rng: rng}
}

func (Slice) sealed() {}

func (b Slice) text() string {
	return b.rng.Slice(b.source)
}

// Text implements Binding.
func (b Slice) Text(Language) (string, error) { return b.text(), nil }

// Singleton implements Binding.
func (Slice) Singleton() (*syntax.Node, bool) { return nil, false }

// IsEquivalentTo implements Binding.
func (b Slice) IsEquivalentTo(other Binding, lang Language) bool {
	return equivalent(b, other, lang)
}

// IsSuppressed implements Binding.
func (Slice) IsSuppressed(Language, string) bool { return false }

// IsTruthy implements Binding.
func (Slice) IsTruthy() bool { return true }

// InsertionPadding implements Binding.
func (Slice) InsertionPadding(string, bool, Language) (string, bool) { return "", false }

// LogEmptyFieldRewriteError implements Binding.
func (Slice) LogEmptyFieldRewriteError(Language, *analysislog.Logs) error { return nil }

// ByteRange implements Binding.
func (b Slice) ByteRange(Language) (syntax.ByteRange, bool) { return b.rng, true }

// Position implements Binding.
func (b Slice) Position(Language) (syntax.Range, bool) {
	return syntax.RangeFromByteRange(b.source, b.rng), true
}

// CodeRange implements Binding.
func (b Slice) CodeRange(Language) (syntax.CodeRange, bool) {
	return syntax.CodeRangeFromByteRange(b.rng, b.source), true
}

// SExp implements Binding.
func (Slice) SExp() (string, bool) { return "", false }

// Source implements Binding.
func (b Slice) Source() (string, bool) { return b.source, true }

// ParentNode implements Binding.
func (Slice) ParentNode() (*syntax.Node, bool) { return nil, false }
