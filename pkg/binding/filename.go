package binding

import (
	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// FileName binds the path of the file being processed.
type FileName struct {
	path string
}

// FromPath creates a FileName binding.
func FromPath(path string) FileName {
	return FileName{path: path}
}

func (FileName) sealed() {}

// Path returns the bound path.
func (b FileName) Path() string { return b.path }

// Text implements Binding.
func (b FileName) Text(Language) (string, error) { return b.path, nil }

// Singleton implements Binding.
func (FileName) Singleton() (*syntax.Node, bool) { return nil, false }

// IsEquivalentTo implements Binding.
func (b FileName) IsEquivalentTo(other Binding, lang Language) bool {
	return equivalent(b, other, lang)
}

// IsSuppressed implements Binding.
func (FileName) IsSuppressed(Language, string) bool { return false }

// IsTruthy implements Binding.
func (FileName) IsTruthy() bool { return true }

// InsertionPadding implements Binding.
func (FileName) InsertionPadding(string, bool, Language) (string, bool) { return "", false }

// LogEmptyFieldRewriteError implements Binding.
func (FileName) LogEmptyFieldRewriteError(Language, *analysislog.Logs) error { return nil }

// ByteRange implements Binding.
func (FileName) ByteRange(Language) (syntax.ByteRange, bool) { return syntax.ByteRange{}, false }

// Position implements Binding.
func (FileName) Position(Language) (syntax.Range, bool) { return syntax.Range{}, false }

// CodeRange implements Binding.
func (FileName) CodeRange(Language) (syntax.CodeRange, bool) { return syntax.CodeRange{}, false }

// SExp implements Binding.
func (FileName) SExp() (string, bool) { return "", false }

// Source implements Binding.
func (FileName) Source() (string, bool) { return "", false }

// ParentNode implements Binding.
func (FileName) ParentNode() (*syntax.Node, bool) { return nil, false }
