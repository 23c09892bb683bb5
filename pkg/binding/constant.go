package binding

import (
	"strconv"

	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// ConstantKind enumerates the constant value types.
type ConstantKind uint8

// Constant kinds.
const (
	KindUndefined ConstantKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// Constant is a value synthesized by the pattern layer rather than matched
// from source.
type Constant struct {
	Kind  ConstantKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// Undefined returns the undefined constant.
func Undefined() *Constant { return &Constant{Kind: KindUndefined} }

// BoolConstant wraps a bool.
func BoolConstant(v bool) *Constant { return &Constant{Kind: KindBool, Bool: v} }

// IntConstant wraps an integer.
func IntConstant(v int64) *Constant { return &Constant{Kind: KindInt, Int: v} }

// FloatConstant wraps a float.
func FloatConstant(v float64) *Constant { return &Constant{Kind: KindFloat, Float: v} }

// StringConstant wraps a string.
func StringConstant(v string) *Constant { return &Constant{Kind: KindString, Str: v} }

// String renders the constant as it is spliced into source. Undefined
// renders as the empty string, as does a nil constant.
func (c *Constant) String() string {
	if c == nil {
		return ""
	}

	switch c.Kind {
	case KindBool:
		return strconv.FormatBool(c.Bool)
	case KindInt:
		return strconv.FormatInt(c.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case KindString:
		return c.Str
	case KindUndefined:
	}

	return ""
}

// IsTruthy applies the usual truthiness: false, zero, "" and undefined are
// falsy. A nil constant is undefined.
func (c *Constant) IsTruthy() bool {
	if c == nil {
		return false
	}

	switch c.Kind {
	case KindBool:
		return c.Bool
	case KindInt:
		return c.Int != 0
	case KindFloat:
		return c.Float != 0
	case KindString:
		return c.Str != ""
	case KindUndefined:
	}

	return false
}

// Equal reports whether two constants have the same kind and value.
func (c *Constant) Equal(other *Constant) bool {
	if c == nil || other == nil {
		return c == other
	}

	return *c == *other
}

// ConstantRef binds a constant.
type ConstantRef struct {
	constant *Constant
}

// FromConstant creates a ConstantRef binding. A nil constant binds the
// undefined constant.
func FromConstant(c *Constant) ConstantRef {
	if c == nil {
		c = Undefined()
	}

	return ConstantRef{constant: c}
}

func (ConstantRef) sealed() {}

// Constant returns the bound constant.
func (b ConstantRef) Constant() *Constant { return b.constant }

// Text implements Binding.
func (b ConstantRef) Text(Language) (string, error) { return b.constant.String(), nil }

// Singleton implements Binding.
func (ConstantRef) Singleton() (*syntax.Node, bool) { return nil, false }

// IsEquivalentTo implements Binding.
func (b ConstantRef) IsEquivalentTo(other Binding, lang Language) bool {
	return equivalent(b, other, lang)
}

// IsSuppressed implements Binding.
func (ConstantRef) IsSuppressed(Language, string) bool { return false }

// IsTruthy implements Binding.
func (b ConstantRef) IsTruthy() bool { return b.constant.IsTruthy() }

// InsertionPadding implements Binding.
func (ConstantRef) InsertionPadding(string, bool, Language) (string, bool) { return "", false }

// LogEmptyFieldRewriteError implements Binding.
func (ConstantRef) LogEmptyFieldRewriteError(Language, *analysislog.Logs) error { return nil }

// ByteRange implements Binding.
func (ConstantRef) ByteRange(Language) (syntax.ByteRange, bool) { return syntax.ByteRange{}, false }

// Position implements Binding.
func (ConstantRef) Position(Language) (syntax.Range, bool) { return syntax.Range{}, false }

// CodeRange implements Binding.
func (ConstantRef) CodeRange(Language) (syntax.CodeRange, bool) { return syntax.CodeRange{}, false }

// SExp implements Binding.
func (ConstantRef) SExp() (string, bool) { return "", false }

// Source implements Binding.
func (ConstantRef) Source() (string, bool) { return "", false }

// ParentNode implements Binding.
func (ConstantRef) ParentNode() (*syntax.Node, bool) { return nil, false }
