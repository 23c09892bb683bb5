package binding

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// List binds every child of parent attached under field. Lists have no
// node identity of their own; their extent is derived from the children.
type List struct {
	parent *syntax.Node
	field  string
}

// NewList creates a List binding.
func NewList(parent *syntax.Node, field string) List {
	return List{parent: parent, field: field}
}

func (List) sealed() {}

// Parent returns the node owning the list.
func (b List) Parent() *syntax.Node { return b.parent }

// Field returns the field name of the list.
func (b List) Field() string { return b.field }

// Items returns the named children of the list.
func (b List) Items() []*syntax.Node {
	return b.parent.NamedChildrenByField(b.field)
}

// ListBounds returns the nodes delimiting the list under field: the first
// and last child, each widened across directly adjacent comment siblings.
// It reports false when the field has no children.
func ListBounds(parent *syntax.Node, field string, lang Language) (leading, trailing *syntax.Node, ok bool) {
	children := parent.ChildrenByField(field)
	if len(children) == 0 {
		return nil, nil, false
	}

	leading = children[0]
	for prev := leading.PrevSibling(); prev != nil && lang.IsComment(prev); prev = prev.PrevSibling() {
		leading = prev
	}

	trailing = children[len(children)-1]
	for next := trailing.NextSibling(); next != nil && lang.IsComment(next); next = next.NextSibling() {
		trailing = next
	}

	return leading, trailing, true
}

// Text implements Binding.
func (b List) Text(lang Language) (string, error) {
	rng, ok := b.ByteRange(lang)
	if !ok {
		return "", nil
	}

	return rng.Slice(b.parent.Source()), nil
}

// Singleton implements Binding.
func (b List) Singleton() (*syntax.Node, bool) {
	items := b.Items()
	if len(items) != 1 {
		return nil, false
	}

	return items[0], true
}

// IsEquivalentTo implements Binding.
func (b List) IsEquivalentTo(other Binding, lang Language) bool {
	return equivalent(b, other, lang)
}

// IsSuppressed implements Binding.
func (b List) IsSuppressed(lang Language, currentName string) bool {
	return isSuppressed(b.parent, lang, currentName)
}

// IsTruthy implements Binding.
func (b List) IsTruthy() bool { return len(b.Items()) > 0 }

// InsertionPadding implements Binding.
func (b List) InsertionPadding(text string, isFirst bool, lang Language) (string, bool) {
	return listPadding(b.parent.ChildrenByField(b.field), text, isFirst, lang)
}

// LogEmptyFieldRewriteError implements Binding.
func (b List) LogEmptyFieldRewriteError(lang Language, logs *analysislog.Logs) error {
	return logEmptyField(b.parent, b.field, lang, logs)
}

// ByteRange implements Binding.
func (b List) ByteRange(lang Language) (syntax.ByteRange, bool) {
	leading, trailing, ok := ListBounds(b.parent, b.field, lang)
	if !ok {
		return syntax.ByteRange{}, false
	}

	return syntax.NewByteRange(leading.StartByte(), trailing.EndByte()), true
}

// Position implements Binding.
func (b List) Position(lang Language) (syntax.Range, bool) {
	leading, trailing, ok := ListBounds(b.parent, b.field, lang)
	if !ok {
		return syntax.Range{}, false
	}

	return syntax.Range{
		Start:     syntax.PositionFromPoint(leading.StartPoint()),
		End:       syntax.PositionFromPoint(trailing.EndPoint()),
		StartByte: leading.StartByte(),
		EndByte:   trailing.EndByte(),
	}, true
}

// CodeRange implements Binding.
func (b List) CodeRange(lang Language) (syntax.CodeRange, bool) {
	rng, ok := b.ByteRange(lang)
	if !ok {
		return syntax.CodeRange{}, false
	}

	return syntax.CodeRangeFromByteRange(rng, b.parent.Source()), true
}

// SExp implements Binding.
func (b List) SExp() (string, bool) {
	children := b.parent.ChildrenByField(b.field)
	parts := make([]string, 0, len(children))

	for _, c := range children {
		parts = append(parts, c.SExp())
	}

	return strings.Join(parts, ",\n"), true
}

// Source implements Binding.
func (b List) Source() (string, bool) { return b.parent.Source(), true }

// ParentNode implements Binding.
func (b List) ParentNode() (*syntax.Node, bool) { return b.parent, true }

func logEmptyField(parent *syntax.Node, field string, lang Language, logs *analysislog.Logs) error {
	if logs == nil {
		return nil
	}

	rng := parent.Range()

	entry, err := analysislog.NewBuilder(analysislog.LevelEmptyFieldRewrite).
		Source(parent.Source()).
		File(parent.Tree().Path).
		Position(rng.Start).
		Range(rng).
		Message(fmt.Sprintf("failed to rewrite binding, cannot derive range of empty field %s of %s node %s",
			field, lang.Name(), parent.Kind())).
		Build()
	if err != nil {
		return fmt.Errorf("build empty field log: %w", err)
	}

	logs.Push(entry)

	return nil
}
