package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

const goParams = "package main\n\nfunc f(a, b int) {\n\tprintln(a)\n}\n"

func TestNode_Basics(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goParams)
	call := find(t, tree.Root(), "call_expression")
	b := FromNode(call)

	text, err := b.Text(lang)
	require.NoError(t, err)
	assert.Equal(t, "println(a)", text)
	assert.True(t, b.IsTruthy())

	single, ok := b.Singleton()
	require.True(t, ok)
	assert.Same(t, call, single)

	rng, ok := b.ByteRange(lang)
	require.True(t, ok)
	assert.Equal(t, "println(a)", rng.Slice(tree.Source))

	pos, ok := b.Position(lang)
	require.True(t, ok)
	assert.Equal(t, 4, pos.Start.Line)
	assert.Equal(t, 2, pos.Start.Column)

	cr, ok := b.CodeRange(lang)
	require.True(t, ok)
	assert.True(t, cr.AppliesTo(tree.Source))

	parent, ok := b.ParentNode()
	require.True(t, ok)
	assert.Same(t, call.Parent(), parent)

	got, ok := AsNode(b)
	require.True(t, ok)
	assert.Same(t, call, got)
	assert.False(t, IsList(b))
}

func TestList_Basics(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goParams)
	params := find(t, tree.Root(), "parameter_declaration")
	list := NewList(params, "name")

	text, err := list.Text(lang)
	require.NoError(t, err)
	assert.Equal(t, "a, b", text)
	assert.True(t, list.IsTruthy())

	_, ok := list.Singleton()
	assert.False(t, ok)

	items, ok := ListItems(list)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[1].Text())
	assert.True(t, IsList(list))

	sexp, ok := list.SExp()
	require.True(t, ok)
	assert.Equal(t, "(identifier),\n(identifier)", sexp)
}

func TestList_EmptyField(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goParams)
	fn := find(t, tree.Root(), "function_declaration")
	list := NewList(fn, "result")

	assert.False(t, list.IsTruthy())

	text, err := list.Text(lang)
	require.NoError(t, err)
	assert.Empty(t, text)

	_, ok := list.ByteRange(lang)
	assert.False(t, ok)

	_, ok = list.CodeRange(lang)
	assert.False(t, ok)
}

func TestList_SingleChildIsSingleton(t *testing.T) {
	t.Parallel()

	tree, _ := parse(t, "go", "package main\n\nfunc f(a int) {}\n")
	params := find(t, tree.Root(), "parameter_declaration")

	single, ok := NewList(params, "name").Singleton()
	require.True(t, ok)
	assert.Equal(t, "a", single.Text())
}

func TestListBounds_Comments(t *testing.T) {
	t.Parallel()

	src := "class A {\n  // lead\n  foo() {}\n  bar() {}\n  // trail\n}\n"
	tree, lang := parse(t, "javascript", src)
	body := find(t, tree.Root(), "class_body")

	leading, trailing, ok := ListBounds(body, "member", lang)
	require.True(t, ok)
	assert.Equal(t, "// lead", leading.Text())
	assert.Equal(t, "// trail", trailing.Text())

	text, err := NewList(body, "member").Text(lang)
	require.NoError(t, err)
	assert.Equal(t, "// lead\n  foo() {}\n  bar() {}\n  // trail", text)

	pos, ok := NewList(body, "member").Position(lang)
	require.True(t, ok)
	assert.Equal(t, syntax.NewPosition(2, 3), pos.Start)
	assert.Equal(t, syntax.NewPosition(5, 11), pos.End)

	_, _, ok = ListBounds(body, "missing", lang)
	assert.False(t, ok)
}

func TestEmpty_Basics(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goParams)
	fn := find(t, tree.Root(), "function_declaration")
	b := NewEmpty(fn, "result")

	text, err := b.Text(lang)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.False(t, b.IsTruthy())

	_, ok := b.ByteRange(lang)
	assert.False(t, ok)

	_, ok = b.Position(lang)
	assert.False(t, ok)

	src, ok := b.Source()
	require.True(t, ok)
	assert.Equal(t, tree.Source, src)

	parent, ok := b.ParentNode()
	require.True(t, ok)
	assert.Same(t, fn, parent)
}

func TestLogEmptyFieldRewriteError(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goParams)
	fn := find(t, tree.Root(), "function_declaration")

	var logs analysislog.Logs

	require.NoError(t, NewEmpty(fn, "result").LogEmptyFieldRewriteError(lang, &logs))
	require.NoError(t, FromNode(fn).LogEmptyFieldRewriteError(lang, &logs))
	require.NoError(t, FromPath("x.go").LogEmptyFieldRewriteError(lang, &logs))

	require.Equal(t, 1, logs.Len())

	entry := logs.Entries()[0]
	assert.Equal(t, analysislog.LevelEmptyFieldRewrite, entry.Level)
	assert.Contains(t, entry.Message, "empty field result")
	assert.Contains(t, entry.Message, "function_declaration")
	require.NotNil(t, entry.Position)
	assert.Equal(t, 3, entry.Position.Line)
}

func TestSlice_Basics(t *testing.T) {
	t.Parallel()

	src := "hello world"
	b := FromRange(src, syntax.NewByteRange(6, 11))

	text, err := b.Text(nil)
	require.NoError(t, err)
	assert.Equal(t, "world", text)
	assert.True(t, b.IsTruthy())

	pos, ok := b.Position(nil)
	require.True(t, ok)
	assert.Equal(t, syntax.NewPosition(1, 7), pos.Start)

	cr, ok := b.CodeRange(nil)
	require.True(t, ok)
	assert.True(t, cr.AppliesTo(src))
	assert.Equal(t, uint32(6), cr.Start)
}

func TestFileName_Basics(t *testing.T) {
	t.Parallel()

	b := FromPath("pkg/main.go")

	text, err := b.Text(nil)
	require.NoError(t, err)
	assert.Equal(t, "pkg/main.go", text)
	assert.True(t, b.IsTruthy())

	_, ok := b.ByteRange(nil)
	assert.False(t, ok)

	path, ok := AsFileName(b)
	require.True(t, ok)
	assert.Equal(t, "pkg/main.go", path)

	_, ok = AsFileName(FromConstant(Undefined()))
	assert.False(t, ok)
}

func TestConstant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		c      *Constant
		text   string
		truthy bool
	}{
		{"true", BoolConstant(true), "true", true},
		{"false", BoolConstant(false), "false", false},
		{"int", IntConstant(42), "42", true},
		{"zero", IntConstant(0), "0", false},
		{"float", FloatConstant(1.5), "1.5", true},
		{"zero float", FloatConstant(0), "0", false},
		{"string", StringConstant("x"), "x", true},
		{"empty string", StringConstant(""), "", false},
		{"undefined", Undefined(), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := FromConstant(tt.c)

			text, err := b.Text(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.truthy, b.IsTruthy())

			_, ok := b.CodeRange(nil)
			assert.False(t, ok)

			got, ok := AsConstant(b)
			require.True(t, ok)
			assert.Same(t, tt.c, got)
		})
	}
}

func TestConstant_Nil(t *testing.T) {
	t.Parallel()

	var c *Constant

	assert.Empty(t, c.String())
	assert.False(t, c.IsTruthy())

	b := FromConstant(nil)

	text, err := b.Text(nil)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.False(t, b.IsTruthy())
	assert.True(t, b.IsEquivalentTo(FromConstant(Undefined()), nil))

	got, ok := AsConstant(b)
	require.True(t, ok)
	assert.Equal(t, KindUndefined, got.Kind)
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tree, _ := parse(t, "go", goParams)
	call := find(t, tree.Root(), "call_expression")
	params := find(t, tree.Root(), "parameter_declaration")
	fn := find(t, tree.Root(), "function_declaration")

	node := FromNode(call)
	slice := FromRange("x println(a)", syntax.NewByteRange(2, 12))

	assert.True(t, Equal(node, slice))
	assert.True(t, Equal(slice, node))
	assert.True(t, Equal(node, FromNode(call)))
	assert.True(t, Equal(NewEmpty(fn, "result"), NewEmpty(params, "type")))
	assert.True(t, Equal(NewList(params, "name"), NewList(params, "name")))
	assert.False(t, Equal(NewList(params, "name"), NewList(fn, "name")))
	assert.True(t, Equal(FromConstant(IntConstant(1)), FromConstant(IntConstant(1))))
	assert.False(t, Equal(FromConstant(IntConstant(1)), FromConstant(StringConstant("1"))))
	assert.False(t, Equal(node, FromPath("println(a)")))
	assert.False(t, Equal(FromConstant(StringConstant("println(a)")), node))
}
