package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

const goEquiv = "package main\n\nfunc f(a, b int) {\n\tg(a+b, a + b, a+c)\n}\n\nfunc h(a, b int) {}\n\nvar v = func() {}\n"

func TestNodesEquivalent(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goEquiv)
	args := findAll(tree.Root(), "binary_expression")
	require.Len(t, args, 3)

	assert.True(t, NodesEquivalent(args[0], args[1], lang))
	assert.True(t, NodesEquivalent(args[1], args[0], lang))
	assert.False(t, NodesEquivalent(args[0], args[2], lang))
	assert.True(t, NodesEquivalent(args[2], args[2], lang))
}

func TestNodesEquivalent_ComparesOperators(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", "package main\n\nvar a = x + y\nvar b = x - y\nvar c = x == y\nvar d = x != y\nvar e = x  +  y\n")
	plus := findText(t, tree.Root(), "binary_expression", "x + y")
	minus := findText(t, tree.Root(), "binary_expression", "x - y")
	eq := findText(t, tree.Root(), "binary_expression", "x == y")
	neq := findText(t, tree.Root(), "binary_expression", "x != y")
	spaced := findText(t, tree.Root(), "binary_expression", "x  +  y")

	assert.False(t, NodesEquivalent(plus, minus, lang))
	assert.False(t, NodesEquivalent(minus, plus, lang))
	assert.False(t, NodesEquivalent(eq, neq, lang))
	assert.True(t, NodesEquivalent(plus, spaced, lang))

	assert.False(t, FromNode(plus).IsEquivalentTo(FromNode(minus), lang))
}

func TestNodesEquivalent_IgnoresComments(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", "package main\n\nvar x = g(a /* note */, b)\nvar y = g(a, b)\n")
	calls := findAll(tree.Root(), "call_expression")
	require.Len(t, calls, 2)

	assert.True(t, NodesEquivalent(calls[0], calls[1], lang))
}

func TestIsEquivalentTo_Lists(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goEquiv)
	params := findAll(tree.Root(), "parameter_declaration")
	require.Len(t, params, 2)

	first := NewList(params[0], "name")
	second := NewList(params[1], "name")

	assert.True(t, first.IsEquivalentTo(second, lang))
	assert.False(t, first.IsEquivalentTo(NewList(params[1], "type"), lang))
}

// Two absent fields only unify under parents of the same kind, even though
// both render as nothing.
func TestIsEquivalentTo_EmptyRequiresSameParentKind(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goEquiv)
	fns := findAll(tree.Root(), "function_declaration")
	require.Len(t, fns, 2)

	lit := find(t, tree.Root(), "func_literal")

	assert.True(t, NewEmpty(fns[0], "result").IsEquivalentTo(NewEmpty(fns[1], "result"), lang))
	assert.False(t, NewEmpty(fns[0], "result").IsEquivalentTo(NewEmpty(lit, "result"), lang))
	assert.False(t, NewEmpty(fns[0], "result").IsEquivalentTo(NewEmpty(fns[1], "parameters"), lang))
}

func TestIsEquivalentTo_NodeAndSlice(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goEquiv)
	arg := findText(t, tree.Root(), "binary_expression", "a+b")
	slice := FromRange("(a+b)", syntax.NewByteRange(1, 4))

	assert.True(t, FromNode(arg).IsEquivalentTo(slice, lang))
	assert.True(t, slice.IsEquivalentTo(FromNode(arg), lang))
}

func TestIsEquivalentTo_Symmetric(t *testing.T) {
	t.Parallel()

	tree, lang := parse(t, "go", goEquiv)
	fns := findAll(tree.Root(), "function_declaration")
	params := findAll(tree.Root(), "parameter_declaration")
	arg := findText(t, tree.Root(), "binary_expression", "a+b")
	ident := findText(t, tree.Root(), "identifier", "a")

	bindings := map[string]Binding{
		"node":          FromNode(arg),
		"node-ident":    FromNode(ident),
		"list":          NewList(params[0], "name"),
		"list-other":    NewList(params[1], "name"),
		"list-empty":    NewList(fns[0], "result"),
		"empty":         NewEmpty(fns[0], "result"),
		"empty-other":   NewEmpty(fns[1], "result"),
		"slice":         FromRange("a+b", syntax.NewByteRange(0, 3)),
		"slice-blank":   FromRange("", syntax.NewByteRange(0, 0)),
		"slice-path":    FromRange("main.go", syntax.NewByteRange(0, 7)),
		"slice-const":   FromRange("a", syntax.NewByteRange(0, 1)),
		"filename":      FromPath("main.go"),
		"filename-2":    FromPath("main.go"),
		"constant":      FromConstant(StringConstant("a")),
		"constant-2":    FromConstant(StringConstant("a")),
		"constant-int":  FromConstant(IntConstant(1)),
		"constant-zero": FromConstant(Undefined()),
	}

	for nameA, a := range bindings {
		for nameB, b := range bindings {
			assert.Equal(t, a.IsEquivalentTo(b, lang), b.IsEquivalentTo(a, lang), "%s vs %s", nameA, nameB)
		}
	}

	assert.True(t, bindings["filename"].IsEquivalentTo(bindings["slice-path"], lang))
	assert.True(t, bindings["constant"].IsEquivalentTo(bindings["slice-const"], lang))
	assert.True(t, bindings["constant"].IsEquivalentTo(bindings["constant-2"], lang))
	assert.False(t, bindings["constant"].IsEquivalentTo(bindings["constant-int"], lang))
	assert.True(t, bindings["filename"].IsEquivalentTo(bindings["filename-2"], lang))
	assert.True(t, bindings["empty"].IsEquivalentTo(bindings["slice-blank"], lang))
	assert.False(t, bindings["list"].IsEquivalentTo(bindings["empty"], lang))
	assert.False(t, bindings["node"].IsEquivalentTo(bindings["filename"], lang))
}
