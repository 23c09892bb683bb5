package rewrite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/splice/pkg/binding"
	"github.com/Sumatoshi-tech/splice/pkg/effect"
	"github.com/Sumatoshi-tech/splice/pkg/language"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		refs []Reference
	}{
		{"plain text", nil},
		{"$call", []Reference{{Capture: "call"}}},
		{"log.Print$args", []Reference{{Capture: "args"}}},
		{"$fn.parameters!", []Reference{{Capture: "fn", Field: "parameters"}}},
		{"$a + $b_2", []Reference{{Capture: "a"}, {Capture: "b_2"}}},
		{"$$literal", nil},
		{`"$filename.go"`, []Reference{{Capture: "filename"}}},
		{"$x.", []Reference{{Capture: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			tmpl, err := ParseTemplate(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.src, tmpl.String())
			assert.Equal(t, tt.refs, tmpl.References())
		})
	}
}

func TestParseTemplate_Errors(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"$", "cost $5", "a $ b"} {
		_, err := ParseTemplate(src)
		require.ErrorIs(t, err, ErrTemplateSyntax, src)
	}
}

func TestTemplate_Pattern(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseTemplate(`$$$name in $filename: $missing.`)
	require.NoError(t, err)

	tree, _ := parseSource(t, "go", "package main\n\nvar v = 1\n")
	ident, ok := tree.Root().FindKind("identifier")
	require.True(t, ok)

	env := &Environment{captures: map[string]binding.Binding{
		"name":          binding.FromNode(ident),
		fileNameCapture: binding.FromPath("main.go"),
	}}

	got, ok := tmpl.Pattern(env).(effect.Snippet)
	require.True(t, ok)
	require.Len(t, got, 7)

	assert.Equal(t, effect.Text("$"), got[0])
	assert.Equal(t, effect.Ref{Binding: binding.FromNode(ident)}, got[1])
	assert.Equal(t, effect.Text(" in "), got[2])
	assert.Equal(t, effect.CurrentFile{}, got[3])
	assert.Equal(t, effect.Text(": "), got[4])

	missing, ok := got[5].(effect.Ref)
	require.True(t, ok)

	c, ok := binding.AsConstant(missing.Binding)
	require.True(t, ok)
	assert.Equal(t, binding.KindUndefined, c.Kind)
	assert.Equal(t, effect.Text("."), got[6])
}

func TestEnvironment_ResolveField(t *testing.T) {
	t.Parallel()

	tree, lang := parseSource(t, "go", "package main\n\nfunc f(a, b int) {}\n")
	fn, ok := tree.Root().FindKind("function_declaration")
	require.True(t, ok)

	params, ok := tree.Root().FindKind("parameter_declaration")
	require.True(t, ok)

	env := &Environment{captures: map[string]binding.Binding{
		"fn":    binding.FromNode(fn),
		"param": binding.FromNode(params),
	}}

	names := env.Resolve(Reference{Capture: "param", Field: "name"})
	assert.True(t, binding.IsList(names))

	text, err := names.Text(lang)
	require.NoError(t, err)
	assert.Equal(t, "a, b", text)

	result := env.Resolve(Reference{Capture: "fn", Field: "result"})
	_, isEmpty := result.(binding.Empty)
	assert.True(t, isEmpty)
	assert.False(t, result.IsTruthy())
}

func TestCaptureBinding(t *testing.T) {
	t.Parallel()

	tree, lang := parseSource(t, "go", "package main\n\nfunc f(a, b int) {\n\tx := 1\n\ty := 2\n\t_ = x + y\n}\n")
	params, ok := tree.Root().FindKind("parameter_declaration")
	require.True(t, ok)

	list := captureBinding(params.NamedChildrenByField("name"))
	assert.True(t, binding.IsList(list))

	var stmts []*syntax.Node

	tree.Root().Walk(func(n *syntax.Node) bool {
		if n.Kind() == "short_var_declaration" {
			stmts = append(stmts, n)
		}

		return true
	})
	require.Len(t, stmts, 2)

	slice := captureBinding(stmts)
	_, isSlice := slice.(binding.Slice)
	require.True(t, isSlice)

	text, err := slice.Text(lang)
	require.NoError(t, err)
	assert.Equal(t, "x := 1\n\ty := 2", text)
}

func parseSource(t *testing.T, lang, src string) (*syntax.Tree, *language.Language) {
	t.Helper()

	l, err := language.Lookup(lang)
	require.NoError(t, err)

	tree, err := syntax.NewParser().Parse(context.Background(), l.Grammar(), "test."+lang, []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	return tree, l
}
