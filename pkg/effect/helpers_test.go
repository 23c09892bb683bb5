package effect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/splice/pkg/language"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

func parse(t *testing.T, lang, src string) (*syntax.Tree, *language.Language) {
	t.Helper()

	l, err := language.Lookup(lang)
	require.NoError(t, err)

	tree, err := syntax.NewParser().Parse(context.Background(), l.Grammar(), "test."+lang, []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	return tree, l
}

func findText(t *testing.T, root *syntax.Node, kind, text string) *syntax.Node {
	t.Helper()

	n, ok := root.Find(func(n *syntax.Node) bool { return n.Kind() == kind && n.Text() == text })
	require.True(t, ok, "no %s node with text %q", kind, text)

	return n
}

func find(t *testing.T, root *syntax.Node, kind string) *syntax.Node {
	t.Helper()

	n, ok := root.FindKind(kind)
	require.True(t, ok, "no %s node", kind)

	return n
}

func linearizeRoot(t *testing.T, tree *syntax.Tree, l *Linearizer) Output {
	t.Helper()

	var indent *int
	if l.Lang.ShouldPadSnippet() {
		indent = new(int)
	}

	out, err := l.Linearize(tree.Root(), tree.Root().CodeRange(), indent)
	require.NoError(t, err)

	return out
}
