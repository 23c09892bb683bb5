package binding

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

func find(t *testing.T, root *syntax.Node, kind string) *syntax.Node {
	t.Helper()

	n, ok := root.FindKind(kind)
	require.True(t, ok, "no %s node", kind)

	return n
}

func findAll(root *syntax.Node, kind string) []*syntax.Node {
	var out []*syntax.Node

	root.Walk(func(n *syntax.Node) bool {
		if n.Kind() == kind {
			out = append(out, n)
		}

		return true
	})

	return out
}

func findText(t *testing.T, root *syntax.Node, kind, text string) *syntax.Node {
	t.Helper()

	n, ok := root.Find(func(n *syntax.Node) bool { return n.Kind() == kind && n.Text() == text })
	require.True(t, ok, "no %s node with text %q", kind, text)

	return n
}
