package binding

import "github.com/Sumatoshi-tech/splice/pkg/syntax"

// equivalent decides backreference consistency between two bindings. The
// rules are ordered so that the relation is symmetric for every pair of
// variants.
func equivalent(a, b Binding, lang Language) bool {
	if n1, ok := a.Singleton(); ok {
		if n2, ok := b.Singleton(); ok {
			return NodesEquivalent(n1, n2, lang)
		}
	}

	if s, ok := a.(Slice); ok {
		return textEquals(b, s.text(), lang)
	}

	if s, ok := b.(Slice); ok {
		return textEquals(a, s.text(), lang)
	}

	switch x := a.(type) {
	case List:
		y, ok := b.(List)
		if !ok {
			return false
		}

		left, right := x.Items(), y.Items()
		if len(left) != len(right) {
			return false
		}

		for i := range left {
			if !NodesEquivalent(left[i], right[i], lang) {
				return false
			}
		}

		return true
	case Empty:
		// Matching on the parent kind is stricter than it needs to be:
		// two absent fields under different node kinds never unify.
		y, ok := b.(Empty)

		return ok && x.parent.Kind() == y.parent.Kind() && x.field == y.field
	case ConstantRef:
		y, ok := b.(ConstantRef)

		return ok && x.constant.Equal(y.constant)
	case FileName:
		y, ok := b.(FileName)

		return ok && x.path == y.path
	case Node, Slice:
	}

	return false
}

func textEquals(b Binding, want string, lang Language) bool {
	got, err := b.Text(lang)

	return err == nil && got == want
}

// NodesEquivalent reports whether two nodes are the same code up to
// formatting and comments: identical text, or the same kind with pairwise
// equivalent children. Named children are compared recursively, anonymous
// tokens such as operators by text. Comments are ignored on both sides.
func NodesEquivalent(a, b *syntax.Node, lang Language) bool {
	if a.Text() == b.Text() {
		return true
	}

	if a.Kind() != b.Kind() {
		return false
	}

	left := significantChildren(a, lang)
	right := significantChildren(b, lang)

	if len(left) == 0 || len(left) != len(right) {
		return false
	}

	for i := range left {
		l, r := left[i], right[i]

		if !l.IsNamed() || !r.IsNamed() {
			if l.IsNamed() != r.IsNamed() || l.Kind() != r.Kind() || l.Text() != r.Text() {
				return false
			}

			continue
		}

		if !NodesEquivalent(l, r, lang) {
			return false
		}
	}

	return true
}

func significantChildren(n *syntax.Node, lang Language) []*syntax.Node {
	children := n.Children()
	out := make([]*syntax.Node, 0, len(children))

	for _, c := range children {
		if !lang.IsComment(c) {
			out = append(out, c)
		}
	}

	return out
}
