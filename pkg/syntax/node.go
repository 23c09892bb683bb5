package syntax

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Tree is a parsed source file. The tree-sitter CST is materialized into
// Node values when the tree is built, so traversal never crosses cgo.
// The raw tree is retained for query execution until Close is called.
type Tree struct {
	raw     *sitter.Tree
	root    *Node
	index   map[nodeKey]*Node
	Source  string
	Path    string
	Grammar string
}

type nodeKey struct {
	kind  string
	start int
	end   int
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Close releases the underlying tree-sitter tree. Materialized nodes remain
// usable; only Matches requires the raw tree.
func (t *Tree) Close() {
	if t.raw != nil {
		t.raw.Close()
		t.raw = nil
	}
}

// Lookup returns the outermost node with the given kind and byte span.
func (t *Tree) Lookup(kind string, start, end int) (*Node, bool) {
	n, ok := t.index[nodeKey{kind: kind, start: start, end: end}]

	return n, ok
}

// Node is one materialized syntax node. Nodes are immutable after the tree
// is built and hold a pointer back to their tree for source access.
type Node struct {
	tree       *Tree
	parent     *Node
	kind       string
	field      string
	children   []*Node
	startPoint Point
	endPoint   Point
	startByte  int
	endByte    int
	index      int
	named      bool
}

// Kind returns the grammar node type.
func (n *Node) Kind() string { return n.kind }

// Field returns the field name under which the node hangs off its parent,
// or "" when the grammar assigns none.
func (n *Node) Field() string { return n.field }

// IsNamed reports whether the node is a named (non-token) node.
func (n *Node) IsNamed() bool { return n.named }

// Tree returns the owning tree.
func (n *Node) Tree() *Tree { return n.tree }

// Source returns the full source text of the owning file.
func (n *Node) Source() string { return n.tree.Source }

// StartByte returns the inclusive start offset.
func (n *Node) StartByte() int { return n.startByte }

// EndByte returns the exclusive end offset.
func (n *Node) EndByte() int { return n.endByte }

// StartPoint returns the zero-based start row/column.
func (n *Node) StartPoint() Point { return n.startPoint }

// EndPoint returns the zero-based end row/column.
func (n *Node) EndPoint() Point { return n.endPoint }

// Text returns the source text covered by the node.
func (n *Node) Text() string {
	return n.tree.Source[n.startByte:n.endByte]
}

// ByteRange returns the node's byte interval.
func (n *Node) ByteRange() ByteRange {
	return ByteRange{Start: n.startByte, End: n.endByte}
}

// Range returns the node's one-based positions and byte offsets.
func (n *Node) Range() Range {
	return Range{
		Start:     PositionFromPoint(n.startPoint),
		End:       PositionFromPoint(n.endPoint),
		StartByte: n.startByte,
		EndByte:   n.endByte,
	}
}

// CodeRange returns the node's interval keyed to its source buffer.
func (n *Node) CodeRange() CodeRange {
	return CodeRangeFromByteRange(n.ByteRange(), n.tree.Source)
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns all children, named and anonymous.
func (n *Node) Children() []*Node { return n.children }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// NamedChildren returns the named children.
func (n *Node) NamedChildren() []*Node {
	out := make([]*Node, 0, len(n.children))

	for _, c := range n.children {
		if c.named {
			out = append(out, c)
		}
	}

	return out
}

// ChildrenByField returns every child, anonymous tokens included, attached
// under field.
func (n *Node) ChildrenByField(field string) []*Node {
	var out []*Node

	for _, c := range n.children {
		if c.field == field {
			out = append(out, c)
		}
	}

	return out
}

// NamedChildrenByField returns the named children attached under field.
func (n *Node) NamedChildrenByField(field string) []*Node {
	var out []*Node

	for _, c := range n.children {
		if c.named && c.field == field {
			out = append(out, c)
		}
	}

	return out
}

// ChildByField returns the first named child under field.
func (n *Node) ChildByField(field string) (*Node, bool) {
	for _, c := range n.children {
		if c.named && c.field == field {
			return c, true
		}
	}

	return nil, false
}

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil || n.index+1 >= len(n.parent.children) {
		return nil
	}

	return n.parent.children[n.index+1]
}

// PrevSibling returns the preceding sibling, or nil.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil || n.index == 0 {
		return nil
	}

	return n.parent.children[n.index-1]
}

// NextNamedNode returns the next named node in document order that is not
// a descendant of n: the next named sibling, else the parent's.
func (n *Node) NextNamedNode() *Node {
	for cur := n; cur != nil; cur = cur.parent {
		for sib := cur.NextSibling(); sib != nil; sib = sib.NextSibling() {
			if sib.named {
				return sib
			}
		}
	}

	return nil
}

// Ancestors returns n followed by each of its ancestors up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node

	for cur := n; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}

	return out
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}

	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node in pre-order (n included) satisfying pred.
func (n *Node) Find(pred func(*Node) bool) (*Node, bool) {
	var found *Node

	n.Walk(func(cur *Node) bool {
		if found != nil {
			return false
		}

		if pred(cur) {
			found = cur

			return false
		}

		return true
	})

	return found, found != nil
}

// FindKind returns the first node of the given kind in pre-order.
func (n *Node) FindKind(kind string) (*Node, bool) {
	return n.Find(func(cur *Node) bool { return cur.kind == kind })
}

// DescendantAt returns the smallest node whose range contains [start, end).
func (n *Node) DescendantAt(start, end int) *Node {
	if start < n.startByte || end > n.endByte {
		return nil
	}

	for _, c := range n.children {
		if c.startByte <= start && end <= c.endByte {
			return c.DescendantAt(start, end)
		}
	}

	return n
}

// SExp renders the node in tree-sitter's s-expression notation: named
// nodes only, with field labels.
func (n *Node) SExp() string {
	var sb strings.Builder

	n.writeSExp(&sb)

	return sb.String()
}

func (n *Node) writeSExp(sb *strings.Builder) {
	sb.WriteByte('(')

	if n.named {
		sb.WriteString(n.kind)
	} else {
		sb.WriteString(`"` + n.kind + `"`)
	}

	for _, c := range n.children {
		if !c.named {
			continue
		}

		sb.WriteByte(' ')

		if c.field != "" {
			sb.WriteString(c.field)
			sb.WriteString(": ")
		}

		c.writeSExp(sb)
	}

	sb.WriteByte(')')
}
