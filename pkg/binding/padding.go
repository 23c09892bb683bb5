package binding

import (
	"strings"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// listPadding picks the separator for text inserted into a field list.
func listPadding(children []*syntax.Node, text string, isFirst bool, lang Language) (string, bool) {
	if text == "" || len(children) == 0 {
		return "", false
	}

	if sep, ok := listSeparator(children, lang); ok {
		if isFirst {
			if strings.HasSuffix(text, sep) {
				return "", false
			}
		} else if strings.HasPrefix(text, sep) {
			return "", false
		}

		return sep, true
	}

	if len(children) == 1 {
		child := children[0]
		if child.EndPoint().Row > child.StartPoint().Row &&
			!strings.HasSuffix(child.Text(), "\n") &&
			!strings.HasPrefix(text, "\n") {
			return "\n", true
		}
	}

	return "", false
}

// listSeparator returns the text between consecutive named items when it
// is the same everywhere.
func listSeparator(children []*syntax.Node, lang Language) (string, bool) {
	items := make([]*syntax.Node, 0, len(children))

	for _, c := range children {
		if c.IsNamed() && !lang.IsComment(c) {
			items = append(items, c)
		}
	}

	if len(items) < 2 {
		return "", false
	}

	src := items[0].Source()
	sep := src[items[0].EndByte():items[1].StartByte()]

	for i := 2; i < len(items); i++ {
		if src[items[i-1].EndByte():items[i].StartByte()] != sep {
			return "", false
		}
	}

	return sep, sep != ""
}
