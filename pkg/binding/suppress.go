package binding

import (
	"strings"
	"unicode"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// SuppressMarker is the comment marker that silences rewrites:
//
//	// splice-ignore
//	// splice-ignore rule_a, rule_b: reason
const SuppressMarker = "splice-ignore"

func isSuppressed(target *syntax.Node, lang Language, currentName string) bool {
	visit := make([]*syntax.Node, 0, target.ChildCount()+8)
	visit = append(visit, target.Children()...)
	visit = append(visit, target.Ancestors()...)

	for _, n := range visit {
		for _, c := range n.Children() {
			if lang.IsComment(c) && isSuppressComment(c, target, currentName, lang) {
				return true
			}
		}
	}

	return false
}

func isSuppressComment(comment, target *syntax.Node, currentName string, lang Language) bool {
	endRow := comment.EndPoint().Row
	inline := endRow >= target.StartPoint().Row && endRow <= target.EndPoint().Row

	if !inline && !commentPrecedes(comment, target, lang) {
		return false
	}

	return suppressesRule(comment.Text(), currentName)
}

// commentPrecedes reports whether the first non-comment named node after
// comment starts on the target's first line.
func commentPrecedes(comment, target *syntax.Node, lang Language) bool {
	next := comment.NextNamedNode()
	for next != nil && lang.IsComment(next) {
		next = next.NextNamedNode()
	}

	return next != nil && next.StartPoint().Row == target.StartPoint().Row
}

// suppressesRule parses the text after the marker. No rule list, or one
// that does not start with an identifier, suppresses everything.
func suppressesRule(text, currentName string) bool {
	_, after, found := strings.Cut(strings.TrimSpace(text), SuppressMarker)
	if !found {
		return false
	}

	names, _, _ := strings.Cut(after, ":")
	names = strings.TrimSpace(names)

	if names == "" {
		return true
	}

	first := []rune(names)[0]
	if !unicode.IsLetter(first) && !unicode.IsDigit(first) && first != '_' {
		return true
	}

	if currentName == "" {
		return false
	}

	for _, rule := range strings.Split(names, ",") {
		if strings.TrimSpace(rule) == currentName {
			return true
		}
	}

	return false
}
