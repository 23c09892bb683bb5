package effect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// Replacement is text to put at an effect range.
type Replacement struct {
	Range  EffectRange
	Text   string
	origin syntax.ByteRange
}

// NewReplacement creates a Replacement for kind over rng.
func NewReplacement(kind Kind, rng syntax.ByteRange, text string) Replacement {
	er := EffectRange{Kind: kind, Range: rng}

	return Replacement{Range: er, Text: text, origin: er.Effective()}
}

// ReplacementInfo maps one applied replacement from the original source to
// the produced text. Both ranges are absolute byte offsets.
type ReplacementInfo struct {
	Source      syntax.ByteRange `json:"source"`
	Output      syntax.ByteRange `json:"output"`
	Replacement string           `json:"replacement"`
}

type placed struct {
	rep Replacement
	rel syntax.ByteRange
}

// Splice applies reps to text, which starts at absolute offset. Ranges are
// absolute. With shouldPad, multi-line replacement text is indented to the
// line it lands on. Deleting a list item also deletes its separating comma
// when that does not run into a neighbouring edit.
func Splice(text string, offset int, reps []Replacement, shouldPad bool) (string, []syntax.ByteRange, []ReplacementInfo, error) {
	items := make([]placed, 0, len(reps))

	for _, r := range reps {
		eff := r.Range.Effective()
		rel := syntax.NewByteRange(eff.Start-offset, eff.End-offset)

		if rel.Start < 0 || rel.End < rel.Start || rel.End > len(text) {
			return "", nil, nil, fmt.Errorf("%w: %s outside [%d,%d)", ErrRangeOutOfBounds, eff, offset, offset+len(text))
		}

		items = append(items, placed{rep: r, rel: rel})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].rel, items[j].rel
		if a.Start != b.Start {
			return a.Start < b.Start
		}

		if a.IsEmpty() != b.IsEmpty() {
			return a.IsEmpty()
		}

		return a.End > b.End
	})

	deleteHangingCommas(text, items)

	var (
		out    strings.Builder
		ranges = make([]syntax.ByteRange, 0, len(items))
		infos  = make([]ReplacementInfo, 0, len(items))
		cursor int
	)

	for _, it := range items {
		if it.rel.Start < cursor {
			return "", nil, nil, fmt.Errorf("%w: %s starts before %d",
				ErrOverlappingEdits, it.rep.Range.Effective(), offset+cursor)
		}

		out.WriteString(text[cursor:it.rel.Start])

		replacement := it.rep.Text
		if shouldPad && strings.Contains(replacement, "\n") {
			replacement = padSnippet(replacement, currentIndent(out.String()))
		}

		start := out.Len()
		out.WriteString(replacement)

		target := syntax.NewByteRange(offset+start, offset+out.Len())
		source := it.rep.origin

		if source == (syntax.ByteRange{}) {
			source = it.rep.Range.Effective()
		}

		ranges = append(ranges, target)
		infos = append(infos, ReplacementInfo{Source: source, Output: target, Replacement: replacement})
		cursor = it.rel.End
	}

	out.WriteString(text[cursor:])

	return out.String(), ranges, infos, nil
}

// deleteHangingCommas widens deletions over the comma that separated the
// deleted item: forward over ", " first, else backward over " ,".
func deleteHangingCommas(text string, items []placed) {
	for i := range items {
		it := &items[i]
		if it.rep.Range.Kind != Rewrite || it.rep.Text != "" || it.rel.IsEmpty() {
			continue
		}

		nextStart := len(text)
		if i+1 < len(items) {
			nextStart = items[i+1].rel.Start
		}

		prevEnd := 0
		if i > 0 {
			prevEnd = items[i-1].rel.End
		}

		if end, ok := forwardComma(text, it.rel.End); ok && end <= nextStart {
			it.rel.End = end

			continue
		}

		if start, ok := backwardComma(text, it.rel.Start); ok && start >= prevEnd {
			it.rel.Start = start
		}
	}
}

func forwardComma(text string, pos int) (int, bool) {
	if pos >= len(text) || text[pos] != ',' {
		return 0, false
	}

	pos++
	for pos < len(text) && text[pos] == ' ' {
		pos++
	}

	return pos, true
}

func backwardComma(text string, pos int) (int, bool) {
	for pos > 0 && text[pos-1] == ' ' {
		pos--
	}

	if pos == 0 || text[pos-1] != ',' {
		return 0, false
	}

	return pos - 1, true
}

// padSnippet prefixes every non-empty line after the first with pad.
func padSnippet(snippet, pad string) string {
	if pad == "" {
		return snippet
	}

	lines := strings.Split(snippet, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}

// currentIndent returns the leading whitespace of the last line of text.
func currentIndent(text string) string {
	line := text[strings.LastIndexByte(text, '\n')+1:]

	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
