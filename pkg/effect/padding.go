package effect

import (
	"strings"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// AlignPadding re-indents text, which starts at absolute byte offset in
// source, so that its continuation lines sit at indent relative to the
// first line. Lines starting inside a skip range are kept verbatim and
// whitespace-only lines are emptied. Replacement ranges, given in absolute
// coordinates, are shifted to match the new text. With a nil indent the
// text is returned unchanged.
func AlignPadding(
	source string, text string, offset int, skip []syntax.CodeRange, indent *int, reps []Replacement,
) (string, []Replacement) {
	if indent == nil {
		return text, reps
	}

	delta := *indent - lineIndent(source, offset)
	if delta == 0 {
		return text, reps
	}

	var (
		sb    strings.Builder
		edits []lineEdit
	)

	lines := strings.SplitAfter(text, "\n")
	pos := 0

	for i, line := range lines {
		start := pos
		pos += len(line)

		if i == 0 || inSkipRange(offset+start, skip) {
			sb.WriteString(line)

			continue
		}

		body := strings.TrimRight(line, "\n")
		newline := line[len(body):]
		lead := len(body) - len(strings.TrimLeft(body, " \t"))

		switch {
		case lead == len(body):
			if lead > 0 {
				edits = append(edits, lineEdit{at: start, removed: lead})
			}

			sb.WriteString(newline)
		case delta > 0:
			pad := strings.Repeat(string(indentChar(body)), delta)
			edits = append(edits, lineEdit{at: start, inserted: delta})

			sb.WriteString(pad)
			sb.WriteString(body)
			sb.WriteString(newline)
		default:
			strip := min(-delta, lead)
			if strip > 0 {
				edits = append(edits, lineEdit{at: start, removed: strip})
			}

			sb.WriteString(body[strip:])
			sb.WriteString(newline)
		}
	}

	if len(edits) == 0 {
		return text, reps
	}

	shifted := make([]Replacement, len(reps))

	for i, r := range reps {
		r.Range.Range = syntax.NewByteRange(
			offset+shiftPosition(r.Range.Range.Start-offset, edits),
			offset+shiftPosition(r.Range.Range.End-offset, edits),
		)
		shifted[i] = r
	}

	return sb.String(), shifted
}

type lineEdit struct {
	at       int
	removed  int
	inserted int
}

// shiftPosition maps a position in the original text to the edited text.
// Positions inside removed bytes collapse onto the edit point.
func shiftPosition(pos int, edits []lineEdit) int {
	shift := 0

	for _, e := range edits {
		switch {
		case pos >= e.at+e.removed:
			shift += e.inserted - e.removed
		case pos > e.at:
			return e.at + shift + e.inserted
		default:
			return pos + shift
		}
	}

	return pos + shift
}

// lineIndent counts the leading whitespace of the line containing offset.
func lineIndent(source string, offset int) int {
	offset = min(max(offset, 0), len(source))
	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1
	line := source[lineStart:]

	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func indentChar(line string) byte {
	if strings.HasPrefix(line, "\t") {
		return '\t'
	}

	return ' '
}

func inSkipRange(pos int, skip []syntax.CodeRange) bool {
	for _, r := range skip {
		br := r.ByteRange()
		if pos > br.Start && pos < br.End {
			return true
		}
	}

	return false
}
