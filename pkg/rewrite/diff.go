package rewrite

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineOp classifies a diff line.
type LineOp int

// Line operations.
const (
	LineEqual LineOp = iota
	LineDelete
	LineInsert
)

// DiffLine is one line of a line diff, without its trailing newline.
type DiffLine struct {
	Op      LineOp
	Text    string
	OldLine int // 1-based, 0 for inserted lines
	NewLine int // 1-based, 0 for deleted lines
}

// Prefix returns the unified-diff marker for the line.
func (l DiffLine) Prefix() string {
	switch l.Op {
	case LineDelete:
		return "-"
	case LineInsert:
		return "+"
	case LineEqual:
	}

	return " "
}

// LineDiff computes a line-level diff of before and after.
func LineDiff(before, after string) []DiffLine {
	if before == after {
		return nil
	}

	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffMainRunes(src, dst, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var (
		out            []DiffLine
		oldNum, newNum int
	)

	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			line := DiffLine{Text: text}

			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldNum++
				newNum++
				line.Op, line.OldLine, line.NewLine = LineEqual, oldNum, newNum
			case diffmatchpatch.DiffDelete:
				oldNum++
				line.Op, line.OldLine = LineDelete, oldNum
			case diffmatchpatch.DiffInsert:
				newNum++
				line.Op, line.NewLine = LineInsert, newNum
			}

			out = append(out, line)
		}
	}

	return out
}

// FormatDiff renders lines as a unified diff for path with context lines
// of surrounding unchanged text per hunk.
func FormatDiff(path string, lines []DiffLine, context int) string {
	if len(lines) == 0 {
		return ""
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)

	for _, h := range hunks(lines, context) {
		first := lines[h[0]]
		fmt.Fprintf(&sb, "@@ -%d +%d @@\n", max(first.OldLine, 1), max(first.NewLine, 1))

		for _, l := range lines[h[0]:h[1]] {
			sb.WriteString(l.Prefix())
			sb.WriteString(l.Text)
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// hunks groups changed lines with their context into [start, end) spans,
// merging spans that touch.
func hunks(lines []DiffLine, context int) [][2]int {
	var out [][2]int

	for i, l := range lines {
		if l.Op == LineEqual {
			continue
		}

		start := max(i-context, 0)
		end := min(i+context+1, len(lines))

		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = max(out[n-1][1], end)

			continue
		}

		out = append(out, [2]int{start, end})
	}

	return out
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}

	return strings.Split(text, "\n")
}
