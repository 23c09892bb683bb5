// Package textutil holds small byte and line helpers shared by the CLI.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is how many leading bytes IsBinary inspects, the same
// window git uses.
const BinarySniffLength = 8000

// IsBinary reports whether data has a NUL byte within the sniff window.
// Such files are never handed to a parser.
func IsBinary(data []byte) bool {
	sniff := data[:min(len(data), BinarySniffLength)]

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of lines in s. A final line without a
// trailing newline still counts.
func CountLines(s string) int {
	if s == "" {
		return 0
	}

	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}

	return n
}

// FirstLine returns s up to its first newline.
func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")

	return line
}
