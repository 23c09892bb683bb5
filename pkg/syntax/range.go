package syntax

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/Sumatoshi-tech/splice/pkg/safeconv"
)

// ByteRange is a half-open [Start, End) byte interval into a source buffer.
type ByteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewByteRange creates a ByteRange.
func NewByteRange(start, end int) ByteRange {
	return ByteRange{Start: start, End: end}
}

// Len returns the number of bytes covered.
func (r ByteRange) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range is zero-width.
func (r ByteRange) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether other lies entirely within r.
func (r ByteRange) Contains(other ByteRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Slice returns the text covered by r, clamped to src.
func (r ByteRange) Slice(src string) string {
	start := safeconv.ClampIndex(r.Start, len(src))
	end := safeconv.ClampIndex(r.End, len(src))

	if end < start {
		return ""
	}

	return src[start:end]
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Point is a zero-based row/column pair as reported by tree-sitter.
// Column counts bytes.
type Point struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Position is a one-based line/column pair used in diagnostics.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NewPosition creates a Position.
func NewPosition(line, column int) Position {
	return Position{Line: line, Column: column}
}

// PositionFromPoint converts a zero-based Point into a one-based Position.
func PositionFromPoint(p Point) Position {
	return Position{Line: p.Row + 1, Column: p.Column + 1}
}

// Range couples line/column positions with the byte offsets they describe.
type Range struct {
	Start     Position `json:"start"`
	End       Position `json:"end"`
	StartByte int      `json:"start_byte"`
	EndByte   int      `json:"end_byte"`
}

// ByteRange returns the byte interval of r.
func (r Range) ByteRange() ByteRange {
	return ByteRange{Start: r.StartByte, End: r.EndByte}
}

// RangeFromByteRange computes line/column positions for br within src.
func RangeFromByteRange(src string, br ByteRange) Range {
	return Range{
		Start:     positionAt(src, br.Start),
		End:       positionAt(src, br.End),
		StartByte: br.Start,
		EndByte:   br.End,
	}
}

func positionAt(src string, offset int) Position {
	offset = safeconv.ClampIndex(offset, len(src))
	prefix := src[:offset]
	line := strings.Count(prefix, "\n") + 1
	column := offset - (strings.LastIndexByte(prefix, '\n') + 1) + 1

	return Position{Line: line, Column: column}
}

// CodeRange identifies a byte interval of one particular source buffer.
// Address is the address of the buffer's first byte, so two ranges over
// equal offsets of different files never collide as map keys.
type CodeRange struct {
	Start   uint32
	End     uint32
	Address uintptr
}

// NewCodeRange creates a CodeRange over src.
func NewCodeRange(start, end uint32, src string) CodeRange {
	return CodeRange{Start: start, End: end, Address: sourceAddress(src)}
}

// CodeRangeFromByteRange creates a CodeRange over src from int offsets.
func CodeRangeFromByteRange(br ByteRange, src string) CodeRange {
	return NewCodeRange(safeconv.MustIntToUint32(br.Start), safeconv.MustIntToUint32(br.End), src)
}

// AppliesTo reports whether the range belongs to src.
func (r CodeRange) AppliesTo(src string) bool {
	return r.Address == sourceAddress(src)
}

// Contains reports whether other lies entirely within r and both ranges
// refer to the same buffer.
func (r CodeRange) Contains(other CodeRange) bool {
	return r.Address == other.Address && r.Start <= other.Start && other.End <= r.End
}

// ByteRange converts r to int offsets.
func (r CodeRange) ByteRange() ByteRange {
	return ByteRange{Start: safeconv.MustUint32ToInt(r.Start), End: safeconv.MustUint32ToInt(r.End)}
}

func (r CodeRange) String() string {
	return fmt.Sprintf("[%d,%d)@%#x", r.Start, r.End, r.Address)
}

func sourceAddress(src string) uintptr {
	return uintptr(unsafe.Pointer(unsafe.StringData(src)))
}
