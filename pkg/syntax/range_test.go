package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteRange(t *testing.T) {
	t.Parallel()

	r := NewByteRange(2, 5)
	assert.Equal(t, 3, r.Len())
	assert.False(t, r.IsEmpty())
	assert.True(t, r.Contains(NewByteRange(3, 5)))
	assert.False(t, r.Contains(NewByteRange(1, 3)))
	assert.Equal(t, "llo", r.Slice("hello"))
	assert.Equal(t, "", NewByteRange(4, 10).Slice("ab"))
	assert.Equal(t, "[2,5)", r.String())
}

func TestRangeFromByteRange(t *testing.T) {
	t.Parallel()

	src := "ab\ncd\nef"
	r := RangeFromByteRange(src, NewByteRange(4, 7))

	assert.Equal(t, NewPosition(2, 2), r.Start)
	assert.Equal(t, NewPosition(3, 2), r.End)
	assert.Equal(t, NewByteRange(4, 7), r.ByteRange())
}

func TestCodeRange_Contains(t *testing.T) {
	t.Parallel()

	src := "some source"
	outer := NewCodeRange(0, 10, src)
	inner := NewCodeRange(2, 4, src)
	other := NewCodeRange(2, 4, "other text")

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.False(t, outer.Contains(other))
	assert.NotEqual(t, inner, other)
}
