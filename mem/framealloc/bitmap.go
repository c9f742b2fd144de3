package framealloc

import (
	"math/bits"
	"strings"
)

// bitmap is a live view of the packed bitmap. It always spans BitmapBytes
// bytes; bits of frames beyond the configured capacity stay 0.
type bitmap []byte

func (b bitmap) isFree(index int) bool {
	return b[index>>3]&(1<<(index&7)) != 0
}

func (b bitmap) markFree(index int) {
	b[index>>3] |= 1 << (index & 7)
}

func (b bitmap) markAllocated(index int) {
	b[index>>3] &^= 1 << (index & 7)
}

// firstFreeFrom returns the lowest free index in [start, limit). It reports
// false when there is none.
func (b bitmap) firstFreeFrom(start, limit int) (int, bool) {
	for i := start; i < limit; {
		byteIndex := i >> 3

		rest := b[byteIndex] >> (i & 7)
		if rest != 0 {
			found := i + bits.TrailingZeros8(rest)
			if found >= limit {
				return 0, false
			}

			return found, true
		}

		i = (byteIndex + 1) << 3
	}

	return 0, false
}

// countFree returns the number of free frames in [start, limit).
func (b bitmap) countFree(start, limit int) int {
	n := 0
	for i := start; i < limit; i++ {
		if b.isFree(i) {
			n++
		}
	}

	return n
}

// Bitmap is a point-in-time copy of an allocator's packed bitmap.
type Bitmap [BitmapBytes]byte

// IsFree reports whether frame index was free when the copy was taken.
// Indices outside the bitmap are never free.
func (b Bitmap) IsFree(index int) bool {
	if index < 0 || index >= MaxFrames {
		return false
	}

	return bitmap(b[:]).isFree(index)
}

// String formats every byte as two lowercase hex digits followed by a space.
func (b Bitmap) String() string {
	const hexDigits = "0123456789abcdef"

	var sb strings.Builder
	sb.Grow(len(b) * 3)

	for _, v := range b {
		sb.WriteByte(hexDigits[v>>4])
		sb.WriteByte(hexDigits[v&0xf])
		sb.WriteByte(' ')
	}

	return sb.String()
}
