package framealloc

import (
	"fmt"
)

const (
	// MaxFrames is the largest number of frames the bitmap can track.
	MaxFrames = 256

	// BitmapBytes is the size of the packed bitmap, 8 frames per byte.
	BitmapBytes = MaxFrames / 8

	// DefaultFrameSize is the frame size used when none is configured.
	DefaultFrameSize uint64 = 0x400
)

// Spec holds the immutable configuration of an Allocator.
type Spec struct {
	// NumFrames is the number of frames in the simulated memory, frame 0
	// included.
	NumFrames int

	// FrameSize is the number of bytes in each frame. It must be a power of
	// two that can hold the bitmap.
	FrameSize uint64
}

// Defaults returns a Spec for the largest memory the bitmap supports.
func Defaults() Spec {
	return Spec{
		NumFrames: MaxFrames,
		FrameSize: DefaultFrameSize,
	}
}

// Validate reports the first problem with the Spec, if any.
func (s Spec) Validate() error {
	if s.NumFrames <= 0 {
		return fmt.Errorf("%w: number of frames must be > 0, got %d",
			ErrInvalidSpec, s.NumFrames)
	}

	if s.NumFrames > MaxFrames {
		return fmt.Errorf("%w: %d frames requested, at most %d supported",
			ErrCapacityExceeded, s.NumFrames, MaxFrames)
	}

	if s.FrameSize == 0 || s.FrameSize&(s.FrameSize-1) != 0 {
		return fmt.Errorf("%w: frame size 0x%x is not a power of two",
			ErrInvalidSpec, s.FrameSize)
	}

	if s.FrameSize < BitmapBytes {
		return fmt.Errorf("%w: frame size 0x%x cannot hold the %d-byte bitmap",
			ErrInvalidSpec, s.FrameSize, BitmapBytes)
	}

	return nil
}

// CapacityBytes returns the size of the simulated memory.
func (s Spec) CapacityBytes() uint64 {
	return uint64(s.NumFrames) * s.FrameSize
}
