package framealloc

import "errors"

var (
	// ErrCapacityExceeded indicates a configuration with more frames than the
	// bitmap can represent. No allocator is produced.
	ErrCapacityExceeded = errors.New("framealloc: capacity exceeded")

	// ErrInvalidSpec indicates any other unusable configuration.
	ErrInvalidSpec = errors.New("framealloc: invalid spec")

	// ErrInvalidCount indicates a negative frame count.
	ErrInvalidCount = errors.New("framealloc: invalid frame count")

	// ErrInsufficientFreeFrames indicates an allocation larger than the number
	// of free frames. Nothing was allocated.
	ErrInsufficientFreeFrames = errors.New("framealloc: insufficient free frames")

	// ErrInsufficientOwnedFrames indicates a free of more frames than the
	// owner holds. Nothing was freed.
	ErrInsufficientOwnedFrames = errors.New("framealloc: insufficient owned frames")

	// ErrInvalidFrameAddress indicates an address that is not the start of an
	// allocatable frame of this allocator.
	ErrInvalidFrameAddress = errors.New("framealloc: invalid frame address")

	// ErrDoubleFree indicates an attempt to free a frame that is already free.
	ErrDoubleFree = errors.New("framealloc: frame is already free")

	// ErrFrameNotAllocated indicates an access to the content of a frame that
	// nobody holds.
	ErrFrameNotAllocated = errors.New("framealloc: frame is not allocated")
)
