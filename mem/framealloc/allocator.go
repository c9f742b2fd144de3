package framealloc

import (
	"fmt"
	"slices"

	"github.com/sarchlab/framesim/instrumentation/hooking"
	"github.com/sarchlab/framesim/mem/storage"
)

// noCopy makes go vet's copylocks check flag copies of an Allocator.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// An Allocator hands out the frames of a simulated memory.
type Allocator struct {
	hooking.HookableBase
	noCopy noCopy

	name      string
	numFrames int
	frameSize uint64
	storage   *storage.Storage
	bits      bitmap
}

// NewAllocator creates an allocator with its own backing memory. Frame 0
// holds the bitmap and is reserved; all other frames start free.
func NewAllocator(name string, spec Spec) (*Allocator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	a := &Allocator{
		name:      name,
		numFrames: spec.NumFrames,
		frameSize: spec.FrameSize,
		storage:   storage.New(spec.CapacityBytes(), spec.FrameSize),
	}

	frame0, err := a.storage.Unit(0)
	if err != nil {
		return nil, err
	}

	a.bits = bitmap(frame0[:BitmapBytes])
	for i := 1; i < a.numFrames; i++ {
		a.bits.markFree(i)
	}

	return a, nil
}

// Name returns the name of the allocator.
func (a *Allocator) Name() string {
	return a.name
}

// NumFrames returns the number of frames, frame 0 included.
func (a *Allocator) NumFrames() int {
	return a.numFrames
}

// FrameSize returns the number of bytes in each frame.
func (a *Allocator) FrameSize() uint64 {
	return a.frameSize
}

// AddrOf returns the address of the first byte of frame index.
func (a *Allocator) AddrOf(index int) uint64 {
	if index < 0 || index >= a.numFrames {
		panic(fmt.Sprintf("framealloc: frame %d out of range [0, %d)",
			index, a.numFrames))
	}

	return uint64(index) * a.frameSize
}

// IndexOf returns the index of the frame that starts at addr.
func (a *Allocator) IndexOf(addr uint64) (int, error) {
	if addr%a.frameSize != 0 {
		return 0, fmt.Errorf("%w: 0x%x is not frame aligned",
			ErrInvalidFrameAddress, addr)
	}

	index := addr / a.frameSize
	if index >= uint64(a.numFrames) {
		return 0, fmt.Errorf("%w: 0x%x is beyond the last frame",
			ErrInvalidFrameAddress, addr)
	}

	return int(index), nil
}

// Allocate takes count frames, lowest index first, and returns their
// addresses in increasing order. The content of every returned frame is
// zeroed. If fewer than count frames are free, nothing is allocated.
func (a *Allocator) Allocate(count int) ([]uint64, error) {
	if count < 0 {
		return nil, a.reject(OpAllocate, count,
			fmt.Errorf("%w: %d", ErrInvalidCount, count))
	}

	free := a.FreeCount()
	if count > free {
		return nil, a.reject(OpAllocate, count,
			fmt.Errorf("%w: %d requested, %d free",
				ErrInsufficientFreeFrames, count, free))
	}

	addrs := make([]uint64, 0, count)
	next := 1

	for len(addrs) < count {
		index, found := a.bits.firstFreeFrom(next, a.numFrames)
		if !found {
			panic("framealloc: free count disagrees with the bitmap")
		}

		a.bits.markAllocated(index)
		addr := a.AddrOf(index)
		a.mustClearFrame(addr)

		addrs = append(addrs, addr)
		next = index + 1
	}

	a.invokeHook(HookPosFramesAllocated, FrameEvent{
		Op:        OpAllocate,
		Requested: count,
		Addrs:     slices.Clone(addrs),
		FreeAfter: free - count,
	})

	return addrs, nil
}

// AllocateTo allocates count frames and appends their addresses to owned.
func (a *Allocator) AllocateTo(count int, owned *[]uint64) error {
	addrs, err := a.Allocate(count)
	if err != nil {
		return err
	}

	*owned = append(*owned, addrs...)

	return nil
}

func (a *Allocator) mustClearFrame(addr uint64) {
	err := a.storage.Clear(addr, a.frameSize)
	if err != nil {
		panic(err)
	}
}

// Free releases the last count frames of owned, most recently appended first,
// and removes them from owned. Frame content is left as is.
//
// Every address to be released must be the start of a frame that is currently
// allocated and must appear only once. If any check fails, neither the bitmap
// nor owned is changed.
func (a *Allocator) Free(count int, owned *[]uint64) error {
	if count < 0 {
		return a.reject(OpFree, count,
			fmt.Errorf("%w: %d", ErrInvalidCount, count))
	}

	held := 0
	if owned != nil {
		held = len(*owned)
	}

	if count > held {
		return a.reject(OpFree, count,
			fmt.Errorf("%w: %d requested, %d held",
				ErrInsufficientOwnedFrames, count, held))
	}

	if count == 0 {
		a.invokeHook(HookPosFramesFreed, FrameEvent{
			Op:        OpFree,
			FreeAfter: a.FreeCount(),
		})

		return nil
	}

	indices, err := a.framesToRelease((*owned)[held-count:])
	if err != nil {
		return a.reject(OpFree, count, err)
	}

	freed := make([]uint64, 0, count)
	for _, index := range indices {
		a.bits.markFree(index)
		freed = append(freed, a.AddrOf(index))
	}

	*owned = (*owned)[:held-count]

	a.invokeHook(HookPosFramesFreed, FrameEvent{
		Op:        OpFree,
		Requested: count,
		Addrs:     freed,
		FreeAfter: a.FreeCount(),
	})

	return nil
}

// framesToRelease validates the tail of an owner list and returns the frame
// indices in release order, last address first.
func (a *Allocator) framesToRelease(tail []uint64) ([]int, error) {
	var seen [MaxFrames]bool

	indices := make([]int, 0, len(tail))

	for i := len(tail) - 1; i >= 0; i-- {
		index, err := a.IndexOf(tail[i])
		if err != nil {
			return nil, err
		}

		if index == 0 {
			return nil, fmt.Errorf("%w: frame 0 is reserved",
				ErrInvalidFrameAddress)
		}

		if seen[index] || a.bits.isFree(index) {
			return nil, fmt.Errorf("%w: 0x%x", ErrDoubleFree, tail[i])
		}

		seen[index] = true
		indices = append(indices, index)
	}

	return indices, nil
}

// FreeCount returns the number of free frames. Frame 0 is never counted.
func (a *Allocator) FreeCount() int {
	return a.bits.countFree(1, a.numFrames)
}

// AllocatedCount returns the number of frames that are not free, frame 0
// included.
func (a *Allocator) AllocatedCount() int {
	return a.numFrames - a.FreeCount()
}

// FirstFreeBit returns the lowest free frame index. It reports false when
// every frame is allocated.
func (a *Allocator) FirstFreeBit() (int, bool) {
	return a.bits.firstFreeFrom(1, a.numFrames)
}

// IsFree reports whether frame index is free. Frame 0 and indices outside the
// memory are never free.
func (a *Allocator) IsFree(index int) bool {
	if index <= 0 || index >= a.numFrames {
		return false
	}

	return a.bits.isFree(index)
}

// BitmapSnapshot returns a copy of the packed bitmap.
func (a *Allocator) BitmapSnapshot() Bitmap {
	var b Bitmap
	copy(b[:], a.bits)

	return b
}

// BitmapString formats the current bitmap, see Bitmap.String.
func (a *Allocator) BitmapString() string {
	return a.BitmapSnapshot().String()
}

// ReadFrame returns a copy of the content of the frame that starts at addr.
func (a *Allocator) ReadFrame(addr uint64) ([]byte, error) {
	if _, err := a.IndexOf(addr); err != nil {
		return nil, err
	}

	return a.storage.Read(addr, a.frameSize)
}

// WriteFrame stores data at the beginning of an allocated frame.
func (a *Allocator) WriteFrame(addr uint64, data []byte) error {
	index, err := a.IndexOf(addr)
	if err != nil {
		return err
	}

	if index == 0 {
		return fmt.Errorf("%w: frame 0 is reserved", ErrInvalidFrameAddress)
	}

	if a.bits.isFree(index) {
		return fmt.Errorf("%w: 0x%x", ErrFrameNotAllocated, addr)
	}

	if uint64(len(data)) > a.frameSize {
		return fmt.Errorf("framealloc: %d bytes do not fit in a 0x%x-byte frame",
			len(data), a.frameSize)
	}

	return a.storage.Write(addr, data)
}

var _ hooking.NamedHookable = (*Allocator)(nil)
