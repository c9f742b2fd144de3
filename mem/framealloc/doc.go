// Package framealloc implements a fixed-capacity page-frame allocator that
// tracks frame availability in a packed bitmap.
//
// The simulated memory is divided into NumFrames frames of FrameSize bytes.
// Frame n is represented by bit n%8 of byte n/8 of the bitmap, where bit 0 is
// the least significant bit. A 1 bit marks a free frame and a 0 bit marks an
// allocated one. The bitmap itself lives in the first bytes of frame 0, so
// frame 0 is reserved for the allocator and is never handed out.
//
// Frames are always allocated lowest index first and need not be contiguous.
// Callers keep the list of frame addresses they own; Free releases frames from
// the tail of that list.
//
// An Allocator is not safe for concurrent use.
package framealloc
