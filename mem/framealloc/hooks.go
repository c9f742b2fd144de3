package framealloc

import "github.com/sarchlab/framesim/instrumentation/hooking"

var (
	// HookPosFramesAllocated fires after a successful allocation.
	HookPosFramesAllocated = &hooking.HookPos{Name: "FramesAllocated"}

	// HookPosFramesFreed fires after a successful free.
	HookPosFramesFreed = &hooking.HookPos{Name: "FramesFreed"}

	// HookPosRequestRejected fires when an allocation or a free fails.
	HookPosRequestRejected = &hooking.HookPos{Name: "RequestRejected"}
)

// Op identifies the allocator operation behind a FrameEvent.
type Op int

// The operations that raise hooks.
const (
	OpAllocate Op = iota
	OpFree
)

func (o Op) String() string {
	switch o {
	case OpAllocate:
		return "allocate"
	case OpFree:
		return "free"
	default:
		return "unknown"
	}
}

// A FrameEvent is the Item of every hook raised by an Allocator.
type FrameEvent struct {
	Op        Op
	Requested int

	// Addrs lists the frames that changed state, in the order they changed.
	// It is empty for rejected requests.
	Addrs []uint64

	// FreeAfter is the free count once the operation completed.
	FreeAfter int

	// Err is the reason of a rejection, nil otherwise.
	Err error
}

func (a *Allocator) invokeHook(pos *hooking.HookPos, evt FrameEvent) {
	if a.NumHooks() == 0 {
		return
	}

	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    pos,
		Item:   evt,
	})
}

func (a *Allocator) reject(op Op, requested int, err error) error {
	a.invokeHook(HookPosRequestRejected, FrameEvent{
		Op:        op,
		Requested: requested,
		FreeAfter: a.FreeCount(),
		Err:       err,
	})

	return err
}
