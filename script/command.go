// Package script reads and executes frame allocation scripts.
//
// A script starts with the number of frames in hex. Every following line is a
// command:
//
//	G <owner> <count>   allocate count frames for owner
//	F <owner> <count>   free the last count frames of owner
//	B                   print the bitmap
//
// Owners and counts are hex numbers. Any first token that is neither an
// allocation nor a free prints the bitmap.
package script

// Op is the action of a command.
type Op int

// The script operations.
const (
	OpShowBitmap Op = iota
	OpAllocate
	OpFree
)

func (o Op) String() string {
	switch o {
	case OpAllocate:
		return "G"
	case OpFree:
		return "F"
	default:
		return "B"
	}
}

// A Command is one parsed script line.
type Command struct {
	// Line is the 1-based line number in the script.
	Line int

	// Text is the line as written, without the line terminator.
	Text string

	Op    Op
	Owner int
	Count int
}

// A Script is a parsed script.
type Script struct {
	NumFrames int
	Commands  []Command
}
