package script

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultNumOwners is the number of owner slots of a Runner.
const DefaultNumOwners = 4

// ErrInvalidOwner is returned for a command naming an owner slot that does
// not exist.
var ErrInvalidOwner = errors.New("script: invalid owner")

// FrameAllocator is the part of an allocator a Runner drives.
type FrameAllocator interface {
	NumFrames() int
	AllocateTo(count int, owned *[]uint64) error
	Free(count int, owned *[]uint64) error
	FreeCount() int
	BitmapString() string
}

// A Progress is told about every executed command.
type Progress interface {
	IncrementFinished(amount uint64)
}

// Result is the outcome of one command.
type Result struct {
	OK        bool
	FreeCount int
	Err       error
}

// A Runner executes commands against an allocator on behalf of a fixed
// number of owners and prints the outcome of each command.
//
// All access to the allocator goes through the Runner, which serializes it.
type Runner struct {
	lock sync.Mutex

	alloc    FrameAllocator
	owners   [][]uint64
	out      io.Writer
	log      logrus.FieldLogger
	progress Progress
	executed int
}

// NewRunner creates a runner with numOwners empty owner lists.
func NewRunner(alloc FrameAllocator, numOwners int, out io.Writer) *Runner {
	if numOwners <= 0 {
		panic(fmt.Sprintf("script: %d owners requested", numOwners))
	}

	return &Runner{
		alloc:  alloc,
		owners: make([][]uint64, numOwners),
		out:    out,
		log:    logrus.WithField("component", "runner"),
	}
}

// WithLogger replaces the logger.
func (r *Runner) WithLogger(l logrus.FieldLogger) *Runner {
	r.log = l
	return r
}

// WithProgress reports each executed command to p.
func (r *Runner) WithProgress(p Progress) *Runner {
	r.progress = p
	return r
}

// Run prints the header and executes every command of s in order. It stops
// at the first command that names an invalid owner.
func (r *Runner) Run(s *Script) error {
	if err := r.WriteHeader(); err != nil {
		return err
	}

	for _, cmd := range s.Commands {
		if _, err := r.Execute(cmd); err != nil {
			return err
		}
	}

	r.log.WithField("commands", len(s.Commands)).Debug("script completed")

	return nil
}

// WriteHeader prints the number of frames.
func (r *Runner) WriteHeader() error {
	_, err := fmt.Fprintf(r.out, "+%x\n", r.alloc.NumFrames())
	return err
}

// Execute runs one command and prints its outcome. A failed allocation or
// free is reported in the result, not as an error.
func (r *Runner) Execute(cmd Command) (Result, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if cmd.Op == OpShowBitmap {
		_, err := fmt.Fprintf(r.out, "+B\n%s\n", r.alloc.BitmapString())
		r.finish()

		return Result{OK: true, FreeCount: r.alloc.FreeCount()}, err
	}

	if cmd.Owner < 0 || cmd.Owner >= len(r.owners) {
		if _, err := fmt.Fprintf(r.out, "+%s\n", cmd.Text); err != nil {
			return Result{}, err
		}

		return Result{}, fmt.Errorf("%w: line %d: owner %d, %d slots",
			ErrInvalidOwner, cmd.Line, cmd.Owner, len(r.owners))
	}

	var err error
	owned := &r.owners[cmd.Owner]

	switch cmd.Op {
	case OpAllocate:
		err = r.alloc.AllocateTo(cmd.Count, owned)
	case OpFree:
		err = r.alloc.Free(cmd.Count, owned)
	}

	res := Result{
		OK:        err == nil,
		FreeCount: r.alloc.FreeCount(),
		Err:       err,
	}

	fields := logrus.Fields{
		"line":  cmd.Line,
		"op":    cmd.Op.String(),
		"owner": cmd.Owner,
		"count": cmd.Count,
		"free":  res.FreeCount,
	}
	if err != nil {
		r.log.WithFields(fields).WithError(err).Debug("command rejected")
	} else {
		r.log.WithFields(fields).Debug("command executed")
	}

	_, werr := fmt.Fprintf(r.out, "+%s\n %s %x\n",
		cmd.Text, trueOrFalse(res.OK), res.FreeCount)
	r.finish()

	return res, werr
}

func (r *Runner) finish() {
	r.executed++
	if r.progress != nil {
		r.progress.IncrementFinished(1)
	}
}

func trueOrFalse(ok bool) string {
	if ok {
		return "T"
	}

	return "F"
}

// OwnerFrames returns a copy of the frame list of every owner.
func (r *Runner) OwnerFrames() [][]uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()

	res := make([][]uint64, len(r.owners))
	for i, list := range r.owners {
		res[i] = append([]uint64(nil), list...)
	}

	return res
}

// Executed returns the number of commands executed so far.
func (r *Runner) Executed() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.executed
}

// Inspect calls f while no command is running, so that f can read the
// allocator safely from another goroutine.
func (r *Runner) Inspect(f func()) {
	r.lock.Lock()
	defer r.lock.Unlock()

	f()
}
