package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTracer writes events into a CSV file.
type CSVTracer struct {
	path string
	file *os.File

	events     []Event
	bufferSize int
}

// NewCSVTracer creates a CSVTracer writing into path + ".csv". Call Init
// before recording.
func NewCSVTracer(path string) *CSVTracer {
	return &CSVTracer{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the CSV file. An empty path picks a unique name. Buffered
// events are flushed when the program exits through atexit.Exit.
func (t *CSVTracer) Init() error {
	if t.path == "" {
		t.path = "framesim_trace_" + xid.New().String()
	}

	filename := t.Filename()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	t.file = file

	fmt.Fprintf(file, "ID, Domain, Kind, Rejected, Requested, Frames, FreeAfter, Error\n")

	atexit.Register(func() {
		if err := t.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing %s: %v\n", filename, err)
		}
	})

	return nil
}

// Filename returns the path of the CSV file.
func (t *CSVTracer) Filename() string {
	return t.path + ".csv"
}

// Record buffers an event.
func (t *CSVTracer) Record(e Event) {
	t.events = append(t.events, e)
	if len(t.events) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered events.
func (t *CSVTracer) Flush() {
	if t.file == nil {
		return
	}

	for _, e := range t.events {
		fmt.Fprintf(t.file, "%s, %s, %s, %t, %d, %s, %d, %q\n",
			e.ID,
			e.Domain,
			e.Kind,
			e.Rejected,
			e.Requested,
			FormatFrames(e.Frames),
			e.FreeAfter,
			e.Error,
		)
	}

	t.events = nil
}

// Close flushes and closes the file. Closing twice is a no-op.
func (t *CSVTracer) Close() error {
	if t.file == nil {
		return nil
	}

	t.Flush()
	err := t.file.Close()
	t.file = nil

	return err
}
