package tracing

import (
	"github.com/sarchlab/framesim/datarecording"
)

// EventTableName is the table DBTracer writes into.
const EventTableName = "frame_events"

type eventTableEntry struct {
	ID        string
	Domain    string
	Kind      string
	Rejected  bool
	Requested int
	Frames    string
	FreeAfter int
	Error     string
}

// DBTracer stores events through a DataRecorder.
type DBTracer struct {
	backend datarecording.DataRecorder
	filter  EventFilter
}

// NewDBTracer creates the event table and returns a tracer writing into it.
func NewDBTracer(
	backend datarecording.DataRecorder,
	filter EventFilter,
) *DBTracer {
	backend.CreateTable(EventTableName, eventTableEntry{})

	return &DBTracer{
		backend: backend,
		filter:  filter,
	}
}

// Record buffers an event in the recorder.
func (t *DBTracer) Record(e Event) {
	if t.filter != nil && !t.filter(e) {
		return
	}

	t.backend.InsertData(EventTableName, eventTableEntry{
		ID:        e.ID,
		Domain:    e.Domain,
		Kind:      e.Kind,
		Rejected:  e.Rejected,
		Requested: e.Requested,
		Frames:    FormatFrames(e.Frames),
		FreeAfter: e.FreeAfter,
		Error:     e.Error,
	})
}
