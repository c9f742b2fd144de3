package tracing

import "sync"

// Stats summarizes the events seen by a StatsTracer.
type Stats struct {
	Allocations         int `json:"allocations"`
	Frees               int `json:"frees"`
	RejectedAllocations int `json:"rejected_allocations"`
	RejectedFrees       int `json:"rejected_frees"`
	FramesAllocated     int `json:"frames_allocated"`
	FramesFreed         int `json:"frames_freed"`

	// LowestFree is the smallest free count observed, -1 before the first
	// event.
	LowestFree int `json:"lowest_free"`
}

// StatsTracer counts events. It is safe to read while the simulation runs.
type StatsTracer struct {
	filter EventFilter

	lock  sync.Mutex
	stats Stats
}

// NewStatsTracer creates a StatsTracer. A nil filter counts every event.
func NewStatsTracer(filter EventFilter) *StatsTracer {
	return &StatsTracer{
		filter: filter,
		stats:  Stats{LowestFree: -1},
	}
}

// Record counts an event.
func (t *StatsTracer) Record(e Event) {
	if t.filter != nil && !t.filter(e) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	switch {
	case e.Kind == "allocate" && e.Rejected:
		t.stats.RejectedAllocations++
	case e.Kind == "allocate":
		t.stats.Allocations++
		t.stats.FramesAllocated += len(e.Frames)
	case e.Kind == "free" && e.Rejected:
		t.stats.RejectedFrees++
	case e.Kind == "free":
		t.stats.Frees++
		t.stats.FramesFreed += len(e.Frames)
	}

	if t.stats.LowestFree < 0 || e.FreeAfter < t.stats.LowestFree {
		t.stats.LowestFree = e.FreeAfter
	}
}

// Stats returns a copy of the counters.
func (t *StatsTracer) Stats() Stats {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.stats
}
