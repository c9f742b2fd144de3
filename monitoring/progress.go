package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many commands of a script have run. It satisfies
// script.Progress.
type ProgressBar struct {
	lock sync.Mutex

	ID        string
	Name      string
	StartTime time.Time
	Total     uint64
	Finished  uint64
}

// IncrementFinished marks amount more commands as done.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.Finished += amount
}

type progressSnapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`

	// Elapsed and Remaining are in seconds. Remaining is a linear estimate
	// and is -1 until the first command finishes.
	Elapsed   float64 `json:"elapsed"`
	Remaining float64 `json:"remaining"`
}

func (b *ProgressBar) snapshot() progressSnapshot {
	b.lock.Lock()
	defer b.lock.Unlock()

	elapsed := time.Since(b.StartTime).Seconds()
	remaining := -1.0

	if b.Finished > 0 && b.Finished <= b.Total {
		perCommand := elapsed / float64(b.Finished)
		remaining = perCommand * float64(b.Total-b.Finished)
	}

	return progressSnapshot{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Finished:  b.Finished,
		Elapsed:   elapsed,
		Remaining: remaining,
	}
}
