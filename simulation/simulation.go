// Package simulation assembles an allocator, a script runner and the optional
// recorders and monitor into one runnable simulation.
package simulation

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/framesim/datarecording"
	"github.com/sarchlab/framesim/mem/framealloc"
	"github.com/sarchlab/framesim/monitoring"
	"github.com/sarchlab/framesim/script"
	"github.com/sarchlab/framesim/tracing"
)

// A Simulation runs scripts against one allocator.
type Simulation struct {
	id  string
	log logrus.FieldLogger

	alloc      *framealloc.Allocator
	runner     *script.Runner
	stats      *tracing.StatsTracer
	recorder   datarecording.DataRecorder
	csv        *tracing.CSVTracer
	monitor    *monitoring.Monitor
	monitorURL string
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Allocator returns the simulated allocator.
func (s *Simulation) Allocator() *framealloc.Allocator {
	return s.alloc
}

// Runner returns the script runner.
func (s *Simulation) Runner() *script.Runner {
	return s.runner
}

// Stats returns the event counters collected so far.
func (s *Simulation) Stats() tracing.Stats {
	return s.stats.Stats()
}

// Monitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitor, or "" if monitoring is off.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Run executes a script. The script must target the memory size the
// simulation was built with.
func (s *Simulation) Run(sc *script.Script) error {
	if sc.NumFrames != s.alloc.NumFrames() {
		s.log.WithFields(logrus.Fields{
			"script_frames": sc.NumFrames,
			"frames":        s.alloc.NumFrames(),
		}).Warn("script frame count differs from the simulated memory")
	}

	if s.monitor != nil {
		bar := s.monitor.CreateProgressBar("script", uint64(len(sc.Commands)))
		s.runner.WithProgress(bar)
		defer s.monitor.CompleteProgressBar(bar)
	}

	return s.runner.Run(sc)
}

// Terminate flushes the recorders and stops the monitor.
func (s *Simulation) Terminate() {
	if s.recorder != nil {
		if err := s.recorder.Close(); err != nil {
			s.log.WithError(err).Error("closing recorder")
		}
		s.recorder = nil
	}

	if s.csv != nil {
		if err := s.csv.Close(); err != nil {
			s.log.WithError(err).Error("closing CSV trace")
		}
		s.csv = nil
	}

	if s.monitor != nil {
		if err := s.monitor.StopServer(); err != nil {
			s.log.WithError(err).Error("stopping monitor")
		}
	}
}
