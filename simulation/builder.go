package simulation

import (
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/framesim/datarecording"
	"github.com/sarchlab/framesim/mem/framealloc"
	"github.com/sarchlab/framesim/monitoring"
	"github.com/sarchlab/framesim/script"
	"github.com/sarchlab/framesim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	spec        framealloc.Spec
	numOwners   int
	output      io.Writer
	recordOn    bool
	recordPath  string
	csvOn       bool
	csvPath     string
	monitorOn   bool
	monitorPort int
	openBrowser bool
	logger      logrus.FieldLogger
}

// MakeBuilder creates a new builder. By default, the simulation prints to
// stdout and records nothing.
func MakeBuilder() Builder {
	return Builder{
		spec:      framealloc.Defaults(),
		numOwners: script.DefaultNumOwners,
		output:    os.Stdout,
		logger:    logrus.StandardLogger(),
	}
}

// WithNumFrames sets the number of frames of the simulated memory.
func (b Builder) WithNumFrames(n int) Builder {
	b.spec.NumFrames = n
	return b
}

// WithFrameSize sets the frame size of the simulated memory.
func (b Builder) WithFrameSize(size uint64) Builder {
	b.spec.FrameSize = size
	return b
}

// WithNumOwners sets the number of owner slots.
func (b Builder) WithNumOwners(n int) Builder {
	b.numOwners = n
	return b
}

// WithOutput sets where command outcomes are printed.
func (b Builder) WithOutput(w io.Writer) Builder {
	b.output = w
	return b
}

// WithRecording records frame events into an SQLite database. An empty path
// picks a unique name.
func (b Builder) WithRecording(path string) Builder {
	b.recordOn = true
	b.recordPath = path
	return b
}

// WithCSVTrace writes frame events into a CSV file. An empty path picks a
// unique name.
func (b Builder) WithCSVTrace(path string) Builder {
	b.csvOn = true
	b.csvPath = path
	return b
}

// WithMonitor serves the simulation state over HTTP. A port of 0 picks a
// random port.
func (b Builder) WithMonitor(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port
	return b
}

// WithOpenBrowser opens the monitor in a browser once it is started. It has
// no effect unless the monitor is enabled.
func (b Builder) WithOpenBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithLogger sets the logger of the simulation.
func (b Builder) WithLogger(l logrus.FieldLogger) Builder {
	b.logger = l
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.numOwners <= 0 {
		panic("simulation needs at least one owner")
	}

	if b.output == nil {
		panic("simulation output is not set")
	}
}

// Build builds the simulation. A memory the allocator cannot represent is
// reported as an error.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{id: xid.New().String()}
	s.log = b.logger.WithField("sim", s.id)

	alloc, err := framealloc.NewAllocator("Mem", b.spec)
	if err != nil {
		return nil, err
	}
	s.alloc = alloc

	s.stats = tracing.NewStatsTracer(nil)
	tracing.CollectTrace(alloc, s.stats)

	s.runner = script.NewRunner(alloc, b.numOwners, b.output).
		WithLogger(s.log.WithField("component", "runner"))

	if err := b.buildRecorders(s); err != nil {
		s.Terminate()
		return nil, err
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		s.monitor.RegisterAllocator(alloc, s.runner)
		s.monitor.RegisterStatsTracer(s.stats)

		s.monitorURL, err = s.monitor.StartServer()
		if err != nil {
			s.Terminate()
			return nil, err
		}

		if b.openBrowser {
			if err := s.monitor.OpenInBrowser(s.monitorURL); err != nil {
				s.log.WithError(err).Warn("cannot open browser")
			}
		}
	}

	return s, nil
}

func (b Builder) buildRecorders(s *Simulation) error {
	if b.recordOn {
		recorder, err := datarecording.New(b.recordPath)
		if err != nil {
			return err
		}

		s.recorder = recorder
		tracing.CollectTrace(s.alloc, tracing.NewDBTracer(recorder, nil))
	}

	if b.csvOn {
		csv := tracing.NewCSVTracer(b.csvPath)
		if err := csv.Init(); err != nil {
			return err
		}

		s.csv = csv
		tracing.CollectTrace(s.alloc, csv)
	}

	return nil
}
