package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/framesim/mem/framealloc"
	"github.com/sarchlab/framesim/script"
	"github.com/sarchlab/framesim/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run an allocation script.",
	Long: "`run <script>` reads the frame count and the commands from the " +
		"script file and prints the outcome of every command.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readRunConfig(cmd)
		if err != nil {
			log.Fatalf("Error reading configuration: %v", err)
		}

		if err := runScript(args[0], cfg); err != nil {
			log.Fatalf("Error running %s: %v", args[0], err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(c *cobra.Command) {
	c.Flags().Uint64("frame-size", 0,
		"Frame size in bytes. Defaults to FRAMESIM_FRAME_SIZE or 0x400.")
	c.Flags().Int("owners", 0,
		"Number of owner slots. Defaults to FRAMESIM_OWNERS or 4.")
	c.Flags().String("record", "",
		"Record frame events into <path>.sqlite3.")
	c.Flags().String("csv", "",
		"Write frame events into <path>.csv.")
	c.Flags().Bool("monitor", false,
		"Serve the allocator state over HTTP.")
	c.Flags().Int("monitor-port", 0,
		"Port of the monitor. Defaults to FRAMESIM_MONITOR_PORT or a "+
			"random port.")
	c.Flags().Bool("open-browser", false,
		"Open the monitor in a browser.")
	c.Flags().Bool("stats", false,
		"Print event counters to stderr when the script finishes.")
}

func readRunConfig(cmd *cobra.Command) (runConfig, error) {
	var cfg runConfig
	var err error

	flags := cmd.Flags()

	cfg.FrameSize, _ = flags.GetUint64("frame-size")
	if !flags.Changed("frame-size") {
		cfg.FrameSize, err = envUint("FRAMESIM_FRAME_SIZE",
			framealloc.DefaultFrameSize)
		if err != nil {
			return cfg, err
		}
	}

	cfg.Owners, _ = flags.GetInt("owners")
	if !flags.Changed("owners") {
		cfg.Owners, err = envInt("FRAMESIM_OWNERS", script.DefaultNumOwners)
		if err != nil {
			return cfg, err
		}
	}

	cfg.MonitorPort, _ = flags.GetInt("monitor-port")
	if !flags.Changed("monitor-port") {
		cfg.MonitorPort, err = envInt("FRAMESIM_MONITOR_PORT", 0)
		if err != nil {
			return cfg, err
		}
	}

	cfg.Record, _ = flags.GetString("record")
	cfg.CSV, _ = flags.GetString("csv")
	cfg.Monitor, _ = flags.GetBool("monitor")
	cfg.OpenBrowser, _ = flags.GetBool("open-browser")
	cfg.Stats, _ = flags.GetBool("stats")

	if cfg.Owners <= 0 {
		return cfg, fmt.Errorf("owners must be positive, got %d", cfg.Owners)
	}

	return cfg, nil
}

func (c runConfig) builder(numFrames int) simulation.Builder {
	b := simulation.MakeBuilder().
		WithNumFrames(numFrames).
		WithFrameSize(c.FrameSize).
		WithNumOwners(c.Owners).
		WithOutput(os.Stdout)

	if c.Record != "" {
		b = b.WithRecording(c.Record)
	}

	if c.CSV != "" {
		b = b.WithCSVTrace(c.CSV)
	}

	if c.Monitor {
		b = b.WithMonitor(c.MonitorPort)
		if c.OpenBrowser {
			b = b.WithOpenBrowser()
		}
	}

	return b
}

func runScript(path string, cfg runConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := script.Parse(f)
	if err != nil {
		return err
	}

	sim, err := cfg.builder(s.NumFrames).Build()
	if err != nil {
		return err
	}
	defer sim.Terminate()

	if err := sim.Run(s); err != nil {
		return err
	}

	if cfg.Stats {
		st := sim.Stats()
		fmt.Fprintf(os.Stderr,
			"allocations %d (%d rejected), frees %d (%d rejected), "+
				"lowest free %d\n",
			st.Allocations, st.RejectedAllocations,
			st.Frees, st.RejectedFrees, st.LowestFree)
	}

	return nil
}
