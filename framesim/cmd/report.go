package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/framesim/datarecording"
	"github.com/sarchlab/framesim/tracing"
)

var reportCmd = &cobra.Command{
	Use:   "report <recording.sqlite3>",
	Short: "Summarize a recording made with `run --record`.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")
		rejected, _ := cmd.Flags().GetBool("rejected")

		err := report(cmd.Context(), os.Stdout, args[0], reportQuery{
			Kind:     kind,
			Limit:    limit,
			Rejected: rejected,
		})
		if err != nil {
			log.Fatalf("Error reading %s: %v", args[0], err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("kind", "", "Only list allocate or free events.")
	reportCmd.Flags().Int("limit", 0, "List at most this many events.")
	reportCmd.Flags().Bool("rejected", false, "Only list rejected events.")
}

type reportQuery struct {
	Kind     string
	Limit    int
	Rejected bool
}

func (q reportQuery) params() datarecording.QueryParams {
	p := datarecording.QueryParams{Limit: q.Limit}

	if q.Kind != "" {
		p.Where = "Kind = ?"
		p.Args = append(p.Args, q.Kind)
	}

	if q.Rejected {
		if p.Where != "" {
			p.Where += " AND "
		}
		p.Where += "Rejected = 1"
	}

	return p
}

func report(ctx context.Context, w io.Writer, path string, q reportQuery) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := datarecording.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	events, total, err := tracing.LoadEvents(ctx, reader, q.params())
	if err != nil {
		return err
	}

	stats := tracing.NewStatsTracer(nil)
	for _, e := range events {
		fmt.Fprintf(w, "%s %s %-8s requested=%d free=%d frames=%s",
			e.ID, e.Domain, e.Kind, e.Requested, e.FreeAfter,
			tracing.FormatFrames(e.Frames))
		if e.Rejected {
			fmt.Fprintf(w, " rejected: %s", e.Error)
		}
		fmt.Fprintln(w)

		stats.Record(e)
	}

	st := stats.Stats()
	fmt.Fprintf(w, "%d of %d events; %d frames allocated, %d frames freed\n",
		len(events), total, st.FramesAllocated, st.FramesFreed)

	return nil
}
