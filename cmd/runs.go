package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/oews-cli/internal/model"
	"github.com/sells-group/oews-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded fetch runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openRunLog(ctx, cfg.Store.RunLogPath)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(cmd.OutOrStdout(), runs)
		return nil
	},
}

var runsBatchesCmd = &cobra.Command{
	Use:   "batches <run-id>",
	Short: "Show the batch outcomes of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openRunLog(ctx, cfg.Store.RunLogPath)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		batches, err := st.ListBatches(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs batches")
		}

		formatBatches(cmd.OutOrStdout(), batches)
		return nil
	},
}

func init() {
	runsCmd.Flags().Int("limit", store.DefaultRunLimit, "max number of runs to display")

	runsCmd.AddCommand(runsBatchesCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to out.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tSTARTED\tDURATION\tSERIES\tRETRIEVED\tFAILED\tRECORDS\tERROR")
	_, _ = fmt.Fprintln(w, "--\t------\t-------\t--------\t------\t---------\t------\t-------\t-----")

	for _, r := range runs {
		dur := ""
		if r.FinishedAt != nil {
			dur = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}

		errMsg := r.Error
		if len(errMsg) > 40 {
			errMsg = errMsg[:37] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			truncateID(r.ID),
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04"),
			dur,
			r.Summary.SeriesGenerated,
			r.Summary.SeriesRetrieved,
			r.Summary.FailedBatches,
			r.Summary.Records,
			errMsg,
		)
	}
	_ = w.Flush()
}

// formatBatches writes per-batch outcomes to out.
func formatBatches(out io.Writer, batches []model.BatchOutcome) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "BATCH\tSIZE\tRETRIEVED\tRESULT")
	for _, b := range batches {
		result := "ok"
		if !b.OK() {
			result = b.Error
		}
		_, _ = fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", b.Index, b.Size, b.Retrieved, result)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
