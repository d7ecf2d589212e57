package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/oews-cli/internal/bls"
	"github.com/sells-group/oews-cli/internal/catalog"
	"github.com/sells-group/oews-cli/internal/config"
	"github.com/sells-group/oews-cli/internal/fetcher"
	"github.com/sells-group/oews-cli/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch OEWS series from the BLS API and write the results",
	Long: "Generates the configured series IDs, submits them to the BLS API in sequential batches, " +
		"keeps the annual (A01) observation of each series and writes a flat CSV. " +
		"Optionally writes a wide XLSX and upserts the records into Postgres.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := applyFetchFlags(cmd, cfg); err != nil {
			return err
		}
		persist, _ := cmd.Flags().GetBool("persist")
		return runFetch(cmd.Context(), cfg, cmd.OutOrStdout(), persist)
	},
}

func init() {
	bindFetchFlags(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}

func bindFetchFlags(cmd *cobra.Command) {
	cmd.Flags().String("output", "oews_batch_results.csv", "flat CSV output path (overrides output.csv_path)")
	cmd.Flags().String("xlsx", "", "also write the wide table to this XLSX path")
	cmd.Flags().Int("batch-size", 50, "series per request, at most 50 (overrides batch.size)")
	cmd.Flags().Bool("persist", false, "upsert records into Postgres (requires store.database_url)")
	cmd.Flags().Int("preview", 10, "wide rows to print after the run, 0 to disable (overrides output.preview_rows)")
}

// applyFetchFlags copies explicitly set flags over the loaded config.
func applyFetchFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		v, err := flags.GetString("output")
		if err != nil {
			return err
		}
		c.Output.CSVPath = v
	}
	if flags.Changed("xlsx") {
		v, err := flags.GetString("xlsx")
		if err != nil {
			return err
		}
		c.Output.XLSXPath = v
	}
	if flags.Changed("batch-size") {
		v, err := flags.GetInt("batch-size")
		if err != nil {
			return err
		}
		c.Batch.Size = v
	}
	if flags.Changed("preview") {
		v, err := flags.GetInt("preview")
		if err != nil {
			return err
		}
		c.Output.PreviewRows = v
	}
	return nil
}

func runFetch(ctx context.Context, c *config.Config, out io.Writer, persist bool) error {
	if err := c.ValidateFetch(); err != nil {
		return err
	}

	cat, err := catalog.Load(c.Series.Reference)
	if err != nil {
		return err
	}

	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: c.BLS.UserAgent,
		Timeout:   c.BLS.Timeout(),
	})
	client := bls.NewClient(c.BLS.APIKey, httpFetcher,
		bls.WithBaseURL(c.BLS.BaseURL),
		bls.WithYears(c.BLS.StartYear, c.BLS.EndYear),
	)

	deps := pipeline.Deps{Client: client, Catalog: cat, Out: out}

	if c.Store.RunLogPath != "" {
		runLog, err := openRunLog(ctx, c.Store.RunLogPath)
		if err != nil {
			return err
		}
		defer runLog.Close() //nolint:errcheck
		deps.RunLog = runLog
	}

	if persist {
		sink, err := openSink(ctx, c.Store)
		if err != nil {
			return err
		}
		defer sink.Close()
		deps.Sink = sink
	}

	p, err := pipeline.New(c, deps)
	if err != nil {
		return err
	}

	sum, err := p.Run(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\nDone: %d of %d series retrieved in %d batches (%d failed), %d rows in %s\n",
		sum.SeriesRetrieved, sum.SeriesGenerated, sum.Batches, sum.FailedBatches, sum.Records, sum.OutputPath)
	zap.L().Info("fetch complete", zap.String("run_id", sum.RunID), zap.Int("records", sum.Records))
	return nil
}
