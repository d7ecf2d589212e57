package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/oews-cli/internal/catalog"
	"github.com/sells-group/oews-cli/internal/model"
	"github.com/sells-group/oews-cli/internal/pipeline"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Print the generated series IDs without contacting the API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		cat, err := catalog.Load(cfg.Series.Reference)
		if err != nil {
			return err
		}
		plan, err := pipeline.BuildPlan(cfg.Series, cat)
		if err != nil {
			return err
		}

		withCodes, _ := cmd.Flags().GetBool("codes")
		writeSeries(cmd.OutOrStdout(), plan.Series, withCodes)
		return nil
	},
}

func init() {
	seriesCmd.Flags().Bool("codes", false, "include the area, occupation and datatype codes of each ID")
	rootCmd.AddCommand(seriesCmd)
}

// writeSeries prints one series per line.
func writeSeries(out io.Writer, meta []model.SeriesMeta, withCodes bool) {
	if !withCodes {
		for _, m := range meta {
			_, _ = fmt.Fprintln(out, m.ID)
		}
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SERIES_ID\tSTATE\tOCCUPATION\tDATATYPE")
	for _, m := range meta {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.AreaCode, m.OccupationCode, m.DataTypeCode)
	}
	_ = w.Flush()
}
