// Package pipeline runs the OEWS retrieval end to end: generate series,
// fetch them in batches, reconcile, reshape and write the reports.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/oews-cli/internal/batch"
	"github.com/sells-group/oews-cli/internal/bls"
	"github.com/sells-group/oews-cli/internal/catalog"
	"github.com/sells-group/oews-cli/internal/config"
	"github.com/sells-group/oews-cli/internal/model"
	"github.com/sells-group/oews-cli/internal/reconcile"
	"github.com/sells-group/oews-cli/internal/report"
	"github.com/sells-group/oews-cli/internal/series"
	"github.com/sells-group/oews-cli/internal/store"
)

// Deps are the collaborators of a Pipeline. Client and Catalog are required;
// the rest are optional.
type Deps struct {
	Client  bls.Client
	Catalog *catalog.Catalog
	Sink    store.RecordSink
	RunLog  store.RunLog
	// Out receives console progress and the preview. Defaults to io.Discard.
	Out io.Writer
	// Sleep overrides the inter-batch wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Summary describes a completed run.
type Summary struct {
	model.RunSummary
	RunID     string
	XLSXPath  string
	Persisted int64
	Table     *report.WideTable
}

// Pipeline orchestrates a single retrieval run.
type Pipeline struct {
	cfg  *config.Config
	deps Deps
}

// New creates a Pipeline.
func New(cfg *config.Config, deps Deps) (*Pipeline, error) {
	if cfg == nil {
		return nil, eris.New("pipeline: config is required")
	}
	if deps.Client == nil {
		return nil, eris.New("pipeline: bls client is required")
	}
	if deps.Catalog == nil {
		return nil, eris.New("pipeline: catalog is required")
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	return &Pipeline{cfg: cfg, deps: deps}, nil
}

// Run executes every stage in order. Per-batch failures are reported and
// skipped; a reconcile error aborts the run before any file is written.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	log := zap.L().With(zap.String("component", "pipeline"))

	plan, err := BuildPlan(p.cfg.Series, p.deps.Catalog)
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	sum.SeriesGenerated = len(plan.Series)
	p.printf("Generated %d series IDs\n", sum.SeriesGenerated)
	log.Debug("pipeline: series generated",
		zap.Int("areas", len(plan.Axes.Areas)),
		zap.Int("occupations", len(plan.Axes.Occupations)),
		zap.Int("datatypes", len(plan.Axes.DataTypes)),
		zap.Int("series", sum.SeriesGenerated),
	)

	if p.deps.RunLog != nil {
		run, runErr := p.deps.RunLog.StartRun(ctx)
		if runErr != nil {
			log.Warn("pipeline: failed to start run log", zap.Error(runErr))
		} else {
			sum.RunID = run.ID
			log = log.With(zap.String("run_id", run.ID))
		}
	}

	err = p.execute(ctx, log, plan, sum)
	p.finishRun(ctx, log, sum, err)
	return sum, err
}

func (p *Pipeline) execute(ctx context.Context, log *zap.Logger, plan *Plan, sum *Summary) error {
	fetcher := batch.New(p.deps.Client, batch.Options{
		Size:  p.cfg.Batch.Size,
		Delay: p.cfg.Batch.Delay(),
		Sleep: p.deps.Sleep,
		OnResult: func(r batch.Result) {
			if r.OK() {
				p.printf("Batch %d/%d: retrieved %d series\n", r.Index, r.Total, len(r.Series))
				return
			}
			p.printf("Batch %d/%d failed: %v\n", r.Index, r.Total, r.Err)
		},
	})

	results, err := fetcher.Run(ctx, series.IDs(plan.Series))
	sum.Batches = len(results)
	sum.FailedBatches = batch.Failed(results)
	p.recordBatches(ctx, log, sum.RunID, results)
	if err != nil {
		return eris.Wrap(err, "pipeline: fetch")
	}

	raw := batch.Collect(results)
	sum.SeriesRetrieved = len(raw)
	p.printf("Retrieved %d series\n", sum.SeriesRetrieved)

	records, err := reconcile.Records(reconcile.NewIndex(plan.Series), raw)
	if err != nil {
		return eris.Wrap(err, "pipeline: reconcile")
	}
	sum.Records = len(records)

	table := report.Pivot(report.Label(records, plan.Labels))
	sum.Table = table
	sum.WideRows = len(table.Rows)

	out := p.cfg.Output
	if err := report.WriteFlatCSVFile(out.CSVPath, records); err != nil {
		return eris.Wrap(err, "pipeline: write csv")
	}
	sum.OutputPath = out.CSVPath
	p.printf("Saved %d records to %s\n", sum.Records, out.CSVPath)
	log.Debug("pipeline: csv written", zap.String("path", out.CSVPath), zap.Int("records", sum.Records))

	if out.XLSXPath != "" {
		if err := report.WriteWideXLSX(out.XLSXPath, table); err != nil {
			return eris.Wrap(err, "pipeline: write xlsx")
		}
		sum.XLSXPath = out.XLSXPath
		p.printf("Saved wide table to %s\n", out.XLSXPath)
	}

	if p.deps.Sink != nil {
		n, err := p.deps.Sink.SaveRecords(ctx, records)
		if err != nil {
			return eris.Wrap(err, "pipeline: persist records")
		}
		sum.Persisted = n
		p.printf("Persisted %d rows\n", n)
	}

	if out.PreviewRows > 0 && len(table.Rows) > 0 {
		p.printf("\n")
		report.WritePreview(p.deps.Out, table, out.PreviewRows)
	}

	log.Debug("pipeline: complete",
		zap.Int("batches", sum.Batches),
		zap.Int("failed_batches", sum.FailedBatches),
		zap.Int("series_retrieved", sum.SeriesRetrieved),
		zap.Int("records", sum.Records),
		zap.Int("wide_rows", sum.WideRows),
	)
	return nil
}

// recordBatches and finishRun write to the run log even after cancellation.
func (p *Pipeline) recordBatches(ctx context.Context, log *zap.Logger, runID string, results []batch.Result) {
	if p.deps.RunLog == nil || runID == "" {
		return
	}
	outcomes := make([]model.BatchOutcome, len(results))
	for i, r := range results {
		outcomes[i] = r.Outcome()
	}
	if err := p.deps.RunLog.RecordBatches(context.WithoutCancel(ctx), runID, outcomes); err != nil {
		log.Warn("pipeline: failed to record batches", zap.Error(err))
	}
}

func (p *Pipeline) finishRun(ctx context.Context, log *zap.Logger, sum *Summary, runErr error) {
	if p.deps.RunLog == nil || sum.RunID == "" {
		return
	}
	if err := p.deps.RunLog.FinishRun(context.WithoutCancel(ctx), sum.RunID, sum.RunSummary, runErr); err != nil {
		log.Warn("pipeline: failed to finish run log", zap.Error(err))
	}
}

func (p *Pipeline) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.deps.Out, format, args...)
}
