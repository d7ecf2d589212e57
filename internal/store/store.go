// Package store persists pipeline output and run history.
package store

import (
	"context"

	"github.com/sells-group/oews-cli/internal/model"
)

// RecordSink receives reconciled records for durable storage.
type RecordSink interface {
	SaveRecords(ctx context.Context, records []model.FlatRecord) (int64, error)
}

// RunLog records the lifecycle of pipeline runs.
type RunLog interface {
	StartRun(ctx context.Context) (*model.Run, error)
	RecordBatches(ctx context.Context, runID string, outcomes []model.BatchOutcome) error
	FinishRun(ctx context.Context, runID string, summary model.RunSummary, runErr error) error
}

var (
	_ RecordSink = (*PostgresStore)(nil)
	_ RunLog     = (*SQLiteStore)(nil)
)
