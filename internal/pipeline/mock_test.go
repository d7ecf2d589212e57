package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/oews-cli/internal/model"
)

// --- RunLog Mock ---

type mockRunLog struct {
	mock.Mock
}

func (m *mockRunLog) StartRun(ctx context.Context) (*model.Run, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockRunLog) RecordBatches(ctx context.Context, runID string, outcomes []model.BatchOutcome) error {
	args := m.Called(ctx, runID, outcomes)
	return args.Error(0)
}

func (m *mockRunLog) FinishRun(ctx context.Context, runID string, summary model.RunSummary, runErr error) error {
	args := m.Called(ctx, runID, summary, runErr)
	return args.Error(0)
}

// --- RecordSink Mock ---

type mockSink struct {
	mock.Mock
}

func (m *mockSink) SaveRecords(ctx context.Context, records []model.FlatRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}
