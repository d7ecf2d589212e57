package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/oews-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	finish := start.Add(95 * time.Second)
	runs := []model.Run{
		{
			ID:         "abc12345-6789-0000-0000-000000000000",
			Status:     model.RunStatusComplete,
			StartedAt:  start,
			FinishedAt: &finish,
			Summary: model.RunSummary{
				SeriesGenerated: 2332,
				SeriesRetrieved: 2330,
				FailedBatches:   0,
				Records:         2300,
			},
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Status:    model.RunStatusRunning,
			StartedAt: start.Add(-time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "RETRIEVED")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-6789")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "2025-06-15 10:30")
	assert.Contains(t, output, "1m35s")
	assert.Contains(t, output, "2332")
	assert.Contains(t, output, "running")
}

func TestFormatRunsList_LongErrorTruncated(t *testing.T) {
	runs := []model.Run{{
		ID:        "run-1",
		Status:    model.RunStatusFailed,
		StartedAt: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		Error:     "pipeline: reconcile: series OEUS0600000011000004 year 2023: invalid syntax",
	}}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "...")
	assert.NotContains(t, output, "invalid syntax")
}

func TestFormatBatches(t *testing.T) {
	var buf bytes.Buffer
	formatBatches(&buf, []model.BatchOutcome{
		{Index: 1, Size: 50, Retrieved: 50},
		{Index: 2, Size: 20, Error: "batch 2: request failed: timeout"},
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "ok")
	assert.Contains(t, string(lines[2]), "request failed")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestOpenRunLog_RequiresPath(t *testing.T) {
	_, err := openRunLog(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run_log_path")
}
