package model

import "time"

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunSummary holds the counters reported at the end of a run.
type RunSummary struct {
	SeriesGenerated int    `json:"series_generated"`
	Batches         int    `json:"batches"`
	FailedBatches   int    `json:"failed_batches"`
	SeriesRetrieved int    `json:"series_retrieved"`
	Records         int    `json:"records"`
	WideRows        int    `json:"wide_rows"`
	OutputPath      string `json:"output_path,omitempty"`
}

// Run is one recorded pipeline execution.
type Run struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	Summary    RunSummary `json:"summary"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// BatchOutcome is the persisted form of one batch submission.
type BatchOutcome struct {
	Index     int    `json:"index"`
	Size      int    `json:"size"`
	Retrieved int    `json:"retrieved"`
	Error     string `json:"error,omitempty"`
}

// OK reports whether the batch succeeded.
func (b BatchOutcome) OK() bool { return b.Error == "" }
