package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/oews-cli/internal/model"
)

// DefaultRunLimit caps ListRuns when no limit is given.
const DefaultRunLimit = 20

// SQLiteStore keeps the run log in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	status      TEXT NOT NULL,
	summary     TEXT,
	error       TEXT NOT NULL DEFAULT '',
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS run_batches (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	batch_index INTEGER NOT NULL,
	size        INTEGER NOT NULL,
	retrieved   INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, batch_index)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Migrate creates the run log tables.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// StartRun inserts a new run in the running state.
func (s *SQLiteStore) StartRun(ctx context.Context) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		id, string(model.RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Status:    model.RunStatusRunning,
		StartedAt: now,
	}, nil
}

// RecordBatches stores per-batch outcomes for a run in one transaction.
func (s *SQLiteStore) RecordBatches(ctx context.Context, runID string, outcomes []model.BatchOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin batches tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO run_batches (run_id, batch_index, size, retrieved, error) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare batch insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, o := range outcomes {
		if _, err := stmt.ExecContext(ctx, runID, o.Index, o.Size, o.Retrieved, o.Error); err != nil {
			return eris.Wrapf(err, "sqlite: insert batch %d for run %s", o.Index, runID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit batches")
}

// FinishRun marks a run complete, or failed when runErr is non-nil.
func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, summary model.RunSummary, runErr error) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}

	status := model.RunStatusComplete
	var errMsg string
	if runErr != nil {
		status = model.RunStatusFailed
		errMsg = runErr.Error()
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, summary = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(status), string(summaryJSON), errMsg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

// ListRuns returns the most recent runs first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = DefaultRunLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, summary, error, started_at, finished_at FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// ListBatches returns the recorded batch outcomes for a run in index order.
func (s *SQLiteStore) ListBatches(ctx context.Context, runID string) ([]model.BatchOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT batch_index, size, retrieved, error FROM run_batches WHERE run_id = ? ORDER BY batch_index`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list batches for run %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.BatchOutcome
	for rows.Next() {
		var o model.BatchOutcome
		if err := rows.Scan(&o.Index, &o.Size, &o.Retrieved, &o.Error); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan batch")
		}
		out = append(out, o)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list batches iterate")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(s scannable) (*model.Run, error) {
	var (
		r          model.Run
		status     string
		summary    sql.NullString
		finishedAt sql.NullTime
	)
	if err := s.Scan(&r.ID, &status, &summary, &r.Error, &r.StartedAt, &finishedAt); err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	r.Status = model.RunStatus(status)
	if summary.Valid && summary.String != "" {
		if err := json.Unmarshal([]byte(summary.String), &r.Summary); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal summary for run %s", r.ID)
		}
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		r.FinishedAt = &t
	}
	return &r, nil
}
