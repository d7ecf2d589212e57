package store

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/oews-cli/internal/db"
	"github.com/sells-group/oews-cli/internal/model"
)

// SeriesValuesTable is the Postgres table holding reconciled annual values.
const SeriesValuesTable = "oews.series_values"

var seriesValueColumns = []string{
	"series_id", "state_code", "occupation_code", "datatype_code", "year", "value", "fetched_at",
}

var postgresMigrations = []string{
	`CREATE SCHEMA IF NOT EXISTS oews`,
	`CREATE TABLE IF NOT EXISTS oews.series_values (
		series_id       TEXT        NOT NULL,
		state_code      TEXT        NOT NULL,
		occupation_code TEXT        NOT NULL,
		datatype_code   TEXT        NOT NULL,
		year            SMALLINT    NOT NULL,
		value           DOUBLE PRECISION,
		fetched_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (series_id, year)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_series_values_state ON oews.series_values (state_code)`,
}

// PostgresStore writes flat records into Postgres.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
	now     func() time.Time
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `mapstructure:"max_conns"`
	MinConns int32 `mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close, now: time.Now}, nil
}

// NewPostgresFromPool wraps an existing pool.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// Migrate creates the schema and table when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range postgresMigrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return eris.Wrap(err, "postgres: migrate")
		}
	}
	return nil
}

// SaveRecords upserts records keyed by (series_id, year). Duplicate keys
// within one call keep the first record.
func (s *PostgresStore) SaveRecords(ctx context.Context, records []model.FlatRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	fetchedAt := s.now().UTC()
	seen := make(map[string]bool, len(records))
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		key := r.SeriesID + "|" + r.Year
		if seen[key] {
			continue
		}
		seen[key] = true

		year, err := strconv.ParseInt(r.Year, 10, 16)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: series %s has invalid year %q", r.SeriesID, r.Year)
		}
		rows = append(rows, []any{
			r.SeriesID, r.AreaCode, r.OccupationCode, r.DataTypeCode, int16(year), r.Value, fetchedAt,
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        SeriesValuesTable,
		Columns:      seriesValueColumns,
		ConflictKeys: []string{"series_id", "year"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: save records")
	}

	zap.L().Debug("postgres: saved records", zap.Int("rows", len(rows)), zap.Int64("affected", n))
	return n, nil
}

// Close releases the pool when this store opened it.
func (s *PostgresStore) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}
