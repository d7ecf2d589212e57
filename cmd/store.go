package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/oews-cli/internal/config"
	"github.com/sells-group/oews-cli/internal/store"
)

// openRunLog opens and migrates the SQLite run log.
func openRunLog(ctx context.Context, path string) (*store.SQLiteStore, error) {
	if path == "" {
		return nil, eris.New("store: run_log_path is not set")
	}
	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// openSink connects to Postgres and ensures the series table exists.
func openSink(ctx context.Context, c config.StoreConfig) (*store.PostgresStore, error) {
	if c.DatabaseURL == "" {
		return nil, eris.New("store: database_url is required to persist records")
	}
	pg, err := store.NewPostgres(ctx, c.DatabaseURL, nil)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}
