package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/mohammad-safakhou/wsd/config"
)

// PostgresStore keeps runs in the aquaint_runs table; the full record is the
// payload column.
type PostgresStore struct {
	DB *sql.DB
}

// NewWithDSN opens and pings the database.
func NewWithDSN(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Create(ctx context.Context, run Run) (string, error) {
	if !ValidRunID(run.RunID) {
		return "", fmt.Errorf("invalid run id %q", run.RunID)
	}
	payload, err := json.Marshal(run)
	if err != nil {
		return "", err
	}
	res, err := s.DB.ExecContext(ctx, `INSERT INTO aquaint_runs (run_id, target, method, processed, found_sentences, payload, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT (run_id) DO NOTHING`,
		run.RunID, run.Target, run.Method, run.Processed, run.FoundSentences, payload, run.CreatedAt)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrRunExists
	}
	return "postgres:" + runsDir + "/" + run.RunID, nil
}

func (s *PostgresStore) Get(ctx context.Context, runID string) (Run, error) {
	if !ValidRunID(runID) {
		return Run{}, ErrRunNotFound
	}
	var payload []byte
	err := s.DB.QueryRowContext(ctx, `SELECT payload FROM aquaint_runs WHERE run_id=$1`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, err
	}
	var run Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return Run{}, fmt.Errorf("run %s: %w", runID, err)
	}
	return run, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// Open builds the run store selected by cfg.Runs.Backend. The returned close
// function releases database connections.
func Open(ctx context.Context, cfg config.StorageConfig) (RunStore, func() error, error) {
	switch cfg.Runs.Backend {
	case "", "file":
		return NewFileStore(cfg.Runs.DataDir), func() error { return nil }, nil
	case "postgres":
		dsn, err := cfg.Postgres.DSN()
		if err != nil {
			return nil, nil, err
		}
		pctx := ctx
		if cfg.Postgres.Timeout > 0 {
			var cancel context.CancelFunc
			pctx, cancel = context.WithTimeout(ctx, cfg.Postgres.Timeout)
			defer cancel()
		}
		st, err := NewWithDSN(pctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres run store: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown runs backend %q", cfg.Runs.Backend)
	}
}
