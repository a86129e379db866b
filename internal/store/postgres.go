package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yourorg/listings-gateway/internal/events"
)

type Store struct{ DB *sql.DB }

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS gateway_dispatches (
            id           UUID PRIMARY KEY,
            mode         TEXT NOT NULL,
            method       TEXT NOT NULL,
            url          TEXT NOT NULL,
            status_code  INTEGER,
            duration_ms  BIGINT NOT NULL,
            error        TEXT,
            dispatched_at TIMESTAMPTZ NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_dispatches_at ON gateway_dispatches(dispatched_at DESC);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// RecordDispatch is idempotent on the dispatch id.
func (s *Store) RecordDispatch(ctx context.Context, rec events.DispatchRecorded) error {
	if s == nil || s.DB == nil {
		return errors.New("nil db")
	}
	var status sql.NullInt64
	if rec.StatusCode > 0 {
		status = sql.NullInt64{Int64: int64(rec.StatusCode), Valid: true}
	}
	var errText sql.NullString
	if rec.Error != "" {
		errText = sql.NullString{String: rec.Error, Valid: true}
	}
	_, err := s.DB.ExecContext(ctx, `
        INSERT INTO gateway_dispatches (id, mode, method, url, status_code, duration_ms, error, dispatched_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Mode, rec.Method, rec.URL, status, rec.Duration.Milliseconds(), errText, rec.At,
	)
	return err
}
