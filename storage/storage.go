package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS snapshot_log (
	id          UUID PRIMARY KEY,
	session_id  UUID NOT NULL,
	received_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	mode        TEXT NOT NULL,
	grid_rows   INT NOT NULL,
	grid_cols   INT NOT NULL,
	payload     JSONB
);
CREATE INDEX IF NOT EXISTS idx_snapshot_log_session ON snapshot_log(session_id);
CREATE TABLE IF NOT EXISTS action_log (
	id         UUID PRIMARY KEY,
	session_id UUID NOT NULL,
	sent_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	event      TEXT NOT NULL,
	payload    JSONB
);
CREATE INDEX IF NOT EXISTS idx_action_log_session ON action_log(session_id);
`

// Store persists the session journal in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the journal tables exist.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	for _, q := range strings.Split(strings.TrimSpace(createTableSQL), ";") {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, err := pool.Exec(ctx, q); err != nil {
			pool.Close()
			return nil, err
		}
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// RecordSnapshot stores one accepted "update game" push.
func (s *Store) RecordSnapshot(ctx context.Context, sessionID uuid.UUID, mode string, rows, cols int, payload json.RawMessage) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO snapshot_log (id, session_id, mode, grid_rows, grid_cols, payload)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), sessionID, mode, rows, cols, jsonbArg(payload))
	return err
}

// RecordAction stores one emitted event.
func (s *Store) RecordAction(ctx context.Context, sessionID uuid.UUID, event string, payload json.RawMessage) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO action_log (id, session_id, event, payload)
		VALUES ($1, $2, $3, $4)`,
		uuid.New(), sessionID, event, jsonbArg(payload))
	return err
}

// CountSnapshots returns how many pushes were journaled for sessionID.
func (s *Store) CountSnapshots(ctx context.Context, sessionID uuid.UUID) (int, error) {
	if s == nil || s.pool == nil {
		return 0, nil
	}
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM snapshot_log WHERE session_id = $1`, sessionID).Scan(&n)
	return n, err
}

// jsonbArg maps an empty payload to NULL; anything else is passed as text for the JSONB column.
func jsonbArg(payload json.RawMessage) any {
	if len(payload) == 0 {
		return nil
	}
	return string(payload)
}
