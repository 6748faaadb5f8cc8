package storage

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"guesswho-client/session"
)

// JournalStore abstracts persistence of what a session received and sent.
// Implementations can be swapped for testing or different backends.
type JournalStore interface {
	// Write
	RecordSnapshot(ctx context.Context, sessionID uuid.UUID, mode string, rows, cols int, payload json.RawMessage) error
	RecordAction(ctx context.Context, sessionID uuid.UUID, event string, payload json.RawMessage) error

	// Read
	CountSnapshots(ctx context.Context, sessionID uuid.UUID) (int, error)

	// Lifecycle
	Close()
}

// Ensure *Store implements JournalStore and session.Journal at compile time.
var (
	_ JournalStore    = (*Store)(nil)
	_ session.Journal = (*Store)(nil)
)
