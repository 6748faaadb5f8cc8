package storage

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestNewStoreWithoutURL(t *testing.T) {
	s, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil store when no database URL is set")
	}
}

func TestNilStoreIsNoOp(t *testing.T) {
	var s *Store
	ctx := context.Background()
	id := uuid.New()

	if err := s.RecordSnapshot(ctx, id, "board", 1, 1, json.RawMessage(`{}`)); err != nil {
		t.Errorf("RecordSnapshot on nil store: %v", err)
	}
	if err := s.RecordAction(ctx, id, "flip card", nil); err != nil {
		t.Errorf("RecordAction on nil store: %v", err)
	}
	if n, err := s.CountSnapshots(ctx, id); err != nil || n != 0 {
		t.Errorf("CountSnapshots on nil store: %d, %v", n, err)
	}
	s.Close()
}

func TestJSONBArg(t *testing.T) {
	if jsonbArg(nil) != nil {
		t.Error("empty payload should map to NULL")
	}
	if got := jsonbArg(json.RawMessage(`{"a":1}`)); got != `{"a":1}` {
		t.Errorf("unexpected arg %v", got)
	}
}

// TestStoreRoundTrip runs against a real database when TEST_DATABASE_URL is set.
func TestStoreRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := NewStore(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	id := uuid.New()
	if err := s.RecordSnapshot(ctx, id, "board", 2, 3, json.RawMessage(`{"myBoard":{}}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordAction(ctx, id, "choose target", json.RawMessage(`{"row":0,"col":1}`)); err != nil {
		t.Fatal(err)
	}
	n, err := s.CountSnapshots(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 snapshot, got %d", n)
	}
}
