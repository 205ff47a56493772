package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"framecast/internal/history"
)

func openTestStore(t *testing.T) (*history.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func sampleRecord(id string, status history.Status, finishedAt time.Time) history.Record {
	return history.Record{
		ID:            id,
		Format:        "gif",
		TotalFrames:   24,
		Width:         600,
		Height:        400,
		FPS:           2,
		Filename:      "export.gif",
		Status:        status,
		ArtifactBytes: 4096,
		StartedAt:     finishedAt.Add(-3 * time.Second),
		FinishedAt:    finishedAt,
	}
}

func TestRecordAndListRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	first := sampleRecord("job-1", history.StatusCompleted, base)
	second := sampleRecord("job-2", history.StatusFailed, base.Add(time.Minute))
	second.Error = "encode failed: no frames"

	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("record first: %v", err)
	}
	if err := store.Record(ctx, second); err != nil {
		t.Fatalf("record second: %v", err)
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].ID != "job-2" || records[1].ID != "job-1" {
		t.Fatalf("unexpected order: %s, %s", records[0].ID, records[1].ID)
	}
	got := records[1]
	if got.Format != "gif" || got.TotalFrames != 24 || got.ArtifactBytes != 4096 {
		t.Fatalf("record fields lost: %+v", got)
	}
	if !got.FinishedAt.Equal(base) {
		t.Fatalf("finished_at = %v, want %v", got.FinishedAt, base)
	}
	if records[0].Error != "encode failed: no frames" {
		t.Fatalf("error text lost: %q", records[0].Error)
	}
}

func TestListHonorsLimit(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		rec := sampleRecord("job-"+string(rune('a'+i)), history.StatusCompleted, base.Add(time.Duration(i)*time.Second))
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	records, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected limit of 2, got %d records", len(records))
	}
	if records[0].ID != "job-e" {
		t.Fatalf("expected newest record first, got %s", records[0].ID)
	}
}

func TestRecordRequiresID(t *testing.T) {
	store, _ := openTestStore(t)
	rec := sampleRecord("", history.StatusCompleted, time.Now())
	if err := store.Record(context.Background(), rec); err == nil {
		t.Fatal("expected error for record without ID")
	}
}

func TestClearRemovesEverything(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := sampleRecord("job-"+string(rune('0'+i)), history.StatusCancelled, time.Now().UTC())
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, sampleRecord("job-1", history.StatusCompleted, time.Now().UTC())); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.List(ctx, 0)
	if err != nil {
		t.Fatalf("list after reopen: %v", err)
	}
	if len(records) != 1 || records[0].ID != "job-1" {
		t.Fatalf("records lost across reopen: %+v", records)
	}
}

func TestOpenRejectsFutureSchemaVersion(t *testing.T) {
	store, path := openTestStore(t)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Simulate a database created by a newer build.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump schema version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close raw db: %v", err)
	}

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
