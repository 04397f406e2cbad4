package repo_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"musicarr/internal/database"
	"musicarr/internal/models"
	"musicarr/internal/repo"
)

func newTestStore(t *testing.T) *repo.LedgerStore {
	t.Helper()

	dbc, err := database.InitDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	t.Cleanup(func() { dbc.Close() })

	return repo.NewLedgerStore(dbc.DB)
}

func TestLedgerRecordAndHas(t *testing.T) {
	store := newTestStore(t)

	has, err := store.Has("vid123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if has {
		t.Fatalf("expected empty ledger to report false")
	}

	entry := models.LedgerEntry{
		VideoID:    "vid123",
		ChannelID:  "chan456",
		Title:      "Some Song",
		OutputPath: "/music/Some Song.mp3",
	}
	if err := store.Record(entry); err != nil {
		t.Fatalf("failed to record entry: %v", err)
	}

	has, err = store.Has("vid123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !has {
		t.Fatalf("expected recorded video to report true")
	}

	// Unrelated IDs stay unaffected
	has, err = store.Has("other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if has {
		t.Fatalf("expected unrelated video to report false")
	}
}

func TestLedgerDuplicateRecord(t *testing.T) {
	store := newTestStore(t)

	entry := models.LedgerEntry{VideoID: "vid123", OutputPath: "/music/a.mp3"}
	if err := store.Record(entry); err != nil {
		t.Fatalf("first record failed: %v", err)
	}

	err := store.Record(entry)
	if !errors.Is(err, repo.ErrAlreadyRecorded) {
		t.Fatalf("expected ErrAlreadyRecorded, got: %v", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one entry, got %d", count)
	}
}

func TestLedgerRecordRequiresVideoID(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record(models.LedgerEntry{}); err == nil {
		t.Fatalf("expected error for empty video ID, got nil")
	}
}

func TestLedgerListSince(t *testing.T) {
	store := newTestStore(t)

	old := models.LedgerEntry{
		VideoID:     "old",
		ProcessedAt: time.Now().Add(-48 * time.Hour),
	}
	recent := models.LedgerEntry{
		VideoID:     "recent",
		ProcessedAt: time.Now(),
	}
	if err := store.Record(old); err != nil {
		t.Fatalf("record old: %v", err)
	}
	if err := store.Record(recent); err != nil {
		t.Fatalf("record recent: %v", err)
	}

	all, err := store.List(time.Time{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}

	filtered, err := store.List(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(filtered) != 1 || filtered[0].VideoID != "recent" {
		t.Fatalf("expected only the recent entry, got %+v", filtered)
	}
}
