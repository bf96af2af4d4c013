package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/spotify-dl/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "db", "history.sqlite3"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func result(title string, outcome model.Outcome, err error) model.Result {
	job := model.NewJob(0, model.TrackMetadata{Title: title, Artist: "Artist", Album: "Album"}, "/music")
	return model.Result{Job: job, Outcome: outcome, Path: job.OutputPath(), Err: err}
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, "spotify:playlist:x", result("First", model.OutcomeDownloaded, nil)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := store.Record(ctx, "spotify:playlist:x", result("Second", model.OutcomeNotFound, errors.New("no YouTube match found"))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Title != "Second" {
		t.Errorf("entries[0].Title = %q, want newest first", entries[0].Title)
	}
	if entries[0].Outcome != "not_found" || entries[0].Error == "" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Locator != "spotify:playlist:x" {
		t.Errorf("Locator = %q", entries[1].Locator)
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Recent(1) returned %d entries", len(limited))
	}
}

func TestStore_CountByOutcome(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, o := range []model.Outcome{model.OutcomeDownloaded, model.OutcomeDownloaded, model.OutcomeFetchFailed} {
		if err := store.Record(ctx, "loc", result("t", o, nil)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	counts, err := store.CountByOutcome(ctx)
	if err != nil {
		t.Fatalf("CountByOutcome failed: %v", err)
	}
	if counts["downloaded"] != 2 || counts["fetch_failed"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite3")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Record(context.Background(), "loc", result("Kept", model.OutcomeExisting, nil)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), 5)
	if err != nil || len(entries) != 1 || entries[0].Title != "Kept" {
		t.Errorf("Recent() = %+v, %v", entries, err)
	}
}
