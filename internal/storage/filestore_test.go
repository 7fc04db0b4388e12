package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"outlay/internal/core"
	"outlay/internal/store"
)

func testSnapshot() store.Snapshot {
	return store.Snapshot{
		Expenses: []core.Expense{
			{
				ID:          "e-1",
				Description: "coffee",
				Amount:      core.Money{Cents: 350},
				Category:    "Food & Dining",
				Date:        time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC),
			},
			{
				ID:          "e-2",
				Description: "bus ticket",
				Amount:      core.Money{Cents: 275},
				Category:    "Transportation",
				Date:        time.Date(2024, 5, 3, 17, 0, 0, 0, time.UTC),
			},
		},
		Categories: []string{"Books"},
		LimitCents: 50000,
	}
}

func assertSnapshotEqual(t *testing.T, got, want store.Snapshot) {
	t.Helper()
	if len(got.Expenses) != len(want.Expenses) {
		t.Fatalf("got %d expenses, want %d", len(got.Expenses), len(want.Expenses))
	}
	for i := range want.Expenses {
		g, w := got.Expenses[i], want.Expenses[i]
		if g.ID != w.ID || g.Description != w.Description ||
			g.Amount != w.Amount || g.Category != w.Category || !g.Date.Equal(w.Date) {
			t.Fatalf("expense %d: got %+v, want %+v", i, g, w)
		}
	}
	if len(got.Categories) != len(want.Categories) {
		t.Fatalf("got %d categories, want %d", len(got.Categories), len(want.Categories))
	}
	for i := range want.Categories {
		if got.Categories[i] != want.Categories[i] {
			t.Fatalf("category %d: got %q, want %q", i, got.Categories[i], want.Categories[i])
		}
	}
	if got.LimitCents != want.LimitCents {
		t.Fatalf("limit: got %d, want %d", got.LimitCents, want.LimitCents)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "outlay.json")
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	want := testSnapshot()
	if err := fs.Save(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSnapshotEqual(t, got, want)
}

func TestFileStoreMissingFile(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "outlay.json"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	snap, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("missing file must load as empty state, got %v", err)
	}
	if len(snap.Expenses) != 0 || len(snap.Categories) != 0 || snap.LimitCents != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestFileStoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlay.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	snap, err := fs.Load(context.Background())
	if err == nil {
		t.Fatalf("expected error for malformed file")
	}
	if len(snap.Expenses) != 0 {
		t.Fatalf("malformed file must yield empty snapshot, got %+v", snap)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "outlay.db"))
	if err != nil {
		t.Fatalf("new sqlite repository: %v", err)
	}
	defer repo.Close()

	want := testSnapshot()
	if err := repo.Save(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSnapshotEqual(t, got, want)

	// A second save replaces the previous snapshot outright.
	want.Expenses = want.Expenses[:1]
	want.LimitCents = 0
	if err := repo.Save(context.Background(), want); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err = repo.Load(context.Background())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	assertSnapshotEqual(t, got, want)
}
