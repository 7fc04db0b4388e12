// Package storage provides the durable backends behind the store's
// Persistence port: a SQLite database, a single-record JSON file, and an
// in-memory variant for tests and throwaway runs.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"outlay/internal/core"
	"outlay/internal/store"
)

// FileStore persists the whole store state as one JSON document at a
// fixed path. Writes go through a temp file and rename, so the record is
// replaced atomically and a crash mid-write never leaves a torn file.
type FileStore struct {
	path string
}

type fileRecord struct {
	Expenses   []fileExpense `json:"expenses"`
	Categories []string      `json:"categories"`
	LimitCents int64         `json:"limit_cents"`
}

type fileExpense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}

// NewFileStore creates a file-backed persistence at path, creating parent
// directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the persisted record. A missing file is the empty initial
// state; a malformed one returns an error alongside the empty state, and
// the store degrades rather than failing startup.
func (f *FileStore) Load(_ context.Context) (store.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store.Snapshot{}, nil
		}
		return store.Snapshot{}, fmt.Errorf("read state file: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode state file: %w", err)
	}

	snap := store.Snapshot{Categories: rec.Categories, LimitCents: rec.LimitCents}
	for _, fe := range rec.Expenses {
		snap.Expenses = append(snap.Expenses, core.Expense{
			ID:          fe.ID,
			Description: fe.Description,
			Amount:      core.Money{Cents: fe.AmountCents},
			Category:    fe.Category,
			Date:        fe.Date,
		})
	}
	return snap, nil
}

// Save atomically replaces the persisted record with the snapshot.
func (f *FileStore) Save(_ context.Context, snap store.Snapshot) error {
	rec := fileRecord{Categories: snap.Categories, LimitCents: snap.LimitCents}
	if rec.Categories == nil {
		rec.Categories = []string{}
	}
	rec.Expenses = make([]fileExpense, 0, len(snap.Expenses))
	for _, e := range snap.Expenses {
		rec.Expenses = append(rec.Expenses, fileExpense{
			ID:          e.ID,
			Description: e.Description,
			AmountCents: e.Amount.Cents,
			Category:    e.Category,
			Date:        e.Date,
		})
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
