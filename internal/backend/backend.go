// Package backend selects and constructs the persistence backend behind
// the expense store based on configuration.
package backend

import (
	"fmt"
	"log/slog"

	"outlay/internal/storage"
	"outlay/internal/store"
)

// Type identifies a persistence backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	FileBackend   Type = "file"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds what each backend needs to open.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// File specific
	StatePath string
}

// Result carries the opened persistence and an optional cleanup function.
type Result struct {
	Persistence store.Persistence
	Cleanup     func() error
}

// Open constructs the configured backend.
func Open(cfg Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Persistence: repo, Cleanup: repo.Close}, nil

	case FileBackend:
		fs, err := storage.NewFileStore(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "state_path", cfg.StatePath)
		return &Result{Persistence: fs, Cleanup: nil}, nil

	default:
		logger.Info("Initialized memory backend")
		return &Result{Persistence: storage.NewMemory(), Cleanup: nil}, nil
	}
}
