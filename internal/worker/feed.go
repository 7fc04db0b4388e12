// Package worker turns consumed expense events into a durable audit feed:
// one JSON document per line, append-only.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"outlay/internal/events"
)

// FeedWriter appends expense events to a JSONL file.
type FeedWriter struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// NewFeedWriter opens (creating if needed) the feed file for appending.
func NewFeedWriter(path string) (*FeedWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create feed directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	return &FeedWriter{path: path, f: f}, nil
}

// HandleEvent appends one event to the feed. Matches the handler shape
// expected by events.Client.Consume.
func (w *FeedWriter) HandleEvent(ctx context.Context, msg *events.ExpenseEventMessage) error {
	line, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal feed entry: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.Write(line); err != nil {
		return fmt.Errorf("append feed entry: %w", err)
	}

	slog.InfoContext(ctx, "Feed entry appended",
		"kind", msg.Kind,
		"expense_id", msg.ExpenseID,
		"path", w.path)
	return nil
}

// Close syncs and closes the feed file.
func (w *FeedWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.f.Sync(); err != nil {
		w.f.Close()
		return fmt.Errorf("sync feed file: %w", err)
	}
	return w.f.Close()
}
