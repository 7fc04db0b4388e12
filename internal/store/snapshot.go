package store

import (
	"context"

	"outlay/internal/core"
)

// Snapshot is the full persisted state of a store: every expense in append
// order, the custom category vocabulary, and the spending limit (0 when
// unset). Backends persist and rehydrate it as one durable record.
type Snapshot struct {
	Expenses   []core.Expense
	Categories []string
	LimitCents int64
}

// Persistence is the durable storage port injected into the store. The
// store is the sole writer; implementations never mutate state on their
// own. Load errors degrade the store to an empty initial state and Save
// errors are absorbed, so neither may corrupt in-memory data.
type Persistence interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// clone deep-copies the snapshot so the background writer never shares
// slices with the live collection.
func (s Snapshot) clone() Snapshot {
	out := Snapshot{LimitCents: s.LimitCents}
	if s.Expenses != nil {
		out.Expenses = append([]core.Expense(nil), s.Expenses...)
	}
	if s.Categories != nil {
		out.Categories = append([]string(nil), s.Categories...)
	}
	return out
}
