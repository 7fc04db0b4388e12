// Package store owns the canonical expense collection, the category
// vocabulary and the spending limit. It exposes the mutation and lookup
// operations, persists every completed mutation through an injected
// Persistence backend, and notifies subscribers of changes. Derived views
// (filtering, aggregation, sorting) live in internal/core and operate on
// snapshots returned by List.
package store

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"outlay/internal/core"
	"outlay/internal/id"
)

// DefaultCategories seeds every store's vocabulary. User additions and
// categories found on rehydrated expenses extend it; nothing ever removes
// an entry.
var DefaultCategories = []string{
	"Food & Dining",
	"Transportation",
	"Utilities & Bills",
	"Shopping",
	"Entertainment",
	"Health & Wellness",
	"Groceries",
	"Home & Rent",
	"Travel",
	"Other",
}

// EventKind classifies a store change notification.
type EventKind string

const (
	ExpenseAdded   EventKind = "expense_added"
	ExpenseUpdated EventKind = "expense_updated"
	ExpenseRemoved EventKind = "expense_removed"
	CategoryAdded  EventKind = "category_added"
	LimitChanged   EventKind = "limit_changed"
)

// Event describes one completed mutation. ID is the affected expense id,
// Name the affected category name; each is set only when meaningful.
type Event struct {
	Kind EventKind
	ID   string
	Name string
}

// Subscriber receives change notifications after a mutation has been
// applied to the in-memory collection. Callbacks run synchronously on the
// mutating goroutine; they may read from the store but must not mutate it.
type Subscriber func(Event)

// Option customizes a Store; used by tests to pin clock and id sequence.
type Option func(*Store)

// WithClock overrides the time source used to date new expenses.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id generator for new expenses.
func WithIDGenerator(gen id.Generator) Option {
	return func(s *Store) { s.newID = gen }
}

// Store is the single-writer expense data store. Mutations update the
// in-memory collection synchronously and queue the resulting snapshot for
// a background writer, so callers always observe fully-updated state while
// the durable write may still be in flight. Persistence failures are
// logged and absorbed; in-memory state stays the source of truth for the
// session.
type Store struct {
	mu         sync.Mutex
	expenses   []core.Expense
	custom     []string
	limitCents int64
	subs       []Subscriber

	newID   id.Generator
	now     func() time.Time
	persist Persistence

	saveMu  sync.Mutex
	pending *Snapshot
	kick    chan struct{}
	quit    chan struct{}
	done    chan struct{}
}

// New builds a store backed by p, rehydrating from the last persisted
// snapshot. A missing or unreadable snapshot degrades to an empty initial
// state rather than failing startup.
func New(p Persistence, opts ...Option) *Store {
	s := &Store{
		newID:   id.New(),
		now:     time.Now,
		persist: p,
		kick:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := p.Load(context.Background())
	if err != nil {
		slog.Warn("Persisted state unreadable, starting empty", "error", err)
	} else {
		s.expenses = snap.Expenses
		s.custom = snap.Categories
		s.limitCents = snap.LimitCents
	}

	go s.writerLoop()
	return s
}

// Close flushes any pending durable write and stops the background writer.
func (s *Store) Close() error {
	close(s.quit)
	<-s.done
	return nil
}

// Subscribe registers a callback for change notifications.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Add appends a new expense built from the draft, assigning its id and
// dating it now. Input is trusted; callers validate drafts at the boundary.
func (s *Store) Add(draft core.Draft) core.Expense {
	s.mu.Lock()
	e := core.Expense{
		ID:          s.newID(),
		Description: draft.Description,
		Amount:      draft.Amount,
		Category:    draft.Category,
		Date:        s.now().UTC(),
	}
	s.expenses = append(s.expenses, e)
	subs, snap := s.prepareCommitLocked()
	s.mu.Unlock()

	s.commit(subs, snap, Event{Kind: ExpenseAdded, ID: e.ID})
	return e
}

// Update merges the supplied patch fields into the expense with the given
// id. The id itself is immutable and the date changes only when the patch
// carries one. An unknown id is a silent no-op.
func (s *Store) Update(expenseID string, patch core.Patch) {
	s.mu.Lock()
	idx := s.indexOfLocked(expenseID)
	if idx < 0 {
		s.mu.Unlock()
		slog.Debug("Update ignored, expense not found", "expense_id", expenseID)
		return
	}
	s.expenses[idx] = patch.Apply(s.expenses[idx])
	subs, snap := s.prepareCommitLocked()
	s.mu.Unlock()

	s.commit(subs, snap, Event{Kind: ExpenseUpdated, ID: expenseID})
}

// Remove deletes the expense with the given id; unknown ids are a no-op,
// so removal is idempotent. Categories referenced only by the removed
// expense stay in the vocabulary as reusable labels.
func (s *Store) Remove(expenseID string) {
	s.mu.Lock()
	idx := s.indexOfLocked(expenseID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.expenses = append(s.expenses[:idx], s.expenses[idx+1:]...)
	subs, snap := s.prepareCommitLocked()
	s.mu.Unlock()

	s.commit(subs, snap, Event{Kind: ExpenseRemoved, ID: expenseID})
}

// GetByID looks up an expense. The second result reports presence.
func (s *Store) GetByID(expenseID string) (core.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOfLocked(expenseID); idx >= 0 {
		return s.expenses[idx], true
	}
	return core.Expense{}, false
}

// List returns all expenses in append order. The returned slice is a copy;
// callers sort and filter it freely.
func (s *Store) List() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...)
}

// AddCategory adds a trimmed name to the custom vocabulary unless it is
// empty or already present anywhere in the vocabulary, case-insensitively.
func (s *Store) AddCategory(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s.mu.Lock()
	for _, existing := range s.categoriesLocked() {
		if strings.EqualFold(existing, name) {
			s.mu.Unlock()
			return
		}
	}
	s.custom = append(s.custom, name)
	subs, snap := s.prepareCommitLocked()
	s.mu.Unlock()

	s.commit(subs, snap, Event{Kind: CategoryAdded, Name: name})
}

// Categories returns the deduplicated union of the seeded defaults, the
// custom vocabulary and every category on a live expense, ordered
// case-insensitively ascending. First-seen casing wins for duplicates.
func (s *Store) Categories() []string {
	s.mu.Lock()
	out := s.categoriesLocked()
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// SetLimit sets the monthly spending limit in cents. A non-positive value
// clears it.
func (s *Store) SetLimit(cents int64) {
	if cents < 0 {
		cents = 0
	}
	s.mu.Lock()
	if s.limitCents == cents {
		s.mu.Unlock()
		return
	}
	s.limitCents = cents
	subs, snap := s.prepareCommitLocked()
	s.mu.Unlock()

	s.commit(subs, snap, Event{Kind: LimitChanged})
}

// ClearLimit removes the spending limit.
func (s *Store) ClearLimit() {
	s.SetLimit(0)
}

// Limit returns the spending limit and whether one is set.
func (s *Store) Limit() (core.Money, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Money{Cents: s.limitCents}, s.limitCents > 0
}

// OverLimit reports whether this calendar month's spending exceeds the
// configured limit. Always false when no limit is set.
func (s *Store) OverLimit(now time.Time) bool {
	s.mu.Lock()
	expenses := append([]core.Expense(nil), s.expenses...)
	limit := core.Money{Cents: s.limitCents}
	s.mu.Unlock()
	return core.OverLimit(expenses, limit, now)
}

func (s *Store) indexOfLocked(expenseID string) int {
	for i := range s.expenses {
		if s.expenses[i].ID == expenseID {
			return i
		}
	}
	return -1
}

func (s *Store) categoriesLocked() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(name))
	}
	for _, c := range DefaultCategories {
		add(c)
	}
	for _, c := range s.custom {
		add(c)
	}
	for _, e := range s.expenses {
		add(e.Category)
	}
	return out
}

// prepareCommitLocked captures the subscriber list and a deep snapshot of
// the current state. Called with mu held.
func (s *Store) prepareCommitLocked() ([]Subscriber, Snapshot) {
	subs := append([]Subscriber(nil), s.subs...)
	snap := Snapshot{
		Expenses:   s.expenses,
		Categories: s.custom,
		LimitCents: s.limitCents,
	}.clone()
	return subs, snap
}

// commit queues the snapshot for the background writer and notifies
// subscribers. Runs outside the collection lock.
func (s *Store) commit(subs []Subscriber, snap Snapshot, ev Event) {
	s.scheduleSave(snap)
	for _, fn := range subs {
		fn(ev)
	}
}

// scheduleSave hands the snapshot to the writer goroutine. Saves coalesce:
// each snapshot carries the full state, so only the latest pending one
// needs to reach durable storage.
func (s *Store) scheduleSave(snap Snapshot) {
	s.saveMu.Lock()
	s.pending = &snap
	s.saveMu.Unlock()
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Store) writerLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.kick:
			s.flush()
		case <-s.quit:
			s.flush()
			return
		}
	}
}

func (s *Store) flush() {
	s.saveMu.Lock()
	snap := s.pending
	s.pending = nil
	s.saveMu.Unlock()
	if snap == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.persist.Save(ctx, *snap); err != nil {
		// In-memory state stays authoritative for the session.
		slog.Warn("Failed to persist state", "error", err,
			"expenses", len(snap.Expenses), "categories", len(snap.Categories))
	}
}
