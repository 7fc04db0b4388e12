package services

import (
	"context"
	"fmt"
	"log/slog"

	"outlay/internal/core"
	"outlay/internal/events"
	"outlay/internal/store"
)

// Publisher is the slice of the event bus the service needs; satisfied by
// *events.Client.
type Publisher interface {
	Publish(ctx context.Context, msg *events.ExpenseEventMessage) error
	Close() error
}

// ExpenseService fronts the store's mutations and bridges its change
// notifications onto the event bus. Publish failures never fail the
// mutation: the store has already persisted, and the bus is best-effort.
type ExpenseService struct {
	store *store.Store
	bus   Publisher
}

func NewExpenseService(st *store.Store, bus Publisher) *ExpenseService {
	s := &ExpenseService{store: st, bus: bus}
	st.Subscribe(s.forward)
	return s
}

// Store exposes the underlying store for read-side callers.
func (s *ExpenseService) Store() *store.Store {
	return s.store
}

// Create adds a pre-validated draft and returns the stored expense.
func (s *ExpenseService) Create(ctx context.Context, draft core.Draft) core.Expense {
	e := s.store.Add(draft)
	slog.InfoContext(ctx, "Expense created",
		"expense_id", e.ID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return e
}

// Update applies a partial patch; unknown ids are a silent no-op.
func (s *ExpenseService) Update(ctx context.Context, expenseID string, patch core.Patch) {
	s.store.Update(expenseID, patch)
	slog.InfoContext(ctx, "Expense updated", "expense_id", expenseID)
}

// Delete removes an expense; unknown ids are a silent no-op.
func (s *ExpenseService) Delete(ctx context.Context, expenseID string) {
	s.store.Remove(expenseID)
	slog.InfoContext(ctx, "Expense deleted", "expense_id", expenseID)
}

// AddCategory grows the vocabulary; duplicates and blanks are ignored.
func (s *ExpenseService) AddCategory(ctx context.Context, name string) {
	s.store.AddCategory(name)
}

// SetLimit sets or clears (cents <= 0) the monthly spending limit.
func (s *ExpenseService) SetLimit(ctx context.Context, cents int64) {
	if cents <= 0 {
		s.store.ClearLimit()
		slog.InfoContext(ctx, "Spending limit cleared")
		return
	}
	s.store.SetLimit(cents)
	slog.InfoContext(ctx, "Spending limit changed", "limit_cents", cents)
}

// forward publishes a store event to the bus, enriched with the current
// record where one still exists.
func (s *ExpenseService) forward(ev store.Event) {
	if s.bus == nil {
		return
	}

	msg := events.NewExpenseEventMessage(string(ev.Kind), ev.ID, ev.Name, 0)
	if ev.ID != "" {
		if e, ok := s.store.GetByID(ev.ID); ok {
			msg.Category = e.Category
			msg.AmountCents = e.Amount.Cents
		}
	}

	if err := s.bus.Publish(context.Background(), msg); err != nil {
		// The mutation already persisted locally; don't fail it.
		slog.Error("Failed to publish expense event",
			"error", err,
			"kind", msg.Kind,
			"expense_id", msg.ExpenseID)
	}
}

// Close releases the event bus connection if one is configured.
func (s *ExpenseService) Close() error {
	if s.bus == nil {
		return nil
	}
	if err := s.bus.Close(); err != nil {
		return fmt.Errorf("close event bus: %w", err)
	}
	return nil
}
