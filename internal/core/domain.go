package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is an amount of currency in integer cents. Keeping cents
	// avoids binary floating-point drift when summing many small values.
	Money struct {
		Cents int64
	}

	// Expense is a single recorded spending transaction. ID and Date are
	// assigned by the store at creation time and are immutable except for
	// an explicit date patch.
	Expense struct {
		ID          string
		Description string
		Amount      Money
		Category    string
		Date        time.Time
	}

	// Draft carries the caller-supplied fields of a new expense.
	Draft struct {
		Description string
		Amount      Money
		Category    string
	}

	// Patch is a partial expense update. Nil fields are left unchanged.
	Patch struct {
		Description *string
		Amount      *Money
		Category    *string
		Date        *time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate rejects drafts before they reach the store. The store itself
// trusts its input; this is the boundary validation layer.
func (d Draft) Validate() error {
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(d.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Validate checks the supplied fields of a patch. Nil fields pass.
func (p Patch) Validate() error {
	if p.Description != nil {
		if len(strings.TrimSpace(*p.Description)) == 0 {
			return ErrEmptyDescription
		}
		if len(*p.Description) > 200 {
			return errors.New("description too long (max 200 characters)")
		}
	}
	if p.Amount != nil {
		if err := p.Amount.Validate(); err != nil {
			return err
		}
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return ErrEmptyCategory
	}
	if p.Date != nil && p.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Empty reports whether the patch supplies no fields at all.
func (p Patch) Empty() bool {
	return p.Description == nil && p.Amount == nil && p.Category == nil && p.Date == nil
}

// Apply merges the supplied fields into a copy of e. ID is never touched.
func (p Patch) Apply(e Expense) Expense {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	return e
}
