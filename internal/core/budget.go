package core

import "time"

// MonthTotal sums the expenses dated in the calendar month and year of now.
// This is a calendar month, not a rolling 30-day window.
func MonthTotal(expenses []Expense, now time.Time) Money {
	ny, nm, _ := now.UTC().Date()
	var total Money
	for _, e := range expenses {
		y, m, _ := e.Date.UTC().Date()
		if y == ny && m == nm {
			total.Cents += e.Amount.Cents
		}
	}
	return total
}

// OverLimit reports whether the current month's spending strictly exceeds
// the configured limit. A zero or negative limit means no limit is set and
// always yields false; hitting the limit exactly does not trigger.
func OverLimit(expenses []Expense, limit Money, now time.Time) bool {
	if limit.Cents <= 0 {
		return false
	}
	return MonthTotal(expenses, now).Cents > limit.Cents
}
