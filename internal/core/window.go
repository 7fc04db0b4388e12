package core

import (
	"fmt"
	"time"
)

// Window is a relative time range used to narrow expenses for display and
// aggregation.
type Window string

const (
	Window7d  Window = "7d"
	Window30d Window = "30d"
	Window90d Window = "90d"
	WindowAll Window = "all"
)

// ParseWindow validates a window specifier from user input.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case Window7d, Window30d, Window90d, WindowAll:
		return Window(s), nil
	}
	return "", fmt.Errorf("unknown window %q", s)
}

// Days returns the canonical day count used for daily averages: 7, 30, 90,
// and 365 for the all-time window.
func (w Window) Days() int {
	switch w {
	case Window7d:
		return 7
	case Window30d:
		return 30
	case Window90d:
		return 90
	default:
		return 365
	}
}

// FilterByWindow returns the expenses whose date falls strictly after
// now minus the window length. The boundary is exclusive: an expense dated
// exactly N days before now is left out. WindowAll returns the input as is.
// The input slice is never mutated.
func FilterByWindow(expenses []Expense, w Window, now time.Time) []Expense {
	if w == WindowAll {
		return expenses
	}
	cutoff := now.AddDate(0, 0, -w.Days())
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}
