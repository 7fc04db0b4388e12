package core

import (
	"fmt"
	"sort"
	"strings"
)

// SortCriterion selects the ordering applied by Sorted.
type SortCriterion string

const (
	SortByDate     SortCriterion = "date"
	SortByCategory SortCriterion = "category"
	SortByAmount   SortCriterion = "amount"
)

// ParseSortCriterion validates a sort specifier from user input.
func ParseSortCriterion(s string) (SortCriterion, error) {
	switch SortCriterion(s) {
	case SortByDate, SortByCategory, SortByAmount:
		return SortCriterion(s), nil
	}
	return "", fmt.Errorf("unknown sort criterion %q", s)
}

// Sorted returns a sorted copy of expenses. Date sorts most recent first,
// category sorts ascending case-insensitively, amount sorts largest first.
// All three orderings are stable, so records with equal keys keep their
// original relative order. The input slice is never mutated.
func Sorted(expenses []Expense, c SortCriterion) []Expense {
	out := make([]Expense, len(expenses))
	copy(out, expenses)
	switch c {
	case SortByCategory:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Category) < strings.ToLower(out[j].Category)
		})
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount.Cents > out[j].Amount.Cents
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date)
		})
	}
	return out
}
