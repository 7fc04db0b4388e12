package core

import (
	"fmt"
	"time"
)

type (
	// CategoryTotal is an amount summed per category, in appearance order.
	CategoryTotal struct {
		Category string
		Total    Money
	}

	// Bucket is one time slice of a spending series.
	Bucket struct {
		Label string
		Total Money
	}

	// Summary holds headline statistics for a window of expenses.
	Summary struct {
		Total        Money
		AverageDaily Money
		Highest      Money
		Count        int
		TopCategory  string
	}
)

// CategoryTotals groups expenses by category and sums their amounts.
// Result order follows first appearance in the input; categories with no
// expenses do not appear at all.
func CategoryTotals(expenses []Expense) []CategoryTotal {
	idx := make(map[string]int, len(expenses))
	out := make([]CategoryTotal, 0, len(expenses))
	for _, e := range expenses {
		i, ok := idx[e.Category]
		if !ok {
			idx[e.Category] = len(out)
			out = append(out, CategoryTotal{Category: e.Category})
			i = len(out) - 1
		}
		out[i].Total.Cents += e.Amount.Cents
	}
	return out
}

// SummaryStats computes the headline numbers for an already-filtered set.
// AverageDaily divides by the window's canonical day count (7, 30, 90, or
// 365 for all time), rounded half-up to the cent. TopCategory ties go to
// the first category encountered; an empty input yields "N/A".
func SummaryStats(expenses []Expense, w Window) Summary {
	s := Summary{TopCategory: "N/A", Count: len(expenses)}
	if len(expenses) == 0 {
		return s
	}
	for _, e := range expenses {
		s.Total.Cents += e.Amount.Cents
		if e.Amount.Cents > s.Highest.Cents {
			s.Highest = e.Amount
		}
	}
	days := int64(w.Days())
	s.AverageDaily = Money{Cents: (s.Total.Cents + days/2) / days}

	var best int64 = -1
	for _, ct := range CategoryTotals(expenses) {
		if ct.Total.Cents > best {
			best = ct.Total.Cents
			s.TopCategory = ct.Category
		}
	}
	return s
}

// BucketedSeries slices expenses into a fixed series of time buckets for
// the given window, oldest to newest:
//
//	7d  -> 7 daily buckets labelled by weekday ("Mon")
//	30d -> 4 non-overlapping 7-day buckets labelled W1..W4
//	90d -> calendar-month buckets touched by the last 90 days ("Jan")
//	all -> calendar-month buckets from the earliest expense through now
//
// Daily and weekly buckets keep zero totals; month series emit only the
// months inside the computed span. An empty all-time input yields nil.
func BucketedSeries(expenses []Expense, w Window, now time.Time) []Bucket {
	switch w {
	case Window7d:
		return dailyBuckets(expenses, now)
	case Window30d:
		return weeklyBuckets(expenses, now)
	case Window90d:
		return monthlyBuckets(expenses, now.AddDate(0, 0, -89), now)
	default:
		if len(expenses) == 0 {
			return nil
		}
		earliest := expenses[0].Date
		for _, e := range expenses[1:] {
			if e.Date.Before(earliest) {
				earliest = e.Date
			}
		}
		return monthlyBuckets(expenses, earliest, now)
	}
}

func dailyBuckets(expenses []Expense, now time.Time) []Bucket {
	buckets := make([]Bucket, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		b := Bucket{Label: day.Format("Mon")}
		for _, e := range expenses {
			if sameDay(e.Date, day) {
				b.Total.Cents += e.Amount.Cents
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

func weeklyBuckets(expenses []Expense, now time.Time) []Bucket {
	buckets := make([]Bucket, 0, 4)
	for k := 0; k < 4; k++ {
		// Week k covers (now-(4-k)*7d, now-(3-k)*7d], so the four
		// buckets tile the most recent 28 days without overlap.
		start := now.AddDate(0, 0, -(4-k)*7)
		end := now.AddDate(0, 0, -(3-k)*7)
		b := Bucket{Label: fmt.Sprintf("W%d", k+1)}
		for _, e := range expenses {
			if e.Date.After(start) && !e.Date.After(end) {
				b.Total.Cents += e.Amount.Cents
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

func monthlyBuckets(expenses []Expense, from, to time.Time) []Bucket {
	first := monthIndex(from)
	last := monthIndex(to)
	if last < first {
		return nil
	}
	buckets := make([]Bucket, 0, last-first+1)
	for m := first; m <= last; m++ {
		month := time.Date(m/12, time.Month(m%12+1), 1, 0, 0, 0, 0, time.UTC)
		b := Bucket{Label: month.Format("Jan")}
		for _, e := range expenses {
			if monthIndex(e.Date) == m {
				b.Total.Cents += e.Amount.Cents
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

func monthIndex(t time.Time) int {
	u := t.UTC()
	return u.Year()*12 + int(u.Month()) - 1
}

func sameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	ay, am, ad := au.Date()
	by, bm, bd := bu.Date()
	return ay == by && am == bm && ad == bd
}
