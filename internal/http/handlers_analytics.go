package http

import (
	"net/http"

	"outlay/internal/core"
)

type summaryJSON struct {
	Total        string `json:"total"`
	AverageDaily string `json:"average_daily"`
	Highest      string `json:"highest"`
	Count        int    `json:"count"`
	TopCategory  string `json:"top_category"`
}

type bucketJSON struct {
	Label string `json:"label"`
	Total string `json:"total"`
}

type categoryTotalJSON struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

// windowedExpenses applies the window query parameter (default 30d, the
// dashboard view) to the current expense list.
func (s *Server) windowedExpenses(w http.ResponseWriter, r *http.Request) ([]core.Expense, core.Window, bool) {
	window, err := windowParam(r, core.Window30d)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	return core.FilterByWindow(s.svc.Store().List(), window, s.now()), window, true
}

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	expenses, window, ok := s.windowedExpenses(w, r)
	if !ok {
		return
	}

	sum := core.SummaryStats(expenses, window)
	writeJSON(w, http.StatusOK, summaryJSON{
		Total:        sum.Total.String(),
		AverageDaily: sum.AverageDaily.String(),
		Highest:      sum.Highest.String(),
		Count:        sum.Count,
		TopCategory:  sum.TopCategory,
	})
}

func (s *Server) handleAnalyticsSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	expenses, window, ok := s.windowedExpenses(w, r)
	if !ok {
		return
	}

	buckets := core.BucketedSeries(expenses, window, s.now())
	out := make([]bucketJSON, len(buckets))
	for i, b := range buckets {
		out[i] = bucketJSON{Label: b.Label, Total: b.Total.String()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnalyticsCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	expenses, _, ok := s.windowedExpenses(w, r)
	if !ok {
		return
	}

	totals := core.CategoryTotals(expenses)
	out := make([]categoryTotalJSON, len(totals))
	for i, t := range totals {
		out[i] = categoryTotalJSON{Category: t.Category, Total: t.Total.String()}
	}
	writeJSON(w, http.StatusOK, out)
}
