package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"outlay/internal/services"
	"outlay/internal/storage"
	"outlay/internal/store"
)

var testNow = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := store.New(storage.NewMemory(), store.WithClock(func() time.Time { return testNow }))
	t.Cleanup(func() { _ = st.Close() })
	svc := services.NewExpenseService(st, nil)
	return NewServer(":0", svc, WithClock(func() time.Time { return testNow }))
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestCreateListPatchDelete(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"Lunch","amount":"12.50","category":"Food & Dining"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decodeBody[expenseJSON](t, w)
	if created.ID == "" {
		t.Fatal("created expense has no ID")
	}
	if created.Amount != "12.50" || created.AmountCents != 1250 {
		t.Fatalf("created amount = %q / %d", created.Amount, created.AmountCents)
	}
	if created.Date == "" {
		t.Fatal("created expense has no date")
	}

	w = doJSON(t, s, http.MethodGet, "/api/expenses", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	list := decodeBody[[]expenseJSON](t, w)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	w = doJSON(t, s, http.MethodPatch, "/api/expenses/"+created.ID, `{"amount":7}`)
	if w.Code != http.StatusNoContent {
		t.Fatalf("patch status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodGet, "/api/expenses/"+created.ID, "")
	got := decodeBody[expenseJSON](t, w)
	if got.AmountCents != 700 {
		t.Fatalf("patched amount = %d, want 700", got.AmountCents)
	}
	if got.Description != "Lunch" {
		t.Fatalf("patch touched description: %q", got.Description)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/expenses/"+created.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/expenses/"+created.ID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing description", `{"amount":"5","category":"Other"}`},
		{"blank description", `{"description":"  ","amount":"5","category":"Other"}`},
		{"missing amount", `{"description":"x","category":"Other"}`},
		{"zero amount", `{"description":"x","amount":"0","category":"Other"}`},
		{"negative amount", `{"description":"x","amount":"-3","category":"Other"}`},
		{"non-numeric amount", `{"description":"x","amount":"abc","category":"Other"}`},
		{"missing category", `{"description":"x","amount":"5"}`},
		{"malformed JSON", `{"description":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/api/expenses", tt.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422 (body %s)", w.Code, w.Body.String())
			}
		})
	}

	w := doJSON(t, s, http.MethodGet, "/api/expenses", "")
	if list := decodeBody[[]expenseJSON](t, w); len(list) != 0 {
		t.Fatalf("rejected drafts reached the store: %+v", list)
	}
}

func TestPatchAndDeleteUnknownIDAreQuiet(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPatch, "/api/expenses/nope", `{"description":"x"}`)
	if w.Code != http.StatusNoContent {
		t.Fatalf("patch unknown status = %d", w.Code)
	}
	w = doJSON(t, s, http.MethodDelete, "/api/expenses/nope", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete unknown status = %d", w.Code)
	}
}

func TestListWindowAndSort(t *testing.T) {
	s := newTestServer(t)

	// Recent expense dated now; the store stamps creation time itself.
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"Coffee","amount":"3.00","category":"Food & Dining"}`)
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"Bus","amount":"2.50","category":"Transportation"}`)

	// Push one record outside the 7d window via a date patch.
	w := doJSON(t, s, http.MethodGet, "/api/expenses", "")
	list := decodeBody[[]expenseJSON](t, w)
	if len(list) != 2 {
		t.Fatalf("list = %+v", list)
	}
	old := testNow.AddDate(0, 0, -30).Format(time.RFC3339)
	doJSON(t, s, http.MethodPatch, "/api/expenses/"+list[1].ID, `{"date":"`+old+`"}`)

	w = doJSON(t, s, http.MethodGet, "/api/expenses?window=7d", "")
	got := decodeBody[[]expenseJSON](t, w)
	if len(got) != 1 || got[0].Description != "Coffee" {
		t.Fatalf("7d window = %+v", got)
	}

	w = doJSON(t, s, http.MethodGet, "/api/expenses?sort=amount", "")
	got = decodeBody[[]expenseJSON](t, w)
	if len(got) != 2 || got[0].Description != "Coffee" || got[1].Description != "Bus" {
		t.Fatalf("amount sort = %+v", got)
	}

	w = doJSON(t, s, http.MethodGet, "/api/expenses?window=nope", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad window status = %d", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/expenses?sort=nope", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad sort status = %d", w.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/categories", "")
	defaults := decodeBody[[]string](t, w)
	if len(defaults) != len(store.DefaultCategories) {
		t.Fatalf("got %d default categories, want %d", len(defaults), len(store.DefaultCategories))
	}

	w = doJSON(t, s, http.MethodPost, "/api/categories", `{"name":"Books"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add category status = %d", w.Code)
	}
	cats := decodeBody[[]string](t, w)
	found := false
	for _, c := range cats {
		if c == "Books" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Books missing from %v", cats)
	}

	w = doJSON(t, s, http.MethodPost, "/api/categories", `{"name":"  "}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank category status = %d", w.Code)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"A","amount":"10.00","category":"Food & Dining"}`)
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"B","amount":"5.00","category":"Food & Dining"}`)
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"C","amount":"20.00","category":"Transportation"}`)

	w := doJSON(t, s, http.MethodGet, "/api/analytics/summary?window=30d", "")
	sum := decodeBody[summaryJSON](t, w)
	if sum.Total != "35.00" || sum.Count != 3 || sum.Highest != "20.00" {
		t.Fatalf("summary = %+v", sum)
	}
	// 3500 cents over 30 days rounds 116.67 -> 1.17
	if sum.AverageDaily != "1.17" {
		t.Fatalf("average daily = %q", sum.AverageDaily)
	}
	if sum.TopCategory != "Transportation" {
		t.Fatalf("top category = %q", sum.TopCategory)
	}

	w = doJSON(t, s, http.MethodGet, "/api/analytics/categories?window=30d", "")
	totals := decodeBody[[]categoryTotalJSON](t, w)
	if len(totals) != 2 || totals[0].Category != "Food & Dining" || totals[0].Total != "15.00" {
		t.Fatalf("category totals = %+v", totals)
	}

	w = doJSON(t, s, http.MethodGet, "/api/analytics/series?window=7d", "")
	buckets := decodeBody[[]bucketJSON](t, w)
	if len(buckets) != 7 {
		t.Fatalf("got %d daily buckets, want 7", len(buckets))
	}
	// All three expenses land on the last bucket, today.
	if buckets[6].Total != "35.00" {
		t.Fatalf("today's bucket = %+v", buckets[6])
	}

	w = doJSON(t, s, http.MethodGet, "/api/analytics/series?window=30d", "")
	buckets = decodeBody[[]bucketJSON](t, w)
	if len(buckets) != 4 || buckets[0].Label != "W1" || buckets[3].Label != "W4" {
		t.Fatalf("weekly buckets = %+v", buckets)
	}

	w = doJSON(t, s, http.MethodGet, "/api/analytics/summary?window=bogus", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad window status = %d", w.Code)
	}
}

func TestSummaryEmptyStore(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/analytics/summary", "")
	sum := decodeBody[summaryJSON](t, w)
	if sum.TopCategory != "N/A" || sum.Count != 0 || sum.Total != "0.00" {
		t.Fatalf("empty summary = %+v", sum)
	}
}

func TestBudgetEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/budget", "")
	b := decodeBody[budgetJSON](t, w)
	if b.Limit != nil || b.Over {
		t.Fatalf("initial budget = %+v", b)
	}

	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"Rent","amount":"120.00","category":"Housing"}`)

	w = doJSON(t, s, http.MethodPut, "/api/budget", `{"limit":"100.00"}`)
	b = decodeBody[budgetJSON](t, w)
	if b.Limit == nil || *b.Limit != "100.00" {
		t.Fatalf("limit = %+v", b.Limit)
	}
	if b.MonthTotal != "120.00" || !b.Over {
		t.Fatalf("budget after limit = %+v", b)
	}

	// Limit equal to spending is not over.
	w = doJSON(t, s, http.MethodPut, "/api/budget", `{"limit":120}`)
	if b = decodeBody[budgetJSON](t, w); b.Over {
		t.Fatalf("exact limit flagged over: %+v", b)
	}

	// Non-positive and non-numeric inputs clear the limit.
	for _, body := range []string{`{"limit":0}`, `{"limit":"abc"}`, `{"limit":null}`} {
		w = doJSON(t, s, http.MethodPut, "/api/budget", body)
		if w.Code != http.StatusOK {
			t.Fatalf("clear via %s status = %d", body, w.Code)
		}
		b = decodeBody[budgetJSON](t, w)
		if b.Limit != nil || b.Over {
			t.Fatalf("clear via %s left %+v", body, b)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method, path string
	}{
		{http.MethodPut, "/api/expenses"},
		{http.MethodPost, "/api/analytics/summary"},
		{http.MethodDelete, "/api/budget"},
		{http.MethodDelete, "/api/categories"},
	}
	for _, tt := range tests {
		w := doJSON(t, s, tt.method, tt.path, "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s status = %d, want 405", tt.method, tt.path, w.Code)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := doJSON(t, s, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}
}
