package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"outlay/internal/core"
)

// expensePayload is the decoded body of a create or patch request. Amount is
// kept loose because clients send it either as a JSON number or as a decimal
// string; both go through ParseDecimalToCents.
type expensePayload struct {
	Description *string `json:"description"`
	Amount      any     `json:"amount"`
	Category    *string `json:"category"`
	Date        *string `json:"date"`
}

// jsonDecoder decodes request bodies with UseNumber so amounts survive as
// exact decimal strings instead of float64.
func jsonDecoder(r *http.Request) *json.Decoder {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec
}

func decodePayload(r *http.Request) (expensePayload, error) {
	var p expensePayload
	dec := jsonDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return expensePayload{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	return p, nil
}

// amountToCents normalizes the loose amount field. Numbers and numeric
// strings are accepted; anything else is an error.
func amountToCents(v any) (int64, error) {
	switch val := v.(type) {
	case string:
		return core.ParseDecimalToCents(val)
	case json.Number:
		return core.ParseDecimalToCents(val.String())
	default:
		return 0, core.ErrInvalidAmount
	}
}

// parseDraft builds a new-expense draft from the request body. Validation
// happens here at the boundary; the store trusts what it receives.
func parseDraft(r *http.Request) (core.Draft, error) {
	p, err := decodePayload(r)
	if err != nil {
		return core.Draft{}, err
	}

	var draft core.Draft
	if p.Description != nil {
		draft.Description = sanitizeInput(*p.Description)
	}
	if p.Category != nil {
		draft.Category = sanitizeInput(*p.Category)
	}
	if p.Amount != nil {
		cents, err := amountToCents(p.Amount)
		if err != nil {
			return core.Draft{}, err
		}
		draft.Amount = core.Money{Cents: cents}
	}

	if err := draft.Validate(); err != nil {
		return core.Draft{}, err
	}
	return draft, nil
}

// parsePatch builds a partial update from the request body. Absent fields
// stay nil and are left untouched by the store.
func parsePatch(r *http.Request) (core.Patch, error) {
	p, err := decodePayload(r)
	if err != nil {
		return core.Patch{}, err
	}

	var patch core.Patch
	if p.Description != nil {
		d := sanitizeInput(*p.Description)
		patch.Description = &d
	}
	if p.Category != nil {
		c := sanitizeInput(*p.Category)
		patch.Category = &c
	}
	if p.Amount != nil {
		cents, err := amountToCents(p.Amount)
		if err != nil {
			return core.Patch{}, err
		}
		patch.Amount = &core.Money{Cents: cents}
	}
	if p.Date != nil {
		t, err := parseDate(*p.Date)
		if err != nil {
			return core.Patch{}, fmt.Errorf("invalid date %q", *p.Date)
		}
		patch.Date = &t
	}

	if patch.Empty() {
		return core.Patch{}, errors.New("empty patch")
	}
	if err := patch.Validate(); err != nil {
		return core.Patch{}, err
	}
	return patch, nil
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// windowParam reads the window query parameter, falling back to def when the
// parameter is absent.
func windowParam(r *http.Request, def core.Window) (core.Window, error) {
	v := strings.TrimSpace(r.URL.Query().Get("window"))
	if v == "" {
		return def, nil
	}
	return core.ParseWindow(v)
}

// sortParam reads the sort query parameter, defaulting to most recent first.
func sortParam(r *http.Request) (core.SortCriterion, error) {
	v := strings.TrimSpace(r.URL.Query().Get("sort"))
	if v == "" {
		return core.SortByDate, nil
	}
	return core.ParseSortCriterion(v)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
