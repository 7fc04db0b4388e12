package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"outlay/internal/core"
)

type budgetJSON struct {
	Limit      *string `json:"limit"`
	MonthTotal string  `json:"month_total"`
	Over       bool    `json:"over"`
}

type budgetPayload struct {
	Limit any `json:"limit"`
}

// handleBudget reads and sets the monthly spending limit. A PUT with a
// non-numeric or non-positive limit clears it rather than erroring, so a
// client can always "set whatever the user typed".
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeBudget(w)

	case http.MethodPut:
		p, err := decodeBudget(r)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		cents, err := amountToCents(p.Limit)
		if err != nil || cents <= 0 {
			slog.InfoContext(r.Context(), "Clearing spending limit", "reason", "non-positive or non-numeric input")
			cents = 0
		}
		s.svc.SetLimit(r.Context(), cents)
		s.writeBudget(w)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) writeBudget(w http.ResponseWriter) {
	st := s.svc.Store()
	out := budgetJSON{
		MonthTotal: core.MonthTotal(st.List(), s.now()).String(),
		Over:       st.OverLimit(s.now()),
	}
	if limit, ok := st.Limit(); ok {
		v := limit.String()
		out.Limit = &v
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeBudget(r *http.Request) (budgetPayload, error) {
	var p budgetPayload
	dec := jsonDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return budgetPayload{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	return p, nil
}
