package http

import (
	"log/slog"
	"net/http"
	"strings"

	"outlay/internal/core"
)

// handleExpenses serves the collection: POST creates, GET lists the windowed
// and sorted view.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createExpense(w, r)
	case http.MethodGet:
		s.listExpenses(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	draft, err := parseDraft(r)
	if err != nil {
		slog.WarnContext(r.Context(), "Rejected expense draft", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	exp := s.svc.Create(r.Context(), draft)
	writeJSON(w, http.StatusCreated, toExpenseJSON(exp))
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	window, err := windowParam(r, core.WindowAll)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	criterion, err := sortParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view := core.FilterByWindow(s.svc.Store().List(), window, s.now())
	writeJSON(w, http.StatusOK, toExpenseListJSON(core.Sorted(view, criterion)))
}

// handleExpenseByID serves a single record addressed by the path suffix.
// GET is the only operation that distinguishes a missing record; PATCH and
// DELETE on an unknown ID are quiet no-ops.
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		exp, ok := s.svc.Store().GetByID(id)
		if !ok {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeJSON(w, http.StatusOK, toExpenseJSON(exp))

	case http.MethodPatch:
		patch, err := parsePatch(r)
		if err != nil {
			slog.WarnContext(r.Context(), "Rejected expense patch", "id", id, "error", err)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.svc.Update(r.Context(), id, patch)
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		s.svc.Delete(r.Context(), id)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PATCH, DELETE")
	}
}
