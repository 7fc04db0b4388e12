package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type categoryPayload struct {
	Name string `json:"name"`
}

// handleCategories serves the category vocabulary: the defaults, every
// custom addition, and anything referenced by a recorded expense.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.svc.Store().Categories())

	case http.MethodPost:
		var p categoryPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid JSON body: %v", err))
			return
		}
		name := sanitizeInput(p.Name)
		if name == "" {
			writeError(w, http.StatusUnprocessableEntity, "empty category")
			return
		}
		s.svc.AddCategory(r.Context(), name)
		writeJSON(w, http.StatusCreated, s.svc.Store().Categories())

	default:
		methodNotAllowed(w, "GET, POST")
	}
}
