package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	statuses := s.svc.Budgets()
	out := make([]budgetStatusDTO, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, newBudgetStatus(st))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateBudget upserts by category: posting a second budget for a
// category replaces the first.
func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	b, ok := decodeBudget(w, r, "")
	if !ok {
		return
	}
	saved, err := s.svc.SaveBudget(r.Context(), b)
	writeMutation(w, r, http.StatusCreated, newBudget(saved), err)
}

// handleUpdateBudget never creates: an id that is gone by the time the
// write runs is a 404.
func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	b, ok := decodeBudget(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	saved, err := s.svc.UpdateBudget(r.Context(), b)
	writeMutation(w, r, http.StatusOK, newBudget(saved), err)
}

func decodeBudget(w http.ResponseWriter, r *http.Request, id string) (core.Budget, bool) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return core.Budget{}, false
	}
	b, err := req.toBudget(id)
	if err != nil {
		writeError(w, r, err)
		return core.Budget{}, false
	}
	return b, true
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	action, err := s.svc.RequestBudgetDeletion(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, action)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	applied, err := s.svc.Resolve(r.Context(), chi.URLParam(r, "token"), req.Confirm)
	writeMutation(w, r, http.StatusOK, confirmDTO{Applied: applied}, err)
}
