package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/ledger"
)

const (
	defaultRecent = 5
	maxRecent     = 50
)

// handleListTransactions serves one page of the table view. The filter
// conditions combine: a row must match category, type and search term.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ, err := ledger.ParseTypeFilter(q.Get("type"))
	if err != nil {
		writeError(w, r, badRequest("%v", err))
		return
	}
	f := ledger.Filter{
		Category: q.Get("category"),
		Type:     typ,
		Search:   sanitizeInput(q.Get("q")),
	}
	writeJSON(w, http.StatusOK, newPage(s.svc.Page(f, queryInt(r, "page", 1))))
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	n := min(max(queryInt(r, "n", defaultRecent), 1), maxRecent)
	writeJSON(w, http.StatusOK, newTransactions(s.svc.Recent(n)))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Transaction(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransaction(t))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	s.saveTransaction(w, r, "", http.StatusCreated)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	s.saveTransaction(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (s *Server) saveTransaction(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := req.toTransaction(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.svc.SaveTransaction(r.Context(), t)
	writeMutation(w, r, status, newTransaction(saved), err)
}

// handleDeleteTransaction only registers the delete; it runs once the
// returned token is confirmed.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	action, err := s.svc.RequestTransactionDeletion(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, action)
}
