package http

import (
	"errors"
	"net/http"

	"fintrack/internal/charts"
	"fintrack/internal/core"
)

func (s *Server) writePeriod(w http.ResponseWriter, p core.Period) {
	writeJSON(w, http.StatusOK, newPeriod(p, s.svc.CanAdvance()))
}

func (s *Server) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	s.writePeriod(w, s.svc.Period())
}

func (s *Server) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	var req periodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := core.NewPeriod(req.Year, req.Month)
	if err != nil {
		writeError(w, r, badRequest("%v", err))
		return
	}
	if err := s.svc.SetPeriod(p); err != nil {
		writeError(w, r, err)
		return
	}
	s.writePeriod(w, p)
}

func (s *Server) handlePrevPeriod(w http.ResponseWriter, r *http.Request) {
	s.writePeriod(w, s.svc.PrevPeriod())
}

func (s *Server) handleNextPeriod(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.NextPeriod()
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writePeriod(w, p)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSummary(s.svc.Period(), s.svc.Summary()))
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newBreakdown(s.svc.Breakdown()))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSeries(s.svc.Series()))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoriesDTO{
		Income:  newCategoryOptions(core.CategoriesFor(core.KindIncome)),
		Expense: newCategoryOptions(core.CategoriesFor(core.KindExpense)),
	})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Preferences())
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.svc.ToggleDarkMode(r.Context())
	writeMutation(w, r, http.StatusOK, prefs, err)
}

func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.SeriesSnapshot()
	png, err := s.charts.Trend(snap.Revision, snap.Period, snap.Data)
	s.writePNG(w, r, png, err)
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.BreakdownSnapshot()
	png, err := s.charts.Breakdown(snap.Revision, snap.Period, snap.Data)
	s.writePNG(w, r, png, err)
}

// writePNG answers 204 when there is nothing to draw.
func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, png []byte, err error) {
	if errors.Is(err, charts.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
