// Package http exposes the ledger service as a JSON API with PNG charts.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/charts"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/services"
)

// maxBodyBytes caps request bodies; ledger forms are tiny.
const maxBodyBytes = 64 << 10

type Server struct {
	http.Server
	svc     *services.LedgerService
	charts  *charts.Renderer
	limiter *ratelimit.Limiter
	logger  *log.Logger
}

// NewServer wires the routes onto an http.Server listening on addr.
func NewServer(addr string, svc *services.LedgerService, renderer *charts.Renderer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Server{
		svc:     svc,
		charts:  renderer,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		logger:  logger.WithComponent(log.ComponentHTTP),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.WritesOnly(clientIP, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many changes, try again in a minute"})
		}))

		r.Get("/categories", s.handleCategories)

		r.Get("/period", s.handleGetPeriod)
		r.Put("/period", s.handleSetPeriod)
		r.Post("/period/prev", s.handlePrevPeriod)
		r.Post("/period/next", s.handleNextPeriod)

		r.Get("/summary", s.handleSummary)
		r.Get("/breakdown", s.handleBreakdown)
		r.Get("/series", s.handleSeries)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Get("/recent", s.handleRecentTransactions)
			r.Get("/{id}", s.handleGetTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Post("/", s.handleCreateBudget)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
		})

		r.Post("/confirmations/{token}", s.handleConfirm)

		r.Get("/preferences", s.handleGetPreferences)
		r.Post("/preferences/theme", s.handleToggleTheme)
	})

	r.Get("/charts/trend.png", s.handleTrendChart)
	r.Get("/charts/categories.png", s.handleCategoryChart)

	return r
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}
