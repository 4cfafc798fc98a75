// Package http exposes the expense tracker REST API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/amqp"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/auth"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/config"
	applog "github.com/AsheemRahman/Expense-Tracker-Analytics/internal/log"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/storage"
)

type Server struct {
	http.Server

	store      storage.Store
	tokens     *auth.TokenManager
	events     *amqp.Client
	bcryptCost int
	logger     *applog.Logger
}

// NewServer wires routes, middleware and dependencies into a ready-to-run
// http.Server. events may be nil when no broker is configured.
func NewServer(cfg *config.Config, store storage.Store, tokens *auth.TokenManager, events *amqp.Client, logger *applog.Logger) *Server {
	s := &Server{
		store:      store,
		tokens:     tokens,
		events:     events,
		bcryptCost: cfg.BcryptCost,
		logger:     logger.WithComponent(applog.ComponentHTTP),
	}

	r := chi.NewRouter()
	r.Use(applog.Middleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/category", s.handleListCategories)
			r.Post("/category", s.handleCreateCategory)

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", s.handleListExpenses)
				r.Post("/", s.handleCreateExpense)
				r.Get("/export", s.handleExportExpenses)
				r.Put("/{id}", s.handleUpdateExpense)
				r.Delete("/{id}", s.handleDeleteExpense)
			})
		})
	})

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the router, used by tests to drive requests without a
// listening socket.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ListCategories(r.Context(), 0); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
