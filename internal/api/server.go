// Package api serves the JSON data endpoint the web UI reads users,
// expenses and budgets from. Responses follow json-server conventions.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	applog "expensetracker/internal/log"
	"expensetracker/internal/metrics"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/storage"
)

const maxBodyBytes = 1 << 20

type Options struct {
	Addr string
	// AllowedOrigins feeds the CORS policy; empty allows any origin.
	AllowedOrigins []string
	Logger         *applog.Logger
}

type Server struct {
	http.Server
	store storage.Store

	shutdownOnce sync.Once
}

func NewServer(opts Options, store storage.Store) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{store: store}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(trace.NewMiddleware(trace.ClientIP, logger.WithComponent(applog.ComponentTrace).Logger).Middleware)
	r.Use(applog.Middleware(logger, func(r *http.Request) string { return trace.GetRequestID(r.Context()) }))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", trace.RequestIDHeader},
		ExposedHeaders: []string{trace.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(security.NewHeadersMiddleware(security.APIHeadersConfig()).Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/users", s.handleListUsers)

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", s.handleListExpenses)
		r.Post("/", s.handleCreateExpense)
		r.Get("/{id}", s.handleGetExpense)
		r.Put("/{id}", s.handleUpdateExpense)
		r.Delete("/{id}", s.handleDeleteExpense)
	})

	r.Get("/budgets", s.handleGetBudgets)
	r.Put("/budgets", s.handleReplaceBudgets)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}
