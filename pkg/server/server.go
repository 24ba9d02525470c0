// Package server exposes the explanation pipeline over HTTP.
//
// The API is a thin layer over pkg/interpret and pkg/store:
//
//	POST /v1/explain                  run the estimator, persist the result
//	GET  /v1/explanations/{id}        fetch a stored explanation
//	GET  /v1/explanations/{id}/chart  render a stored explanation as a chart
//	DELETE /v1/explanations/{id}      remove a stored explanation
//	GET  /healthz                     liveness probe
//
// Results persist through a store.Store backend (memory, file, redis, mongo),
// so a shared instance can serve explanations computed elsewhere.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/raonyguimaraes/skater/pkg/store"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address (e.g., ":8080").
	Addr string

	// TTL is the lifetime of stored explanations. Zero means store.DefaultTTL.
	TTL time.Duration

	// ReadHeaderTimeout bounds how long a client may take to send headers.
	ReadHeaderTimeout time.Duration
}

// Server wraps the HTTP server and related dependencies.
type Server struct {
	cfg    Config
	store  store.Store
	logger *log.Logger
	server *http.Server
}

// New constructs a server with routes and middleware wired.
func New(cfg Config, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.TTL == 0 {
		cfg.TTL = store.DefaultTTL
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		logger: logger,
	}
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	return s
}

// Routes builds the chi router. Exposed so tests can drive the handler
// stack through httptest without binding a port.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/explain", s.handleExplain)
		r.Get("/explanations/{id}", s.handleGetExplanation)
		r.Get("/explanations/{id}/chart", s.handleGetChart)
		r.Delete("/explanations/{id}", s.handleDeleteExplanation)
	})

	return r
}

// Run starts the HTTP server and blocks until it exits or errors.
func (s *Server) Run() error {
	s.logger.Info("api server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server within the provided context timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
