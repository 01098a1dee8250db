// Package server exposes orderings and enumerations over HTTP.
//
// Routes:
//
//	GET  /healthz           liveness and build information
//	GET  /metrics           Prometheus metrics
//	GET  /v1/algorithms     ordering algorithms and puzzle models
//	POST /v1/orderings      order the rows of a graph
//	POST /v1/enumerations   enumerate the solutions of a puzzle model
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// with a machine-readable code whose HTTP status comes from
// [errors.HTTPStatus].
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/statewalk/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 8 << 20
	DefaultMaxTimeout   = 60 * time.Second
	shutdownGrace       = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr string
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
	// MaxTimeout caps the search budget a request may ask for.
	MaxTimeout time.Duration
	Runner     *pipeline.Runner
	Logger     *log.Logger
	// Gatherer serves /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New builds a server. A nil Runner gets an uncached one.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.MaxTimeout <= 0 {
		cfg.MaxTimeout = DefaultMaxTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{cfg: cfg}
	r := chi.NewRouter()
	r.Use(requestID(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Use(limitBody(cfg.MaxBodyBytes))
		r.Get("/algorithms", s.algorithms)
		r.Post("/orderings", s.order)
		r.Post("/enumerations", s.enumerate)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound(r))
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}
