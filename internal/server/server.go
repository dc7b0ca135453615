// Package server exposes the fix and audit pipelines over HTTP.
//
// Routes:
//
//	POST /v1/fix     fix the posted model, respond with the fixed document
//	POST /v1/audit   audit the posted model, respond with the violations
//	POST /v1/render  fix the posted model and draw it (?format=svg|dot)
//	GET  /healthz    liveness and build information
//	GET  /metrics    Prometheus metrics, when configured
//
// Request bodies are JSON event models, or YAML when the Content-Type says
// so. Every response carries an X-Request-ID header; a valid client-supplied
// id is echoed back, otherwise a new one is generated.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/weavr/pkg/layout"
	"github.com/matzehuels/weavr/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 10 << 20

// Config configures a Server.
type Config struct {
	// Runner executes the pipelines. Required.
	Runner *pipeline.Runner

	// Layout is applied to every fix request.
	Layout layout.Options

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	// Logger receives one line per request. Nil uses log.Default().
	Logger *log.Logger

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64
}

// Server is the weavr HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/fix", s.handleFix)
		r.Post("/audit", s.handleAudit)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
