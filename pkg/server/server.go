// Package server exposes the treemap pipeline and layout store over HTTP.
//
// Routes:
//
//	GET    /healthz                              liveness and build info
//	POST   /v1/layouts                           lay out a source document and store it
//	GET    /v1/layouts                           list stored layouts
//	GET    /v1/layouts/{id}                      layout JSON
//	DELETE /v1/layouts/{id}                      remove a stored layout
//	GET    /v1/layouts/{id}/render/{format}      render a stored layout
//
// Errors are JSON objects of the form {"code": "...", "message": "..."} with
// an HTTP status derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/store"
)

// DefaultMaxBodyBytes bounds uploaded source documents.
const DefaultMaxBodyBytes = 32 << 20

// Config configures a [Server].
type Config struct {
	// Runner executes the pipeline. A runner without cache is used when nil.
	Runner *pipeline.Runner

	// Store persists layouts. A MemoryStore is used when nil.
	Store store.Store

	// Defaults seeds the pipeline options of every request; query parameters
	// override them.
	Defaults pipeline.Options

	// MaxBodyBytes bounds request bodies. Zero selects DefaultMaxBodyBytes.
	MaxBodyBytes int64

	Logger *log.Logger
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	defaults pipeline.Options
	maxBody  int64
	logger   *log.Logger
	router   chi.Router
}

// New creates a server and its routes.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	st := cfg.Store
	if st == nil {
		st = store.NewMemoryStore()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	s := &Server{
		runner:   runner,
		store:    st,
		defaults: cfg.Defaults,
		maxBody:  maxBody,
		logger:   logger.WithPrefix("server"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/render/{format}", s.handleRender)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.logger, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the store and the runner's cache.
func (s *Server) Close() error {
	return errors.Join(s.store.Close(), s.runner.Close())
}
