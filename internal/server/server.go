// Package server exposes the layout engine over HTTP.
//
// The API is JSON in, JSON out:
//
//	POST /api/layout     run a full layout pass over a diagram
//	POST /api/fit        compute a parent's minimum size
//	POST /api/place      compute position and size for a new rectangle
//	GET  /api/diagrams   list stored diagrams
//	PUT  /api/diagrams/{id}
//	GET  /api/diagrams/{id}
//	DELETE /api/diagrams/{id}
//	GET  /healthz
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/boxtree-io/boxtree/pkg/pipeline"
	"github.com/boxtree-io/boxtree/pkg/store"
)

// Server wires the pipeline runner and diagram store behind a chi router.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a Server. The store may be nil, in which case the diagram
// CRUD endpoints respond 503.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, store: st, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/fit", s.handleFit)
		r.Post("/place", s.handlePlace)

		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.handleListDiagrams)
			r.Get("/{id}", s.handleGetDiagram)
			r.Put("/{id}", s.handlePutDiagram)
			r.Delete("/{id}", s.handleDeleteDiagram)
		})
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
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
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
