// Package api exposes the matrix synthesis pipeline over HTTP for
// debugging. Developers post synthetic trigger contexts and read back the
// matrix CI would emit, without touching git state or real environment.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/castframe/matrixgen/internal/history"
	"github.com/castframe/matrixgen/internal/matrix"
)

// RunLister lists recorded matrix runs.
type RunLister interface {
	List(ctx context.Context, limit int) ([]history.Run, error)
}

// Config holds API server configuration.
type Config struct {
	Listen string
	// Prefix is the merge-train branch prefix used for classification.
	Prefix string
	Policy matrix.Policy
}

// Server is the debug HTTP server.
type Server struct {
	config    Config
	runs      RunLister
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time
}

// New creates a Server. runs may be nil when no history database is
// configured; the runs endpoint then reports 404.
func New(config Config, runs RunLister, logger *slog.Logger) *Server {
	return &Server{
		config:    config,
		runs:      runs,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Start starts the HTTP server (blocking until ctx is cancelled).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("preview server starting", "listen", s.config.Listen)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("preview server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/v1/matrix", s.handleMatrix)
	r.Get("/v1/runs", s.handleListRuns)

	return r
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
