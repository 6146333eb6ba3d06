// Package server exposes the dataset, aggregates and objective reports
// as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spdash/spdash/internal/cache"
	"github.com/spdash/spdash/internal/config"
	"github.com/spdash/spdash/internal/logger"
)

// Server serves one configured source through a shared cache.
type Server struct {
	cache  *cache.Cache
	cfg    *config.Config
	log    *logger.Logger
	router chi.Router
}

// New creates a server for cfg's source.
func New(c *cache.Cache, cfg *config.Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{cache: c, cfg: cfg, log: log}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	timeout := time.Duration(s.cfg.Dashboard.Server.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.log), middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Dashboard.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/dataset", s.getDataset)
		ar.Get("/objectives/{id}", s.getObjective)
		ar.Get("/aggregate", s.getAggregate)
		ar.Post("/cache/invalidate", s.invalidate)
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := s.httpServer()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", srv.Addr, "source", s.cfg.Dashboard.Source.Location)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Dashboard.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          s.log.StdLogger(slog.LevelError),
	}
}

// requestLogger logs one line per request.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
