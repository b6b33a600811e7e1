// Package httpapi exposes the dashboard core to the presentation layer:
// filtered readings, KPI summaries, filter-control options, and the live
// simulation stream, plus health and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/live"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/observability"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/pipeline"
)

// DatasetStore is the canonical dataset access the handlers need.
type DatasetStore interface {
	Get() (pipeline.Result, error)
	Invalidate()
	CheckReadiness() error
}

// RunnerFactory builds one simulation runner per live stream connection, so
// every run owns its clock position and randomness.
type RunnerFactory func() *live.Runner

// Server exposes the dashboard HTTP API.
type Server struct {
	httpServer *http.Server
	store      DatasetStore
	newRunner  RunnerFactory
	seedRows   int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, store DatasetStore, newRunner RunnerFactory, seedRows int, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		store:     store,
		newRunner: newRunner,
		seedRows:  seedRows,
		logger:    logger,
		metrics:   metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	r.Get("/api/readings", s.handleReadings)
	r.Get("/api/summary", s.handleSummary)
	r.Get("/api/filters", s.handleFilters)
	r.Post("/api/refresh", s.handleRefresh)
	r.Get("/live", s.handleLive)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // live streams outlive any fixed write window
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.CheckReadiness(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
