// Package http exposes the automation surface for long-running deployments:
// the rendered map, a webhook-style sync trigger, and the usual health,
// readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guillaume-flambard/pacs-dog-map/internal/render"
	"github.com/guillaume-flambard/pacs-dog-map/internal/snapshot"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
	syncpkg "github.com/guillaume-flambard/pacs-dog-map/internal/sync"
)

// SyncRunner executes one fetch-normalize-merge cycle.
type SyncRunner interface {
	Run(ctx context.Context) (syncpkg.Result, error)
}

// Server exposes the map, sync trigger, health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	store      *store.Store
	syncer     SyncRunner
	mapOpts    render.MapOptions
	mapPath    string
	logger     *slog.Logger
}

// NewServer wires the HTTP routes around the store and syncer.
func NewServer(addr string, st *store.Store, syncer SyncRunner, mapOpts render.MapOptions, mapPath string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second, // a sync run happens inside one request
			IdleTimeout:  60 * time.Second,
		},
		store:   st,
		syncer:  syncer,
		mapOpts: mapOpts,
		mapPath: mapPath,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handleMap)
	mux.HandleFunc("POST /sync", s.handleSync)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

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

// handleMap renders the map page straight from the store, so the browser
// always sees the current record set rather than the last written artifact.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context(), store.Filter{})
	if err != nil {
		s.fail(w, "load records", err)
		return
	}
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.fail(w, "load stats", err)
		return
	}

	page, err := render.MapHTML(records, stats, s.mapOpts)
	if err != nil {
		s.fail(w, "render map", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	_, _ = w.Write(page)
}

// handleSync runs one sync and republishes the map artifact. Errors map to
// 502 for upstream snapshot trouble and 500 otherwise; either way the store
// keeps its previous state.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	result, err := s.syncer.Run(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, syncpkg.ErrEmptySnapshot) || errors.Is(err, snapshot.ErrUnavailable) {
			status = http.StatusBadGateway
		}
		s.logger.Error("webhook sync failed", "error", err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	if err := s.republishMap(r.Context()); err != nil {
		s.logger.Error("map republish failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":   result.RunID,
		"applied":  result.Merge.Applied(),
		"inserted": result.Merge.Inserted,
		"updated":  result.Merge.Updated,
		"warnings": len(result.Warnings),
		"summary":  result.Summary(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.fail(w, "load stats", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":             stats.Total,
		"by_status":         stats.ByStatus,
		"by_temperament":    stats.ByTemperament,
		"resolved":          stats.Resolved,
		"unresolved":        stats.Unresolved,
		"stale_coordinates": stats.StaleCoordinates,
		"pregnant":          stats.Pregnant,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once the store holds at least one record, i.e.
// some run (this process or an earlier one) has synced successfully.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	if stats.Total == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "no records synced yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) republishMap(ctx context.Context) error {
	records, err := s.store.List(ctx, store.Filter{})
	if err != nil {
		return err
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return err
	}
	return render.WriteMap(records, stats, s.mapOpts, s.mapPath)
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	s.logger.Error(what+" failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
