// Package sync orchestrates one snapshot run: fetch, normalize, merge,
// summarize. Each run is a bounded batch; there is no background loop.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
	"github.com/guillaume-flambard/pacs-dog-map/internal/observability"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

// ErrEmptySnapshot marks a snapshot that fetched successfully but produced
// no usable records. Fatal for the run: an empty sheet is far more likely an
// upstream accident than reality, and must never silently empty the map.
var ErrEmptySnapshot = errors.New("snapshot produced no records")

// SnapshotProvider fetches one point-in-time copy of the sheet.
type SnapshotProvider interface {
	Fetch(ctx context.Context) ([]domain.RawRow, error)
}

// Merger reconciles normalized records with the persisted working set.
type Merger interface {
	Merge(ctx context.Context, incoming []domain.AnimalRecord) (store.MergeResult, error)
}

// Result summarizes one completed sync run.
type Result struct {
	RunID    string
	Rows     int
	Records  int
	Merge    store.MergeResult
	Warnings []domain.Warning
	Duration time.Duration
}

// Summary is the one-line outcome every successful run ends with.
func (r Result) Summary() string {
	return fmt.Sprintf("applied %d records, %d warnings", r.Merge.Applied(), len(r.Warnings))
}

// Syncer runs the fetch → normalize → merge cycle.
type Syncer struct {
	provider SnapshotProvider
	merger   Merger
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Syncer with the given collaborators.
func New(provider SnapshotProvider, merger Merger, logger *slog.Logger, metrics *observability.Metrics) *Syncer {
	return &Syncer{
		provider: provider,
		merger:   merger,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes one sync. Per-row problems are absorbed into warnings; only
// whole-batch failures (snapshot unavailable, no records at all) return an
// error, in which case the store is untouched and the previous persisted
// state stays authoritative.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	result := Result{RunID: uuid.NewString()}
	logger := s.logger.With("run_id", result.RunID)

	rows, err := s.provider.Fetch(ctx)
	if err != nil {
		s.metrics.SyncRuns.WithLabelValues("failure").Inc()
		return Result{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	result.Rows = len(rows)
	if len(rows) == 0 {
		s.metrics.SyncRuns.WithLabelValues("failure").Inc()
		return Result{}, ErrEmptySnapshot
	}

	records, warnings := domain.Normalize(rows)
	result.Records = len(records)
	result.Warnings = warnings
	s.observeNormalization(logger, records, warnings)

	if len(records) == 0 {
		s.metrics.SyncRuns.WithLabelValues("failure").Inc()
		return Result{}, fmt.Errorf("%w: all %d rows dropped", ErrEmptySnapshot, len(rows))
	}

	mergeResult, err := s.merger.Merge(ctx, records)
	if err != nil {
		s.metrics.SyncRuns.WithLabelValues("failure").Inc()
		return Result{}, fmt.Errorf("merge records: %w", err)
	}
	result.Merge = mergeResult
	result.Duration = time.Since(start)

	s.metrics.SyncRuns.WithLabelValues("success").Inc()
	s.metrics.RecordsInserted.Add(float64(mergeResult.Inserted))
	s.metrics.RecordsUpdated.Add(float64(mergeResult.Updated))
	s.metrics.CoordsPreserved.Add(float64(mergeResult.CoordinatesPreserved))
	s.metrics.SyncDuration.Observe(result.Duration.Seconds())
	s.metrics.LastSyncUnixTime.SetToCurrentTime()

	logger.Info("sync complete",
		"rows", result.Rows,
		"records", result.Records,
		"inserted", mergeResult.Inserted,
		"updated", mergeResult.Updated,
		"coordinates_preserved", mergeResult.CoordinatesPreserved,
		"warnings", len(warnings),
		"duration", result.Duration,
	)
	return result, nil
}

func (s *Syncer) observeNormalization(logger *slog.Logger, records []domain.AnimalRecord, warnings []domain.Warning) {
	resolved := 0
	for _, rec := range records {
		if rec.Resolved {
			resolved++
		}
	}
	s.metrics.ResolveOutcomes.WithLabelValues("resolved").Add(float64(resolved))
	s.metrics.ResolveOutcomes.WithLabelValues("unresolved").Add(float64(len(records) - resolved))

	for _, w := range warnings {
		s.metrics.Warnings.WithLabelValues(string(w.Kind)).Inc()
		logger.Warn("row degraded", "kind", w.Kind, "row", w.Row, "detail", w.Detail)
	}
}
