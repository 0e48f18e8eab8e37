package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
)

// MutationResult reports a batch status change. Unknown IDs are reported
// individually and never abort the batch: valid IDs in the same call are
// still applied.
type MutationResult struct {
	Applied   []string
	Unchanged []string // already in the target status
	NotFound  []string
}

// Complete transitions the given records from pending to completed. A
// completed record stays completed; only [Store.Reopen] reverts it.
func (s *Store) Complete(ctx context.Context, ids []string) (MutationResult, error) {
	return s.setStatus(ctx, ids, domain.StatusCompleted)
}

// Reopen is the explicit manual reset back to pending. A re-sync never
// reopens a completed record; a human does, through this.
func (s *Store) Reopen(ctx context.Context, ids []string) (MutationResult, error) {
	return s.setStatus(ctx, ids, domain.StatusPending)
}

func (s *Store) setStatus(ctx context.Context, ids []string, target domain.Status) (MutationResult, error) {
	var result MutationResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin status tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		rec, err := getRecordTx(ctx, tx, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			result.NotFound = append(result.NotFound, id)
			continue
		case err != nil:
			return MutationResult{}, fmt.Errorf("load record %s: %w", id, err)
		}

		if rec.Status == target {
			result.Unchanged = append(result.Unchanged, id)
			continue
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE animal_records SET status = ? WHERE id = ?", string(target), id); err != nil {
			return MutationResult{}, fmt.Errorf("update status %s: %w", id, err)
		}
		result.Applied = append(result.Applied, id)
	}

	if err := tx.Commit(); err != nil {
		return MutationResult{}, fmt.Errorf("commit status change: %w", err)
	}
	return result, nil
}

// Get loads one record by ID, returning [ErrNotFound] for unknown IDs.
func (s *Store) Get(ctx context.Context, id string) (domain.AnimalRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM animal_records WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AnimalRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.AnimalRecord{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return rec, nil
}

// Filter narrows List output. Zero values mean "no constraint".
type Filter struct {
	Status      domain.Status
	Temperament domain.Temperament
	// ByPriority restricts the result to pending records in field-work
	// priority order.
	ByPriority bool
}

// List returns records matching the filter. Without ByPriority the result is
// in first-seen order (then ID, for determinism).
func (s *Store) List(ctx context.Context, filter Filter) ([]domain.AnimalRecord, error) {
	query := "SELECT " + recordColumns + " FROM animal_records"
	var (
		clauses []string
		args    []any
	)

	if filter.ByPriority {
		filter.Status = domain.StatusPending
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Temperament != "" {
		clauses = append(clauses, "temperament = ?")
		args = append(args, string(filter.Temperament))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY first_seen_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []domain.AnimalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	if filter.ByPriority {
		domain.SortByPriority(records)
	}
	return records, nil
}

// Stats summarizes the working set for reporting. Pure read.
type Stats struct {
	Total            int
	ByStatus         map[domain.Status]int
	ByTemperament    map[domain.Temperament]int
	Resolved         int
	Unresolved       int
	StaleCoordinates int
	Pregnant         int
	// PendingPriority is the priority-ranked pending list.
	PendingPriority []domain.AnimalRecord
}

// Stats computes counts by status, temperament, and coordinate resolution,
// plus the pending priority ranking.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	records, err := s.List(ctx, Filter{})
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		ByStatus:      make(map[domain.Status]int),
		ByTemperament: make(map[domain.Temperament]int),
	}
	for _, rec := range records {
		stats.Total++
		stats.ByStatus[rec.Status]++
		stats.ByTemperament[rec.Temperament]++
		if rec.Resolved {
			stats.Resolved++
		} else {
			stats.Unresolved++
		}
		if rec.CoordStale {
			stats.StaleCoordinates++
		}
		if rec.Pregnant {
			stats.Pregnant++
		}
		if rec.Status == domain.StatusPending {
			stats.PendingPriority = append(stats.PendingPriority, rec)
		}
	}
	domain.SortByPriority(stats.PendingPriority)

	return stats, nil
}
