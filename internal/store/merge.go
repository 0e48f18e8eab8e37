package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
)

// MergeResult summarizes one snapshot reconciliation.
type MergeResult struct {
	Inserted int
	Updated  int
	// CoordinatesPreserved counts records whose previously resolved
	// coordinate was kept because the incoming snapshot would have
	// regressed it to unresolved.
	CoordinatesPreserved int
}

// Applied is the total number of records written by the merge.
func (r MergeResult) Applied() int {
	return r.Inserted + r.Updated
}

// Merge reconciles a fresh snapshot with the persisted working set. For each
// incoming record: an existing ID has its attributes refreshed while status
// and first-seen time stay store-owned, and a resolved coordinate is never
// overwritten with an unresolved one (the prior value is kept, flagged stale
// when the source text changed). A new ID is inserted as pending. Records
// present in the store but absent from the snapshot are retained unchanged.
//
// The whole merge runs in one transaction: a cancelled or failed run leaves
// the store exactly as it was. Re-merging the same snapshot is a no-op
// beyond the last-synced timestamps, so concurrent automation triggers can
// safely race.
func (s *Store) Merge(ctx context.Context, incoming []domain.AnimalRecord) (MergeResult, error) {
	var result MergeResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin merge tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range incoming {
		existing, err := getRecordTx(ctx, tx, rec.ID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			rec.Status = domain.StatusPending
			if err := insertRecordTx(ctx, tx, rec); err != nil {
				return MergeResult{}, err
			}
			result.Inserted++
		case err != nil:
			return MergeResult{}, fmt.Errorf("load record %s: %w", rec.ID, err)
		default:
			merged, preserved := overlay(existing, rec)
			if err := updateRecordTx(ctx, tx, merged); err != nil {
				return MergeResult{}, err
			}
			result.Updated++
			if preserved {
				result.CoordinatesPreserved++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return MergeResult{}, fmt.Errorf("commit merge: %w", err)
	}
	return result, nil
}

// overlay applies an incoming record on top of its stored counterpart.
// Status and first-seen are store-owned; the coordinate non-regression rule
// reports whether a prior resolved coordinate was preserved.
func overlay(existing, incoming domain.AnimalRecord) (domain.AnimalRecord, bool) {
	merged := incoming
	merged.Status = existing.Status
	merged.FirstSeenAt = existing.FirstSeenAt

	if !incoming.Resolved && existing.Resolved {
		merged.Coordinate = existing.Coordinate
		merged.Resolved = true
		merged.CoordStale = existing.CoordStale || existing.LocationText != incoming.LocationText
		return merged, true
	}

	return merged, false
}

func getRecordTx(ctx context.Context, tx *sql.Tx, id string) (domain.AnimalRecord, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM animal_records WHERE id = ?", id)
	return scanRecord(row)
}

func insertRecordTx(ctx context.Context, tx *sql.Tx, rec domain.AnimalRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO animal_records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recordArgs(rec)...)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", rec.ID, err)
	}
	return nil
}

func updateRecordTx(ctx context.Context, tx *sql.Tx, rec domain.AnimalRecord) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE animal_records SET
			location_text = ?, location_area = ?, lat = ?, lng = ?,
			resolved = ?, coord_stale = ?, species = ?, animal_count = ?,
			sex = ?, age_class = ?, temperament = ?, pregnant = ?,
			contact = ?, photo_url = ?, notes = ?, status = ?,
			first_seen_at = ?, last_synced_at = ?
		 WHERE id = ?`,
		append(recordArgs(rec)[1:], rec.ID)...)
	if err != nil {
		return fmt.Errorf("update record %s: %w", rec.ID, err)
	}
	return nil
}
