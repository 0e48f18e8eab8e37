// Package store persists the working set of animal records in SQLite. It is
// the one piece of state that survives between runs, so completions recorded
// in the field are never lost to a re-sync.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
)

// ErrNotFound marks an operation referencing an unknown record ID.
var ErrNotFound = errors.New("record not found")

// Store manages record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the record database and verifies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const recordColumns = `id, location_text, location_area, lat, lng, resolved, coord_stale,
	species, animal_count, sex, age_class, temperament, pregnant,
	contact, photo_url, notes, status, first_seen_at, last_synced_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.AnimalRecord, error) {
	var (
		rec                       domain.AnimalRecord
		lat, lng                  sql.NullFloat64
		resolved, stale, pregnant int
		firstSeen, lastSynced     string
	)

	err := row.Scan(
		&rec.ID, &rec.LocationText, &rec.LocationArea, &lat, &lng, &resolved, &stale,
		&rec.Species, &rec.AnimalCount, &rec.Sex, &rec.AgeClass, &rec.Temperament, &pregnant,
		&rec.Contact, &rec.PhotoURL, &rec.Notes, &rec.Status, &firstSeen, &lastSynced,
	)
	if err != nil {
		return domain.AnimalRecord{}, err
	}

	rec.Resolved = resolved != 0
	rec.CoordStale = stale != 0
	rec.Pregnant = pregnant != 0
	if rec.Resolved && lat.Valid && lng.Valid {
		rec.Coordinate = domain.Coordinate{Lat: lat.Float64, Lng: lng.Float64}
	}

	if rec.FirstSeenAt, err = parseTimestamp(firstSeen); err != nil {
		return domain.AnimalRecord{}, fmt.Errorf("parse first_seen_at: %w", err)
	}
	if rec.LastSyncedAt, err = parseTimestamp(lastSynced); err != nil {
		return domain.AnimalRecord{}, fmt.Errorf("parse last_synced_at: %w", err)
	}

	return rec, nil
}

func recordArgs(rec domain.AnimalRecord) []any {
	var lat, lng any
	if rec.Resolved {
		lat, lng = rec.Coordinate.Lat, rec.Coordinate.Lng
	}
	return []any{
		rec.ID, rec.LocationText, rec.LocationArea, lat, lng,
		boolInt(rec.Resolved), boolInt(rec.CoordStale),
		string(rec.Species), rec.AnimalCount, string(rec.Sex), string(rec.AgeClass),
		string(rec.Temperament), boolInt(rec.Pregnant),
		rec.Contact, rec.PhotoURL, rec.Notes, string(rec.Status),
		formatTimestamp(rec.FirstSeenAt), formatTimestamp(rec.LastSyncedAt),
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
