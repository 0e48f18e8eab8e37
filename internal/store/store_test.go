package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRecord(id string, mutate func(*domain.AnimalRecord)) domain.AnimalRecord {
	rec := domain.AnimalRecord{
		ID:           id,
		LocationText: "https://www.google.com/maps/@9.7282,99.9915251,17z",
		LocationArea: "Thong Sala",
		Coordinate:   domain.Coordinate{Lat: 9.7282, Lng: 99.9915251},
		Resolved:     true,
		Species:      domain.SpeciesDog,
		AnimalCount:  1,
		Sex:          domain.SexFemale,
		AgeClass:     domain.AgeAdult,
		Temperament:  domain.TemperamentFriendly,
		Contact:      "Mali, 0812345678",
		Status:       domain.StatusPending,
		FirstSeenAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		LastSyncedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(&rec)
	}
	return rec
}

func TestMerge_InsertAndRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := testRecord("a", nil)

	result, err := s.Merge(ctx, []domain.AnimalRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Applied())

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("record round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	batch := []domain.AnimalRecord{testRecord("a", nil), testRecord("b", nil)}

	_, err := s.Merge(ctx, batch)
	require.NoError(t, err)
	first, err := s.List(ctx, Filter{})
	require.NoError(t, err)

	// merge(merge(S, X), X) == merge(S, X)
	_, err = s.Merge(ctx, batch)
	require.NoError(t, err)
	second, err := s.List(ctx, Filter{})
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-merge changed the store (-first +second):\n%s", diff)
	}
}

func TestMerge_RefreshesAttributesButNotStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Merge(ctx, []domain.AnimalRecord{testRecord("a", nil)})
	require.NoError(t, err)
	_, err = s.Complete(ctx, []string{"a"})
	require.NoError(t, err)

	updated := testRecord("a", func(r *domain.AnimalRecord) {
		r.AnimalCount = 3
		r.Pregnant = true
		r.Status = domain.StatusPending // incoming rows are always pending
	})
	result, err := s.Merge(ctx, []domain.AnimalRecord{updated})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, got.AnimalCount)
	assert.True(t, got.Pregnant)
	// A completed record re-appearing in a snapshot is never re-opened.
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestMerge_PreservesResolvedCoordinate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	original := testRecord("a", nil)
	_, err := s.Merge(ctx, []domain.AnimalRecord{original})
	require.NoError(t, err)

	t.Run("same text gone unresolvable", func(t *testing.T) {
		regressed := testRecord("a", func(r *domain.AnimalRecord) {
			r.Coordinate = domain.Coordinate{}
			r.Resolved = false
		})
		result, err := s.Merge(ctx, []domain.AnimalRecord{regressed})
		require.NoError(t, err)
		assert.Equal(t, 1, result.CoordinatesPreserved)

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, got.Resolved)
		assert.True(t, got.Coordinate.Equal(original.Coordinate))
		assert.False(t, got.CoordStale, "unchanged text keeps the coordinate fresh")
	})

	t.Run("changed text flags staleness", func(t *testing.T) {
		changed := testRecord("a", func(r *domain.AnimalRecord) {
			r.LocationText = "https://maps.app.goo.gl/oneWTpTHDpEtBgrZ7"
			r.Coordinate = domain.Coordinate{}
			r.Resolved = false
		})
		_, err := s.Merge(ctx, []domain.AnimalRecord{changed})
		require.NoError(t, err)

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, got.Resolved)
		assert.True(t, got.Coordinate.Equal(original.Coordinate))
		assert.True(t, got.CoordStale)
	})

	t.Run("fresh resolution clears staleness", func(t *testing.T) {
		moved := testRecord("a", func(r *domain.AnimalRecord) {
			r.Coordinate = domain.Coordinate{Lat: 9.75, Lng: 100.01}
		})
		_, err := s.Merge(ctx, []domain.AnimalRecord{moved})
		require.NoError(t, err)

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, got.Coordinate.Equal(domain.Coordinate{Lat: 9.75, Lng: 100.01}))
		assert.False(t, got.CoordStale)
	})
}

func TestMerge_RetainsRecordsAbsentFromSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Merge(ctx, []domain.AnimalRecord{testRecord("a", nil), testRecord("b", nil)})
	require.NoError(t, err)

	// Row "a" deleted from the sheet; the store keeps its history.
	_, err = s.Merge(ctx, []domain.AnimalRecord{testRecord("b", nil)})
	require.NoError(t, err)

	records, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestComplete_PartialSuccess(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Merge(ctx, []domain.AnimalRecord{testRecord("a", nil)})
	require.NoError(t, err)

	result, err := s.Complete(ctx, []string{"a", "nope"})
	require.NoError(t, err, "unknown ids are reported, not fatal")
	assert.Equal(t, []string{"a"}, result.Applied)
	assert.Equal(t, []string{"nope"}, result.NotFound)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestComplete_AlreadyCompletedIsUnchanged(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Merge(ctx, []domain.AnimalRecord{testRecord("a", nil)})
	require.NoError(t, err)

	_, err = s.Complete(ctx, []string{"a"})
	require.NoError(t, err)
	result, err := s.Complete(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Equal(t, []string{"a"}, result.Unchanged)
}

func TestReopen(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Merge(ctx, []domain.AnimalRecord{testRecord("a", nil)})
	require.NoError(t, err)
	_, err = s.Complete(ctx, []string{"a"})
	require.NoError(t, err)

	result, err := s.Reopen(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Applied)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList_Filters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Merge(ctx, []domain.AnimalRecord{
		testRecord("a", func(r *domain.AnimalRecord) { r.Temperament = domain.TemperamentWild }),
		testRecord("b", nil),
		testRecord("c", nil),
	})
	require.NoError(t, err)
	_, err = s.Complete(ctx, []string{"c"})
	require.NoError(t, err)

	pending, err := s.List(ctx, Filter{Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	wild, err := s.List(ctx, Filter{Temperament: domain.TemperamentWild})
	require.NoError(t, err)
	require.Len(t, wild, 1)
	assert.Equal(t, "a", wild[0].ID)

	completed, err := s.List(ctx, Filter{Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "c", completed[0].ID)
}

func TestList_ByPriorityExcludesCompleted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Merge(ctx, []domain.AnimalRecord{
		testRecord("plain", nil),
		testRecord("urgent", func(r *domain.AnimalRecord) { r.Pregnant = true }),
		testRecord("done", func(r *domain.AnimalRecord) { r.Pregnant = true }),
	})
	require.NoError(t, err)
	_, err = s.Complete(ctx, []string{"done"})
	require.NoError(t, err)

	ranked, err := s.List(ctx, Filter{ByPriority: true})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "urgent", ranked[0].ID)
	assert.Equal(t, "plain", ranked[1].ID)
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Merge(ctx, []domain.AnimalRecord{
		testRecord("a", func(r *domain.AnimalRecord) {
			r.Pregnant = true
			r.Temperament = domain.TemperamentWild
		}),
		testRecord("b", func(r *domain.AnimalRecord) {
			r.Resolved = false
			r.Coordinate = domain.Coordinate{}
		}),
		testRecord("c", nil),
	})
	require.NoError(t, err)
	_, err = s.Complete(ctx, []string{"c"})
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[domain.StatusPending])
	assert.Equal(t, 1, stats.ByStatus[domain.StatusCompleted])
	assert.Equal(t, 1, stats.ByTemperament[domain.TemperamentWild])
	assert.Equal(t, 2, stats.Resolved)
	assert.Equal(t, 1, stats.Unresolved)
	assert.Equal(t, 1, stats.Pregnant)

	// Unresolved pending record is in the pending list, after the pregnant one.
	require.Len(t, stats.PendingPriority, 2)
	assert.Equal(t, "a", stats.PendingPriority[0].ID)
	assert.Equal(t, "b", stats.PendingPriority[1].ID)
}

func TestOpen_SchemaVersionCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("UPDATE schema_version SET version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}
