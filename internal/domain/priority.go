package domain

import "sort"

// PriorityLess reports whether a outranks b for field-work ordering. It is a
// composite key, not a weighted score, so there are no numeric-scale
// surprises: pregnant animals first, then wild temperament (hardest to
// catch, time-sensitive), then larger groups (batching efficiency), then
// records with a resolved coordinate (actionable immediately), with
// first-seen time and ID as deterministic tie-breaks.
//
// Pure function of record attributes; callers exclude completed records
// before ordering since only pending work is prioritized.
func PriorityLess(a, b AnimalRecord) bool {
	if a.Pregnant != b.Pregnant {
		return a.Pregnant
	}
	aWild, bWild := a.Temperament == TemperamentWild, b.Temperament == TemperamentWild
	if aWild != bWild {
		return aWild
	}
	if a.AnimalCount != b.AnimalCount {
		return a.AnimalCount > b.AnimalCount
	}
	if a.Resolved != b.Resolved {
		return a.Resolved
	}
	if !a.FirstSeenAt.Equal(b.FirstSeenAt) {
		return a.FirstSeenAt.Before(b.FirstSeenAt)
	}
	return a.ID < b.ID
}

// SortByPriority orders records in place, highest priority first.
func SortByPriority(records []AnimalRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return PriorityLess(records[i], records[j])
	})
}
