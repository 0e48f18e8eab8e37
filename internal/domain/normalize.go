package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// WarningKind classifies per-row problems absorbed during normalization.
type WarningKind string

const (
	// WarnValidationDegraded marks a field coerced to unknown or a default;
	// the row is still processed.
	WarnValidationDegraded WarningKind = "validation_degraded"
	// WarnRowDropped marks a row excluded because it carried no identifying
	// data (no location text and no contact).
	WarnRowDropped WarningKind = "row_dropped"
	// WarnUnresolvedLocation marks a row whose location text yielded no
	// coordinate; the record is kept and flagged for manual follow-up.
	WarnUnresolvedLocation WarningKind = "unresolved_location"
)

// Warning records one absorbed problem for the run summary.
type Warning struct {
	Kind   WarningKind
	Row    int // 1-based source row number
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s: %s", w.Row, w.Kind, w.Detail)
}

// Normalize builds canonical records from raw sheet rows. Per-field problems
// degrade to warnings rather than failing the row; rows with no identifying
// data are dropped with a warning. The output preserves source row order.
func Normalize(rows []RawRow) ([]AnimalRecord, []Warning) {
	records := make([]AnimalRecord, 0, len(rows))
	var warnings []Warning

	now := clock.Now().UTC()
	seen := make(map[string]int)

	for i, row := range rows {
		rowNum := i + 1
		locationText := firstNonEmpty(row[ColLocationLink], row[ColLocationArea])
		contact := contactString(row)

		if locationText == "" && contact == "" {
			warnings = append(warnings, Warning{
				Kind:   WarnRowDropped,
				Row:    rowNum,
				Detail: "no location text and no contact",
			})
			continue
		}

		composite := canonical(locationText) + "|" + canonical(contact)
		occurrence := seen[composite]
		seen[composite] = occurrence + 1

		rec := AnimalRecord{
			ID:           RecordID(locationText, contact, occurrence),
			LocationText: locationText,
			LocationArea: strings.TrimSpace(row[ColLocationArea]),
			Contact:      contact,
			PhotoURL:     strings.TrimSpace(row[ColPhoto]),
			Notes:        firstNonEmpty(row[ColNotes], row[ColLocationDetails]),
			Status:       StatusPending,
			FirstSeenAt:  now,
			LastSyncedAt: now,
		}

		rec.Coordinate, rec.Resolved = Resolve(locationText)
		if !rec.Resolved {
			warnings = append(warnings, Warning{
				Kind:   WarnUnresolvedLocation,
				Row:    rowNum,
				Detail: fmt.Sprintf("no coordinate pattern in %q", locationText),
			})
		}

		var degraded []string
		rec.Species, degraded = normalizeEnum(row, ColSpecies, parseSpecies, degraded)
		rec.Sex, degraded = normalizeEnum(row, ColSex, parseSex, degraded)
		rec.AgeClass, degraded = normalizeEnum(row, ColAge, parseAgeClass, degraded)
		rec.Temperament, degraded = normalizeEnum(row, ColTemperament, parseTemperament, degraded)
		rec.Pregnant = parseYes(row[ColPregnant])
		rec.AnimalCount, degraded = parseCount(row[ColAnimalCount], degraded)

		for _, d := range degraded {
			warnings = append(warnings, Warning{Kind: WarnValidationDegraded, Row: rowNum, Detail: d})
		}

		records = append(records, rec)
	}

	return records, warnings
}

// normalizeEnum parses a vocabulary field, coercing unrecognized non-empty
// values to the unknown variant and noting the degradation. Empty cells are
// unknown without a warning: a blank is absent data, not bad data.
func normalizeEnum[T ~string](row RawRow, col string, parse func(string) (T, bool), degraded []string) (T, []string) {
	raw := strings.TrimSpace(row[col])
	v, ok := parse(raw)
	if !ok && raw != "" {
		degraded = append(degraded, fmt.Sprintf("%s %q coerced to unknown", col, raw))
	}
	return v, degraded
}

func parseSpecies(s string) (Species, bool) {
	switch strings.ToLower(s) {
	case "dog", "puppy":
		return SpeciesDog, true
	case "cat", "kitten":
		return SpeciesCat, true
	}
	return SpeciesUnknown, false
}

func parseSex(s string) (Sex, bool) {
	switch strings.ToLower(s) {
	case "male", "m":
		return SexMale, true
	case "female", "f":
		return SexFemale, true
	case "both", "mixed":
		return SexBoth, true
	}
	return SexUnknown, false
}

func parseAgeClass(s string) (AgeClass, bool) {
	switch strings.ToLower(s) {
	case "baby", "puppy", "kitten":
		return AgeBaby, true
	case "young", "teenager", "juvenile":
		return AgeYoung, true
	case "adult":
		return AgeAdult, true
	case "senior", "old":
		return AgeSenior, true
	}
	return AgeUnknown, false
}

func parseTemperament(s string) (Temperament, bool) {
	switch strings.ToLower(s) {
	case "friendly":
		return TemperamentFriendly, true
	case "shy", "timid":
		return TemperamentShy, true
	case "wild", "feral":
		return TemperamentWild, true
	}
	return TemperamentUnknown, false
}

func parseYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true":
		return true
	}
	return false
}

// parseCount parses the animal count, defaulting to 1 on missing or
// non-numeric input. Only a malformed non-empty value is a degradation.
func parseCount(s string, degraded []string) (int, []string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, degraded
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1, append(degraded, fmt.Sprintf("%s %q defaulted to 1", ColAnimalCount, s))
	}
	return n, degraded
}

func contactString(row RawRow) string {
	name := strings.TrimSpace(row[ColContactName])
	phone := strings.TrimSpace(row[ColContactPhone])
	switch {
	case name != "" && phone != "":
		return name + ", " + phone
	case name != "":
		return name
	default:
		return phone
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
