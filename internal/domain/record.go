package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

// CoordinateEpsilon is the component-wise tolerance used when comparing
// coordinates for deduplication.
const CoordinateEpsilon = 1e-6

// RawRow is one spreadsheet row as fetched from the sheet: a mapping of
// column header to free-text cell value. Discarded after normalization.
type RawRow map[string]string

// Column names as they appear in the volunteer-facing Google Sheet.
const (
	ColLocationArea    = "Location (Area)"
	ColLocationLink    = "Location Link"
	ColLocationDetails = "Location Details"
	ColSpecies         = "Dog/Cat"
	ColAnimalCount     = "No. of Animals"
	ColSex             = "Sex"
	ColAge             = "Age"
	ColTemperament     = "Temperament"
	ColPregnant        = "Pregnant?"
	ColContactName     = "Contact Name"
	ColContactPhone    = "Contact Phone #"
	ColPhoto           = "Photo"
	ColNotes           = "Notes"
)

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are inside their geographic ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Equal compares two coordinates within [CoordinateEpsilon] per component.
func (c Coordinate) Equal(other Coordinate) bool {
	return math.Abs(c.Lat-other.Lat) < CoordinateEpsilon &&
		math.Abs(c.Lng-other.Lng) < CoordinateEpsilon
}

// Status is the lifecycle state of a record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Species of the sighted animal(s).
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesUnknown Species = "unknown"
)

// Sex of the sighted animal(s). "Both" covers mixed groups.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexBoth    Sex = "both"
	SexUnknown Sex = "unknown"
)

// AgeClass is the coarse age bucket volunteers report.
type AgeClass string

const (
	AgeBaby    AgeClass = "baby" // puppies and kittens
	AgeYoung   AgeClass = "young"
	AgeAdult   AgeClass = "adult"
	AgeSenior  AgeClass = "senior"
	AgeUnknown AgeClass = "unknown"
)

// Temperament drives catching difficulty and therefore priority.
type Temperament string

const (
	TemperamentFriendly Temperament = "friendly"
	TemperamentShy      Temperament = "shy"
	TemperamentWild     Temperament = "wild"
	TemperamentUnknown  Temperament = "unknown"
)

// AnimalRecord is the canonical unit tracked by the system: one sighting of
// one or more animals at one location, submitted by one contact.
type AnimalRecord struct {
	ID string `json:"id"`

	// LocationText is the link or description exactly as submitted, kept for
	// traceability and re-resolution.
	LocationText string `json:"location_text"`
	LocationArea string `json:"location_area,omitempty"`

	// Coordinate is set only when Resolved is true. A previously resolved
	// coordinate survives re-syncs even if the source text degrades;
	// CoordStale marks that the text changed after resolution.
	Coordinate Coordinate `json:"coordinate,omitzero"`
	Resolved   bool       `json:"resolved"`
	CoordStale bool       `json:"coord_stale,omitempty"`

	Species     Species     `json:"species"`
	AnimalCount int         `json:"animal_count"`
	Sex         Sex         `json:"sex"`
	AgeClass    AgeClass    `json:"age_class"`
	Temperament Temperament `json:"temperament"`
	Pregnant    bool        `json:"pregnant"`

	Contact  string `json:"contact"`
	PhotoURL string `json:"photo_url,omitempty"`
	Notes    string `json:"notes,omitempty"`

	Status Status `json:"status"`

	FirstSeenAt  time.Time `json:"first_seen_at"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// RecordID derives the stable identity for a row. It hashes a normalized
// composite of location text and contact rather than row position, so
// re-syncing after row reordering or insertion still matches existing
// records. occurrence disambiguates repeats of the same composite within a
// single snapshot; two genuinely distinct animals sharing identical
// location and contact text across snapshots will still collide, which is
// acceptable at this scale.
func RecordID(locationText, contact string, occurrence int) string {
	input := fmt.Sprintf("%s|%s|%d", canonical(locationText), canonical(contact), occurrence)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}

func canonical(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
