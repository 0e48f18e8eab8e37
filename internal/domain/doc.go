// Package domain models volunteer-submitted animal sighting reports.
//
// # Data Source
//
// Sightings arrive as rows of a Google Sheet filled in by volunteers through
// a form. Every cell is free text entered by non-technical people, so every
// field is treated as unreliable: enumerated fields are coerced to fixed
// vocabularies, counts default sensibly, and location references are parsed
// with layered pattern matching rather than trusted.
//
// # Location References
//
// The location column usually holds a Google Maps link, in any of the shapes
// volunteers produce by sharing from different apps:
//
//	https://www.google.com/maps/@9.7282,99.9915251,17z          viewport form
//	https://www.google.com/maps?q=9.731,99.990                  query form
//	https://www.google.com/maps/search/9.748065,+99.975760      search form
//	.../place/.../data=!3m1!...!3d9.7282!4d99.9941              data segments
//	.../place/9°43'41.5"N+99°59'38.8"E/...                      DMS form
//	9.731, 99.990                                               bare pair
//	https://maps.app.goo.gl/AbCdEf                              shortened
//
// Shortened links carry no textual coordinate; [Resolve] deliberately does
// no network redirect following, so those resolve as unresolved and the
// record is flagged for manual follow-up instead. An unresolved location is
// a valid terminal outcome, never an error.
//
// # Identity
//
// Record IDs are deterministic SHA-256 hashes of the normalized location
// text and contact, so re-syncing a reordered or extended sheet matches
// existing records instead of reassigning identities. See [RecordID].
//
// # Priority
//
// Field-work ordering is a composite sort key (pregnant, wild, group size,
// resolved, first seen, ID), not a weighted point score. See [PriorityLess].
package domain
