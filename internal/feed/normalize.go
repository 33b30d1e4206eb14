package feed

import "time"

// Normalizer converts feed timestamps into absolute instants in a single
// reference timezone.
//
// Rules, in order:
//  1. date-only values become midnight in Default
//  2. values without an explicit zone are attached to Default
//  3. the result is converted to Ref for all window arithmetic
//
// Rules 1 and 2 are applied while reading DTSTART (the ical property reader
// takes Default for floating and date-only values); Normalize applies rule 3.
type Normalizer struct {
	Default *time.Location // the feed's declared locale
	Ref     *time.Location // the engine's reference zone
}

// NewNormalizer builds a Normalizer, substituting UTC for missing zones.
func NewNormalizer(def, ref *time.Location) Normalizer {
	if def == nil {
		def = time.UTC
	}
	if ref == nil {
		ref = time.UTC
	}
	return Normalizer{Default: def, Ref: ref}
}

// Normalize converts an already zone-aware instant into the reference zone.
func (n Normalizer) Normalize(t time.Time) time.Time {
	return t.In(n.Ref)
}
