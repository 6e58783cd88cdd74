// Package seedrand provides deterministic pseudo-randomness derived from
// string identifiers. Two sources built from the same seed emit identical
// sequences across processes and restarts, which is what lets the simulation
// recompute state on demand instead of persisting it.
package seedrand

import "unicode/utf16"

// LCG parameters. Changing these changes every derived seat map, weather code
// and gate assignment in the system, so they are effectively frozen.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Hash converts an arbitrary identifier (flight number, ISO date, cabin code,
// salt) into a 32-bit seed using a polynomial rolling hash. Identical inputs
// always produce identical seeds. The hash walks UTF-16 code units, not
// runes, so identifiers outside the BMP contribute one term per surrogate.
func Hash(s string) uint32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(u)
	}
	if h == minInt32 {
		return 1 << 31
	}
	if h < 0 {
		h = -h
	}
	return uint32(h)
}

const minInt32 = -1 << 31

// Source is a linear-congruential pseudo-random source. It is not safe for
// concurrent use; callers construct one per computation, which is cheap.
type Source struct {
	seed uint64
}

// New creates a Source from a 32-bit seed.
func New(seed uint32) *Source {
	return &Source{seed: uint64(seed)}
}

// NewFromString creates a Source seeded from Hash(s).
func NewFromString(s string) *Source {
	return New(Hash(s))
}

// Next returns the next value in [0, 1).
func (s *Source) Next() float64 {
	s.seed = (s.seed*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(s.seed) / lcgModulus
}

// IntN returns a value in [0, n) drawn from the stream. n must be positive.
func (s *Source) IntN(n int) int {
	return int(s.Next() * float64(n))
}

// Between returns a value in [lo, hi) drawn from the stream.
func (s *Source) Between(lo, hi float64) float64 {
	return lo + s.Next()*(hi-lo)
}
