// Package randtb provides a deterministic, seeded pseudo-random tie-break
// source used by the Pardalos-Kovoor projector (see package qp) when a
// bracket update leaves the dual median unchanged and a choice among equal
// candidates must be made.
//
// This is a deliberate tie-break, not randomness leaking into the solution:
// the same seed and the same sequence of bracket states always produce the
// same selection, which is what makes the outer SVM decomposition loop
// reproducible given the same seed and preprocessing mode (spec §5).
package randtb

import "math/rand"

// DefaultSeed is the seed used when a caller does not supply one explicitly.
const DefaultSeed int64 = 1234

// TieBreaker produces deterministic pseudo-random indices within a bounded
// range. It is not safe for concurrent use; each solver invocation owns one.
type TieBreaker struct {
	rng *rand.Rand
}

// New returns a TieBreaker seeded with seed. Passing 0 uses DefaultSeed,
// matching the solver's "seed 1234 by default" contract.
func New(seed int64) *TieBreaker {
	if seed == 0 {
		seed = DefaultSeed
	}

	return &TieBreaker{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a pseudo-random index in [0, n). Panics if n <= 0, mirroring
// math/rand.Rand.Intn; callers only invoke this with a non-empty bracket.
func (t *TieBreaker) Intn(n int) int {
	return t.rng.Intn(n)
}

// Reset reseeds the tie-breaker, used by tests that need a fresh, repeatable
// sequence without constructing a new TieBreaker.
func (t *TieBreaker) Reset(seed int64) {
	if seed == 0 {
		seed = DefaultSeed
	}
	t.rng = rand.New(rand.NewSource(seed))
}
