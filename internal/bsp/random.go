package bsp

import "math/rand"

// RandomSource supplies the uniform draws the generator needs.
// *rand.Rand satisfies it, so a seeded generator gives a reproducible layout.
type RandomSource interface {
	// Intn returns a uniform integer in [0, n). n is always > 0.
	Intn(n int) int
}

// NewRandomSource returns a RandomSource seeded with seed.
func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// intRange returns a uniform integer in [lo, hi] (both inclusive).
func intRange(rng RandomSource, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// coinFlip returns true or false with equal probability.
func coinFlip(rng RandomSource) bool {
	return rng.Intn(2) == 0
}
