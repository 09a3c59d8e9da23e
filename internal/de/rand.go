package de

import "math/rand"

// Rand is the source of randomness used by the engine.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
	// Shuffle permutes n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded source for reproducible runs.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
