// Package rng abstracts the source of randomness so searches and
// generators can be made deterministic in tests.
package rng

import "lukechampine.com/frand"

// Source is the subset of math/rand-style methods the engine samples
// with. *frand.RNG and *rand.Rand both satisfy it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Default returns a fast, non-deterministic source.
func Default() Source {
	return frand.New()
}
