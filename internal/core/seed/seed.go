// Package seed derives independent random streams from a single master seed.
// Streams are keyed by position (trial, prisoner) rather than by goroutine, so
// a seeded run produces the same verdicts whatever the worker count.
package seed

import (
	"math/rand/v2"
)

// Mix is the splitmix64 finalizer. It scrambles the bits of x so that
// consecutive inputs produce uncorrelated outputs.
func Mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Derive returns the seed of child stream i under parent.
func Derive(parent uint64, i uint64) uint64 {
	return Mix(parent ^ Mix(i+1))
}

// Random returns a fresh master seed from the runtime's entropy-seeded source.
func Random() uint64 {
	return rand.Uint64()
}

// Source wraps a PCG generator that can be cheaply reseeded in place.
// A Source must not be shared between goroutines.
type Source struct {
	pcg *rand.PCG
	rng *rand.Rand
}

// NewSource returns a Source seeded with s.
func NewSource(s uint64) *Source {
	pcg := rand.NewPCG(s, Mix(s))
	return &Source{pcg: pcg, rng: rand.New(pcg)}
}

// Reseed resets the stream to the one identified by s.
func (src *Source) Reseed(s uint64) {
	src.pcg.Seed(s, Mix(s))
}

// Rand exposes the generator backed by this source.
func (src *Source) Rand() *rand.Rand {
	return src.rng
}

// New returns a standalone generator for stream s.
func New(s uint64) *rand.Rand {
	return NewSource(s).Rand()
}
