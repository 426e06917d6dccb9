// Package rng provides the randomness sources used by colonist behavior.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// Source is the randomness provider for the simulation.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// seededSource is a deterministic Source backed by a PCG generator.
type seededSource struct {
	mu  sync.Mutex
	gen *mrand.Rand
}

// NewSeeded returns a deterministic Source. Two sources built from the same
// seed produce the same sequence.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeeded(seed int64) Source {
	return &seededSource{gen: mrand.New(mrand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" otherwise.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.IntN(n)
}

// Float64 returns a deterministic pseudo-random float in [0, 1).
func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.Float64()
}

// NewCrypto returns a Source seeded once from crypto/rand. The sequence is
// not reproducible between runs.
//
// Postcondition: Returns a non-nil Source.
// Panics with "rng: crypto/rand failure: <err>" if crypto/rand fails.
func NewCrypto() Source {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return NewSeeded(int64(binary.LittleEndian.Uint64(b[:])))
}

// FromSeed returns NewSeeded(seed) for a non-zero seed and NewCrypto otherwise.
func FromSeed(seed int64) Source {
	if seed == 0 {
		return NewCrypto()
	}
	return NewSeeded(seed)
}

// Range returns a float uniformly drawn from [lo, hi).
//
// Precondition: src must be non-nil and lo <= hi.
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
