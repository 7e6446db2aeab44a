// Package entropy provides the randomness source behind every stochastic
// decision in the simulation. Decisions draw from an injectable Source so
// a seeded run (or a test) replays identically; crypto/rand backs unseeded
// runs.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source yields uniform random numbers. Implementations need not be safe
// for concurrent use; the simulation draws from a single goroutine.
type Source interface {
	// Float returns a uniform float64 in [0, 1).
	Float() float64
	// Range returns a uniform float64 in [lo, hi).
	Range(lo, hi float64) float64
}

// Seeded is a deterministic Source. The same seed always produces the same
// stream.
type Seeded struct {
	rng *mrand.Rand
}

// NewSeeded creates a deterministic source from a seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *Seeded) Float() float64 {
	return s.rng.Float64()
}

func (s *Seeded) Range(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Crypto is a non-deterministic Source backed by crypto/rand, used when no
// seed is given.
type Crypto struct{}

func (Crypto) Float() float64 {
	return cryptoRandFloat()
}

func (c Crypto) Range(lo, hi float64) float64 {
	return lo + c.Float()*(hi-lo)
}

// cryptoRandFloat generates a random float64 in [0, 1) using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// ForSeed returns a Seeded source for a nonzero seed and a Crypto source
// otherwise.
func ForSeed(seed int64) Source {
	if seed == 0 {
		return Crypto{}
	}
	return NewSeeded(seed)
}
