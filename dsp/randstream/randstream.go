// Package randstream derives deterministic pseudo-random streams from a
// render seed and a structural salt.
//
// Streams use the PCG generator from math/rand/v2, a fixed published
// algorithm whose output depends only on its two seed words. The first
// word is the render seed, the second the FNV-1a hash of the salt, so
// every (seed, salt) pair names the same sequence on every platform and
// two consumers with distinct salts never perturb each other no matter
// how many values either draws.
package randstream

import (
	"hash/fnv"
	"math/rand/v2"
)

// Stream is a deterministic random source. It is not safe for concurrent
// use; derive one stream per consumer instead of sharing.
type Stream struct {
	rng *rand.Rand
}

// New derives the stream named by seed and salt. Salts are structural
// identifiers such as "layer/3/synthesis"; callers must not reuse a salt
// for two different consumers within one render.
func New(seed uint32, salt string) *Stream {
	h := fnv.New64a()
	h.Write([]byte(salt))

	return &Stream{rng: rand.New(rand.NewPCG(uint64(seed), h.Sum64()))}
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Bipolar returns the next value in [-1, 1).
func (s *Stream) Bipolar() float64 {
	return s.rng.Float64()*2 - 1
}

// Uint64 returns the next raw generator word.
func (s *Stream) Uint64() uint64 {
	return s.rng.Uint64()
}

// IntN returns the next value in [0, n). It panics if n <= 0.
func (s *Stream) IntN(n int) int {
	return s.rng.IntN(n)
}
