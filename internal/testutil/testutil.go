// Package testutil builds deterministic reference signals and carries
// the shared slice assertions. It is test-side support only: the render
// path never imports it, so reference math may use the host libm.
package testutil

import (
	"math"
	"math/rand"
	"testing"
)

// DeterministicSine returns length samples of a sine at freqHz, scaled
// by amplitude. The phase starts at zero, so sample 0 is always 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise returns length samples of seeded uniform noise in
// (-amplitude, amplitude). The same seed yields the same sequence.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	r := rand.New(rand.NewSource(seed))

	out := make([]float64, length)
	for i := range out {
		out[i] = (r.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC returns length copies of value.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns n samples of 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// RequireSliceNearlyEqual fails the test unless got matches want
// elementwise within the absolute tolerance eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("slice length = %d, want %d", len(got), len(want))
	}

	for i := range got {
		if d := math.Abs(got[i] - want[i]); d > eps {
			t.Fatalf("sample %d = %v, want %v within %v (off by %v)", i, got[i], want[i], eps, d)
		}
	}
}

// RequireFinite fails the test if data holds a NaN or an infinity.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is not finite: %v", i, v)
		}
	}
}
