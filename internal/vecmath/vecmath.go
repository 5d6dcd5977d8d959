// Package vecmath holds the block operations of the rendering hot path.
//
// Kernels are plain scalar loops. Rendered bytes may not vary across
// hosts, so there is no CPU dispatch here; the windowing and spectrum
// block ops live in the algo-vecmath dependency.
package vecmath

import "math"

// AddBlockInPlace accumulates src into dst: dst[i] += src[i].
// Panics if lengths differ.
func AddBlockInPlace(dst, src []float64) {
	if len(dst) != len(src) {
		panic("vecmath: slice length mismatch")
	}

	for i := range dst {
		dst[i] += src[i]
	}
}

// ScaleBlockInPlace multiplies each element by a scalar: dst[i] *= scale.
func ScaleBlockInPlace(dst []float64, scale float64) {
	for i := range dst {
		dst[i] *= scale
	}
}

// MaxAbs returns the largest absolute value in x, 0 for an empty slice.
func MaxAbs(x []float64) float64 {
	peak := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	return peak
}
