// Package fastmath provides fixed polynomial and rational approximations
// for the per-sample transcendental calls of the render path.
//
// The kernels are self-contained float64 arithmetic (plus the exact
// bit-level operations math.Abs and math.Floor), so their results do not
// depend on the platform's libm and are identical everywhere. Slower
// once-per-render work such as filter coefficient design is free to use
// the math package directly.
package fastmath

import "math"

// SinTurns evaluates sin(2*pi*t) with t in turns. Any finite argument is
// wrapped to [-0.5, 0.5). The approximation is the parabolic sine with one
// refinement step; maximum absolute error is about 1e-3 and the extrema at
// t = +-0.25 are exactly +-1.
func SinTurns(t float64) float64 {
	t -= math.Floor(t + 0.5)

	y := 8 * t * (1 - 2*math.Abs(t))

	return 0.225*(y*math.Abs(y)-y) + y
}

// CosTurns evaluates cos(2*pi*t) as SinTurns(t + 0.25).
func CosTurns(t float64) float64 {
	return SinTurns(t + 0.25)
}

// Tanh is a rational tanh approximation saturating to +-1 beyond |x| = 3.
// Worst-case error against the exact function is about 0.02 near |x| = 2,
// which is inaudible in a saturation stage.
func Tanh(x float64) float64 {
	if x > 3 {
		return 1
	}

	if x < -3 {
		return -1
	}

	x2 := x * x

	return clamp(x*(27+x2)/(27+9*x2), -1, 1)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}

	if x > hi {
		return hi
	}

	return x
}
