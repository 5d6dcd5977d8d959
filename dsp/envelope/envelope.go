// Package envelope shapes layer amplitude over time with an
// attack/decay/sustain/release contour.
//
// The contour is materialized as a gain vector over the full render
// length: the release phase occupies the final min(release, duration)
// seconds, and attack plus decay shrink proportionally if they do not fit
// in what remains. Gains are multiplied into sample buffers with
// vecmath block operations.
package envelope

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Curve selects the ramp shape of the envelope segments.
type Curve int

const (
	// CurveLinear ramps each segment linearly.
	CurveLinear Curve = iota
	// CurveExponential tilts each segment along exp(-5t), normalized to
	// hit the segment endpoints.
	CurveExponential
)

// String returns a human-readable curve name.
func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveExponential:
		return "exponential"
	default:
		return fmt.Sprintf("Curve(%d)", int(c))
	}
}

// ParseCurve maps a curve name to its Curve.
func ParseCurve(s string) (Curve, error) {
	switch s {
	case "linear":
		return CurveLinear, nil
	case "exponential":
		return CurveExponential, nil
	default:
		return 0, fmt.Errorf("envelope: unknown curve %q", s)
	}
}

// expTail is exp(-5), the residual the exponential ramp normalizes away.
const expTail = 0.006737946999085467

// ADSR is an attack/decay/sustain/release amplitude contour. The zero
// value is not usable; construct with New.
type ADSR struct {
	attack  float64
	decay   float64
	sustain float64
	release float64
	curve   Curve
}

// Option configures optional ADSR behavior.
type Option func(*ADSR) error

// WithCurve selects the segment ramp shape.
func WithCurve(c Curve) Option {
	return func(e *ADSR) error {
		if c != CurveLinear && c != CurveExponential {
			return fmt.Errorf("envelope: unknown curve %d", int(c))
		}

		e.curve = c

		return nil
	}
}

// New creates an ADSR contour. Attack, decay and release are non-negative
// durations in seconds; sustain is a gain in [0, 1].
func New(attack, decay, sustain, release float64, opts ...Option) (*ADSR, error) {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"attack", attack},
		{"decay", decay},
		{"release", release},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) || v.val < 0 {
			return nil, fmt.Errorf("envelope: %s must be a non-negative duration: %f", v.name, v.val)
		}
	}

	if math.IsNaN(sustain) || sustain < 0 || sustain > 1 {
		return nil, fmt.Errorf("envelope: sustain must be in [0, 1]: %f", sustain)
	}

	e := &ADSR{attack: attack, decay: decay, sustain: sustain, release: release}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Sustain returns the sustain gain.
func (e *ADSR) Sustain() float64 { return e.sustain }

// Gain materializes the contour as a gain vector of n samples.
func (e *ADSR) Gain(n int, sampleRate float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("envelope: sample count must be positive: %d", n)
	}

	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("envelope: sample rate must be positive: %f", sampleRate)
	}

	attackN, decayN, sustainN, releaseN := e.segments(n, sampleRate)

	out := make([]float64, n)
	pos := 0

	ramp(out[pos:pos+attackN], 0, 1, e.curve)
	pos += attackN

	ramp(out[pos:pos+decayN], 1, e.sustain, e.curve)
	pos += decayN

	for i := pos; i < pos+sustainN; i++ {
		out[i] = e.sustain
	}
	pos += sustainN

	ramp(out[pos:pos+releaseN], e.sustain, 0, e.curve)

	return out, nil
}

// Apply multiplies the contour into buf in place.
func (e *ADSR) Apply(buf []float64, sampleRate float64) error {
	gain, err := e.Gain(len(buf), sampleRate)
	if err != nil {
		return err
	}

	vecmath.MulBlockInPlace(buf, gain)

	return nil
}

// segments converts the second-valued phases into sample counts that
// exactly partition n. Release claims the tail first; attack and decay
// scale down proportionally if the remaining body is too short.
func (e *ADSR) segments(n int, sampleRate float64) (attackN, decayN, sustainN, releaseN int) {
	releaseN = int(math.Round(e.release * sampleRate))
	if releaseN > n {
		releaseN = n
	}

	body := n - releaseN

	attackN = int(math.Round(e.attack * sampleRate))
	decayN = int(math.Round(e.decay * sampleRate))

	if sum := attackN + decayN; sum > body {
		scale := float64(body) / float64(sum)
		attackN = int(math.Floor(float64(attackN) * scale))
		decayN = body - attackN
	}

	sustainN = body - attackN - decayN

	return attackN, decayN, sustainN, releaseN
}

// ramp fills dst with a contour from "from" at the first sample toward
// "to", stopping one step short so the next segment continues seamlessly.
func ramp(dst []float64, from, to float64, curve Curve) {
	n := len(dst)
	if n == 0 {
		return
	}

	if curve == CurveExponential {
		mul := math.Exp(-5.0 / float64(n))
		u := 1.0

		for i := range dst {
			w := (u - expTail) / (1 - expTail)
			dst[i] = to + (from-to)*w
			u *= mul
		}

		return
	}

	step := (to - from) / float64(n)
	for i := range dst {
		dst[i] = from + step*float64(i)
	}
}
