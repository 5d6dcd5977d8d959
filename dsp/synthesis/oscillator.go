package synthesis

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

// WaveShape selects the oscillator waveform.
type WaveShape int

const (
	ShapeSine WaveShape = iota
	ShapeSaw
	ShapeSquare
	ShapeTriangle
)

// String returns the waveform name.
func (w WaveShape) String() string {
	switch w {
	case ShapeSine:
		return "sine"
	case ShapeSaw:
		return "saw"
	case ShapeSquare:
		return "square"
	case ShapeTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("WaveShape(%d)", int(w))
	}
}

// ParseWaveShape maps a waveform name to its WaveShape.
func ParseWaveShape(s string) (WaveShape, error) {
	switch s {
	case "sine":
		return ShapeSine, nil
	case "saw":
		return ShapeSaw, nil
	case "square":
		return ShapeSquare, nil
	case "triangle":
		return ShapeTriangle, nil
	default:
		return 0, fmt.Errorf("synthesis: unknown wave shape %q", s)
	}
}

// SweepCurve selects how a pitch sweep interpolates between frequencies.
type SweepCurve int

const (
	// SweepLinear moves the frequency by a fixed amount per sample.
	SweepLinear SweepCurve = iota
	// SweepExponential moves the frequency by a fixed ratio per sample,
	// interpolating linearly in log-frequency space.
	SweepExponential
)

// String returns the sweep curve name.
func (c SweepCurve) String() string {
	switch c {
	case SweepLinear:
		return "linear"
	case SweepExponential:
		return "exponential"
	default:
		return fmt.Sprintf("SweepCurve(%d)", int(c))
	}
}

// ParseSweepCurve maps a curve name to its SweepCurve.
func ParseSweepCurve(s string) (SweepCurve, error) {
	switch s {
	case "linear":
		return SweepLinear, nil
	case "exponential":
		return SweepExponential, nil
	default:
		return 0, fmt.Errorf("synthesis: unknown sweep curve %q", s)
	}
}

// Oscillator generates classic naive waveforms from a wrapped phase
// accumulator. The shapes are not band-limited; aliasing above Nyquist is
// accepted as part of the chiptune-style character.
type Oscillator struct {
	shape WaveShape
	duty  float64

	freq       float64
	sampleRate float64
	phase      float64

	detuneCents  float64
	sweepTarget  float64
	sweepSeconds float64
	sweepCurve   SweepCurve
	hasSweep     bool

	sweepDelta float64
	sweepRatio float64
	sweepLeft  int
}

// OscillatorOption configures optional oscillator behavior.
type OscillatorOption func(*Oscillator) error

// WithDuty sets the square-wave duty cycle in (0, 1). Other shapes ignore
// it.
func WithDuty(duty float64) OscillatorOption {
	return func(o *Oscillator) error {
		if math.IsNaN(duty) || duty <= 0 || duty >= 1 {
			return fmt.Errorf("synthesis: duty must be in (0, 1): %v", duty)
		}

		o.duty = duty

		return nil
	}
}

// WithDetuneCents shifts the oscillator frequency by the given number of
// cents. The sweep start frequency shifts with it; an explicit sweep
// target does not.
func WithDetuneCents(cents float64) OscillatorOption {
	return func(o *Oscillator) error {
		if err := validateFinite("detune", cents); err != nil {
			return err
		}

		o.detuneCents = cents

		return nil
	}
}

// WithSweep glides the frequency to target over the given number of
// seconds, then holds it.
func WithSweep(target, seconds float64, curve SweepCurve) OscillatorOption {
	return func(o *Oscillator) error {
		if err := validatePositive("sweep target", target); err != nil {
			return err
		}

		if err := validatePositive("sweep duration", seconds); err != nil {
			return err
		}

		if curve != SweepLinear && curve != SweepExponential {
			return fmt.Errorf("synthesis: unknown sweep curve %d", int(curve))
		}

		o.sweepTarget = target
		o.sweepSeconds = seconds
		o.sweepCurve = curve
		o.hasSweep = true

		return nil
	}
}

// NewOscillator creates a waveform oscillator at freq (Hz). The phase
// starts at zero, so a sine's first sample is exactly zero.
func NewOscillator(shape WaveShape, freq, sampleRate float64, opts ...OscillatorOption) (*Oscillator, error) {
	if shape < ShapeSine || shape > ShapeTriangle {
		return nil, fmt.Errorf("synthesis: unknown wave shape: %d", int(shape))
	}

	if err := validatePositive("frequency", freq); err != nil {
		return nil, err
	}

	if err := validatePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	o := &Oscillator{
		shape:      shape,
		duty:       0.5,
		freq:       freq,
		sampleRate: sampleRate,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(o); err != nil {
			return nil, err
		}
	}

	if o.detuneCents != 0 {
		o.freq *= math.Pow(2, o.detuneCents/1200)
	}

	if o.hasSweep {
		steps := int(math.Round(o.sweepSeconds * o.sampleRate))
		if steps < 1 {
			steps = 1
		}

		o.sweepLeft = steps

		if o.sweepCurve == SweepExponential {
			o.sweepRatio = math.Exp(math.Log(o.sweepTarget/o.freq) / float64(steps))
		} else {
			o.sweepDelta = (o.sweepTarget - o.freq) / float64(steps)
		}
	}

	return o, nil
}

// Fill overwrites buf with the next len(buf) samples.
func (o *Oscillator) Fill(buf []float64) {
	for i := range buf {
		buf[i] = o.next()
	}
}

func (o *Oscillator) next() float64 {
	v := o.value()

	o.phase = wrapPhase(o.phase + o.freq/o.sampleRate)

	if o.sweepLeft > 0 {
		if o.sweepCurve == SweepExponential {
			o.freq *= o.sweepRatio
		} else {
			o.freq += o.sweepDelta
		}

		o.sweepLeft--
	}

	return v
}

func (o *Oscillator) value() float64 {
	switch o.shape {
	case ShapeSaw:
		return 2*o.phase - 1
	case ShapeSquare:
		if o.phase < o.duty {
			return 1
		}

		return -1
	case ShapeTriangle:
		if o.phase < 0.5 {
			return 4*o.phase - 1
		}

		return 3 - 4*o.phase
	default:
		return fastmath.SinTurns(o.phase)
	}
}
