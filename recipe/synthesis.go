package recipe

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/synthesis"
)

// Synthesis is the closed set of layer signal sources. Every variant is
// a pure function of (sample index, its parameters, its layer's seeded
// stream); none reads the clock or global state. Variants whose tuning
// depends on the render rate (pluck, modal) are validated against the
// recipe sample rate like filters are.
type Synthesis interface {
	synthesisVariant()
	validate(sampleRate float64) error
}

// Oscillator plays a classic waveform at a fixed or swept frequency.
type Oscillator struct {
	Shape     synthesis.WaveShape
	Frequency float64
	// Duty is the square-wave duty cycle in (0, 1); zero selects the
	// generator default. Other shapes ignore it.
	Duty float64
	// DetuneCents shifts the base frequency; zero means no detune.
	DetuneCents float64
	// Sweep, when set, glides the frequency to a target.
	Sweep *Sweep
}

// Sweep glides an oscillator from its base frequency to Target over
// Seconds, then holds.
type Sweep struct {
	Target  float64
	Seconds float64
	// Curve selects linear or log-frequency interpolation; the zero
	// value is linear.
	Curve synthesis.SweepCurve
}

func (*Oscillator) synthesisVariant() {}

func (o *Oscillator) validate(sampleRate float64) error {
	if o.Shape < synthesis.ShapeSine || o.Shape > synthesis.ShapeTriangle {
		return invalidf("unknown wave shape %d", int(o.Shape))
	}

	if err := checkPositive("frequency", o.Frequency); err != nil {
		return err
	}

	if o.Duty != 0 && (math.IsNaN(o.Duty) || o.Duty <= 0 || o.Duty >= 1) {
		return invalidf("duty must be in (0, 1): %v", o.Duty)
	}

	if err := checkFinite("detune_cents", o.DetuneCents); err != nil {
		return err
	}

	if o.Sweep != nil {
		if err := checkPositive("sweep target", o.Sweep.Target); err != nil {
			return err
		}

		if err := checkPositive("sweep seconds", o.Sweep.Seconds); err != nil {
			return err
		}

		if o.Sweep.Curve != synthesis.SweepLinear && o.Sweep.Curve != synthesis.SweepExponential {
			return invalidf("unknown sweep curve %d", int(o.Sweep.Curve))
		}
	}

	return nil
}

// Noise generates colored noise from the layer stream.
type Noise struct {
	Color synthesis.NoiseColor
}

func (*Noise) synthesisVariant() {}

func (n *Noise) validate(sampleRate float64) error {
	if n.Color < synthesis.NoiseWhite || n.Color > synthesis.NoiseBrown {
		return invalidf("unknown noise color %d", int(n.Color))
	}

	return nil
}

// FM is two-operator frequency modulation with the index in radians.
type FM struct {
	Carrier   float64
	Modulator float64
	Index     float64
}

func (*FM) synthesisVariant() {}

func (f *FM) validate(sampleRate float64) error {
	if err := checkPositive("carrier", f.Carrier); err != nil {
		return err
	}

	if err := checkPositive("modulator", f.Modulator); err != nil {
		return err
	}

	if math.IsNaN(f.Index) || math.IsInf(f.Index, 0) || f.Index < 0 {
		return invalidf("index must be >= 0 and finite: %v", f.Index)
	}

	return nil
}

// AM is amplitude modulation, normalized so the peak stays at one.
type AM struct {
	Carrier   float64
	Modulator float64
	Depth     float64
}

func (*AM) synthesisVariant() {}

func (a *AM) validate(sampleRate float64) error {
	if err := checkPositive("carrier", a.Carrier); err != nil {
		return err
	}

	if err := checkPositive("modulator", a.Modulator); err != nil {
		return err
	}

	return checkUnit("depth", a.Depth)
}

// RingMod multiplies two sines.
type RingMod struct {
	Carrier   float64
	Modulator float64
}

func (*RingMod) synthesisVariant() {}

func (r *RingMod) validate(sampleRate float64) error {
	if err := checkPositive("carrier", r.Carrier); err != nil {
		return err
	}

	return checkPositive("modulator", r.Modulator)
}

// Additive sums sine partials at ratios of a fundamental.
type Additive struct {
	Frequency float64
	Partials  []Partial
}

// Partial is one additive component at Ratio times the fundamental.
type Partial struct {
	Ratio     float64
	Amplitude float64
}

func (*Additive) synthesisVariant() {}

func (a *Additive) validate(sampleRate float64) error {
	if err := checkPositive("frequency", a.Frequency); err != nil {
		return err
	}

	if len(a.Partials) == 0 {
		return invalidf("at least one partial is required")
	}

	for i, p := range a.Partials {
		if math.IsNaN(p.Ratio) || math.IsInf(p.Ratio, 0) || p.Ratio <= 0 {
			return invalidf("partial %d ratio must be > 0 and finite: %v", i, p.Ratio)
		}

		if math.IsNaN(p.Amplitude) || math.IsInf(p.Amplitude, 0) {
			return invalidf("partial %d amplitude must be finite: %v", i, p.Amplitude)
		}
	}

	return nil
}

// Wavetable loops a single-cycle table with linear interpolation.
type Wavetable struct {
	Table     []float64
	Frequency float64
}

func (*Wavetable) synthesisVariant() {}

func (w *Wavetable) validate(sampleRate float64) error {
	if len(w.Table) < 2 {
		return invalidf("table must hold at least 2 samples: %d", len(w.Table))
	}

	for i, v := range w.Table {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("table sample %d must be finite: %v", i, v)
		}
	}

	return checkPositive("frequency", w.Frequency)
}

// Granular overlap-adds windowed tone grains on a deterministic
// schedule; Jitter draws start offsets from the layer stream.
type Granular struct {
	Frequency    float64
	GrainSeconds float64
	Density      float64
	Jitter       float64
}

func (*Granular) synthesisVariant() {}

func (g *Granular) validate(sampleRate float64) error {
	if err := checkPositive("frequency", g.Frequency); err != nil {
		return err
	}

	if err := checkPositive("grain_seconds", g.GrainSeconds); err != nil {
		return err
	}

	if err := checkPositive("density", g.Density); err != nil {
		return err
	}

	return checkUnit("jitter", g.Jitter)
}

// Modal excites a bank of decaying resonators, approximating struck
// objects. Strike is the length of the seeded noise burst in seconds;
// zero excites with a bare impulse.
type Modal struct {
	Modes  []Mode
	Strike float64
}

// Mode is one resonator: frequency in Hz, 1/e decay time in seconds,
// and linear amplitude.
type Mode struct {
	Frequency float64
	Decay     float64
	Amplitude float64
}

func (*Modal) synthesisVariant() {}

func (m *Modal) validate(sampleRate float64) error {
	if len(m.Modes) == 0 {
		return invalidf("at least one mode is required")
	}

	nyquist := sampleRate / 2
	for i, md := range m.Modes {
		if math.IsNaN(md.Frequency) || md.Frequency <= 0 || md.Frequency >= nyquist {
			return invalidf("mode %d frequency must be in (0, %g): %v", i, nyquist, md.Frequency)
		}

		if math.IsNaN(md.Decay) || math.IsInf(md.Decay, 0) || md.Decay <= 0 {
			return invalidf("mode %d decay must be > 0 and finite: %v", i, md.Decay)
		}

		if math.IsNaN(md.Amplitude) || math.IsInf(md.Amplitude, 0) {
			return invalidf("mode %d amplitude must be finite: %v", i, md.Amplitude)
		}
	}

	return checkRange("strike", m.Strike, 0, 1)
}

// Pluck is a Karplus-Strong string: a stream-filled delay line with
// averaged feedback.
type Pluck struct {
	Frequency float64
	// Damping in (0, 1] scales the feedback average; 1 rings longest.
	Damping float64
}

func (*Pluck) synthesisVariant() {}

func (p *Pluck) validate(sampleRate float64) error {
	nyquist := sampleRate / 2
	if math.IsNaN(p.Frequency) || p.Frequency <= 0 || p.Frequency >= nyquist {
		return invalidf("frequency must be in (0, %g): %v", nyquist, p.Frequency)
	}

	if math.IsNaN(p.Damping) || p.Damping <= 0 || p.Damping > 1 {
		return invalidf("damping must be in (0, 1]: %v", p.Damping)
	}

	return nil
}
