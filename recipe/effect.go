package recipe

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/effects"
)

// Effect is the closed set of master-chain processors. The chain runs
// after the layer mix, in declaration order. The ranges here mirror the
// processor constructors in dsp/effects; both reject rather than clamp.
type Effect interface {
	effectVariant()
	validate() error
}

// Delay is an echo line. PingPong routes stereo feedback across
// channels so repeats alternate sides.
type Delay struct {
	TimeSeconds float64
	Feedback    float64
	Mix         float64
	PingPong    bool
}

func (*Delay) effectVariant() {}

func (d *Delay) validate() error {
	if math.IsNaN(d.TimeSeconds) || d.TimeSeconds < 0.001 || d.TimeSeconds > 2 {
		return invalidf("time_seconds must be in [0.001, 2]: %v", d.TimeSeconds)
	}

	if math.IsNaN(d.Feedback) || d.Feedback < 0 || d.Feedback >= 1 {
		return invalidf("feedback must be in [0, 1): %v", d.Feedback)
	}

	return checkUnit("mix", d.Mix)
}

// Reverb is the fixed comb-and-allpass network; Room sets the tail
// length, Damp the high-frequency loss inside the tail.
type Reverb struct {
	Room float64
	Damp float64
	Mix  float64
}

func (*Reverb) effectVariant() {}

func (r *Reverb) validate() error {
	if err := checkUnit("room", r.Room); err != nil {
		return err
	}

	if err := checkUnit("damp", r.Damp); err != nil {
		return err
	}

	return checkUnit("mix", r.Mix)
}

// Chorus thickens the signal with three modulated delay taps.
type Chorus struct {
	// Rate is the LFO speed in Hz.
	Rate float64
	// Depth is the modulation swing in seconds.
	Depth float64
	Mix   float64
}

func (*Chorus) effectVariant() {}

func (c *Chorus) validate() error {
	if err := checkPositive("rate", c.Rate); err != nil {
		return err
	}

	if math.IsNaN(c.Depth) || math.IsInf(c.Depth, 0) || c.Depth < 0 {
		return invalidf("depth must be >= 0 and finite: %v", c.Depth)
	}

	return checkUnit("mix", c.Mix)
}

// Flanger sweeps a short feedback delay across the signal.
type Flanger struct {
	Rate     float64
	Depth    float64
	Feedback float64
	Mix      float64
}

func (*Flanger) effectVariant() {}

func (f *Flanger) validate() error {
	if err := checkPositive("rate", f.Rate); err != nil {
		return err
	}

	if err := checkPositive("depth", f.Depth); err != nil {
		return err
	}

	if math.IsNaN(f.Feedback) || f.Feedback <= -1 || f.Feedback >= 1 {
		return invalidf("feedback must be in (-1, 1): %v", f.Feedback)
	}

	return checkUnit("mix", f.Mix)
}

// Phaser sweeps an allpass cascade through the low mids.
type Phaser struct {
	Rate     float64
	Stages   int
	Feedback float64
	Mix      float64
}

func (*Phaser) effectVariant() {}

func (p *Phaser) validate() error {
	if err := checkPositive("rate", p.Rate); err != nil {
		return err
	}

	if p.Stages < 1 || p.Stages > 12 {
		return invalidf("stages must be in [1, 12]: %d", p.Stages)
	}

	if math.IsNaN(p.Feedback) || p.Feedback <= -1 || p.Feedback >= 1 {
		return invalidf("feedback must be in (-1, 1): %v", p.Feedback)
	}

	return checkUnit("mix", p.Mix)
}

// Bitcrush quantizes the signal to a reduced bit depth and holds samples
// across Downsample-frame groups.
type Bitcrush struct {
	Bits       float64
	Downsample int
	Mix        float64
}

func (*Bitcrush) effectVariant() {}

func (b *Bitcrush) validate() error {
	if err := checkRange("bits", b.Bits, 1, 16); err != nil {
		return err
	}

	if b.Downsample < 1 || b.Downsample > 64 {
		return invalidf("downsample must be in [1, 64]: %d", b.Downsample)
	}

	return checkUnit("mix", b.Mix)
}

// Waveshape drives the signal through a fixed transfer curve.
type Waveshape struct {
	Drive float64
	Mode  effects.ShaperMode
	Mix   float64
}

func (*Waveshape) effectVariant() {}

func (w *Waveshape) validate() error {
	if err := checkRange("drive", w.Drive, 0.01, 20); err != nil {
		return err
	}

	if w.Mode < effects.ShaperSoft || w.Mode > effects.ShaperTanh {
		return invalidf("unknown shaper mode %d", int(w.Mode))
	}

	return checkUnit("mix", w.Mix)
}

// Compressor is a feedforward peak compressor with a log-domain
// soft-knee gain computer.
type Compressor struct {
	ThresholdDB float64
	Ratio       float64
	KneeDB      float64
	AttackMs    float64
	ReleaseMs   float64
	MakeupDB    float64
}

func (*Compressor) effectVariant() {}

func (c *Compressor) validate() error {
	if err := checkFinite("threshold_db", c.ThresholdDB); err != nil {
		return err
	}

	if err := checkRange("ratio", c.Ratio, 1, 100); err != nil {
		return err
	}

	if err := checkRange("knee_db", c.KneeDB, 0, 24); err != nil {
		return err
	}

	if err := checkRange("attack_ms", c.AttackMs, 0.1, 1000); err != nil {
		return err
	}

	if err := checkRange("release_ms", c.ReleaseMs, 1, 5000); err != nil {
		return err
	}

	return checkFinite("makeup_db", c.MakeupDB)
}

// Limiter is a lookahead brickwall limiter.
type Limiter struct {
	ThresholdDB float64
	ReleaseMs   float64
	LookaheadMs float64
}

func (*Limiter) effectVariant() {}

func (l *Limiter) validate() error {
	if err := checkRange("threshold_db", l.ThresholdDB, -24, 0); err != nil {
		return err
	}

	if err := checkRange("release_ms", l.ReleaseMs, 1, 5000); err != nil {
		return err
	}

	return checkRange("lookahead_ms", l.LookaheadMs, 0, 10)
}

// Tremolo modulates amplitude with a phase-accumulated LFO.
type Tremolo struct {
	Rate  float64
	Depth float64
}

func (*Tremolo) effectVariant() {}

func (t *Tremolo) validate() error {
	if err := checkPositive("rate", t.Rate); err != nil {
		return err
	}

	return checkUnit("depth", t.Depth)
}
