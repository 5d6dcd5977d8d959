package recipe

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/filter"
)

// Filter is the closed set of per-layer tone-shaping stages. Cutoff
// frequencies are validated against the recipe sample rate, so the same
// variant can be legal at 48 kHz and rejected at 8 kHz.
type Filter interface {
	filterVariant()
	validate(sampleRate float64) error
}

// Lowpass is an RBJ cookbook lowpass biquad.
type Lowpass struct {
	Cutoff float64
	Q      float64
}

// Highpass is an RBJ cookbook highpass biquad.
type Highpass struct {
	Cutoff float64
	Q      float64
}

// Bandpass is an RBJ cookbook bandpass biquad with peak gain Q.
type Bandpass struct {
	Cutoff float64
	Q      float64
}

// Notch is an RBJ cookbook notch biquad.
type Notch struct {
	Cutoff float64
	Q      float64
}

func (*Lowpass) filterVariant()  {}
func (*Highpass) filterVariant() {}
func (*Bandpass) filterVariant() {}
func (*Notch) filterVariant()    {}

func (f *Lowpass) validate(sampleRate float64) error {
	return checkBiquad(f.Cutoff, f.Q, sampleRate)
}

func (f *Highpass) validate(sampleRate float64) error {
	return checkBiquad(f.Cutoff, f.Q, sampleRate)
}

func (f *Bandpass) validate(sampleRate float64) error {
	return checkBiquad(f.Cutoff, f.Q, sampleRate)
}

func (f *Notch) validate(sampleRate float64) error {
	return checkBiquad(f.Cutoff, f.Q, sampleRate)
}

func checkBiquad(cutoff, q, sampleRate float64) error {
	nyquist := sampleRate / 2
	if math.IsNaN(cutoff) || cutoff <= 0 || cutoff >= nyquist {
		return invalidf("cutoff must be in (0, %g): %v", nyquist, cutoff)
	}

	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return invalidf("q must be > 0 and finite: %v", q)
	}

	return nil
}

// Comb is a feedback comb resonating at Frequency and its harmonics. The
// delay line is rounded to whole samples.
type Comb struct {
	Frequency float64
	Feedback  float64
}

func (*Comb) filterVariant() {}

func (c *Comb) validate(sampleRate float64) error {
	nyquist := sampleRate / 2
	if math.IsNaN(c.Frequency) || c.Frequency <= 0 || c.Frequency >= nyquist {
		return invalidf("frequency must be in (0, %g): %v", nyquist, c.Frequency)
	}

	if math.IsNaN(c.Feedback) || c.Feedback <= -1 || c.Feedback >= 1 {
		return invalidf("feedback must be in (-1, 1): %v", c.Feedback)
	}

	return nil
}

// Formant shapes the signal with a fixed three-band vowel preset.
type Formant struct {
	Vowel filter.Vowel
}

func (*Formant) filterVariant() {}

func (f *Formant) validate(sampleRate float64) error {
	if f.Vowel < filter.VowelA || f.Vowel > filter.VowelU {
		return invalidf("unknown vowel %d", int(f.Vowel))
	}

	// The highest preset formant sits near 3 kHz; reject rates too low
	// to carry it.
	if sampleRate/2 <= filter.MaxFormantFrequency {
		return invalidf("sample rate %g too low for formant presets", sampleRate)
	}

	return nil
}

// Ladder is a four-stage lowpass ladder with resonance up to
// self-oscillation.
type Ladder struct {
	Cutoff    float64
	Resonance float64
}

func (*Ladder) filterVariant() {}

func (l *Ladder) validate(sampleRate float64) error {
	nyquist := sampleRate / 2
	if math.IsNaN(l.Cutoff) || l.Cutoff <= 0 || l.Cutoff >= nyquist {
		return invalidf("cutoff must be in (0, %g): %v", nyquist, l.Cutoff)
	}

	return checkRange("resonance", l.Resonance, 0, filter.MaxLadderResonance)
}
