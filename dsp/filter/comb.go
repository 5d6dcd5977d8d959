package filter

import (
	"fmt"
	"math"
)

// Comb is a feedback comb filter resonating at sampleRate/delay Hz and
// its harmonics.
type Comb struct {
	buf      []float64
	pos      int
	feedback float64
}

// NewComb creates a comb filter tuned to freq (Hz). The delay line is
// rounded to whole samples, so the realized resonance is
// sampleRate/round(sampleRate/freq).
func NewComb(freq, feedback, sampleRate float64) (*Comb, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("filter: sample rate must be positive: %f", sampleRate)
	}

	nyquist := sampleRate / 2
	if math.IsNaN(freq) || freq <= 0 || freq >= nyquist {
		return nil, fmt.Errorf("filter: comb frequency must be in (0, %g): %f", nyquist, freq)
	}

	if math.IsNaN(feedback) || feedback <= -1 || feedback >= 1 {
		return nil, fmt.Errorf("filter: comb feedback must be in (-1, 1): %f", feedback)
	}

	return &Comb{
		buf:      make([]float64, int(math.Round(sampleRate/freq))),
		feedback: feedback,
	}, nil
}

// Delay returns the delay-line length in samples.
func (c *Comb) Delay() int {
	return len(c.buf)
}

// ProcessSample filters one input sample and returns the output.
func (c *Comb) ProcessSample(x float64) float64 {
	y := x + c.feedback*c.buf[c.pos]
	c.buf[c.pos] = y

	c.pos++
	if c.pos == len(c.buf) {
		c.pos = 0
	}

	return y
}

// ProcessBlock filters a block of samples in place.
func (c *Comb) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Reset clears the delay line to zero.
func (c *Comb) Reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}

	c.pos = 0
}
