package synthesis

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/randstream"
)

// Pluck is a Karplus-Strong plucked string: a delay line seeded with
// noise, fed back through a two-point average that damps high
// frequencies faster than the fundamental.
type Pluck struct {
	line    []float64
	pos     int
	damping float64
}

// NewPluck creates a plucked-string voice at freq (Hz). Damping in
// (0, 1] scales the feedback; 1 rings longest.
func NewPluck(freq, damping, sampleRate float64, stream *randstream.Stream) (*Pluck, error) {
	if err := validatePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	nyquist := sampleRate / 2
	if math.IsNaN(freq) || freq <= 0 || freq >= nyquist {
		return nil, fmt.Errorf("synthesis: pluck frequency must be in (0, %g): %v", nyquist, freq)
	}

	if math.IsNaN(damping) || damping <= 0 || damping > 1 {
		return nil, fmt.Errorf("synthesis: damping must be in (0, 1]: %v", damping)
	}

	if stream == nil {
		return nil, fmt.Errorf("synthesis: pluck requires a random stream")
	}

	line := make([]float64, int(math.Round(sampleRate/freq)))
	for i := range line {
		line[i] = stream.Bipolar()
	}

	return &Pluck{line: line, damping: damping}, nil
}

// Fill overwrites buf with the next len(buf) samples.
func (p *Pluck) Fill(buf []float64) {
	n := len(p.line)

	for i := range buf {
		next := p.pos + 1
		if next == n {
			next = 0
		}

		out := p.line[p.pos]
		p.line[p.pos] = p.damping * 0.5 * (p.line[p.pos] + p.line[next])
		p.pos = next

		buf[i] = out
	}
}
