package synthesis

import (
	"fmt"
	"math"
)

// Wavetable plays a single-cycle table with linear interpolation, looping
// at the requested frequency.
type Wavetable struct {
	table []float64
	inc   float64
	phase float64
}

// NewWavetable creates a wavetable voice. The table must hold at least
// two finite samples describing one waveform cycle; it is copied, so the
// caller's slice stays untouched.
func NewWavetable(table []float64, freq, sampleRate float64) (*Wavetable, error) {
	if len(table) < 2 {
		return nil, fmt.Errorf("synthesis: wavetable needs at least 2 samples, got %d", len(table))
	}

	for i, v := range table {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("synthesis: wavetable sample %d must be finite: %v", i, v)
		}
	}

	if err := validatePositive("frequency", freq); err != nil {
		return nil, err
	}

	if err := validatePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	return &Wavetable{
		table: append([]float64(nil), table...),
		inc:   freq / sampleRate,
	}, nil
}

// Fill overwrites buf with the next len(buf) samples.
func (w *Wavetable) Fill(buf []float64) {
	n := len(w.table)

	for i := range buf {
		pos := w.phase * float64(n)
		i0 := int(pos)

		// The wrapped phase stays below 1, but rounding in the multiply
		// can still land exactly on n.
		if i0 >= n {
			i0 = 0
			pos -= float64(n)
		}

		i1 := i0 + 1
		if i1 == n {
			i1 = 0
		}

		frac := pos - float64(i0)
		buf[i] = w.table[i0] + (w.table[i1]-w.table[i0])*frac

		w.phase = wrapPhase(w.phase + w.inc)
	}
}
