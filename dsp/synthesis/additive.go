package synthesis

import (
	"fmt"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

// Partial is one component of an additive stack: a frequency ratio
// relative to the fundamental and its amplitude. Negative amplitudes
// invert phase.
type Partial struct {
	Ratio     float64
	Amplitude float64
}

// Additive sums independently accumulated sine partials. Each partial
// keeps its own wrapped phase, so inharmonic ratios stay exact over any
// render length.
type Additive struct {
	incs   []float64
	amps   []float64
	phases []float64
}

// NewAdditive creates an additive voice at the given fundamental (Hz).
func NewAdditive(freq float64, partials []Partial, sampleRate float64) (*Additive, error) {
	if err := validatePositive("fundamental frequency", freq); err != nil {
		return nil, err
	}

	if err := validatePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	if len(partials) == 0 {
		return nil, fmt.Errorf("synthesis: additive voice requires at least one partial")
	}

	a := &Additive{
		incs:   make([]float64, len(partials)),
		amps:   make([]float64, len(partials)),
		phases: make([]float64, len(partials)),
	}

	for i, p := range partials {
		if err := validatePositive(fmt.Sprintf("partial %d ratio", i), p.Ratio); err != nil {
			return nil, err
		}

		if err := validateFinite(fmt.Sprintf("partial %d amplitude", i), p.Amplitude); err != nil {
			return nil, err
		}

		a.incs[i] = freq * p.Ratio / sampleRate
		a.amps[i] = p.Amplitude
	}

	return a, nil
}

// Fill overwrites buf with the next len(buf) samples.
func (a *Additive) Fill(buf []float64) {
	for i := range buf {
		sum := 0.0

		for k := range a.incs {
			sum += a.amps[k] * fastmath.SinTurns(a.phases[k])
			a.phases[k] = wrapPhase(a.phases[k] + a.incs[k])
		}

		buf[i] = sum
	}
}
