package synthesis

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/randstream"
)

// Mode describes one resonance of a modal voice: its center frequency,
// the 1/e decay time of its ring-out, and its amplitude.
type Mode struct {
	Frequency float64
	Decay     float64
	Amplitude float64
}

// Modal excites a bank of two-pole resonators with an impulse plus an
// optional short noise burst, approximating struck or plucked resonant
// bodies such as bells and bars.
type Modal struct {
	a1, a2, b0 []float64
	y1, y2     []float64

	burstLen int
	stream   *randstream.Stream
	pos      int
}

// NewModal creates a modal voice. strikeSeconds sets the length of the
// seeded noise burst that follows the initial impulse; zero means a pure
// impulse strike.
func NewModal(modes []Mode, strikeSeconds, sampleRate float64, stream *randstream.Stream) (*Modal, error) {
	if len(modes) == 0 {
		return nil, fmt.Errorf("synthesis: modal voice requires at least one mode")
	}

	if err := validatePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	if math.IsNaN(strikeSeconds) || math.IsInf(strikeSeconds, 0) || strikeSeconds < 0 {
		return nil, fmt.Errorf("synthesis: strike duration must be non-negative: %v", strikeSeconds)
	}

	burstLen := int(math.Round(strikeSeconds * sampleRate))
	if burstLen > 0 && stream == nil {
		return nil, fmt.Errorf("synthesis: modal voice with a noise strike requires a random stream")
	}

	nyquist := sampleRate / 2

	m := &Modal{
		a1:       make([]float64, len(modes)),
		a2:       make([]float64, len(modes)),
		b0:       make([]float64, len(modes)),
		y1:       make([]float64, len(modes)),
		y2:       make([]float64, len(modes)),
		burstLen: burstLen,
		stream:   stream,
	}

	for i, mode := range modes {
		if math.IsNaN(mode.Frequency) || mode.Frequency <= 0 || mode.Frequency >= nyquist {
			return nil, fmt.Errorf("synthesis: mode %d frequency must be in (0, %g): %v", i, nyquist, mode.Frequency)
		}

		if err := validatePositive(fmt.Sprintf("mode %d decay", i), mode.Decay); err != nil {
			return nil, err
		}

		if err := validateFinite(fmt.Sprintf("mode %d amplitude", i), mode.Amplitude); err != nil {
			return nil, err
		}

		theta := 2 * math.Pi * mode.Frequency / sampleRate
		r := math.Exp(-1 / (mode.Decay * sampleRate))

		m.a1[i] = 2 * r * math.Cos(theta)
		m.a2[i] = -r * r
		// sin(theta) scales the resonator impulse response back to unit
		// peak before the mode amplitude applies.
		m.b0[i] = mode.Amplitude * math.Sin(theta)
	}

	return m, nil
}

// Fill overwrites buf with the next len(buf) samples.
func (m *Modal) Fill(buf []float64) {
	for i := range buf {
		x := m.excitation()

		sum := 0.0

		for k := range m.a1 {
			y := m.a1[k]*m.y1[k] + m.a2[k]*m.y2[k] + m.b0[k]*x
			m.y2[k] = m.y1[k]
			m.y1[k] = y
			sum += y
		}

		buf[i] = sum
		m.pos++
	}
}

// excitation is a unit impulse at sample zero followed by a linearly
// fading noise burst of burstLen samples.
func (m *Modal) excitation() float64 {
	x := 0.0
	if m.pos == 0 {
		x = 1
	}

	if m.pos < m.burstLen {
		fade := 1 - float64(m.pos)/float64(m.burstLen)
		x += m.stream.Bipolar() * fade
	}

	return x
}
