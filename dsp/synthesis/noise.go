package synthesis

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/randstream"
)

// NoiseColor selects the spectral tilt of a noise generator.
type NoiseColor int

const (
	// NoiseWhite has a flat spectrum.
	NoiseWhite NoiseColor = iota
	// NoisePink falls off at roughly 3 dB per octave.
	NoisePink
	// NoiseBrown falls off at roughly 6 dB per octave.
	NoiseBrown
)

// String returns the color name.
func (c NoiseColor) String() string {
	switch c {
	case NoiseWhite:
		return "white"
	case NoisePink:
		return "pink"
	case NoiseBrown:
		return "brown"
	default:
		return fmt.Sprintf("NoiseColor(%d)", int(c))
	}
}

// ParseNoiseColor maps a color name to its NoiseColor.
func ParseNoiseColor(s string) (NoiseColor, error) {
	switch s {
	case "white":
		return NoiseWhite, nil
	case "pink":
		return NoisePink, nil
	case "brown":
		return NoiseBrown, nil
	default:
		return 0, fmt.Errorf("synthesis: unknown noise color %q", s)
	}
}

// Noise generates colored noise from a deterministic stream. Pink uses
// the Kellett seven-state recurrence and brown a leaky integrator; the
// recurrence constants are fixed and part of the output contract.
type Noise struct {
	color  NoiseColor
	stream *randstream.Stream

	pink  [7]float64
	brown float64
}

// NewNoise creates a noise generator drawing from stream.
func NewNoise(color NoiseColor, stream *randstream.Stream) (*Noise, error) {
	if color < NoiseWhite || color > NoiseBrown {
		return nil, fmt.Errorf("synthesis: unknown noise color: %d", int(color))
	}

	if stream == nil {
		return nil, fmt.Errorf("synthesis: noise requires a random stream")
	}

	return &Noise{color: color, stream: stream}, nil
}

// Fill overwrites buf with the next len(buf) samples.
func (n *Noise) Fill(buf []float64) {
	switch n.color {
	case NoisePink:
		for i := range buf {
			buf[i] = n.nextPink()
		}
	case NoiseBrown:
		for i := range buf {
			buf[i] = n.nextBrown()
		}
	default:
		for i := range buf {
			buf[i] = n.stream.Bipolar()
		}
	}
}

func (n *Noise) nextPink() float64 {
	white := n.stream.Bipolar()
	b := &n.pink

	b[0] = 0.99886*b[0] + white*0.0555179
	b[1] = 0.99332*b[1] + white*0.0750759
	b[2] = 0.96900*b[2] + white*0.1538520
	b[3] = 0.86650*b[3] + white*0.3104856
	b[4] = 0.55000*b[4] + white*0.5329522
	b[5] = -0.7616*b[5] - white*0.0168980

	out := (b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + b[6] + white*0.5362) * 0.11
	b[6] = white * 0.115926

	return out
}

func (n *Noise) nextBrown() float64 {
	white := n.stream.Bipolar()
	n.brown = (n.brown + 0.02*white) / 1.02

	return n.brown * 3.5
}
