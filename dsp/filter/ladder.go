package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

const (
	// ladderStateLimit bounds the integrator states so runaway resonance
	// saturates instead of overflowing.
	ladderStateLimit = 32.0

	// MaxLadderResonance is the upper resonance bound; self-oscillation
	// sets in as the feedback approaches it.
	MaxLadderResonance = 4.0
)

// Ladder is a four-stage nonlinear lowpass ladder. Saturation uses the
// pinned rational tanh, so output is bit-identical everywhere.
type Ladder struct {
	cutoff      float64
	resonance   float64
	coefficient float64

	stage    [4]float64
	tanhLast [3]float64
}

// NewLadder creates a ladder filter with the given cutoff (Hz) and
// resonance in [0, MaxLadderResonance].
func NewLadder(cutoff, resonance, sampleRate float64) (*Ladder, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("filter: sample rate must be positive: %f", sampleRate)
	}

	nyquist := sampleRate / 2
	if math.IsNaN(cutoff) || cutoff <= 0 || cutoff >= nyquist {
		return nil, fmt.Errorf("filter: ladder cutoff must be in (0, %g): %f", nyquist, cutoff)
	}

	if math.IsNaN(resonance) || resonance < 0 || resonance > MaxLadderResonance {
		return nil, fmt.Errorf("filter: ladder resonance must be in [0, %g]: %f", MaxLadderResonance, resonance)
	}

	return &Ladder{
		cutoff:      cutoff,
		resonance:   resonance,
		coefficient: 2 * (1 - math.Exp(-2*math.Pi*cutoff/sampleRate)),
	}, nil
}

// Cutoff returns the cutoff frequency in Hz.
func (l *Ladder) Cutoff() float64 { return l.cutoff }

// Resonance returns the resonance amount.
func (l *Ladder) Resonance() float64 { return l.resonance }

// ProcessSample filters one input sample and returns the output.
func (l *Ladder) ProcessSample(x float64) float64 {
	in := x - l.resonance*l.stage[3]

	t := fastmath.Tanh(0.5 * in)
	l.stage[0] = clipLadder(l.stage[0] + l.coefficient*(t-l.tanhLast[0]))
	l.tanhLast[0] = fastmath.Tanh(0.5 * l.stage[0])

	l.stage[1] = clipLadder(l.stage[1] + l.coefficient*(l.tanhLast[0]-l.tanhLast[1]))
	l.tanhLast[1] = fastmath.Tanh(0.5 * l.stage[1])

	l.stage[2] = clipLadder(l.stage[2] + l.coefficient*(l.tanhLast[1]-l.tanhLast[2]))
	l.tanhLast[2] = fastmath.Tanh(0.5 * l.stage[2])

	l.stage[3] = clipLadder(l.stage[3] + l.coefficient*(l.tanhLast[2]-fastmath.Tanh(0.5*l.stage[3])))

	return l.stage[3]
}

// ProcessBlock filters a block of samples in place.
func (l *Ladder) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = l.ProcessSample(x)
	}
}

// Reset clears all ladder state.
func (l *Ladder) Reset() {
	l.stage = [4]float64{}
	l.tanhLast = [3]float64{}
}

func clipLadder(v float64) float64 {
	if v > ladderStateLimit {
		return ladderStateLimit
	}

	if v < -ladderStateLimit {
		return -ladderStateLimit
	}

	return v
}
