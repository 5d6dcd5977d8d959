package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

const (
	defaultTremoloRateHz = 5.0
	defaultTremoloDepth  = 0.5
)

// TremoloOption mutates tremolo construction parameters.
type TremoloOption func(*tremoloConfig) error

type tremoloConfig struct {
	rateHz float64
	depth  float64
}

func defaultTremoloConfig() tremoloConfig {
	return tremoloConfig{
		rateHz: defaultTremoloRateHz,
		depth:  defaultTremoloDepth,
	}
}

// WithTremoloRateHz sets modulation rate in Hz.
func WithTremoloRateHz(rateHz float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if rateHz <= 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("tremolo rate must be > 0 and finite: %f", rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithTremoloDepth sets modulation depth in [0, 1]. Depth 1 dips to
// silence at the LFO trough.
func WithTremoloDepth(depth float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if depth < 0 || depth > 1 || math.IsNaN(depth) {
			return fmt.Errorf("tremolo depth must be in [0, 1]: %f", depth)
		}

		cfg.depth = depth

		return nil
	}
}

// Tremolo modulates amplitude with a sine LFO. The gain moves between
// 1-depth and 1, so depth 0 passes the signal through untouched.
type Tremolo struct {
	sampleRate float64
	rateHz     float64
	depth      float64

	lfoPhase float64 // turns
	phaseInc float64
}

// NewTremolo creates a tremolo with moderate defaults and optional
// overrides.
func NewTremolo(sampleRate float64, opts ...TremoloOption) (*Tremolo, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tremolo sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultTremoloConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Tremolo{
		sampleRate: sampleRate,
		rateHz:     cfg.rateHz,
		depth:      cfg.depth,
		phaseInc:   cfg.rateHz / sampleRate,
	}, nil
}

// Reset rewinds the LFO phase.
func (t *Tremolo) Reset() {
	t.lfoPhase = 0
}

// ProcessSample processes one sample.
func (t *Tremolo) ProcessSample(input float64) float64 {
	lfo := 0.5 * (1 + fastmath.SinTurns(t.lfoPhase))
	mod := (1 - t.depth) + t.depth*lfo

	t.lfoPhase += t.phaseInc
	if t.lfoPhase >= 1 {
		t.lfoPhase -= 1
	}

	return input * mod
}

// ProcessInPlace applies the tremolo to buf in place.
func (t *Tremolo) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = t.ProcessSample(buf[i])
	}
}

// RateHz returns modulation rate in Hz.
func (t *Tremolo) RateHz() float64 { return t.rateHz }

// Depth returns modulation depth in [0, 1].
func (t *Tremolo) Depth() float64 { return t.depth }
