package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

const (
	defaultPhaserRateHz   = 0.5
	defaultPhaserStages   = 4
	defaultPhaserFeedback = 0.5
	defaultPhaserMix      = 0.5

	minPhaserStages = 1
	maxPhaserStages = 12

	phaserMinFreqHz = 300.0
	phaserMaxFreqHz = 1600.0
)

// PhaserOption mutates phaser construction parameters.
type PhaserOption func(*phaserConfig) error

type phaserConfig struct {
	rateHz   float64
	stages   int
	feedback float64
	mix      float64
}

func defaultPhaserConfig() phaserConfig {
	return phaserConfig{
		rateHz:   defaultPhaserRateHz,
		stages:   defaultPhaserStages,
		feedback: defaultPhaserFeedback,
		mix:      defaultPhaserMix,
	}
}

// WithPhaserRateHz sets sweep rate in Hz.
func WithPhaserRateHz(rateHz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if rateHz <= 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("phaser rate must be > 0 and finite: %f", rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithPhaserStages sets the number of allpass stages in [1, 12].
func WithPhaserStages(stages int) PhaserOption {
	return func(cfg *phaserConfig) error {
		if stages < minPhaserStages || stages > maxPhaserStages {
			return fmt.Errorf("phaser stages must be in [%d, %d]: %d",
				minPhaserStages, maxPhaserStages, stages)
		}

		cfg.stages = stages

		return nil
	}
}

// WithPhaserFeedback sets regeneration in (-1, 1). Magnitudes of 1 or
// more diverge and are rejected, never clamped.
func WithPhaserFeedback(feedback float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if feedback <= -1 || feedback >= 1 || math.IsNaN(feedback) {
			return fmt.Errorf("phaser feedback must be in (-1, 1): %f", feedback)
		}

		cfg.feedback = feedback

		return nil
	}
}

// WithPhaserMix sets wet amount in [0, 1].
func WithPhaserMix(mix float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("phaser mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

type phaserStage struct {
	x1 float64
	y1 float64
}

func (s *phaserStage) process(x, a float64) float64 {
	y := -a*x + s.x1 + a*s.y1
	s.x1 = x
	s.y1 = y

	return y
}

// Phaser is a cascade of first-order allpass stages whose corner sweeps
// 300-1600 Hz, shrunk at low sample rates to stay under Nyquist. The
// sweep moves in log-frequency so the notches cover the range evenly,
// and the chain output feeds back into the input for deeper notches.
type Phaser struct {
	sampleRate float64
	rateHz     float64
	feedback   float64
	mix        float64

	stages []phaserStage

	lfoPhase float64 // turns
	phaseInc float64

	minFreq    float64
	log2Ratio  float64
	lastOutput float64
}

// NewPhaser creates a phaser with a four-stage default and optional
// overrides.
func NewPhaser(sampleRate float64, opts ...PhaserOption) (*Phaser, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("phaser sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultPhaserConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	// Keep the whole sweep below half the sample rate so the allpass
	// coefficient stays inside the unit circle.
	maxFreq := phaserMaxFreqHz
	if limit := 0.45 * sampleRate; maxFreq > limit {
		maxFreq = limit
	}

	minFreq := phaserMinFreqHz
	if minFreq > maxFreq {
		minFreq = maxFreq
	}

	return &Phaser{
		sampleRate: sampleRate,
		rateHz:     cfg.rateHz,
		feedback:   cfg.feedback,
		mix:        cfg.mix,
		stages:     make([]phaserStage, cfg.stages),
		phaseInc:   cfg.rateHz / sampleRate,
		minFreq:    minFreq,
		log2Ratio:  math.Log2(maxFreq / minFreq),
	}, nil
}

// Reset clears allpass state, feedback state, and sweep phase.
func (p *Phaser) Reset() {
	for i := range p.stages {
		p.stages[i] = phaserStage{}
	}
	p.lfoPhase = 0
	p.lastOutput = 0
}

// ProcessSample processes one sample.
func (p *Phaser) ProcessSample(input float64) float64 {
	lfo := 0.5 * (1 + fastmath.SinTurns(p.lfoPhase))
	freq := p.minFreq * mathPower2(lfo*p.log2Ratio)

	// tan(pi*f/sr) evaluated as sin/cos of f/(2*sr) turns; the sweep
	// tops out well below Nyquist so the cosine stays positive.
	half := freq / (2 * p.sampleRate)
	g := fastmath.SinTurns(half) / fastmath.CosTurns(half)
	a := (1 - g) / (1 + g)

	x := input + p.lastOutput*p.feedback
	for i := range p.stages {
		x = p.stages[i].process(x, a)
	}
	p.lastOutput = x

	p.lfoPhase += p.phaseInc
	if p.lfoPhase >= 1 {
		p.lfoPhase -= 1
	}

	return input*(1-p.mix) + x*p.mix
}

// ProcessInPlace applies the phaser to buf in place.
func (p *Phaser) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = p.ProcessSample(buf[i])
	}
}

// RateHz returns sweep rate in Hz.
func (p *Phaser) RateHz() float64 { return p.rateHz }

// Stages returns the number of allpass stages.
func (p *Phaser) Stages() int { return len(p.stages) }

// Feedback returns regeneration in (-1, 1).
func (p *Phaser) Feedback() float64 { return p.feedback }

// Mix returns wet amount in [0, 1].
func (p *Phaser) Mix() float64 { return p.mix }
