package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

const (
	defaultFlangerRateHz       = 0.25
	defaultFlangerDepthSeconds = 0.002
	defaultFlangerFeedback     = 0.5
	defaultFlangerMix          = 0.5

	flangerBaseDelaySeconds = 0.001
)

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*flangerConfig) error

type flangerConfig struct {
	rateHz       float64
	depthSeconds float64
	feedback     float64
	mix          float64
}

func defaultFlangerConfig() flangerConfig {
	return flangerConfig{
		rateHz:       defaultFlangerRateHz,
		depthSeconds: defaultFlangerDepthSeconds,
		feedback:     defaultFlangerFeedback,
		mix:          defaultFlangerMix,
	}
}

// WithFlangerRateHz sets sweep rate in Hz.
func WithFlangerRateHz(rateHz float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if rateHz <= 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("flanger rate must be > 0 and finite: %f", rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithFlangerDepth sets sweep depth in seconds.
func WithFlangerDepth(depth float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if depth <= 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return fmt.Errorf("flanger depth must be > 0 and finite: %f", depth)
		}

		cfg.depthSeconds = depth

		return nil
	}
}

// WithFlangerFeedback sets regeneration in (-1, 1). Magnitudes of 1 or
// more diverge and are rejected, never clamped.
func WithFlangerFeedback(feedback float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if feedback <= -1 || feedback >= 1 || math.IsNaN(feedback) {
			return fmt.Errorf("flanger feedback must be in (-1, 1): %f", feedback)
		}

		cfg.feedback = feedback

		return nil
	}
}

// WithFlangerMix sets wet amount in [0, 1].
func WithFlangerMix(mix float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("flanger mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// Flanger is a swept short delay with regeneration. The delay sweeps
// between baseDelay and baseDelay+depth, and the delayed signal is fed
// back into the line for the characteristic comb resonance.
type Flanger struct {
	sampleRate   float64
	rateHz       float64
	depthSeconds float64
	feedback     float64
	mix          float64

	lfoPhase float64 // turns
	phaseInc float64

	delayLine []float64
	write     int
	maxDelay  int
}

// NewFlanger creates a flanger with jet-sweep defaults and optional
// overrides.
func NewFlanger(sampleRate float64, opts ...FlangerOption) (*Flanger, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("flanger sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultFlangerConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	size := int(math.Ceil((flangerBaseDelaySeconds+cfg.depthSeconds)*sampleRate)) + 3
	if size < 4 {
		size = 4
	}

	return &Flanger{
		sampleRate:   sampleRate,
		rateHz:       cfg.rateHz,
		depthSeconds: cfg.depthSeconds,
		feedback:     cfg.feedback,
		mix:          cfg.mix,
		phaseInc:     cfg.rateHz / sampleRate,
		delayLine:    make([]float64, size),
		maxDelay:     size - 3,
	}, nil
}

// Reset clears delay state and sweep phase.
func (f *Flanger) Reset() {
	for i := range f.delayLine {
		f.delayLine[i] = 0
	}
	f.write = 0
	f.lfoPhase = 0
}

// ProcessSample processes one sample.
func (f *Flanger) ProcessSample(input float64) float64 {
	mod := 0.5 * (1 + fastmath.SinTurns(f.lfoPhase))

	delay := (flangerBaseDelaySeconds + f.depthSeconds*mod) * f.sampleRate
	if delay < 1 {
		delay = 1
	}

	delayed := f.sampleFractionalDelay(delay)

	f.delayLine[f.write] = input + delayed*f.feedback
	f.write++
	if f.write >= len(f.delayLine) {
		f.write = 0
	}

	f.lfoPhase += f.phaseInc
	if f.lfoPhase >= 1 {
		f.lfoPhase -= 1
	}

	return input*(1-f.mix) + delayed*f.mix
}

// ProcessInPlace applies the flanger to buf in place.
func (f *Flanger) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// RateHz returns sweep rate in Hz.
func (f *Flanger) RateHz() float64 { return f.rateHz }

// Depth returns sweep depth in seconds.
func (f *Flanger) Depth() float64 { return f.depthSeconds }

// Feedback returns regeneration in (-1, 1).
func (f *Flanger) Feedback() float64 { return f.feedback }

// Mix returns wet amount in [0, 1].
func (f *Flanger) Mix() float64 { return f.mix }

func (f *Flanger) sampleFractionalDelay(delay float64) float64 {
	if maxDelay := float64(f.maxDelay); delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	xm1 := f.sampleDelayInt(max(0, p-1))
	x0 := f.sampleDelayInt(p)
	x1 := f.sampleDelayInt(p + 1)
	x2 := f.sampleDelayInt(p + 2)

	return hermite4(t, xm1, x0, x1, x2)
}

// The read happens before the write, so the sample written delay steps
// ago sits at write-delay.
func (f *Flanger) sampleDelayInt(delay int) float64 {
	if delay < 0 || delay >= len(f.delayLine) {
		return 0
	}

	idx := f.write - delay
	if idx < 0 {
		idx += len(f.delayLine)
	}

	return f.delayLine[idx]
}
