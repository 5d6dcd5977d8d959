package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

const (
	defaultChorusRateHz       = 0.35
	defaultChorusDepthSeconds = 0.003
	defaultChorusMix          = 0.18

	chorusBaseDelaySeconds = 0.018
	chorusVoices           = 3
)

// ChorusOption mutates chorus construction parameters.
type ChorusOption func(*chorusConfig) error

type chorusConfig struct {
	rateHz       float64
	depthSeconds float64
	mix          float64
}

func defaultChorusConfig() chorusConfig {
	return chorusConfig{
		rateHz:       defaultChorusRateHz,
		depthSeconds: defaultChorusDepthSeconds,
		mix:          defaultChorusMix,
	}
}

// WithChorusRateHz sets LFO modulation rate in Hz.
func WithChorusRateHz(rateHz float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if rateHz <= 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("chorus rate must be > 0 and finite: %f", rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithChorusDepth sets modulation depth in seconds.
func WithChorusDepth(depth float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return fmt.Errorf("chorus depth must be >= 0 and finite: %f", depth)
		}

		cfg.depthSeconds = depth

		return nil
	}
}

// WithChorusMix sets wet amount in [0, 1].
func WithChorusMix(mix float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("chorus mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// Chorus is a three-voice modulated-delay chorus. Each voice reads the
// shared delay line at
//
//	d(t) = baseDelay + depth * 0.5 * (1 + sin(phase + voiceOffset))
//
// with voice offsets spaced a third of a cycle apart and Hermite
// interpolation for the fractional reads.
type Chorus struct {
	sampleRate   float64
	rateHz       float64
	depthSeconds float64
	mix          float64

	lfoPhase float64 // turns
	phaseInc float64

	delayLine []float64
	write     int
	maxDelay  int
}

// NewChorus creates a chorus with tuned musical defaults and optional
// overrides.
func NewChorus(sampleRate float64, opts ...ChorusOption) (*Chorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("chorus sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultChorusConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	size := int(math.Ceil((chorusBaseDelaySeconds+cfg.depthSeconds)*sampleRate)) + 3
	if size < 4 {
		size = 4
	}

	return &Chorus{
		sampleRate:   sampleRate,
		rateHz:       cfg.rateHz,
		depthSeconds: cfg.depthSeconds,
		mix:          cfg.mix,
		phaseInc:     cfg.rateHz / sampleRate,
		delayLine:    make([]float64, size),
		maxDelay:     size - 3,
	}, nil
}

// Reset clears delay state and modulation phase.
func (c *Chorus) Reset() {
	for i := range c.delayLine {
		c.delayLine[i] = 0
	}
	c.write = 0
	c.lfoPhase = 0
}

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(input float64) float64 {
	c.delayLine[c.write] = input
	c.write++
	if c.write >= len(c.delayLine) {
		c.write = 0
	}

	baseDelaySamples := chorusBaseDelaySeconds * c.sampleRate
	depthSamples := c.depthSeconds * c.sampleRate

	wetSum := 0.0
	for i := 0; i < chorusVoices; i++ {
		phaseOffset := float64(i) / chorusVoices
		mod := 0.5 * (1 + fastmath.SinTurns(c.lfoPhase+phaseOffset))
		delay := baseDelaySamples + depthSamples*mod
		wetSum += c.sampleFractionalDelay(delay)
	}
	wet := wetSum / chorusVoices

	c.lfoPhase += c.phaseInc
	if c.lfoPhase >= 1 {
		c.lfoPhase -= 1
	}

	return input*(1-c.mix) + wet*c.mix
}

// ProcessInPlace applies the chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// RateHz returns modulation speed in Hz.
func (c *Chorus) RateHz() float64 { return c.rateHz }

// Depth returns modulation depth in seconds.
func (c *Chorus) Depth() float64 { return c.depthSeconds }

// Mix returns wet amount in [0, 1].
func (c *Chorus) Mix() float64 { return c.mix }

func (c *Chorus) sampleFractionalDelay(delay float64) float64 {
	if delay < 0 {
		delay = 0
	}
	if maxDelay := float64(c.maxDelay); delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	xm1 := c.sampleDelayInt(max(0, p-1))
	x0 := c.sampleDelayInt(p)
	x1 := c.sampleDelayInt(p + 1)
	x2 := c.sampleDelayInt(p + 2)

	return hermite4(t, xm1, x0, x1, x2)
}

func (c *Chorus) sampleDelayInt(delay int) float64 {
	if delay < 0 || delay >= len(c.delayLine) {
		return 0
	}

	idx := c.write - 1 - delay
	if idx < 0 {
		idx += len(c.delayLine)
	}

	return c.delayLine[idx]
}

// hermite4 is a 4-point, 3rd-order Hermite interpolator.
func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}
