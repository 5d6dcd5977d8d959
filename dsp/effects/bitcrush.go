package effects

import (
	"fmt"
	"math"
)

const (
	defaultBitCrusherBitDepth   = 8.0
	defaultBitCrusherDownsample = 1
	defaultBitCrusherMix        = 1.0

	minBitCrusherBitDepth   = 1.0
	maxBitCrusherBitDepth   = 16.0
	minBitCrusherDownsample = 1
	maxBitCrusherDownsample = 64
)

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig) error

type bitCrusherConfig struct {
	bitDepth   float64
	downsample int
	mix        float64
}

func defaultBitCrusherConfig() bitCrusherConfig {
	return bitCrusherConfig{
		bitDepth:   defaultBitCrusherBitDepth,
		downsample: defaultBitCrusherDownsample,
		mix:        defaultBitCrusherMix,
	}
}

// WithBitCrusherBitDepth sets quantization depth in bits, in [1, 16].
// Fractional depths are allowed.
func WithBitCrusherBitDepth(bitDepth float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if bitDepth < minBitCrusherBitDepth || bitDepth > maxBitCrusherBitDepth || math.IsNaN(bitDepth) {
			return fmt.Errorf("bit crusher bit depth must be in [%g, %g]: %f",
				minBitCrusherBitDepth, maxBitCrusherBitDepth, bitDepth)
		}

		cfg.bitDepth = bitDepth

		return nil
	}
}

// WithBitCrusherDownsample sets the sample-hold factor in [1, 64]. A
// factor of 1 leaves the rate untouched.
func WithBitCrusherDownsample(factor int) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if factor < minBitCrusherDownsample || factor > maxBitCrusherDownsample {
			return fmt.Errorf("bit crusher downsample must be in [%d, %d]: %d",
				minBitCrusherDownsample, maxBitCrusherDownsample, factor)
		}

		cfg.downsample = factor

		return nil
	}
}

// WithBitCrusherMix sets wet amount in [0, 1].
func WithBitCrusherMix(mix float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("bit crusher mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// BitCrusher quantizes samples to a reduced bit depth and optionally
// holds each captured value for several samples to fake a lower rate.
// The hold captures on the first sample of each group, so a factor of
// n repeats every n-th input.
type BitCrusher struct {
	sampleRate float64
	bitDepth   float64
	downsample int
	mix        float64

	quantLevels float64

	holdValue   float64
	holdCounter int
}

// NewBitCrusher creates a bit crusher with 8-bit defaults and optional
// overrides.
func NewBitCrusher(sampleRate float64, opts ...BitCrusherOption) (*BitCrusher, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("bit crusher sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultBitCrusherConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &BitCrusher{
		sampleRate:  sampleRate,
		bitDepth:    cfg.bitDepth,
		downsample:  cfg.downsample,
		mix:         cfg.mix,
		quantLevels: math.Exp2(cfg.bitDepth - 1),
	}, nil
}

// Reset clears the sample-hold state.
func (bc *BitCrusher) Reset() {
	bc.holdValue = 0
	bc.holdCounter = 0
}

// ProcessSample processes one sample.
func (bc *BitCrusher) ProcessSample(input float64) float64 {
	if bc.holdCounter == 0 {
		bc.holdValue = bc.quantize(input)
	}

	bc.holdCounter++
	if bc.holdCounter >= bc.downsample {
		bc.holdCounter = 0
	}

	return input*(1-bc.mix) + bc.holdValue*bc.mix
}

// ProcessInPlace applies the crusher to buf in place.
func (bc *BitCrusher) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = bc.ProcessSample(buf[i])
	}
}

// BitDepth returns quantization depth in bits.
func (bc *BitCrusher) BitDepth() float64 { return bc.bitDepth }

// Downsample returns the sample-hold factor.
func (bc *BitCrusher) Downsample() int { return bc.downsample }

// Mix returns wet amount in [0, 1].
func (bc *BitCrusher) Mix() float64 { return bc.mix }

func (bc *BitCrusher) quantize(sample float64) float64 {
	return math.Round(sample*bc.quantLevels) / bc.quantLevels
}
