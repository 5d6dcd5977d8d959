package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

const (
	defaultWaveshaperDrive = 1.0
	defaultWaveshaperMix   = 1.0

	minWaveshaperDrive = 0.01
	maxWaveshaperDrive = 20.0
)

// ShaperMode selects a waveshaping transfer curve.
type ShaperMode int

const (
	// ShaperSoft is a cubic soft clipper, 1.5x - 0.5x^3 inside the
	// unit interval and flat outside.
	ShaperSoft ShaperMode = iota
	// ShaperHard clamps to [-1, 1].
	ShaperHard
	// ShaperFold reflects the signal back from the unit bounds.
	ShaperFold
	// ShaperTanh saturates with a tanh curve.
	ShaperTanh
)

// String returns the mode name.
func (m ShaperMode) String() string {
	switch m {
	case ShaperSoft:
		return "soft"
	case ShaperHard:
		return "hard"
	case ShaperFold:
		return "fold"
	case ShaperTanh:
		return "tanh"
	default:
		return fmt.Sprintf("ShaperMode(%d)", int(m))
	}
}

// ParseShaperMode maps a mode name to its ShaperMode.
func ParseShaperMode(s string) (ShaperMode, error) {
	switch s {
	case "soft":
		return ShaperSoft, nil
	case "hard":
		return ShaperHard, nil
	case "fold":
		return ShaperFold, nil
	case "tanh":
		return ShaperTanh, nil
	default:
		return 0, fmt.Errorf("unknown shaper mode: %q", s)
	}
}

// WaveshaperOption mutates waveshaper construction parameters.
type WaveshaperOption func(*waveshaperConfig) error

type waveshaperConfig struct {
	drive float64
	mode  ShaperMode
	mix   float64
}

func defaultWaveshaperConfig() waveshaperConfig {
	return waveshaperConfig{
		drive: defaultWaveshaperDrive,
		mode:  ShaperSoft,
		mix:   defaultWaveshaperMix,
	}
}

// WithWaveshaperDrive sets input gain in [0.01, 20].
func WithWaveshaperDrive(drive float64) WaveshaperOption {
	return func(cfg *waveshaperConfig) error {
		if drive < minWaveshaperDrive || drive > maxWaveshaperDrive || math.IsNaN(drive) {
			return fmt.Errorf("waveshaper drive must be in [%g, %g]: %f",
				minWaveshaperDrive, maxWaveshaperDrive, drive)
		}

		cfg.drive = drive

		return nil
	}
}

// WithWaveshaperMode selects the transfer curve.
func WithWaveshaperMode(mode ShaperMode) WaveshaperOption {
	return func(cfg *waveshaperConfig) error {
		switch mode {
		case ShaperSoft, ShaperHard, ShaperFold, ShaperTanh:
		default:
			return fmt.Errorf("unknown shaper mode: %d", int(mode))
		}

		cfg.mode = mode

		return nil
	}
}

// WithWaveshaperMix sets wet amount in [0, 1].
func WithWaveshaperMix(mix float64) WaveshaperOption {
	return func(cfg *waveshaperConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("waveshaper mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// Waveshaper applies a memoryless nonlinear transfer curve to the
// driven signal. All four curves map [-1, 1] into [-1, 1], so the wet
// path never exceeds the unit bounds regardless of drive.
type Waveshaper struct {
	sampleRate float64
	drive      float64
	mode       ShaperMode
	mix        float64
}

// NewWaveshaper creates a waveshaper with a soft-clip default and
// optional overrides.
func NewWaveshaper(sampleRate float64, opts ...WaveshaperOption) (*Waveshaper, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("waveshaper sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultWaveshaperConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Waveshaper{
		sampleRate: sampleRate,
		drive:      cfg.drive,
		mode:       cfg.mode,
		mix:        cfg.mix,
	}, nil
}

// Reset is a no-op; the shaper carries no state.
func (w *Waveshaper) Reset() {}

// ProcessSample processes one sample.
func (w *Waveshaper) ProcessSample(input float64) float64 {
	x := input * w.drive

	var shaped float64
	switch w.mode {
	case ShaperHard:
		shaped = hardClip(x)
	case ShaperFold:
		shaped = foldClip(x)
	case ShaperTanh:
		shaped = fastmath.Tanh(x)
	default:
		shaped = softClip(x)
	}

	return input*(1-w.mix) + shaped*w.mix
}

// ProcessInPlace applies the shaper to buf in place.
func (w *Waveshaper) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = w.ProcessSample(buf[i])
	}
}

// Drive returns input gain.
func (w *Waveshaper) Drive() float64 { return w.drive }

// Mode returns the transfer curve.
func (w *Waveshaper) Mode() ShaperMode { return w.mode }

// Mix returns wet amount in [0, 1].
func (w *Waveshaper) Mix() float64 { return w.mix }

func softClip(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}

	return 1.5*x - 0.5*x*x*x
}

func hardClip(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}

	return x
}

// foldClip reflects x back from the unit bounds: identity on [-1, 1],
// then a triangle wave of period 4 beyond them.
func foldClip(x float64) float64 {
	t := (x + 1) * 0.25

	return 4*math.Abs(t-math.Floor(t+0.5)) - 1
}
