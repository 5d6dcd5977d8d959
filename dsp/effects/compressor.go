package effects

import (
	"fmt"
	"math"
)

const (
	defaultCompressorThresholdDB = -20.0
	defaultCompressorRatio       = 4.0
	defaultCompressorKneeDB      = 6.0
	defaultCompressorAttackMs    = 10.0
	defaultCompressorReleaseMs   = 100.0
	defaultCompressorMakeupDB    = 0.0

	minCompressorRatio     = 1.0
	maxCompressorRatio     = 100.0
	minCompressorKneeDB    = 0.0
	maxCompressorKneeDB    = 24.0
	minCompressorAttackMs  = 0.1
	maxCompressorAttackMs  = 1000.0
	minCompressorReleaseMs = 1.0
	maxCompressorReleaseMs = 5000.0
)

// CompressorOption mutates compressor construction parameters.
type CompressorOption func(*compressorConfig) error

type compressorConfig struct {
	thresholdDB float64
	ratio       float64
	kneeDB      float64
	attackMs    float64
	releaseMs   float64
	makeupDB    float64
}

func defaultCompressorConfig() compressorConfig {
	return compressorConfig{
		thresholdDB: defaultCompressorThresholdDB,
		ratio:       defaultCompressorRatio,
		kneeDB:      defaultCompressorKneeDB,
		attackMs:    defaultCompressorAttackMs,
		releaseMs:   defaultCompressorReleaseMs,
		makeupDB:    defaultCompressorMakeupDB,
	}
}

// WithCompressorThreshold sets the threshold in dBFS.
func WithCompressorThreshold(dB float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !isFinite(dB) {
			return fmt.Errorf("compressor threshold must be finite: %f", dB)
		}

		cfg.thresholdDB = dB

		return nil
	}
}

// WithCompressorRatio sets the compression ratio in [1, 100].
func WithCompressorRatio(ratio float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if ratio < minCompressorRatio || ratio > maxCompressorRatio || !isFinite(ratio) {
			return fmt.Errorf("compressor ratio must be in [%g, %g]: %f",
				minCompressorRatio, maxCompressorRatio, ratio)
		}

		cfg.ratio = ratio

		return nil
	}
}

// WithCompressorKnee sets the soft-knee width in dB, in [0, 24]. Zero
// gives a hard knee.
func WithCompressorKnee(kneeDB float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if kneeDB < minCompressorKneeDB || kneeDB > maxCompressorKneeDB || !isFinite(kneeDB) {
			return fmt.Errorf("compressor knee must be in [%g, %g]: %f",
				minCompressorKneeDB, maxCompressorKneeDB, kneeDB)
		}

		cfg.kneeDB = kneeDB

		return nil
	}
}

// WithCompressorAttack sets attack time in milliseconds, in [0.1, 1000].
func WithCompressorAttack(ms float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if ms < minCompressorAttackMs || ms > maxCompressorAttackMs || !isFinite(ms) {
			return fmt.Errorf("compressor attack must be in [%g, %g]: %f",
				minCompressorAttackMs, maxCompressorAttackMs, ms)
		}

		cfg.attackMs = ms

		return nil
	}
}

// WithCompressorRelease sets release time in milliseconds, in [1, 5000].
func WithCompressorRelease(ms float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if ms < minCompressorReleaseMs || ms > maxCompressorReleaseMs || !isFinite(ms) {
			return fmt.Errorf("compressor release must be in [%g, %g]: %f",
				minCompressorReleaseMs, maxCompressorReleaseMs, ms)
		}

		cfg.releaseMs = ms

		return nil
	}
}

// WithCompressorMakeupGain sets post-compression makeup gain in dB.
func WithCompressorMakeupGain(dB float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !isFinite(dB) {
			return fmt.Errorf("compressor makeup gain must be finite: %f", dB)
		}

		cfg.makeupDB = dB

		return nil
	}
}

// Compressor is a feedforward peak compressor. The detector follows
// the absolute input with one-pole attack/release ballistics; the gain
// computer works in the log2 domain on the shared fast approximations,
// with an optional quadratic soft knee around the threshold.
type Compressor struct {
	sampleRate  float64
	thresholdDB float64
	ratio       float64
	kneeDB      float64
	attackMs    float64
	releaseMs   float64
	makeupDB    float64

	attackCoeff  float64
	releaseCoeff float64

	thresholdLog2    float64
	kneeWidthLog2    float64
	invKneeWidthLog2 float64
	makeupGainLin    float64

	envelope float64
}

// NewCompressor creates a compressor with gentle 4:1 defaults and
// optional overrides.
func NewCompressor(sampleRate float64, opts ...CompressorOption) (*Compressor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("compressor sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultCompressorConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Compressor{
		sampleRate:  sampleRate,
		thresholdDB: cfg.thresholdDB,
		ratio:       cfg.ratio,
		kneeDB:      cfg.kneeDB,
		attackMs:    cfg.attackMs,
		releaseMs:   cfg.releaseMs,
		makeupDB:    cfg.makeupDB,

		attackCoeff:   1.0 - math.Exp(-math.Ln2/(cfg.attackMs*0.001*sampleRate)),
		releaseCoeff:  math.Exp(-math.Ln2 / (cfg.releaseMs * 0.001 * sampleRate)),
		thresholdLog2: cfg.thresholdDB * log2Of10Div20,
		kneeWidthLog2: cfg.kneeDB * log2Of10Div20,
		makeupGainLin: mathPower10(cfg.makeupDB / 20.0),
	}
	if cfg.kneeDB > 0 {
		c.invKneeWidthLog2 = 1.0 / c.kneeWidthLog2
	}

	return c, nil
}

// Reset clears the detector envelope.
func (c *Compressor) Reset() {
	c.envelope = 0
}

// ProcessSample processes one sample.
func (c *Compressor) ProcessSample(input float64) float64 {
	gain := c.detectGain(math.Abs(input))

	return input * gain * c.makeupGainLin
}

// ProcessInPlace applies the compressor to buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// Threshold returns the threshold in dBFS.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Knee returns the soft-knee width in dB.
func (c *Compressor) Knee() float64 { return c.kneeDB }

// Attack returns attack time in milliseconds.
func (c *Compressor) Attack() float64 { return c.attackMs }

// Release returns release time in milliseconds.
func (c *Compressor) Release() float64 { return c.releaseMs }

// MakeupGain returns makeup gain in dB.
func (c *Compressor) MakeupGain() float64 { return c.makeupDB }

// Envelope returns the current detector level.
func (c *Compressor) Envelope() float64 { return c.envelope }

// detectGain advances the detector with a new rectified level and
// returns the linear gain before makeup. The lookahead limiter calls
// this directly so its detector can run ahead of the delayed program.
func (c *Compressor) detectGain(level float64) float64 {
	if level > c.envelope {
		c.envelope += (level - c.envelope) * c.attackCoeff
	} else {
		c.envelope = level + (c.envelope-level)*c.releaseCoeff
	}

	return c.gainForLevel(c.envelope)
}

func (c *Compressor) gainForLevel(level float64) float64 {
	if level <= 0 {
		return 1.0
	}

	overshoot := mathLog2(level) - c.thresholdLog2
	compressionFactor := 1.0 - 1.0/c.ratio

	if c.kneeDB <= 0 {
		if overshoot <= 0 {
			return 1.0
		}

		return mathPower2(-overshoot * compressionFactor)
	}

	halfWidth := c.kneeWidthLog2 * 0.5
	if overshoot < -halfWidth {
		return 1.0
	}

	var effectiveOvershoot float64
	if overshoot > halfWidth {
		effectiveOvershoot = overshoot
	} else {
		scratch := overshoot + halfWidth
		effectiveOvershoot = scratch * scratch * 0.5 * c.invKneeWidthLog2
	}

	return mathPower2(-effectiveOvershoot * compressionFactor)
}
