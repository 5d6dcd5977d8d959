package effects

import (
	"fmt"
	"math"
)

const (
	defaultLimiterThresholdDB = -0.1
	defaultLimiterReleaseMs   = 100.0
	defaultLimiterLookaheadMs = 3.0

	minLimiterThresholdDB = -24.0
	maxLimiterThresholdDB = 0.0
	minLimiterLookaheadMs = 0.0
	maxLimiterLookaheadMs = 10.0

	limiterRatio    = 100.0
	limiterAttackMs = 0.1
)

// LimiterOption mutates limiter construction parameters.
type LimiterOption func(*limiterConfig) error

type limiterConfig struct {
	thresholdDB float64
	releaseMs   float64
	lookaheadMs float64
}

func defaultLimiterConfig() limiterConfig {
	return limiterConfig{
		thresholdDB: defaultLimiterThresholdDB,
		releaseMs:   defaultLimiterReleaseMs,
		lookaheadMs: defaultLimiterLookaheadMs,
	}
}

// WithLimiterThreshold sets the ceiling in dBFS, in [-24, 0].
func WithLimiterThreshold(dB float64) LimiterOption {
	return func(cfg *limiterConfig) error {
		if dB < minLimiterThresholdDB || dB > maxLimiterThresholdDB || !isFinite(dB) {
			return fmt.Errorf("limiter threshold must be in [%g, %g]: %f",
				minLimiterThresholdDB, maxLimiterThresholdDB, dB)
		}

		cfg.thresholdDB = dB

		return nil
	}
}

// WithLimiterRelease sets release time in milliseconds, in [1, 5000].
func WithLimiterRelease(ms float64) LimiterOption {
	return func(cfg *limiterConfig) error {
		if ms < minCompressorReleaseMs || ms > maxCompressorReleaseMs || !isFinite(ms) {
			return fmt.Errorf("limiter release must be in [%g, %g]: %f",
				minCompressorReleaseMs, maxCompressorReleaseMs, ms)
		}

		cfg.releaseMs = ms

		return nil
	}
}

// WithLimiterLookahead sets lookahead time in milliseconds, in [0, 10].
func WithLimiterLookahead(ms float64) LimiterOption {
	return func(cfg *limiterConfig) error {
		if ms < minLimiterLookaheadMs || ms > maxLimiterLookaheadMs || !isFinite(ms) {
			return fmt.Errorf("limiter lookahead must be in [%g, %g]: %f",
				minLimiterLookaheadMs, maxLimiterLookaheadMs, ms)
		}

		cfg.lookaheadMs = ms

		return nil
	}
}

// Limiter is a lookahead brickwall limiter. It runs a 100:1 hard-knee
// compressor detector on the incoming signal while the program path is
// delayed by the lookahead time, so the gain already sits low when a
// transient reaches the output.
type Limiter struct {
	comp *Compressor

	sampleRate  float64
	thresholdDB float64
	releaseMs   float64
	lookaheadMs float64

	delayBuf []float64
	writePos int
}

// NewLimiter creates a limiter with a -0.1 dBFS ceiling and optional
// overrides.
func NewLimiter(sampleRate float64, opts ...LimiterOption) (*Limiter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("limiter sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultLimiterConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	comp, err := NewCompressor(sampleRate,
		WithCompressorThreshold(cfg.thresholdDB),
		WithCompressorRatio(limiterRatio),
		WithCompressorKnee(0),
		WithCompressorAttack(limiterAttackMs),
		WithCompressorRelease(cfg.releaseMs),
		WithCompressorMakeupGain(0),
	)
	if err != nil {
		return nil, fmt.Errorf("limiter detector init: %w", err)
	}

	delaySamples := int(math.Round(cfg.lookaheadMs * sampleRate / 1000.0))
	if delaySamples < 0 {
		delaySamples = 0
	}

	return &Limiter{
		comp:        comp,
		sampleRate:  sampleRate,
		thresholdDB: cfg.thresholdDB,
		releaseMs:   cfg.releaseMs,
		lookaheadMs: cfg.lookaheadMs,
		delayBuf:    make([]float64, delaySamples+1),
	}, nil
}

// Reset clears detector and delay state.
func (l *Limiter) Reset() {
	l.comp.Reset()
	l.writePos = 0
	for i := range l.delayBuf {
		l.delayBuf[i] = 0
	}
}

// ProcessSample processes one sample.
func (l *Limiter) ProcessSample(input float64) float64 {
	gain := l.comp.detectGain(math.Abs(input))

	l.delayBuf[l.writePos] = input

	readPos := l.writePos + 1
	if readPos >= len(l.delayBuf) {
		readPos = 0
	}

	delayed := l.delayBuf[readPos]
	l.writePos = readPos

	return delayed * gain
}

// ProcessInPlace applies the limiter to buf in place.
func (l *Limiter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = l.ProcessSample(buf[i])
	}
}

// Threshold returns the ceiling in dBFS.
func (l *Limiter) Threshold() float64 { return l.thresholdDB }

// Release returns release time in milliseconds.
func (l *Limiter) Release() float64 { return l.releaseMs }

// Lookahead returns lookahead time in milliseconds.
func (l *Limiter) Lookahead() float64 { return l.lookaheadMs }

// DelaySamples returns the program-path delay in samples.
func (l *Limiter) DelaySamples() int { return len(l.delayBuf) - 1 }
