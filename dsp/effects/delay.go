package effects

import (
	"fmt"
	"math"
)

const (
	defaultDelayTimeSeconds = 0.25
	defaultDelayFeedback    = 0.35
	defaultDelayMix         = 0.25
	maxDelayTimeSeconds     = 2.0
	minDelayTimeSeconds     = 0.001
)

// DelayOption mutates delay construction parameters.
type DelayOption func(*delayConfig) error

type delayConfig struct {
	timeSeconds float64
	feedback    float64
	mix         float64
	pingPong    bool
}

func defaultDelayConfig() delayConfig {
	return delayConfig{
		timeSeconds: defaultDelayTimeSeconds,
		feedback:    defaultDelayFeedback,
		mix:         defaultDelayMix,
	}
}

// WithDelayTime sets delay time in seconds.
func WithDelayTime(seconds float64) DelayOption {
	return func(cfg *delayConfig) error {
		if seconds < minDelayTimeSeconds || seconds > maxDelayTimeSeconds ||
			math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("delay time must be in [%g, %g]: %f",
				minDelayTimeSeconds, maxDelayTimeSeconds, seconds)
		}

		cfg.timeSeconds = seconds

		return nil
	}
}

// WithDelayFeedback sets feedback gain in [0, 1). A feedback of 1 or more
// diverges and is rejected, never clamped.
func WithDelayFeedback(feedback float64) DelayOption {
	return func(cfg *delayConfig) error {
		if feedback < 0 || feedback >= 1 || math.IsNaN(feedback) {
			return fmt.Errorf("delay feedback must be in [0, 1): %f", feedback)
		}

		cfg.feedback = feedback

		return nil
	}
}

// WithDelayMix sets wet amount in [0, 1].
func WithDelayMix(mix float64) DelayOption {
	return func(cfg *delayConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("delay mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// WithDelayPingPong routes feedback across channels so echoes alternate
// sides. Mono processing ignores the flag.
func WithDelayPingPong() DelayOption {
	return func(cfg *delayConfig) error {
		cfg.pingPong = true
		return nil
	}
}

// Delay is an integer-sample feedback delay with dry/wet mix and optional
// ping-pong stereo routing.
type Delay struct {
	sampleRate  float64
	timeSeconds float64
	feedback    float64
	mix         float64
	pingPong    bool

	left  delayLine
	right delayLine
}

type delayLine struct {
	buf []float64
	pos int
}

// peek returns the sample about to leave the line.
func (l *delayLine) peek() float64 {
	return l.buf[l.pos]
}

// push stores the next input in the slot just vacated and advances.
func (l *delayLine) push(write float64) {
	l.buf[l.pos] = write
	l.pos++
	if l.pos >= len(l.buf) {
		l.pos = 0
	}
}

func (l *delayLine) reset() {
	for i := range l.buf {
		l.buf[i] = 0
	}
	l.pos = 0
}

// NewDelay creates a delay with practical defaults and optional overrides.
func NewDelay(sampleRate float64, opts ...DelayOption) (*Delay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultDelayConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	samples := int(math.Round(cfg.timeSeconds * sampleRate))
	if samples < 1 {
		samples = 1
	}

	return &Delay{
		sampleRate:  sampleRate,
		timeSeconds: cfg.timeSeconds,
		feedback:    cfg.feedback,
		mix:         cfg.mix,
		pingPong:    cfg.pingPong,
		left:        delayLine{buf: make([]float64, samples)},
		right:       delayLine{buf: make([]float64, samples)},
	}, nil
}

// Reset clears delay state.
func (d *Delay) Reset() {
	d.left.reset()
	d.right.reset()
}

// ProcessSample processes one mono sample.
func (d *Delay) ProcessSample(input float64) float64 {
	delayed := d.left.peek()
	d.left.push(input + delayed*d.feedback)

	return input*(1-d.mix) + delayed*d.mix
}

// ProcessStereo processes one stereo frame. With ping-pong enabled the
// feedback paths cross channels; otherwise the channels are independent.
func (d *Delay) ProcessStereo(inL, inR float64) (outL, outR float64) {
	delayedL := d.left.peek()
	delayedR := d.right.peek()

	fbL := delayedL
	fbR := delayedR
	if d.pingPong {
		fbL, fbR = delayedR, delayedL
	}

	d.left.push(inL + fbL*d.feedback)
	d.right.push(inR + fbR*d.feedback)

	outL = inL*(1-d.mix) + delayedL*d.mix
	outR = inR*(1-d.mix) + delayedR*d.mix

	return outL, outR
}

// ProcessInPlace applies the delay to a mono buffer in place.
func (d *Delay) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// ProcessStereoInPlace applies the delay to a stereo pair in place.
// Both channels must have the same length.
func (d *Delay) ProcessStereoInPlace(left, right []float64) {
	for i := range left {
		left[i], right[i] = d.ProcessStereo(left[i], right[i])
	}
}

// Time returns delay time in seconds.
func (d *Delay) Time() float64 { return d.timeSeconds }

// DelaySamples returns the delay line length in samples.
func (d *Delay) DelaySamples() int { return len(d.left.buf) }

// Feedback returns feedback gain in [0, 1).
func (d *Delay) Feedback() float64 { return d.feedback }

// Mix returns wet amount in [0, 1].
func (d *Delay) Mix() float64 { return d.mix }

// PingPong reports whether stereo cross-feedback is enabled.
func (d *Delay) PingPong() bool { return d.pingPong }
