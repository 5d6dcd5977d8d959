package effects

import (
	"fmt"
	"math"
)

const (
	reverbNumCombs     = 8
	reverbNumAllpasses = 4

	reverbFixedGain = 0.015

	reverbStereoSpread = 23

	reverbFeedbackBase  = 0.7
	reverbFeedbackScale = 0.28

	defaultReverbRoomSize = 0.5
	defaultReverbDamp     = 0.5
	defaultReverbMix      = 0.3
)

// Line lengths calibrated for 44.1 kHz; scaled to the target rate at
// construction.
var reverbCombTunings = [reverbNumCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}

var reverbAllpassTunings = [reverbNumAllpasses]int{556, 441, 341, 225}

// ReverbOption mutates reverb construction parameters.
type ReverbOption func(*reverbConfig) error

type reverbConfig struct {
	roomSize float64
	damp     float64
	mix      float64
}

func defaultReverbConfig() reverbConfig {
	return reverbConfig{
		roomSize: defaultReverbRoomSize,
		damp:     defaultReverbDamp,
		mix:      defaultReverbMix,
	}
}

// WithReverbRoomSize sets room size in [0, 1]. Comb feedback follows
// 0.7 + 0.28*roomSize.
func WithReverbRoomSize(roomSize float64) ReverbOption {
	return func(cfg *reverbConfig) error {
		if roomSize < 0 || roomSize > 1 || math.IsNaN(roomSize) || math.IsInf(roomSize, 0) {
			return fmt.Errorf("reverb room size must be in [0, 1]: %f", roomSize)
		}

		cfg.roomSize = roomSize

		return nil
	}
}

// WithReverbDamp sets high-frequency damping in [0, 1].
func WithReverbDamp(damp float64) ReverbOption {
	return func(cfg *reverbConfig) error {
		if damp < 0 || damp > 1 || math.IsNaN(damp) || math.IsInf(damp, 0) {
			return fmt.Errorf("reverb damp must be in [0, 1]: %f", damp)
		}

		cfg.damp = damp

		return nil
	}
}

// WithReverbMix sets wet amount in [0, 1].
func WithReverbMix(mix float64) ReverbOption {
	return func(cfg *reverbConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("reverb mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// Reverb is a Schroeder/Freeverb-style network: eight parallel damped
// feedback combs into four series allpasses per channel. The right
// channel runs the same network with every line lengthened by a fixed
// 23-sample spread.
type Reverb struct {
	sampleRate float64
	roomSize   float64
	damp       float64
	mix        float64
	gain       float64

	left  reverbChannel
	right reverbChannel
}

type reverbChannel struct {
	combs   [reverbNumCombs]reverbComb
	allpass [reverbNumAllpasses]reverbAllpass
}

func (ch *reverbChannel) process(x float64) float64 {
	var acc float64
	for i := range ch.combs {
		acc += ch.combs[i].process(x)
	}

	for i := range ch.allpass {
		acc = ch.allpass[i].process(acc)
	}

	return acc
}

func (ch *reverbChannel) reset() {
	for i := range ch.combs {
		ch.combs[i].reset()
	}

	for i := range ch.allpass {
		ch.allpass[i].reset()
	}
}

type reverbAllpass struct {
	feedback float64
	buffer   []float64
	index    int
}

func newReverbAllpass(size int) reverbAllpass {
	return reverbAllpass{
		feedback: 0.5,
		buffer:   make([]float64, size),
	}
}

func (a *reverbAllpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	output := bufOut - input
	a.buffer[a.index] = input + bufOut*a.feedback
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return output
}

func (a *reverbAllpass) reset() {
	for i := range a.buffer {
		a.buffer[i] = 0
	}
	a.index = 0
}

type reverbComb struct {
	feedback    float64
	filterStore float64
	dampA       float64
	dampB       float64
	buffer      []float64
	index       int
}

func newReverbComb(size int, feedback, damp float64) reverbComb {
	return reverbComb{
		feedback: feedback,
		dampA:    damp,
		dampB:    1 - damp,
		buffer:   make([]float64, size),
	}
}

func (c *reverbComb) process(input float64) float64 {
	output := c.buffer[c.index]
	c.filterStore = output*c.dampB + c.filterStore*c.dampA
	if math.Abs(c.filterStore) < 1e-23 {
		c.filterStore = 0
	}
	c.buffer[c.index] = input + c.filterStore*c.feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}

func (c *reverbComb) reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.index = 0
	c.filterStore = 0
}

// NewReverb constructs a reverb for the given sample rate, scaling the
// 44.1 kHz line tunings to keep decay times consistent.
func NewReverb(sampleRate float64, opts ...ReverbOption) (*Reverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultReverbConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	r := &Reverb{
		sampleRate: sampleRate,
		roomSize:   cfg.roomSize,
		damp:       cfg.damp,
		mix:        cfg.mix,
		gain:       reverbFixedGain,
	}

	feedback := reverbFeedbackBase + reverbFeedbackScale*cfg.roomSize

	for i, tuning := range reverbCombTunings {
		r.left.combs[i] = newReverbComb(scaleTuning(tuning, sampleRate), feedback, cfg.damp)
		r.right.combs[i] = newReverbComb(scaleTuning(tuning+reverbStereoSpread, sampleRate), feedback, cfg.damp)
	}

	for i, tuning := range reverbAllpassTunings {
		r.left.allpass[i] = newReverbAllpass(scaleTuning(tuning, sampleRate))
		r.right.allpass[i] = newReverbAllpass(scaleTuning(tuning+reverbStereoSpread, sampleRate))
	}

	return r, nil
}

// Reset clears all delay and filter state.
func (r *Reverb) Reset() {
	r.left.reset()
	r.right.reset()
}

// ProcessSample processes one mono sample through the left network.
func (r *Reverb) ProcessSample(input float64) float64 {
	wet := r.left.process(r.gain * input)
	return input*(1-r.mix) + wet*r.mix
}

// ProcessStereo processes one stereo frame. Both networks receive the
// mono sum of the channels, as the reference network does.
func (r *Reverb) ProcessStereo(inL, inR float64) (outL, outR float64) {
	x := r.gain * (inL + inR) * 0.5

	wetL := r.left.process(x)
	wetR := r.right.process(x)

	outL = inL*(1-r.mix) + wetL*r.mix
	outR = inR*(1-r.mix) + wetR*r.mix

	return outL, outR
}

// ProcessInPlace applies the reverb to a mono buffer in place.
func (r *Reverb) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = r.ProcessSample(buf[i])
	}
}

// ProcessStereoInPlace applies the reverb to a stereo pair in place.
func (r *Reverb) ProcessStereoInPlace(left, right []float64) {
	for i := range left {
		left[i], right[i] = r.ProcessStereo(left[i], right[i])
	}
}

// RoomSize returns room size in [0, 1].
func (r *Reverb) RoomSize() float64 { return r.roomSize }

// Damp returns damping in [0, 1].
func (r *Reverb) Damp() float64 { return r.damp }

// Mix returns wet amount in [0, 1].
func (r *Reverb) Mix() float64 { return r.mix }

// scaleTuning adapts a 44.1 kHz line length to the target sample rate.
func scaleTuning(samples int, sampleRate float64) int {
	scaled := int(math.Round(float64(samples) * sampleRate / 44100))
	if scaled < 1 {
		scaled = 1
	}

	return scaled
}
