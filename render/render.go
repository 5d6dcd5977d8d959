// Package render turns a validated recipe and a seed into audio.
//
// Rendering is deterministic: the same recipe and seed produce
// byte-identical output on every platform. Per-sample transcendentals go
// through fixed approximation kernels, random state derives from the
// seed and per-layer structural salts, and layers are always summed into
// the mix in declaration order. The optional parallel mode computes
// layer buffers concurrently but reconverges to the same sequential sum,
// so it never changes the output.
package render

import (
	"io"
	"sync"

	"github.com/cwbudde/algo-synth/internal/fastmath"
	"github.com/cwbudde/algo-synth/internal/vecmath"
	"github.com/cwbudde/algo-synth/recipe"
	"github.com/cwbudde/algo-synth/wav"
)

// Result is a finished render: planar float64 channels plus the peak
// measured before any quantization.
type Result struct {
	// Channels holds one full-length buffer per output channel, mono or
	// left/right.
	Channels [][]float64
	// SampleRate is the recipe's output rate in Hz.
	SampleRate int
	// SampleCount is the number of frames per channel.
	SampleCount int
	// Peak is the largest absolute sample value after the master chain.
	Peak float64
	// Clipped reports whether Peak exceeds full scale; the float buffers
	// themselves are never clamped.
	Clipped bool
}

// Report summarizes an encoded render.
type Report struct {
	SampleCount int
	Channels    int
	// Peak is the pre-quantization peak, so clipping is detectable
	// without rescanning the buffer.
	Peak           float64
	Clipped        bool
	ClippedSamples int
	BytesWritten   int
}

type config struct {
	workers int
}

// Option adjusts how a render runs without changing its output.
type Option func(*config)

// WithParallelLayers computes layer buffers on up to n goroutines.
// Layers are independent, and the mix still sums them in declaration
// order, so output bytes match the serial render exactly. Values below
// two select the serial path.
func WithParallelLayers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// Render validates the recipe and synthesizes it into planar channels.
// The output is mono unless some layer pans off center. Rendering runs
// to completion or fails without partial output; clipping is not a
// failure and is only reported on the Result.
func Render(r *recipe.Recipe, seed uint32, opts ...Option) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	cfg := config{workers: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := r.NumSamples()

	bufs, err := renderLayers(r, seed, n, cfg.workers)
	if err != nil {
		return nil, err
	}

	channels := mixdown(r.Layers, bufs, n, r.Stereo())

	// Per-layer buffers are finite, but their sum can still overflow.
	for _, ch := range channels {
		if err := checkFinite(ch); err != nil {
			return nil, &StageError{Layer: MasterChain, Stage: "mix", Err: err}
		}
	}

	if err := applyEffects(r.Effects, channels, float64(r.SampleRate)); err != nil {
		return nil, err
	}

	peak := 0.0
	for _, ch := range channels {
		if p := vecmath.MaxAbs(ch); p > peak {
			peak = p
		}
	}

	return &Result{
		Channels:    channels,
		SampleRate:  r.SampleRate,
		SampleCount: n,
		Peak:        peak,
		Clipped:     peak > 1,
	}, nil
}

// RenderWAV renders the recipe and encodes it as 16-bit PCM WAVE bytes.
// Nothing is written to w when rendering fails.
func RenderWAV(r *recipe.Recipe, seed uint32, w io.Writer, opts ...Option) (*Report, error) {
	res, err := Render(r, seed, opts...)
	if err != nil {
		return nil, err
	}

	info, err := wav.Encode(w, res.Channels, res.SampleRate)
	if err != nil {
		return nil, err
	}

	return &Report{
		SampleCount:    info.SampleCount,
		Channels:       info.Channels,
		Peak:           info.Peak,
		Clipped:        info.Clipped,
		ClippedSamples: info.ClippedSamples,
		BytesWritten:   info.BytesWritten,
	}, nil
}

// renderLayers produces every layer buffer, serially or on a bounded
// set of goroutines. The error scan afterwards runs in layer order, so
// parallel and serial renders report the same failure.
func renderLayers(r *recipe.Recipe, seed uint32, n, workers int) ([][]float64, error) {
	bufs := make([][]float64, len(r.Layers))

	if workers <= 1 {
		for i := range r.Layers {
			buf, err := renderLayer(&r.Layers[i], i, seed, n, float64(r.SampleRate))
			if err != nil {
				return nil, err
			}

			bufs[i] = buf
		}

		return bufs, nil
	}

	var wg sync.WaitGroup

	errs := make([]error, len(r.Layers))
	sem := make(chan struct{}, workers)

	for i := range r.Layers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			bufs[i], errs[i] = renderLayer(&r.Layers[i], i, seed, n, float64(r.SampleRate))
		}()
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return bufs, nil
}

// mixdown sums the layer buffers into the output channels, strictly in
// declaration order. Float addition is not associative, so the order is
// part of the output contract. There is no headroom scaling; the sum may
// exceed full scale and the encoder clips.
func mixdown(layers []recipe.Layer, bufs [][]float64, n int, stereo bool) [][]float64 {
	if !stereo {
		mix := make([]float64, n)
		for _, buf := range bufs {
			vecmath.AddBlockInPlace(mix, buf)
		}

		return [][]float64{mix}
	}

	left := make([]float64, n)
	right := make([]float64, n)

	for li, buf := range bufs {
		gl, gr := panGains(layers[li].Pan)

		for i, v := range buf {
			left[i] += gl * v
			right[i] += gr * v
		}
	}

	return [][]float64{left, right}
}

// panGains maps pan in [-1, 1] onto constant-power gains over the
// quarter circle. The pinned sine keeps placement identical on every
// platform; its exact extrema make full-left and full-right lossless.
func panGains(pan float64) (left, right float64) {
	theta := (pan + 1) / 8

	return fastmath.CosTurns(theta), fastmath.SinTurns(theta)
}
