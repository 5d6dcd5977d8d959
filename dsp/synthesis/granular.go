package synthesis

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/randstream"
	"github.com/cwbudde/algo-synth/dsp/window"
	"github.com/cwbudde/algo-synth/internal/fastmath"
)

// Granular scatters short Hann-windowed tone grains along the timeline.
// Grain start times jitter around a fixed density grid and each grain
// begins at a random phase, both drawn from the layer's stream, so a
// cloud is reproducible sample-for-sample from (seed, salt).
type Granular struct {
	freq       float64
	sampleRate float64
	jitter     float64
	interval   float64
	grainLen   int
	norm       float64
	win        []float64
	stream     *randstream.Stream
}

// NewGranular creates a granular cloud voice.
//
// grainSeconds is the length of one grain, density the average number of
// grain onsets per second, and jitter in [0, 1] scales how far onsets
// wander from the grid (up to half an interval each way).
func NewGranular(freq, grainSeconds, density, jitter, sampleRate float64, stream *randstream.Stream) (*Granular, error) {
	if err := validatePositive("grain frequency", freq); err != nil {
		return nil, err
	}

	if err := validatePositive("grain duration", grainSeconds); err != nil {
		return nil, err
	}

	if err := validatePositive("grain density", density); err != nil {
		return nil, err
	}

	if err := validateUnitRange("jitter", jitter); err != nil {
		return nil, err
	}

	if err := validatePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	if stream == nil {
		return nil, fmt.Errorf("synthesis: granular voice requires a random stream")
	}

	grainLen := int(math.Round(grainSeconds * sampleRate))
	if grainLen < 2 {
		grainLen = 2
	}

	interval := sampleRate / density

	// Overlapping Hann grains average to half their count; keep the
	// cloud near unit amplitude regardless of density.
	norm := 1.0
	if overlap := 0.5 * float64(grainLen) / interval; overlap > 1 {
		norm = 1 / overlap
	}

	return &Granular{
		freq:       freq,
		sampleRate: sampleRate,
		jitter:     jitter,
		interval:   interval,
		grainLen:   grainLen,
		norm:       norm,
		win:        window.Generate(window.TypeHann, grainLen),
		stream:     stream,
	}, nil
}

// Fill overwrites buf with a grain cloud covering len(buf) samples.
func (g *Granular) Fill(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}

	for start := 0.0; int(start) < len(buf); {
		g.renderGrain(buf, int(start))

		step := g.interval * (1 + 0.5*g.jitter*g.stream.Bipolar())
		start += step
	}
}

func (g *Granular) renderGrain(buf []float64, at int) {
	phase := g.stream.Float64()

	for k := 0; k < g.grainLen && at+k < len(buf); k++ {
		buf[at+k] += g.norm * g.win[k] * fastmath.SinTurns(phase)
		phase += g.freq / g.sampleRate
	}
}
