package render

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/envelope"
	"github.com/cwbudde/algo-synth/dsp/filter"
	"github.com/cwbudde/algo-synth/dsp/randstream"
	"github.com/cwbudde/algo-synth/dsp/synthesis"
	"github.com/cwbudde/algo-synth/internal/vecmath"
	"github.com/cwbudde/algo-synth/recipe"
)

// generator is the common surface of every synthesis voice.
type generator interface {
	Fill(buf []float64)
}

// blockFilter is the common surface of every per-layer filter.
type blockFilter interface {
	ProcessBlock(buf []float64)
}

func layerSalt(index int) string {
	return fmt.Sprintf("layer/%d/synthesis", index)
}

// renderLayer produces one layer's full-length buffer: synthesis, then
// envelope, then the optional filter, then volume. Each stage's output
// is scanned for non-finite values before the next stage runs.
func renderLayer(l *recipe.Layer, index int, seed uint32, n int, sampleRate float64) ([]float64, error) {
	stream := randstream.New(seed, layerSalt(index))

	gen, err := buildGenerator(l.Synthesis, sampleRate, stream)
	if err != nil {
		return nil, &StageError{Layer: index, Stage: "synthesis", Err: err}
	}

	buf := make([]float64, n)
	gen.Fill(buf)

	if err := checkFinite(buf); err != nil {
		return nil, &StageError{Layer: index, Stage: "synthesis", Err: err}
	}

	env, err := envelope.New(l.Envelope.Attack, l.Envelope.Decay, l.Envelope.Sustain, l.Envelope.Release,
		envelope.WithCurve(l.Envelope.Curve))
	if err != nil {
		return nil, &StageError{Layer: index, Stage: "envelope", Err: err}
	}

	if err := env.Apply(buf, sampleRate); err != nil {
		return nil, &StageError{Layer: index, Stage: "envelope", Err: err}
	}

	if err := checkFinite(buf); err != nil {
		return nil, &StageError{Layer: index, Stage: "envelope", Err: err}
	}

	if l.Filter != nil {
		flt, err := buildFilter(l.Filter, sampleRate)
		if err != nil {
			return nil, &StageError{Layer: index, Stage: "filter", Err: err}
		}

		flt.ProcessBlock(buf)

		if err := checkFinite(buf); err != nil {
			return nil, &StageError{Layer: index, Stage: "filter", Err: err}
		}
	}

	vecmath.ScaleBlockInPlace(buf, l.Volume)

	if err := checkFinite(buf); err != nil {
		return nil, &StageError{Layer: index, Stage: "volume", Err: err}
	}

	return buf, nil
}

// buildGenerator maps a recipe synthesis variant onto its voice. The
// stream belongs to this layer alone; voices that never draw from it
// simply ignore it.
func buildGenerator(s recipe.Synthesis, sampleRate float64, stream *randstream.Stream) (generator, error) {
	switch g := s.(type) {
	case *recipe.Oscillator:
		opts := make([]synthesis.OscillatorOption, 0, 3)
		if g.Duty != 0 {
			opts = append(opts, synthesis.WithDuty(g.Duty))
		}

		if g.DetuneCents != 0 {
			opts = append(opts, synthesis.WithDetuneCents(g.DetuneCents))
		}

		if g.Sweep != nil {
			opts = append(opts, synthesis.WithSweep(g.Sweep.Target, g.Sweep.Seconds, g.Sweep.Curve))
		}

		return synthesis.NewOscillator(g.Shape, g.Frequency, sampleRate, opts...)

	case *recipe.Noise:
		return synthesis.NewNoise(g.Color, stream)

	case *recipe.FM:
		return synthesis.NewFM(g.Carrier, g.Modulator, g.Index, sampleRate)

	case *recipe.AM:
		return synthesis.NewAM(g.Carrier, g.Modulator, g.Depth, sampleRate)

	case *recipe.RingMod:
		return synthesis.NewRingMod(g.Carrier, g.Modulator, sampleRate)

	case *recipe.Additive:
		partials := make([]synthesis.Partial, len(g.Partials))
		for i, p := range g.Partials {
			partials[i] = synthesis.Partial{Ratio: p.Ratio, Amplitude: p.Amplitude}
		}

		return synthesis.NewAdditive(g.Frequency, partials, sampleRate)

	case *recipe.Wavetable:
		return synthesis.NewWavetable(g.Table, g.Frequency, sampleRate)

	case *recipe.Granular:
		return synthesis.NewGranular(g.Frequency, g.GrainSeconds, g.Density, g.Jitter, sampleRate, stream)

	case *recipe.Modal:
		modes := make([]synthesis.Mode, len(g.Modes))
		for i, m := range g.Modes {
			modes[i] = synthesis.Mode{Frequency: m.Frequency, Decay: m.Decay, Amplitude: m.Amplitude}
		}

		return synthesis.NewModal(modes, g.Strike, sampleRate, stream)

	case *recipe.Pluck:
		return synthesis.NewPluck(g.Frequency, g.Damping, sampleRate, stream)

	default:
		return nil, fmt.Errorf("synthesis %T: %w", s, recipe.ErrUnsupportedVariant)
	}
}

func buildFilter(f recipe.Filter, sampleRate float64) (blockFilter, error) {
	switch t := f.(type) {
	case *recipe.Lowpass:
		c, err := filter.Lowpass(t.Cutoff, t.Q, sampleRate)
		if err != nil {
			return nil, err
		}

		return filter.NewBiquad(c), nil

	case *recipe.Highpass:
		c, err := filter.Highpass(t.Cutoff, t.Q, sampleRate)
		if err != nil {
			return nil, err
		}

		return filter.NewBiquad(c), nil

	case *recipe.Bandpass:
		c, err := filter.Bandpass(t.Cutoff, t.Q, sampleRate)
		if err != nil {
			return nil, err
		}

		return filter.NewBiquad(c), nil

	case *recipe.Notch:
		c, err := filter.Notch(t.Cutoff, t.Q, sampleRate)
		if err != nil {
			return nil, err
		}

		return filter.NewBiquad(c), nil

	case *recipe.Comb:
		return filter.NewComb(t.Frequency, t.Feedback, sampleRate)

	case *recipe.Formant:
		return filter.NewFormant(t.Vowel, sampleRate)

	case *recipe.Ladder:
		return filter.NewLadder(t.Cutoff, t.Resonance, sampleRate)

	default:
		return nil, fmt.Errorf("filter %T: %w", f, recipe.ErrUnsupportedVariant)
	}
}

func checkFinite(buf []float64) error {
	for i, v := range buf {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite sample at %d: %w", i, ErrNumericInstability)
		}
	}

	return nil
}
