package render

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/effects"
	"github.com/cwbudde/algo-synth/dsp/filter"
	"github.com/cwbudde/algo-synth/dsp/synthesis"
	"github.com/cwbudde/algo-synth/internal/testutil"
	"github.com/cwbudde/algo-synth/measure/spectral"
	"github.com/cwbudde/algo-synth/recipe"
	"github.com/cwbudde/algo-synth/wav"
)

func flatEnvelope() recipe.Envelope {
	return recipe.Envelope{Sustain: 1}
}

func sineLayer() recipe.Layer {
	return recipe.Layer{
		Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeSine, Frequency: 440},
		Envelope:  recipe.Envelope{Attack: 0.01, Decay: 0.1, Sustain: 0.8, Release: 0.2},
		Volume:    0.8,
	}
}

func noiseLayer() recipe.Layer {
	return recipe.Layer{
		Synthesis: &recipe.Noise{Color: synthesis.NoiseWhite},
		Envelope:  flatEnvelope(),
		Volume:    0.5,
	}
}

func encode(t *testing.T, r *recipe.Recipe, seed uint32, opts ...Option) []byte {
	t.Helper()

	var buf bytes.Buffer
	if _, err := RenderWAV(r, seed, &buf, opts...); err != nil {
		t.Fatalf("RenderWAV failed: %v", err)
	}

	return buf.Bytes()
}

func TestRenderDeterministic(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.2,
		SampleRate:      44100,
		Layers: []recipe.Layer{
			noiseLayer(),
			{
				Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeSaw, Frequency: 220},
				Envelope:  recipe.Envelope{Attack: 0.005, Decay: 0.05, Sustain: 0.6, Release: 0.05},
				Filter:    &recipe.Lowpass{Cutoff: 3000, Q: 0.707},
				Volume:    0.4,
				Pan:       -0.3,
			},
			{
				Synthesis: &recipe.Pluck{Frequency: 330, Damping: 0.95},
				Envelope:  flatEnvelope(),
				Volume:    0.3,
				Pan:       0.5,
			},
		},
		Effects: []recipe.Effect{
			&recipe.Delay{TimeSeconds: 0.08, Feedback: 0.3, Mix: 0.25, PingPong: true},
			&recipe.Reverb{Room: 0.5, Damp: 0.5, Mix: 0.2},
			&recipe.Limiter{ThresholdDB: -1, ReleaseMs: 60, LookaheadMs: 2},
		},
	}

	first := encode(t, r, 7)
	second := encode(t, r, 7)

	if !bytes.Equal(first, second) {
		t.Error("same recipe and seed produced different bytes")
	}
}

func TestRenderSeedSensitivity(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.1,
		SampleRate:      44100,
		Layers:          []recipe.Layer{noiseLayer()},
	}

	if bytes.Equal(encode(t, r, 1), encode(t, r, 2)) {
		t.Error("different seeds produced identical noise")
	}
}

func TestRenderLayerIndependence(t *testing.T) {
	solo := &recipe.Recipe{
		DurationSeconds: 0.1,
		SampleRate:      44100,
		Layers:          []recipe.Layer{noiseLayer()},
	}

	// The appended layer draws from its own salted stream and is muted,
	// so the first layer's samples must be untouched bit for bit.
	muted := noiseLayer()
	muted.Volume = 0

	both := &recipe.Recipe{
		DurationSeconds: 0.1,
		SampleRate:      44100,
		Layers:          []recipe.Layer{noiseLayer(), muted},
	}

	if !bytes.Equal(encode(t, solo, 11), encode(t, both, 11)) {
		t.Error("appending an unrelated layer changed the first layer's output")
	}
}

func TestRenderEnvelopeBoundary(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.05,
		SampleRate:      44100,
		Layers: []recipe.Layer{{
			Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeSine, Frequency: 440},
			Envelope:  recipe.Envelope{},
			Volume:    1,
		}},
	}

	res, err := Render(r, 1)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i, v := range res.Channels[0] {
		if v != 0 {
			t.Fatalf("all-zero envelope leaked signal at sample %d: %v", i, v)
		}
	}
}

func TestRenderClippingReport(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.1,
		SampleRate:      44100,
		Layers: []recipe.Layer{{
			Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeSine, Frequency: 440},
			Envelope:  flatEnvelope(),
			Volume:    2,
		}},
	}

	res, err := Render(r, 1)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !res.Clipped {
		t.Error("volume 2 sine not reported as clipped")
	}

	if res.Peak < 1 {
		t.Errorf("peak = %v, want >= 1", res.Peak)
	}

	var buf bytes.Buffer

	rep, err := RenderWAV(r, 1, &buf)
	if err != nil {
		t.Fatalf("RenderWAV failed: %v", err)
	}

	if !rep.Clipped || rep.ClippedSamples == 0 {
		t.Errorf("report = %+v, want clipped with clipped samples", rep)
	}

	if rep.Peak != res.Peak {
		t.Errorf("report peak %v != render peak %v", rep.Peak, res.Peak)
	}
}

func TestRenderWAVRoundTrip(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.1,
		SampleRate:      48000,
		Layers: []recipe.Layer{
			{
				Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeSine, Frequency: 440},
				Envelope:  flatEnvelope(),
				Volume:    0.4,
				Pan:       -0.5,
			},
			{
				Synthesis: &recipe.Noise{Color: synthesis.NoiseWhite},
				Envelope:  flatEnvelope(),
				Volume:    0.3,
				Pan:       0.5,
			},
		},
	}

	res, err := Render(r, 5)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var buf bytes.Buffer
	if _, err := RenderWAV(r, 5, &buf); err != nil {
		t.Fatalf("RenderWAV failed: %v", err)
	}

	decoded, rate, err := wav.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if rate != 48000 || len(decoded) != 2 {
		t.Fatalf("decoded rate=%d channels=%d, want 48000/2", rate, len(decoded))
	}

	const eps = 1.0 / 32767

	for ch := range decoded {
		for i := range decoded[ch] {
			if diff := math.Abs(decoded[ch][i] - res.Channels[ch][i]); diff > eps {
				t.Fatalf("channel %d sample %d off by %v after round trip", ch, i, diff)
			}
		}
	}
}

func TestRenderReferenceScenario(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 1.0,
		SampleRate:      44100,
		Layers: []recipe.Layer{{
			Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeSine, Frequency: 440},
			Envelope:  recipe.Envelope{Attack: 0.01, Decay: 0.1, Sustain: 0.8, Release: 0.2},
			Volume:    0.8,
		}},
	}

	res, err := Render(r, 1)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if res.SampleCount != 44100 || res.SampleRate != 44100 {
		t.Errorf("got %d samples at %d Hz, want 44100 at 44100", res.SampleCount, res.SampleRate)
	}

	if len(res.Channels) != 1 || len(res.Channels[0]) != 44100 {
		t.Fatalf("centered layer should render one channel of 44100 samples")
	}

	if res.Channels[0][0] != 0 {
		t.Errorf("sample 0 = %v, want 0 (attack starts from silence)", res.Channels[0][0])
	}

	if res.Peak > 0.8 {
		t.Errorf("peak = %v, want <= volume 0.8", res.Peak)
	}

	if res.Peak < 0.5 {
		t.Errorf("peak = %v suspiciously low for a 0.8 sustain", res.Peak)
	}

	if res.Clipped {
		t.Error("reference scenario must not clip")
	}
}

func TestRenderHighpassNoiseSpectrum(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.1,
		SampleRate:      44100,
		Layers: []recipe.Layer{{
			Synthesis: &recipe.Noise{Color: synthesis.NoiseWhite},
			Envelope:  flatEnvelope(),
			Filter:    &recipe.Highpass{Cutoff: 7000, Q: 0.707},
			Volume:    0.8,
		}},
	}

	res, err := Render(r, 42)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	sp, err := spectral.Analyze(res.Channels[0], 44100)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	above := sp.BandEnergy(8000, 22050)
	below := sp.BandEnergy(100, 6000)

	if above <= below {
		t.Errorf("highpassed noise: energy above 8 kHz (%g) not dominant over below 6 kHz (%g)", above, below)
	}

	if !bytes.Equal(encode(t, r, 42), encode(t, r, 42)) {
		t.Error("highpassed noise render not byte-stable")
	}
}

func TestRenderParallelMatchesSerial(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.15,
		SampleRate:      44100,
		Layers: []recipe.Layer{
			noiseLayer(),
			{
				Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeTriangle, Frequency: 220},
				Envelope:  flatEnvelope(),
				Filter:    &recipe.Ladder{Cutoff: 1500, Resonance: 1.5},
				Volume:    0.4,
				Pan:       0.3,
			},
			{
				Synthesis: &recipe.Pluck{Frequency: 196, Damping: 0.9},
				Envelope:  flatEnvelope(),
				Volume:    0.3,
				Pan:       -0.6,
			},
			{
				Synthesis: &recipe.Modal{
					Modes:  []recipe.Mode{{Frequency: 523, Decay: 0.4, Amplitude: 1}},
					Strike: 0.005,
				},
				Envelope: flatEnvelope(),
				Volume:   0.3,
				Pan:      0.8,
			},
		},
		Effects: []recipe.Effect{
			&recipe.Delay{TimeSeconds: 0.06, Feedback: 0.2, Mix: 0.2, PingPong: true},
			&recipe.Limiter{ThresholdDB: -0.5, ReleaseMs: 50, LookaheadMs: 1},
		},
	}

	serial := encode(t, r, 99)

	for _, workers := range []int{2, 4, 16} {
		if par := encode(t, r, 99, WithParallelLayers(workers)); !bytes.Equal(serial, par) {
			t.Errorf("parallel render with %d workers diverged from serial bytes", workers)
		}
	}
}

func TestRenderStereoSwitch(t *testing.T) {
	mono := &recipe.Recipe{
		DurationSeconds: 0.02,
		SampleRate:      8000,
		Layers:          []recipe.Layer{sineLayer()},
	}

	res, err := Render(mono, 1)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(res.Channels) != 1 {
		t.Fatalf("centered recipe rendered %d channels, want 1", len(res.Channels))
	}

	left := sineLayer()
	left.Pan = -1

	stereo := &recipe.Recipe{
		DurationSeconds: 0.02,
		SampleRate:      8000,
		Layers:          []recipe.Layer{left},
	}

	sres, err := Render(stereo, 1)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(sres.Channels) != 2 {
		t.Fatalf("panned recipe rendered %d channels, want 2", len(sres.Channels))
	}

	// Full left is lossless: the left channel carries the layer exactly
	// and the right channel stays silent.
	for i := range sres.Channels[0] {
		if sres.Channels[0][i] != res.Channels[0][i] {
			t.Fatalf("full-left channel diverged from mono render at sample %d", i)
		}

		if sres.Channels[1][i] != 0 {
			t.Fatalf("full-left render leaked into right channel at sample %d", i)
		}
	}
}

func TestRenderVolumeOverflowGuard(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.05,
		SampleRate:      44100,
		Layers: []recipe.Layer{{
			Synthesis: &recipe.Additive{
				Frequency: 440,
				Partials:  []recipe.Partial{{Ratio: 1, Amplitude: 2}},
			},
			Envelope: flatEnvelope(),
			Volume:   1e308,
		}},
	}

	_, err := Render(r, 1)
	if !errors.Is(err, ErrNumericInstability) {
		t.Fatalf("err = %v, want numeric instability", err)
	}

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StageError", err)
	}

	if se.Layer != 0 || se.Stage != "volume" {
		t.Errorf("failure located at layer %d stage %q, want layer 0 volume", se.Layer, se.Stage)
	}
}

func TestRenderMixOverflowGuard(t *testing.T) {
	loud := recipe.Layer{
		Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeSine, Frequency: 440},
		Envelope:  flatEnvelope(),
		Volume:    1e308,
	}

	r := &recipe.Recipe{
		DurationSeconds: 0.05,
		SampleRate:      44100,
		Layers:          []recipe.Layer{loud, loud},
	}

	_, err := Render(r, 1)
	if !errors.Is(err, ErrNumericInstability) {
		t.Fatalf("err = %v, want numeric instability", err)
	}

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StageError", err)
	}

	if se.Layer != MasterChain || se.Stage != "mix" {
		t.Errorf("failure located at layer %d stage %q, want master mix", se.Layer, se.Stage)
	}
}

func TestRenderEffectInstabilityGuard(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.05,
		SampleRate:      44100,
		Layers: []recipe.Layer{{
			Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeSine, Frequency: 440},
			Envelope:  flatEnvelope(),
			Volume:    0.5,
		}},
		Effects: []recipe.Effect{
			&recipe.Compressor{
				ThresholdDB: -20,
				Ratio:       4,
				KneeDB:      6,
				AttackMs:    5,
				ReleaseMs:   80,
				MakeupDB:    1e306,
			},
		},
	}

	_, err := Render(r, 1)
	if !errors.Is(err, ErrNumericInstability) {
		t.Fatalf("err = %v, want numeric instability", err)
	}

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StageError", err)
	}

	if se.Layer != MasterChain || se.Stage != "compressor" {
		t.Errorf("failure located at layer %d stage %q, want master compressor", se.Layer, se.Stage)
	}
}

func TestRenderValidatesRecipe(t *testing.T) {
	_, err := Render(&recipe.Recipe{DurationSeconds: 1, SampleRate: 44100}, 1)
	if !errors.Is(err, recipe.ErrInvalidParameter) {
		t.Errorf("layerless recipe: err = %v, want invalid parameter", err)
	}

	var buf bytes.Buffer

	_, err = RenderWAV(&recipe.Recipe{DurationSeconds: -1, SampleRate: 44100}, 1, &buf)
	if !errors.Is(err, recipe.ErrInvalidParameter) {
		t.Errorf("negative duration: err = %v, want invalid parameter", err)
	}

	if buf.Len() != 0 {
		t.Errorf("failed render wrote %d bytes, want none", buf.Len())
	}
}

func TestRenderAllVariants(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.05,
		SampleRate:      44100,
		Layers: []recipe.Layer{
			{
				Synthesis: &recipe.Oscillator{
					Shape:       synthesis.ShapeSquare,
					Frequency:   220,
					Duty:        0.25,
					DetuneCents: 5,
					Sweep:       &recipe.Sweep{Target: 880, Seconds: 0.03, Curve: synthesis.SweepExponential},
				},
				Envelope: flatEnvelope(),
				Filter:   &recipe.Lowpass{Cutoff: 2000, Q: 0.707},
				Volume:   0.2,
				Pan:      -0.8,
			},
			{
				Synthesis: &recipe.Noise{Color: synthesis.NoisePink},
				Envelope:  flatEnvelope(),
				Filter:    &recipe.Highpass{Cutoff: 500, Q: 1},
				Volume:    0.2,
				Pan:       0.8,
			},
			{
				Synthesis: &recipe.FM{Carrier: 440, Modulator: 110, Index: 2},
				Envelope:  flatEnvelope(),
				Filter:    &recipe.Bandpass{Cutoff: 1000, Q: 2},
				Volume:    0.2,
			},
			{
				Synthesis: &recipe.AM{Carrier: 440, Modulator: 30, Depth: 0.5},
				Envelope:  flatEnvelope(),
				Filter:    &recipe.Notch{Cutoff: 60, Q: 5},
				Volume:    0.2,
			},
			{
				Synthesis: &recipe.RingMod{Carrier: 440, Modulator: 170},
				Envelope:  flatEnvelope(),
				Filter:    &recipe.Comb{Frequency: 440, Feedback: 0.5},
				Volume:    0.2,
			},
			{
				Synthesis: &recipe.Additive{
					Frequency: 220,
					Partials:  []recipe.Partial{{Ratio: 1, Amplitude: 1}, {Ratio: 2.76, Amplitude: 0.4}},
				},
				Envelope: flatEnvelope(),
				Filter:   &recipe.Formant{Vowel: filter.VowelA},
				Volume:   0.2,
			},
			{
				Synthesis: &recipe.Wavetable{Table: []float64{0, 1, 0, -1}, Frequency: 220},
				Envelope:  flatEnvelope(),
				Filter:    &recipe.Ladder{Cutoff: 1200, Resonance: 2.5},
				Volume:    0.2,
			},
			{
				Synthesis: &recipe.Granular{Frequency: 440, GrainSeconds: 0.02, Density: 50, Jitter: 0.5},
				Envelope:  flatEnvelope(),
				Volume:    0.2,
			},
			{
				Synthesis: &recipe.Modal{
					Modes:  []recipe.Mode{{Frequency: 440, Decay: 0.3, Amplitude: 1}, {Frequency: 1080, Decay: 0.1, Amplitude: 0.3}},
					Strike: 0.01,
				},
				Envelope: flatEnvelope(),
				Volume:   0.2,
			},
			{
				Synthesis: &recipe.Pluck{Frequency: 196, Damping: 0.95},
				Envelope:  flatEnvelope(),
				Volume:    0.2,
			},
		},
		Effects: []recipe.Effect{
			&recipe.Delay{TimeSeconds: 0.03, Feedback: 0.3, Mix: 0.2, PingPong: true},
			&recipe.Reverb{Room: 0.4, Damp: 0.5, Mix: 0.15},
			&recipe.Chorus{Rate: 1.5, Depth: 0.003, Mix: 0.25},
			&recipe.Flanger{Rate: 0.5, Depth: 0.002, Feedback: 0.4, Mix: 0.25},
			&recipe.Phaser{Rate: 0.8, Stages: 4, Feedback: 0.3, Mix: 0.25},
			&recipe.Bitcrush{Bits: 10, Downsample: 2, Mix: 0.3},
			&recipe.Waveshape{Drive: 2, Mode: effects.ShaperTanh, Mix: 0.3},
			&recipe.Compressor{ThresholdDB: -18, Ratio: 4, KneeDB: 6, AttackMs: 5, ReleaseMs: 80, MakeupDB: 2},
			&recipe.Limiter{ThresholdDB: -0.5, ReleaseMs: 50, LookaheadMs: 2},
			&recipe.Tremolo{Rate: 4, Depth: 0.4},
		},
	}

	res, err := Render(r, 2024)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if res.SampleCount != 2205 || len(res.Channels) != 2 {
		t.Fatalf("got %d samples on %d channels, want 2205 stereo", res.SampleCount, len(res.Channels))
	}

	for _, ch := range res.Channels {
		testutil.RequireFinite(t, ch)
	}

	if !bytes.Equal(encode(t, r, 2024), encode(t, r, 2024)) {
		t.Error("full-variant render not byte-stable")
	}
}

func TestRenderReportFields(t *testing.T) {
	r := &recipe.Recipe{
		DurationSeconds: 0.5,
		SampleRate:      44100,
		Layers:          []recipe.Layer{sineLayer()},
	}

	var buf bytes.Buffer

	rep, err := RenderWAV(r, 3, &buf)
	if err != nil {
		t.Fatalf("RenderWAV failed: %v", err)
	}

	if rep.SampleCount != 22050 || rep.Channels != 1 {
		t.Errorf("report %d samples on %d channels, want 22050 mono", rep.SampleCount, rep.Channels)
	}

	want := 44 + 2*22050
	if rep.BytesWritten != want || buf.Len() != want {
		t.Errorf("bytes written %d (buffer %d), want %d", rep.BytesWritten, buf.Len(), want)
	}
}

func TestPanGains(t *testing.T) {
	gl, gr := panGains(-1)
	if gl != 1 || gr != 0 {
		t.Errorf("full left gains = (%v, %v), want (1, 0)", gl, gr)
	}

	gl, gr = panGains(1)
	if gl != 0 || gr != 1 {
		t.Errorf("full right gains = (%v, %v), want (0, 1)", gl, gr)
	}

	gl, gr = panGains(0)
	if gl != gr {
		t.Errorf("center gains unequal: %v vs %v", gl, gr)
	}

	if math.Abs(gl*gl+gr*gr-1) > 0.02 {
		t.Errorf("center power = %v, want close to 1", gl*gl+gr*gr)
	}
}
