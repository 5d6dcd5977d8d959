package render_test

import (
	"bytes"
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/synthesis"
	"github.com/cwbudde/algo-synth/recipe"
	"github.com/cwbudde/algo-synth/render"
)

func ExampleRender() {
	r := &recipe.Recipe{
		DurationSeconds: 0.5,
		SampleRate:      44100,
		Layers: []recipe.Layer{
			{
				Synthesis: &recipe.Pluck{Frequency: 220, Damping: 0.95},
				Envelope:  recipe.Envelope{Sustain: 1},
				Volume:    0.7,
				Pan:       -0.4,
			},
			{
				Synthesis: &recipe.Noise{Color: synthesis.NoiseBrown},
				Envelope:  recipe.Envelope{Attack: 0.05, Decay: 0.2, Sustain: 0.3, Release: 0.2},
				Volume:    0.4,
				Pan:       0.4,
			},
		},
	}

	res, err := render.Render(r, 42)
	if err != nil {
		panic(err)
	}

	fmt.Printf("channels=%d samples=%d rate=%d\n", len(res.Channels), res.SampleCount, res.SampleRate)
	// Output:
	// channels=2 samples=22050 rate=44100
}

func ExampleRenderWAV() {
	r := &recipe.Recipe{
		DurationSeconds: 0.01,
		SampleRate:      8000,
		Layers: []recipe.Layer{{
			Synthesis: &recipe.Oscillator{Shape: synthesis.ShapeSine, Frequency: 440},
			Envelope:  recipe.Envelope{Sustain: 1},
			Volume:    0.5,
		}},
	}

	var buf bytes.Buffer

	rep, err := render.RenderWAV(r, 1, &buf)
	if err != nil {
		panic(err)
	}

	fmt.Printf("samples=%d channels=%d bytes=%d clipped=%t\n",
		rep.SampleCount, rep.Channels, rep.BytesWritten, rep.Clipped)
	// Output:
	// samples=80 channels=1 bytes=204 clipped=false
}
