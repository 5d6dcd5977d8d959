package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/effects"
)

func ExampleDelay() {
	d, _ := effects.NewDelay(1000,
		effects.WithDelayTime(0.002),
		effects.WithDelayFeedback(0.5),
		effects.WithDelayMix(1.0),
	)

	out := make([]float64, 7)
	for i := range out {
		in := 0.0
		if i == 0 {
			in = 1.0
		}

		out[i] = d.ProcessSample(in)
	}

	fmt.Printf("%.2f\n", out)
	// Output: [0.00 0.00 1.00 0.00 0.50 0.00 0.25]
}

func ExampleBitCrusher() {
	bc, _ := effects.NewBitCrusher(44100, effects.WithBitCrusherBitDepth(2))

	fmt.Printf("%.2f %.2f %.2f\n",
		bc.ProcessSample(0.3),
		bc.ProcessSample(0.6),
		bc.ProcessSample(-0.9),
	)
	// Output: 0.50 0.50 -1.00
}

func ExampleWaveshaper() {
	w, _ := effects.NewWaveshaper(44100,
		effects.WithWaveshaperMode(effects.ShaperHard),
		effects.WithWaveshaperDrive(2),
	)

	fmt.Printf("%.2f\n", w.ProcessSample(0.75))
	// Output: 1.00
}
