package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/spectrum"
)

// Detect which DTMF row tone a block contains by probing candidate
// frequencies directly, without a full FFT.
func ExampleProbeBlock() {
	const rate = 8000.0

	sig := make([]float64, 800)
	for i := range sig {
		t := float64(i) / rate
		sig[i] = 0.5*math.Sin(2*math.Pi*697*t) + 0.5*math.Sin(2*math.Pi*1336*t)
	}

	p697, _ := spectrum.ProbeBlock(sig, 697, rate)
	p941, _ := spectrum.ProbeBlock(sig, 941, rate)

	fmt.Printf("697 Hz dominant: %t\n", p697 > 100*p941)
	// Output:
	// 697 Hz dominant: true
}
