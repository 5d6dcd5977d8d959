// Package spectrum converts FFT output into power spectra and probes
// single frequencies without a full transform.
package spectrum

import (
	"github.com/cwbudde/algo-vecmath"
)

// Power returns |X[k]|^2 for each complex bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(in))
	vecmath.Power(out, re, im)

	return out
}
