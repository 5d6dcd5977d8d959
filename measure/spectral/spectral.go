// Package spectral measures audio in the frequency domain: band energy,
// spectral peak, and RMS level.
//
// It backs the spectral assertions of the render tests and the report
// tooling. Nothing in the render path depends on this package.
package spectral

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-synth/dsp/spectrum"
	"github.com/cwbudde/algo-synth/dsp/window"
	"github.com/meko-christian/algo-approx"
)

// Spectrum is the power spectrum of one analysis frame, holding the
// non-negative frequency bins of a Hann-windowed, zero-padded FFT.
type Spectrum struct {
	power      []float64
	sampleRate float64
	fftSize    int
}

// Analyze computes the power spectrum of signal. The frame is Hann
// windowed and zero padded to the next power of two.
func Analyze(signal []float64, sampleRate float64) (*Spectrum, error) {
	if len(signal) < 2 {
		return nil, fmt.Errorf("spectral: signal must hold at least 2 samples: %d", len(signal))
	}

	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("spectral: sample rate must be > 0 and finite: %f", sampleRate)
	}

	coeffs := window.Generate(window.TypeHann, len(signal))

	windowed, err := window.ApplyCoefficients(signal, coeffs)
	if err != nil {
		return nil, fmt.Errorf("spectral: window: %w", err)
	}

	fftSize := nextPowerOf2(len(signal))

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectral: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectral: fft: %w", err)
	}

	return &Spectrum{
		power:      spectrum.Power(out[:fftSize/2+1]),
		sampleRate: sampleRate,
		fftSize:    fftSize,
	}, nil
}

// BinWidth returns the frequency spacing between bins in Hz.
func (s *Spectrum) BinWidth() float64 {
	return s.sampleRate / float64(s.fftSize)
}

// Bins returns the number of retained bins, DC through Nyquist.
func (s *Spectrum) Bins() int {
	return len(s.power)
}

// BandEnergy sums bin power over center frequencies in [loHz, hiHz).
// Bins are accumulated in ascending order, so the result is reproducible
// bit for bit.
func (s *Spectrum) BandEnergy(loHz, hiHz float64) float64 {
	bw := s.BinWidth()

	total := 0.0

	for i, p := range s.power {
		f := float64(i) * bw
		if f >= loHz && f < hiHz {
			total += p
		}
	}

	return total
}

// PeakFrequency returns the center frequency of the strongest bin. Ties
// resolve to the lowest bin.
func (s *Spectrum) PeakFrequency() float64 {
	best := 0
	for i, p := range s.power {
		if p > s.power[best] {
			best = i
		}
	}

	return float64(best) * s.BinWidth()
}

// RMS returns the root-mean-square level of signal, zero for an empty
// slice. The square root goes through the fixed approximation kernel.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range signal {
		sum += v * v
	}

	return approx.FastSqrt(sum / float64(len(signal)))
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
