// Package thd measures total harmonic distortion of test tones.
//
// The fundamental and each harmonic are probed with Goertzel detectors,
// so the measured block should hold an integer number of fundamental
// cycles for the cleanest reading.
package thd

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/spectrum"
	"github.com/cwbudde/algo-synth/measure/spectral"
)

// Result holds the distortion breakdown of a measured tone.
type Result struct {
	FundamentalHz float64
	// FundamentalAmp is the recovered peak amplitude of the fundamental.
	FundamentalAmp float64
	// THD is the RMS harmonic level relative to the fundamental.
	THD    float64
	OddHD  float64
	EvenHD float64
	// Harmonics holds per-harmonic amplitude ratios, starting at the 2nd.
	Harmonics []float64
}

// Measure locates the fundamental with a spectral peak search and
// probes harmonics up to order maxOrder or Nyquist, whichever comes
// first.
func Measure(signal []float64, sampleRate float64, maxOrder int) (Result, error) {
	sp, err := spectral.Analyze(signal, sampleRate)
	if err != nil {
		return Result{}, err
	}

	fundamental := sp.PeakFrequency()
	if fundamental <= 0 {
		return Result{}, errors.New("thd: no fundamental above DC")
	}

	return MeasureAt(signal, sampleRate, fundamental, maxOrder)
}

// MeasureAt is Measure with a pinned fundamental frequency.
func MeasureAt(signal []float64, sampleRate, fundamentalHz float64, maxOrder int) (Result, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Result{}, fmt.Errorf("thd: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if fundamentalHz <= 0 || fundamentalHz > sampleRate/2 || math.IsNaN(fundamentalHz) {
		return Result{}, fmt.Errorf("thd: fundamental must be in (0, %g]: %g", sampleRate/2, fundamentalHz)
	}

	if maxOrder < 2 {
		return Result{}, fmt.Errorf("thd: max harmonic order must be >= 2: %d", maxOrder)
	}

	fundamentalPower, err := spectrum.ProbeBlock(signal, fundamentalHz, sampleRate)
	if err != nil {
		return Result{}, err
	}

	if fundamentalPower <= 0 {
		return Result{}, errors.New("thd: no energy at the fundamental")
	}

	fundamentalMag := math.Sqrt(fundamentalPower)

	var totalPower, oddPower, evenPower float64

	harmonics := make([]float64, 0, maxOrder-1)

	for k := 2; k <= maxOrder; k++ {
		freq := float64(k) * fundamentalHz
		if freq > sampleRate/2 {
			break
		}

		p, err := spectrum.ProbeBlock(signal, freq, sampleRate)
		if err != nil {
			return Result{}, err
		}

		if p < 0 {
			p = 0
		}

		totalPower += p
		if k%2 == 0 {
			evenPower += p
		} else {
			oddPower += p
		}

		harmonics = append(harmonics, math.Sqrt(p)/fundamentalMag)
	}

	return Result{
		FundamentalHz:  fundamentalHz,
		FundamentalAmp: 2 * fundamentalMag / float64(len(signal)),
		THD:            math.Sqrt(totalPower) / fundamentalMag,
		OddHD:          math.Sqrt(oddPower) / fundamentalMag,
		EvenHD:         math.Sqrt(evenPower) / fundamentalMag,
		Harmonics:      harmonics,
	}, nil
}
