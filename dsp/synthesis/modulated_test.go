package synthesis

import (
	"math"
	"testing"
)

func TestNewFMValidation(t *testing.T) {
	if _, err := NewFM(0, 50, 1, 44100); err == nil {
		t.Error("accepted zero carrier")
	}

	if _, err := NewFM(440, 0, 1, 44100); err == nil {
		t.Error("accepted zero modulator")
	}

	if _, err := NewFM(440, 50, -1, 44100); err == nil {
		t.Error("accepted negative index")
	}

	if _, err := NewFM(440, 50, math.NaN(), 44100); err == nil {
		t.Error("accepted NaN index")
	}

	if _, err := NewFM(440, 50, 1, 0); err == nil {
		t.Error("accepted zero sample rate")
	}
}

func TestFMZeroIndexIsPureCarrier(t *testing.T) {
	fm, err := NewFM(440, 110, 0, 44100)
	if err != nil {
		t.Fatalf("NewFM: %v", err)
	}

	ref, err := NewOscillator(ShapeSine, 440, 44100)
	if err != nil {
		t.Fatalf("NewOscillator: %v", err)
	}

	a := make([]float64, 2048)
	b := make([]float64, 2048)
	fm.Fill(a)
	ref.Fill(b)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d: fm %v != sine %v", i, a[i], b[i])
		}
	}
}

func TestFMBounded(t *testing.T) {
	fm, err := NewFM(440, 110, 8, 44100)
	if err != nil {
		t.Fatalf("NewFM: %v", err)
	}

	buf := make([]float64, 44100)
	fm.Fill(buf)

	for i, v := range buf {
		if v < -1 || v > 1 {
			t.Fatalf("buf[%d] = %v outside [-1, 1]", i, v)
		}
	}
}

func TestFMIndexWidensSpectrum(t *testing.T) {
	narrow, err := NewFM(500, 100, 0.2, 44100)
	if err != nil {
		t.Fatalf("NewFM: %v", err)
	}

	wide, err := NewFM(500, 100, 6, 44100)
	if err != nil {
		t.Fatalf("NewFM: %v", err)
	}

	a := make([]float64, 1<<14)
	b := make([]float64, 1<<14)
	narrow.Fill(a)
	wide.Fill(b)

	if diffRatio(b) <= diffRatio(a) {
		t.Errorf("high index diff ratio %v not above low index %v", diffRatio(b), diffRatio(a))
	}
}

func TestNewAMValidation(t *testing.T) {
	if _, err := NewAM(440, 0, 0.5, 44100); err == nil {
		t.Error("accepted zero modulator")
	}

	if _, err := NewAM(440, 5, -0.1, 44100); err == nil {
		t.Error("accepted negative depth")
	}

	if _, err := NewAM(440, 5, 1.5, 44100); err == nil {
		t.Error("accepted depth above 1")
	}
}

func TestAMZeroDepthIsPureCarrier(t *testing.T) {
	am, err := NewAM(440, 5, 0, 44100)
	if err != nil {
		t.Fatalf("NewAM: %v", err)
	}

	ref, err := NewOscillator(ShapeSine, 440, 44100)
	if err != nil {
		t.Fatalf("NewOscillator: %v", err)
	}

	a := make([]float64, 2048)
	b := make([]float64, 2048)
	am.Fill(a)
	ref.Fill(b)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d: am %v != sine %v", i, a[i], b[i])
		}
	}
}

func TestAMNormalizedBound(t *testing.T) {
	am, err := NewAM(440, 8, 1, 44100)
	if err != nil {
		t.Fatalf("NewAM: %v", err)
	}

	buf := make([]float64, 44100)
	am.Fill(buf)

	for i, v := range buf {
		if math.Abs(v) > 1+1e-12 {
			t.Fatalf("buf[%d] = %v exceeds normalized bound", i, v)
		}
	}
}

func TestAMTremoloDips(t *testing.T) {
	// Full-depth 2 Hz tremolo on a 1 kHz carrier: envelope minima reach
	// near silence once per modulator trough.
	am, err := NewAM(1000, 2, 1, 44100)
	if err != nil {
		t.Fatalf("NewAM: %v", err)
	}

	buf := make([]float64, 44100)
	am.Fill(buf)

	peak := func(s []float64) float64 {
		m := 0.0
		for _, v := range s {
			if a := math.Abs(v); a > m {
				m = a
			}
		}
		return m
	}

	loud := peak(buf[4500:6500])    // around the first modulator crest
	quiet := peak(buf[15500:17500]) // around the first trough

	if quiet > loud/4 {
		t.Errorf("trough peak %v not well below crest peak %v", quiet, loud)
	}
}

func TestNewRingModValidation(t *testing.T) {
	if _, err := NewRingMod(0, 100, 44100); err == nil {
		t.Error("accepted zero first frequency")
	}

	if _, err := NewRingMod(440, math.Inf(1), 44100); err == nil {
		t.Error("accepted infinite second frequency")
	}
}

func TestRingModEqualFrequenciesNonNegative(t *testing.T) {
	rm, err := NewRingMod(440, 440, 44100)
	if err != nil {
		t.Fatalf("NewRingMod: %v", err)
	}

	buf := make([]float64, 4096)
	rm.Fill(buf)

	for i, v := range buf {
		if v < 0 {
			t.Fatalf("buf[%d] = %v, squared signal must be non-negative", i, v)
		}

		if v > 1 {
			t.Fatalf("buf[%d] = %v exceeds 1", i, v)
		}
	}
}
