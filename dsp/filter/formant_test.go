package filter

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestNewFormantAllVowels(t *testing.T) {
	for _, v := range []Vowel{VowelA, VowelE, VowelI, VowelO, VowelU} {
		if _, err := NewFormant(v, 44100); err != nil {
			t.Errorf("NewFormant(%v, 44100): %v", v, err)
		}
	}
}

func TestNewFormantRejectsUnknownVowel(t *testing.T) {
	if _, err := NewFormant(Vowel(9), 44100); err == nil {
		t.Fatal("expected error for unknown vowel")
	}
}

func TestNewFormantRejectsLowSampleRate(t *testing.T) {
	// The "i" preset places its third formant at 3010 Hz, above the
	// Nyquist frequency of a 6 kHz render.
	if _, err := NewFormant(VowelI, 6000); err == nil {
		t.Fatal("expected error when a formant exceeds Nyquist")
	}
}

func TestParseVowel(t *testing.T) {
	for _, s := range []string{"a", "e", "i", "o", "u"} {
		v, err := ParseVowel(s)
		if err != nil {
			t.Fatalf("ParseVowel(%q): %v", s, err)
		}

		if v.String() != s {
			t.Errorf("ParseVowel(%q).String() = %q", s, v.String())
		}
	}

	if _, err := ParseVowel("x"); err == nil {
		t.Fatal("expected error for unknown vowel letter")
	}
}

func rmsAtFrequency(t *testing.T, f *Formant, freq float64) float64 {
	t.Helper()

	const sr = 44100.0

	f.Reset()

	sum := 0.0
	count := 0

	for i := 0; i < 8192; i++ {
		y := f.ProcessSample(math.Sin(2 * math.Pi * freq * float64(i) / sr))

		if i >= 1024 {
			sum += y * y
			count++
		}
	}

	return math.Sqrt(sum / float64(count))
}

func TestFormantBoostsFirstFormant(t *testing.T) {
	f, err := NewFormant(VowelA, 44100)
	if err != nil {
		t.Fatalf("NewFormant: %v", err)
	}

	atFormant := rmsAtFrequency(t, f, 730)
	between := rmsAtFrequency(t, f, 1700)

	if atFormant < 3*between {
		t.Errorf("gain at F1 (%v) not dominant over 1.7 kHz (%v)", atFormant, between)
	}
}

func TestFormantResponseShape(t *testing.T) {
	f, err := NewFormant(VowelU, 44100)
	if err != nil {
		t.Fatalf("NewFormant: %v", err)
	}

	mag300 := cmplx.Abs(f.Response(300))
	mag5k := cmplx.Abs(f.Response(5000))

	if mag300 < 4*mag5k {
		t.Errorf("|H(300)| = %v should dominate |H(5000)| = %v", mag300, mag5k)
	}
}
