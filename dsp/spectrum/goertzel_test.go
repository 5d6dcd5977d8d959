package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/internal/testutil"
)

func TestGoertzelOnBinTone(t *testing.T) {
	const (
		freq = 1000.0
		rate = 40960.0
		amp  = 0.8
		n    = 4096
	)

	sig := testutil.DeterministicSine(freq, rate, amp, n)

	g, err := NewGoertzel(freq, rate)
	if err != nil {
		t.Fatalf("NewGoertzel: %v", err)
	}

	g.ProcessBlock(sig)

	want := float64(n) * amp / 2
	if got := g.Magnitude(); math.Abs(got-want) > 1e-3 {
		t.Errorf("Magnitude = %v, want %v", got, want)
	}
}

func TestGoertzelDiscrimination(t *testing.T) {
	sig := testutil.DeterministicSine(1000, 40960, 0.5, 4096)

	onTone, err := ProbeBlock(sig, 1000, 40960)
	if err != nil {
		t.Fatalf("ProbeBlock: %v", err)
	}

	offTone, err := ProbeBlock(sig, 3000, 40960)
	if err != nil {
		t.Fatalf("ProbeBlock: %v", err)
	}

	if onTone < 1e6*offTone {
		t.Errorf("on-tone power %v not dominant over off-tone %v", onTone, offTone)
	}
}

func TestGoertzelReset(t *testing.T) {
	g, err := NewGoertzel(500, 8000)
	if err != nil {
		t.Fatalf("NewGoertzel: %v", err)
	}

	g.ProcessBlock(testutil.DeterministicSine(500, 8000, 1, 800))
	if g.Power() == 0 {
		t.Fatal("expected nonzero power after processing")
	}

	g.Reset()

	if got := g.Power(); got != 0 {
		t.Errorf("Power after Reset = %v, want 0", got)
	}
}

func TestGoertzelMagnitudeSilence(t *testing.T) {
	g, err := NewGoertzel(500, 8000)
	if err != nil {
		t.Fatalf("NewGoertzel: %v", err)
	}

	g.ProcessBlock(make([]float64, 256))

	if got := g.Magnitude(); got != 0 {
		t.Errorf("Magnitude of silence = %v, want 0", got)
	}
}

func TestNewGoertzelValidation(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		rate float64
	}{
		{"zero rate", 100, 0},
		{"negative rate", 100, -1},
		{"nan rate", 100, math.NaN()},
		{"negative frequency", -1, 8000},
		{"above nyquist", 4001, 8000},
		{"nan frequency", math.NaN(), 8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGoertzel(tt.freq, tt.rate); err == nil {
				t.Error("expected error")
			}
		})
	}
}
