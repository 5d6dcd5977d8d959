package synthesis

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/randstream"
)

func TestNewGranularValidation(t *testing.T) {
	stream := randstream.New(1, "g")

	if _, err := NewGranular(0, 0.03, 40, 0, 44100, stream); err == nil {
		t.Error("accepted zero frequency")
	}

	if _, err := NewGranular(440, 0.03, 0, 0, 44100, stream); err == nil {
		t.Error("accepted zero density")
	}

	if _, err := NewGranular(440, 0, 40, 0, 44100, stream); err == nil {
		t.Error("accepted zero grain duration")
	}

	if _, err := NewGranular(440, 0.03, 40, -0.5, 44100, stream); err == nil {
		t.Error("accepted negative jitter")
	}

	if _, err := NewGranular(440, 0.03, 40, 1.5, 44100, stream); err == nil {
		t.Error("accepted jitter above 1")
	}

	if _, err := NewGranular(440, 0.03, 40, 0, 44100, nil); err == nil {
		t.Error("accepted nil stream")
	}
}

func TestGranularDeterministic(t *testing.T) {
	a, err := NewGranular(330, 0.04, 60, 0.8, 44100, randstream.New(5, "grain"))
	if err != nil {
		t.Fatalf("NewGranular: %v", err)
	}

	b, err := NewGranular(330, 0.04, 60, 0.8, 44100, randstream.New(5, "grain"))
	if err != nil {
		t.Fatalf("NewGranular: %v", err)
	}

	x := make([]float64, 22050)
	y := make([]float64, 22050)
	a.Fill(x)
	b.Fill(y)

	for i := range x {
		if x[i] != y[i] {
			t.Fatalf("sample %d: %v != %v", i, x[i], y[i])
		}
	}
}

func TestGranularProducesSignal(t *testing.T) {
	g, err := NewGranular(440, 0.03, 80, 0.3, 44100, randstream.New(9, "grain"))
	if err != nil {
		t.Fatalf("NewGranular: %v", err)
	}

	buf := make([]float64, 22050)
	g.Fill(buf)

	var energy float64
	for _, v := range buf {
		energy += v * v
	}

	if energy == 0 {
		t.Fatal("granular cloud is silent")
	}
}

func TestGranularOverlapNormalized(t *testing.T) {
	// Heavy overlap: 200 grains/s at 50 ms each. The overlap gain keeps
	// the stacked grains from piling far past unity.
	g, err := NewGranular(440, 0.05, 200, 0, 44100, randstream.New(3, "grain"))
	if err != nil {
		t.Fatalf("NewGranular: %v", err)
	}

	buf := make([]float64, 44100)
	g.Fill(buf)

	for i, v := range buf {
		if math.Abs(v) > 2 {
			t.Fatalf("buf[%d] = %v, overlap normalization failed", i, v)
		}
	}
}

func TestGranularWindowedOnset(t *testing.T) {
	g, err := NewGranular(440, 0.05, 20, 0, 44100, randstream.New(1, "grain"))
	if err != nil {
		t.Fatalf("NewGranular: %v", err)
	}

	buf := make([]float64, 128)
	g.Fill(buf)

	if buf[0] != 0 {
		t.Errorf("buf[0] = %v, want silent grain edge", buf[0])
	}
}
