package window

import (
	"math"
	"testing"
)

func TestGenerateHannSymmetric(t *testing.T) {
	w := Generate(TypeHann, 9)

	if len(w) != 9 {
		t.Fatalf("len = %d, want 9", len(w))
	}

	if w[0] != 0 || math.Abs(w[8]) > 1e-15 {
		t.Errorf("edges = %v, %v, want 0", w[0], w[8])
	}

	if math.Abs(w[4]-1) > 1e-15 {
		t.Errorf("center = %v, want 1", w[4])
	}

	for i := 0; i < 4; i++ {
		if math.Abs(w[i]-w[8-i]) > 1e-15 {
			t.Errorf("asymmetric at %d: %v vs %v", i, w[i], w[8-i])
		}
	}
}

func TestGeneratePeriodicOmitsFinalEdge(t *testing.T) {
	w := Generate(TypeHann, 8, WithPeriodic())

	if w[0] != 0 {
		t.Errorf("w[0] = %v, want 0", w[0])
	}

	if w[7] == 0 {
		t.Error("periodic window should not return to zero at the last sample")
	}
}

func TestGenerateRectangular(t *testing.T) {
	for _, v := range Generate(TypeRectangular, 5) {
		if v != 1 {
			t.Fatalf("rectangular coefficient %v, want 1", v)
		}
	}
}

func TestGenerateBlackmanRange(t *testing.T) {
	for i, v := range Generate(TypeBlackman, 128) {
		if v < -1e-12 || v > 1+1e-12 {
			t.Fatalf("coefficient %d = %v outside [0, 1]", i, v)
		}
	}
}

func TestGenerateDegenerateLengths(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Errorf("length 0: got %v, want nil", w)
	}

	w := Generate(TypeHann, 1)
	if len(w) != 1 || math.Abs(w[0]-1) > 1e-15 {
		t.Errorf("length 1: got %v, want [1]", w)
	}
}

func TestApply(t *testing.T) {
	buf := []float64{1, 1, 1, 1, 1}
	Apply(TypeHann, buf)

	want := Generate(TypeHann, 5)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("Apply mismatch at %d: %v != %v", i, buf[i], want[i])
		}
	}
}

func TestApplyCoefficientsLengthMismatch(t *testing.T) {
	if _, err := ApplyCoefficients([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}

	if err := ApplyCoefficientsInPlace([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestApplyCoefficients(t *testing.T) {
	out, err := ApplyCoefficients([]float64{2, 4, 6}, []float64{0.5, 0.25, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{1, 1, 6}
	for i := range out {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}
