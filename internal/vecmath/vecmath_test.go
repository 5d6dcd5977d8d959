package vecmath

import (
	"math"
	"testing"
)

func TestAddBlockInPlace(t *testing.T) {
	dst := []float64{1, 2, 3}
	AddBlockInPlace(dst, []float64{0.5, -2, 0})

	want := []float64{1.5, 0, 3}
	for i := range dst {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestAddBlockInPlaceLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on length mismatch")
		}
	}()

	AddBlockInPlace(make([]float64, 3), make([]float64, 2))
}

func TestScaleBlockInPlace(t *testing.T) {
	dst := []float64{1, -2, 0.5}
	ScaleBlockInPlace(dst, -0.5)

	want := []float64{-0.5, 1, -0.25}
	for i := range dst {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestMaxAbs(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"empty", nil, 0},
		{"positive", []float64{0.1, 0.9, 0.5}, 0.9},
		{"negative peak", []float64{0.1, -1.5, 0.5}, 1.5},
		{"all zero", []float64{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxAbs(tt.x); got != tt.want {
				t.Errorf("MaxAbs = %v, want %v", got, tt.want)
			}
		})
	}

	if got := MaxAbs([]float64{math.Inf(-1), 1}); !math.IsInf(got, 1) {
		t.Errorf("MaxAbs with -Inf = %v, want +Inf", got)
	}
}
