package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

func TestParseShaperMode(t *testing.T) {
	cases := []struct {
		in      string
		want    ShaperMode
		wantErr bool
	}{
		{"soft", ShaperSoft, false},
		{"hard", ShaperHard, false},
		{"fold", ShaperFold, false},
		{"tanh", ShaperTanh, false},
		{"cubic", 0, true},
		{"", 0, true},
		{"SOFT", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseShaperMode(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseShaperMode(%q): expected error", tc.in)
			}

			continue
		}

		if err != nil {
			t.Errorf("ParseShaperMode(%q): %v", tc.in, err)
			continue
		}

		if got != tc.want {
			t.Errorf("ParseShaperMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestShaperModeStringRoundTrip(t *testing.T) {
	for _, mode := range []ShaperMode{ShaperSoft, ShaperHard, ShaperFold, ShaperTanh} {
		back, err := ParseShaperMode(mode.String())
		if err != nil {
			t.Errorf("round trip %v: %v", mode, err)
			continue
		}

		if back != mode {
			t.Errorf("round trip %v came back as %v", mode, back)
		}
	}
}

func TestNewWaveshaperValidation(t *testing.T) {
	cases := []struct {
		name string
		sr   float64
		opts []WaveshaperOption
	}{
		{"zero sample rate", 0, nil},
		{"drive too low", 44100, []WaveshaperOption{WithWaveshaperDrive(0.005)}},
		{"drive too high", 44100, []WaveshaperOption{WithWaveshaperDrive(25)}},
		{"drive nan", 44100, []WaveshaperOption{WithWaveshaperDrive(math.NaN())}},
		{"unknown mode", 44100, []WaveshaperOption{WithWaveshaperMode(ShaperMode(9))}},
		{"mix negative", 44100, []WaveshaperOption{WithWaveshaperMix(-0.1)}},
		{"mix above one", 44100, []WaveshaperOption{WithWaveshaperMix(1.1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewWaveshaper(tc.sr, tc.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSoftClipTransferPoints(t *testing.T) {
	w, err := NewWaveshaper(44100, WithWaveshaperMode(ShaperSoft))
	if err != nil {
		t.Fatalf("NewWaveshaper: %v", err)
	}

	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.5, 0.6875},
		{-0.5, -0.6875},
		{1, 1},
		{-1, -1},
		{2, 1},
		{-3, -1},
	}

	for _, tc := range cases {
		if got := w.ProcessSample(tc.in); got != tc.want {
			t.Errorf("soft(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHardClipTransferPoints(t *testing.T) {
	w, err := NewWaveshaper(44100, WithWaveshaperMode(ShaperHard))
	if err != nil {
		t.Fatalf("NewWaveshaper: %v", err)
	}

	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 1},
		{-2, -1},
		{-0.25, -0.25},
	}

	for _, tc := range cases {
		if got := w.ProcessSample(tc.in); got != tc.want {
			t.Errorf("hard(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// Fold is the identity inside the unit interval and reflects back off
// the bounds outside it.
func TestFoldTransferPoints(t *testing.T) {
	w, err := NewWaveshaper(44100, WithWaveshaperMode(ShaperFold))
	if err != nil {
		t.Fatalf("NewWaveshaper: %v", err)
	}

	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{-1, -1},
		{1.5, 0.5},
		{-1.5, -0.5},
		{2, 0},
		{3, -1},
	}

	for _, tc := range cases {
		if got := w.ProcessSample(tc.in); got != tc.want {
			t.Errorf("fold(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTanhModeUsesSharedKernel(t *testing.T) {
	const drive = 3.0

	w, err := NewWaveshaper(44100,
		WithWaveshaperMode(ShaperTanh),
		WithWaveshaperDrive(drive),
	)
	if err != nil {
		t.Fatalf("NewWaveshaper: %v", err)
	}

	for _, in := range []float64{0, 0.1, -0.4, 0.9, -2, 5} {
		want := fastmath.Tanh(in * drive)
		if got := w.ProcessSample(in); got != want {
			t.Errorf("tanh(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestWaveshaperDriveAppliedBeforeCurve(t *testing.T) {
	w, err := NewWaveshaper(44100,
		WithWaveshaperMode(ShaperHard),
		WithWaveshaperDrive(4),
	)
	if err != nil {
		t.Fatalf("NewWaveshaper: %v", err)
	}

	if got := w.ProcessSample(0.5); got != 1.0 {
		t.Errorf("hard(0.5 * 4) = %v, want 1", got)
	}

	if got := w.ProcessSample(0.125); got != 0.5 {
		t.Errorf("hard(0.125 * 4) = %v, want 0.5", got)
	}
}

func TestWaveshaperDryBypass(t *testing.T) {
	w, err := NewWaveshaper(44100, WithWaveshaperMix(0), WithWaveshaperDrive(10))
	if err != nil {
		t.Fatalf("NewWaveshaper: %v", err)
	}

	for _, in := range []float64{0, 0.3, -0.8, 0.99} {
		if got := w.ProcessSample(in); got != in {
			t.Errorf("dry bypass altered %v: got %v", in, got)
		}
	}
}

func TestWaveshaperWetPathBounded(t *testing.T) {
	for _, mode := range []ShaperMode{ShaperSoft, ShaperHard, ShaperFold, ShaperTanh} {
		w, err := NewWaveshaper(44100,
			WithWaveshaperMode(mode),
			WithWaveshaperDrive(20),
		)
		if err != nil {
			t.Fatalf("NewWaveshaper: %v", err)
		}

		for in := -10.0; in <= 10.0; in += 0.37 {
			if out := w.ProcessSample(in); math.Abs(out) > 1 {
				t.Errorf("%v: |shape(%v)| = %v exceeds unit bound", mode, in, math.Abs(out))
			}
		}
	}
}
