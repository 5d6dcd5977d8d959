package randstream

import "testing"

func drawN(s *Stream, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Float64()
	}

	return out
}

func TestSameKeySameSequence(t *testing.T) {
	a := drawN(New(42, "layer/0/synthesis"), 64)
	b := drawN(New(42, "layer/0/synthesis"), 64)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequences diverge at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestSeedChangesSequence(t *testing.T) {
	a := drawN(New(1, "layer/0/synthesis"), 64)
	b := drawN(New(2, "layer/0/synthesis"), 64)

	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}

	if same == len(a) {
		t.Fatal("different seeds produced identical sequences")
	}
}

func TestSaltChangesSequence(t *testing.T) {
	a := drawN(New(7, "layer/0/synthesis"), 64)
	b := drawN(New(7, "layer/1/synthesis"), 64)

	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}

	if same == len(a) {
		t.Fatal("different salts produced identical sequences")
	}
}

func TestStreamsAreIndependent(t *testing.T) {
	// Draining one stream must not affect another with a different salt.
	solo := drawN(New(9, "layer/1/synthesis"), 32)

	other := New(9, "layer/0/synthesis")
	for i := 0; i < 1000; i++ {
		other.Float64()
	}

	again := drawN(New(9, "layer/1/synthesis"), 32)
	for i := range solo {
		if solo[i] != again[i] {
			t.Fatalf("stream perturbed at %d", i)
		}
	}
}

func TestBipolarRange(t *testing.T) {
	s := New(3, "noise")

	for i := 0; i < 10000; i++ {
		v := s.Bipolar()
		if v < -1 || v >= 1 {
			t.Fatalf("Bipolar() = %v outside [-1, 1)", v)
		}
	}
}

func TestRawDraws(t *testing.T) {
	a := New(11, "raw")
	b := New(11, "raw")

	for i := 0; i < 64; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("Uint64 draw %d: %d != %d", i, x, y)
		}
	}

	s := New(13, "raw")
	for i := 0; i < 1000; i++ {
		if v := s.IntN(6); v < 0 || v >= 6 {
			t.Fatalf("IntN(6) = %d outside [0, 6)", v)
		}
	}
}

func TestBipolarCoversBothSigns(t *testing.T) {
	s := New(5, "noise")

	neg, pos := 0, 0
	for i := 0; i < 1000; i++ {
		if s.Bipolar() < 0 {
			neg++
		} else {
			pos++
		}
	}

	if neg == 0 || pos == 0 {
		t.Fatalf("one-sided distribution: %d negative, %d positive", neg, pos)
	}
}
