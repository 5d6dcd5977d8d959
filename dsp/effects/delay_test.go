package effects

import (
	"testing"
)

func TestNewDelayValidation(t *testing.T) {
	cases := []struct {
		name string
		sr   float64
		opts []DelayOption
	}{
		{"zero sample rate", 0, nil},
		{"negative sample rate", -44100, nil},
		{"time too short", 44100, []DelayOption{WithDelayTime(0.0005)}},
		{"time too long", 44100, []DelayOption{WithDelayTime(2.5)}},
		{"time zero", 44100, []DelayOption{WithDelayTime(0)}},
		{"feedback negative", 44100, []DelayOption{WithDelayFeedback(-0.1)}},
		{"feedback one", 44100, []DelayOption{WithDelayFeedback(1.0)}},
		{"feedback above one", 44100, []DelayOption{WithDelayFeedback(1.5)}},
		{"mix negative", 44100, []DelayOption{WithDelayMix(-0.1)}},
		{"mix above one", 44100, []DelayOption{WithDelayMix(1.1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewDelay(tc.sr, tc.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDelayFeedbackOfOneIsRejectedNotClamped(t *testing.T) {
	_, err := NewDelay(44100, WithDelayFeedback(1.0))
	if err == nil {
		t.Fatal("expected error for unity feedback")
	}
}

func TestDelayDefaults(t *testing.T) {
	d, err := NewDelay(44100)
	if err != nil {
		t.Fatalf("NewDelay: %v", err)
	}

	if d.Time() != 0.25 {
		t.Errorf("Time() = %v, want 0.25", d.Time())
	}

	if d.Feedback() != 0.35 {
		t.Errorf("Feedback() = %v, want 0.35", d.Feedback())
	}

	if d.Mix() != 0.25 {
		t.Errorf("Mix() = %v, want 0.25", d.Mix())
	}

	if d.PingPong() {
		t.Error("PingPong() = true, want false")
	}

	if d.DelaySamples() != 11025 {
		t.Errorf("DelaySamples() = %d, want 11025", d.DelaySamples())
	}
}

func TestDelayEchoTiming(t *testing.T) {
	d, err := NewDelay(1000,
		WithDelayTime(0.01),
		WithDelayFeedback(0),
		WithDelayMix(0.5),
	)
	if err != nil {
		t.Fatalf("NewDelay: %v", err)
	}

	out := make([]float64, 30)
	for i := range out {
		in := 0.0
		if i == 0 {
			in = 1.0
		}

		out[i] = d.ProcessSample(in)
	}

	for i, v := range out {
		want := 0.0
		if i == 0 || i == 10 {
			want = 0.5
		}

		if v != want {
			t.Errorf("out[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestDelayFeedbackEchoesDecayGeometrically(t *testing.T) {
	d, err := NewDelay(1000,
		WithDelayTime(0.01),
		WithDelayFeedback(0.5),
		WithDelayMix(1.0),
	)
	if err != nil {
		t.Fatalf("NewDelay: %v", err)
	}

	out := make([]float64, 45)
	for i := range out {
		in := 0.0
		if i == 0 {
			in = 1.0
		}

		out[i] = d.ProcessSample(in)
	}

	echoes := map[int]float64{10: 1.0, 20: 0.5, 30: 0.25, 40: 0.125}
	for i, v := range out {
		want := echoes[i]
		if v != want {
			t.Errorf("out[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestDelayPingPongAlternatesChannels(t *testing.T) {
	d, err := NewDelay(1000,
		WithDelayTime(0.01),
		WithDelayFeedback(0.5),
		WithDelayMix(1.0),
		WithDelayPingPong(),
	)
	if err != nil {
		t.Fatalf("NewDelay: %v", err)
	}

	outL := make([]float64, 45)
	outR := make([]float64, 45)

	for i := range outL {
		inL := 0.0
		if i == 0 {
			inL = 1.0
		}

		outL[i], outR[i] = d.ProcessStereo(inL, 0)
	}

	wantL := map[int]float64{10: 1.0, 30: 0.25}
	wantR := map[int]float64{20: 0.5, 40: 0.125}

	for i := range outL {
		if outL[i] != wantL[i] {
			t.Errorf("outL[%d] = %v, want %v", i, outL[i], wantL[i])
		}

		if outR[i] != wantR[i] {
			t.Errorf("outR[%d] = %v, want %v", i, outR[i], wantR[i])
		}
	}
}

func TestDelayStereoWithoutPingPongKeepsChannelsSeparate(t *testing.T) {
	d, err := NewDelay(1000,
		WithDelayTime(0.01),
		WithDelayFeedback(0.5),
		WithDelayMix(1.0),
	)
	if err != nil {
		t.Fatalf("NewDelay: %v", err)
	}

	for i := 0; i < 45; i++ {
		inL := 0.0
		if i == 0 {
			inL = 1.0
		}

		_, outR := d.ProcessStereo(inL, 0)
		if outR != 0 {
			t.Fatalf("right channel leaked at %d: %v", i, outR)
		}
	}
}

func TestDelayProcessInPlaceMatchesSample(t *testing.T) {
	mk := func() *Delay {
		d, err := NewDelay(1000, WithDelayTime(0.005), WithDelayFeedback(0.4))
		if err != nil {
			t.Fatalf("NewDelay: %v", err)
		}

		return d
	}

	a := mk()
	b := mk()

	buf := make([]float64, 200)
	for i := range buf {
		buf[i] = float64(i%7) * 0.1
	}

	got := make([]float64, len(buf))
	copy(got, buf)
	a.ProcessInPlace(got)

	for i, in := range buf {
		want := b.ProcessSample(in)
		if got[i] != want {
			t.Fatalf("sample %d: in-place %v, per-sample %v", i, got[i], want)
		}
	}
}

func TestDelayResetClearsState(t *testing.T) {
	d, err := NewDelay(1000, WithDelayTime(0.01), WithDelayMix(1.0))
	if err != nil {
		t.Fatalf("NewDelay: %v", err)
	}

	d.ProcessSample(1.0)
	d.Reset()

	for i := 0; i < 30; i++ {
		if out := d.ProcessSample(0); out != 0 {
			t.Fatalf("residual echo after reset at %d: %v", i, out)
		}
	}
}
