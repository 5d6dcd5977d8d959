package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/effects"
	"github.com/cwbudde/algo-synth/dsp/envelope"
	"github.com/cwbudde/algo-synth/dsp/filter"
	"github.com/cwbudde/algo-synth/dsp/synthesis"
)

// Wire shapes. Variant payloads stay raw until the type tag routes them
// to the matching struct, and unknown fields are rejected so parameter
// typos fail loudly instead of silently falling back to zero.

type jsonRecipe struct {
	DurationSeconds float64           `json:"duration_seconds"`
	SampleRate      int               `json:"sample_rate"`
	Layers          []jsonLayer       `json:"layers"`
	Effects         []json.RawMessage `json:"effects"`
}

type jsonLayer struct {
	Synthesis json.RawMessage `json:"synthesis"`
	Envelope  jsonEnvelope    `json:"envelope"`
	Filter    json.RawMessage `json:"filter"`
	Volume    float64         `json:"volume"`
	Pan       float64         `json:"pan"`
}

type jsonEnvelope struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
	Curve   string  `json:"curve"`
}

type jsonSweep struct {
	Target  float64 `json:"target"`
	Seconds float64 `json:"seconds"`
	Curve   string  `json:"curve"`
}

type typeTag struct {
	Type string `json:"type"`
}

// DecodeJSON maps the wire shape onto a Recipe. It resolves type tags
// and enum names; range checking is Validate's job, so a decoded recipe
// still needs a Validate call before rendering.
func DecodeJSON(data []byte) (*Recipe, error) {
	var wire jsonRecipe
	if err := strictUnmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("recipe: parse json: %w", err)
	}

	out := &Recipe{
		DurationSeconds: wire.DurationSeconds,
		SampleRate:      wire.SampleRate,
	}

	for i, jl := range wire.Layers {
		layer, err := decodeLayer(jl)
		if err != nil {
			return nil, fmt.Errorf("recipe: layer %d: %w", i, err)
		}

		out.Layers = append(out.Layers, layer)
	}

	for i, raw := range wire.Effects {
		fx, err := decodeEffect(raw)
		if err != nil {
			return nil, fmt.Errorf("recipe: effect %d: %w", i, err)
		}

		out.Effects = append(out.Effects, fx)
	}

	return out, nil
}

func decodeLayer(jl jsonLayer) (Layer, error) {
	if len(jl.Synthesis) == 0 {
		return Layer{}, errors.New("synthesis block is required")
	}

	syn, err := decodeSynthesis(jl.Synthesis)
	if err != nil {
		return Layer{}, fmt.Errorf("synthesis: %w", err)
	}

	env := Envelope{
		Attack:  jl.Envelope.Attack,
		Decay:   jl.Envelope.Decay,
		Sustain: jl.Envelope.Sustain,
		Release: jl.Envelope.Release,
	}
	if jl.Envelope.Curve != "" {
		curve, err := envelope.ParseCurve(jl.Envelope.Curve)
		if err != nil {
			return Layer{}, fmt.Errorf("envelope: %w", err)
		}

		env.Curve = curve
	}

	layer := Layer{
		Synthesis: syn,
		Envelope:  env,
		Volume:    jl.Volume,
		Pan:       jl.Pan,
	}

	if len(jl.Filter) != 0 && !bytes.Equal(jl.Filter, []byte("null")) {
		flt, err := decodeFilter(jl.Filter)
		if err != nil {
			return Layer{}, fmt.Errorf("filter: %w", err)
		}

		layer.Filter = flt
	}

	return layer, nil
}

//nolint:funlen
func decodeSynthesis(raw json.RawMessage) (Synthesis, error) {
	var tag typeTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}

	switch tag.Type {
	case "oscillator":
		var w struct {
			Type        string     `json:"type"`
			Shape       string     `json:"shape"`
			Frequency   float64    `json:"frequency"`
			Duty        float64    `json:"duty"`
			DetuneCents float64    `json:"detune_cents"`
			Sweep       *jsonSweep `json:"sweep"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		shape, err := synthesis.ParseWaveShape(w.Shape)
		if err != nil {
			return nil, err
		}

		osc := &Oscillator{
			Shape:       shape,
			Frequency:   w.Frequency,
			Duty:        w.Duty,
			DetuneCents: w.DetuneCents,
		}

		if w.Sweep != nil {
			sweep := &Sweep{
				Target:  w.Sweep.Target,
				Seconds: w.Sweep.Seconds,
			}

			if w.Sweep.Curve != "" {
				curve, err := synthesis.ParseSweepCurve(w.Sweep.Curve)
				if err != nil {
					return nil, err
				}

				sweep.Curve = curve
			}

			osc.Sweep = sweep
		}

		return osc, nil

	case "noise":
		var w struct {
			Type  string `json:"type"`
			Color string `json:"color"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		color, err := synthesis.ParseNoiseColor(w.Color)
		if err != nil {
			return nil, err
		}

		return &Noise{Color: color}, nil

	case "fm":
		var w struct {
			Type      string  `json:"type"`
			Carrier   float64 `json:"carrier"`
			Modulator float64 `json:"modulator"`
			Index     float64 `json:"index"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &FM{Carrier: w.Carrier, Modulator: w.Modulator, Index: w.Index}, nil

	case "am":
		var w struct {
			Type      string  `json:"type"`
			Carrier   float64 `json:"carrier"`
			Modulator float64 `json:"modulator"`
			Depth     float64 `json:"depth"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &AM{Carrier: w.Carrier, Modulator: w.Modulator, Depth: w.Depth}, nil

	case "ringmod":
		var w struct {
			Type      string  `json:"type"`
			Carrier   float64 `json:"carrier"`
			Modulator float64 `json:"modulator"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &RingMod{Carrier: w.Carrier, Modulator: w.Modulator}, nil

	case "additive":
		var w struct {
			Type      string  `json:"type"`
			Frequency float64 `json:"frequency"`
			Partials  []struct {
				Ratio     float64 `json:"ratio"`
				Amplitude float64 `json:"amplitude"`
			} `json:"partials"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		add := &Additive{Frequency: w.Frequency}
		for _, p := range w.Partials {
			add.Partials = append(add.Partials, Partial{Ratio: p.Ratio, Amplitude: p.Amplitude})
		}

		return add, nil

	case "wavetable":
		var w struct {
			Type      string    `json:"type"`
			Table     []float64 `json:"table"`
			Frequency float64   `json:"frequency"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Wavetable{Table: w.Table, Frequency: w.Frequency}, nil

	case "granular":
		var w struct {
			Type         string  `json:"type"`
			Frequency    float64 `json:"frequency"`
			GrainSeconds float64 `json:"grain_seconds"`
			Density      float64 `json:"density"`
			Jitter       float64 `json:"jitter"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Granular{
			Frequency:    w.Frequency,
			GrainSeconds: w.GrainSeconds,
			Density:      w.Density,
			Jitter:       w.Jitter,
		}, nil

	case "modal":
		var w struct {
			Type  string `json:"type"`
			Modes []struct {
				Frequency float64 `json:"frequency"`
				Decay     float64 `json:"decay"`
				Amplitude float64 `json:"amplitude"`
			} `json:"modes"`
			Strike float64 `json:"strike"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		modal := &Modal{Strike: w.Strike}
		for _, m := range w.Modes {
			modal.Modes = append(modal.Modes, Mode{
				Frequency: m.Frequency,
				Decay:     m.Decay,
				Amplitude: m.Amplitude,
			})
		}

		return modal, nil

	case "pluck":
		var w struct {
			Type      string  `json:"type"`
			Frequency float64 `json:"frequency"`
			Damping   float64 `json:"damping"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Pluck{Frequency: w.Frequency, Damping: w.Damping}, nil

	default:
		return nil, fmt.Errorf("synthesis type %q: %w", tag.Type, ErrUnsupportedVariant)
	}
}

func decodeFilter(raw json.RawMessage) (Filter, error) {
	var tag typeTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}

	switch tag.Type {
	case "lowpass", "highpass", "bandpass", "notch":
		var w struct {
			Type   string  `json:"type"`
			Cutoff float64 `json:"cutoff"`
			Q      float64 `json:"q"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		switch tag.Type {
		case "lowpass":
			return &Lowpass{Cutoff: w.Cutoff, Q: w.Q}, nil
		case "highpass":
			return &Highpass{Cutoff: w.Cutoff, Q: w.Q}, nil
		case "bandpass":
			return &Bandpass{Cutoff: w.Cutoff, Q: w.Q}, nil
		default:
			return &Notch{Cutoff: w.Cutoff, Q: w.Q}, nil
		}

	case "comb":
		var w struct {
			Type      string  `json:"type"`
			Frequency float64 `json:"frequency"`
			Feedback  float64 `json:"feedback"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Comb{Frequency: w.Frequency, Feedback: w.Feedback}, nil

	case "formant":
		var w struct {
			Type  string `json:"type"`
			Vowel string `json:"vowel"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		vowel, err := filter.ParseVowel(w.Vowel)
		if err != nil {
			return nil, err
		}

		return &Formant{Vowel: vowel}, nil

	case "ladder":
		var w struct {
			Type      string  `json:"type"`
			Cutoff    float64 `json:"cutoff"`
			Resonance float64 `json:"resonance"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Ladder{Cutoff: w.Cutoff, Resonance: w.Resonance}, nil

	default:
		return nil, fmt.Errorf("filter type %q: %w", tag.Type, ErrUnsupportedVariant)
	}
}

//nolint:funlen
func decodeEffect(raw json.RawMessage) (Effect, error) {
	var tag typeTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}

	switch tag.Type {
	case "delay":
		var w struct {
			Type        string  `json:"type"`
			TimeSeconds float64 `json:"time_seconds"`
			Feedback    float64 `json:"feedback"`
			Mix         float64 `json:"mix"`
			PingPong    bool    `json:"pingpong"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Delay{
			TimeSeconds: w.TimeSeconds,
			Feedback:    w.Feedback,
			Mix:         w.Mix,
			PingPong:    w.PingPong,
		}, nil

	case "reverb":
		var w struct {
			Type string  `json:"type"`
			Room float64 `json:"room"`
			Damp float64 `json:"damp"`
			Mix  float64 `json:"mix"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Reverb{Room: w.Room, Damp: w.Damp, Mix: w.Mix}, nil

	case "chorus":
		var w struct {
			Type  string  `json:"type"`
			Rate  float64 `json:"rate"`
			Depth float64 `json:"depth"`
			Mix   float64 `json:"mix"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Chorus{Rate: w.Rate, Depth: w.Depth, Mix: w.Mix}, nil

	case "flanger":
		var w struct {
			Type     string  `json:"type"`
			Rate     float64 `json:"rate"`
			Depth    float64 `json:"depth"`
			Feedback float64 `json:"feedback"`
			Mix      float64 `json:"mix"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Flanger{Rate: w.Rate, Depth: w.Depth, Feedback: w.Feedback, Mix: w.Mix}, nil

	case "phaser":
		var w struct {
			Type     string  `json:"type"`
			Rate     float64 `json:"rate"`
			Stages   int     `json:"stages"`
			Feedback float64 `json:"feedback"`
			Mix      float64 `json:"mix"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Phaser{Rate: w.Rate, Stages: w.Stages, Feedback: w.Feedback, Mix: w.Mix}, nil

	case "bitcrush":
		var w struct {
			Type       string  `json:"type"`
			Bits       float64 `json:"bits"`
			Downsample int     `json:"downsample"`
			Mix        float64 `json:"mix"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Bitcrush{Bits: w.Bits, Downsample: w.Downsample, Mix: w.Mix}, nil

	case "waveshape":
		var w struct {
			Type  string  `json:"type"`
			Drive float64 `json:"drive"`
			Mode  string  `json:"mode"`
			Mix   float64 `json:"mix"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		mode, err := effects.ParseShaperMode(w.Mode)
		if err != nil {
			return nil, err
		}

		return &Waveshape{Drive: w.Drive, Mode: mode, Mix: w.Mix}, nil

	case "compressor":
		var w struct {
			Type        string  `json:"type"`
			ThresholdDB float64 `json:"threshold_db"`
			Ratio       float64 `json:"ratio"`
			KneeDB      float64 `json:"knee_db"`
			AttackMs    float64 `json:"attack_ms"`
			ReleaseMs   float64 `json:"release_ms"`
			MakeupDB    float64 `json:"makeup_db"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Compressor{
			ThresholdDB: w.ThresholdDB,
			Ratio:       w.Ratio,
			KneeDB:      w.KneeDB,
			AttackMs:    w.AttackMs,
			ReleaseMs:   w.ReleaseMs,
			MakeupDB:    w.MakeupDB,
		}, nil

	case "limiter":
		var w struct {
			Type        string  `json:"type"`
			ThresholdDB float64 `json:"threshold_db"`
			ReleaseMs   float64 `json:"release_ms"`
			LookaheadMs float64 `json:"lookahead_ms"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Limiter{
			ThresholdDB: w.ThresholdDB,
			ReleaseMs:   w.ReleaseMs,
			LookaheadMs: w.LookaheadMs,
		}, nil

	case "tremolo":
		var w struct {
			Type  string  `json:"type"`
			Rate  float64 `json:"rate"`
			Depth float64 `json:"depth"`
		}
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}

		return &Tremolo{Rate: w.Rate, Depth: w.Depth}, nil

	default:
		return nil, fmt.Errorf("effect type %q: %w", tag.Type, ErrUnsupportedVariant)
	}
}

// strictUnmarshal decodes raw into v and rejects unknown fields.
func strictUnmarshal(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	return dec.Decode(v)
}
