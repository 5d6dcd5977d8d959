// Package recipe models a single sound as a validated, immutable
// description: global duration and sample rate, an ordered list of
// synthesis layers, and an optional master effect chain.
//
// The variant sets (Synthesis, Filter, Effect) are closed unions:
// interfaces with unexported marker methods, so the set of renderable
// behaviors is fixed at compile time and auditable in this package.
// DecodeJSON maps the wire shape onto those variants; Validate checks
// every parameter range so a recipe that reaches the renderer is
// structurally sound. Out-of-range values are always rejected, never
// coerced or clamped.
package recipe

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/envelope"
)

var (
	// ErrInvalidParameter marks a recipe field outside its documented
	// range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnsupportedVariant marks an unknown synthesis, filter, or
	// effect type tag.
	ErrUnsupportedVariant = errors.New("unsupported variant")
)

// Recipe describes one sound. The renderer never mutates a Recipe, so a
// validated instance can be shared across concurrent renders.
type Recipe struct {
	// DurationSeconds is the total render length.
	DurationSeconds float64
	// SampleRate is the output rate in Hz.
	SampleRate int
	// Layers are summed in declaration order.
	Layers []Layer
	// Effects form the master chain, applied in order after the mix.
	Effects []Effect
}

// Layer is one signal source with its amplitude contour, optional tone
// shaping, and placement in the mix.
type Layer struct {
	Synthesis Synthesis
	Envelope  Envelope
	// Filter is optional; nil skips the filter stage.
	Filter Filter
	// Volume scales the layer before mixing. Values above 1 are legal;
	// the encoder clips and reports overload.
	Volume float64
	// Pan places the layer in [-1, 1], left to right. Any nonzero pan
	// switches the whole render to stereo.
	Pan float64
}

// Envelope is the attack/decay/sustain/release contour in seconds and
// sustain gain.
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
	// Curve selects the segment ramp shape; the zero value is linear.
	Curve envelope.Curve
}

// NumSamples returns the render length in frames, never less than one.
func (r *Recipe) NumSamples() int {
	n := int(math.Round(r.DurationSeconds * float64(r.SampleRate)))
	if n < 1 {
		n = 1
	}

	return n
}

// Stereo reports whether any layer pans away from center, which switches
// the output to two channels.
func (r *Recipe) Stereo() bool {
	for i := range r.Layers {
		if r.Layers[i].Pan != 0 {
			return true
		}
	}

	return false
}

// Validate checks every structural and range invariant of the recipe.
// The first violation is returned, identified by layer or effect index.
func (r *Recipe) Validate() error {
	if math.IsNaN(r.DurationSeconds) || math.IsInf(r.DurationSeconds, 0) || r.DurationSeconds <= 0 {
		return invalidf("recipe: duration_seconds must be > 0 and finite: %v", r.DurationSeconds)
	}

	if r.SampleRate <= 0 {
		return invalidf("recipe: sample_rate must be > 0: %d", r.SampleRate)
	}

	if len(r.Layers) == 0 {
		return invalidf("recipe: at least one layer is required")
	}

	for i := range r.Layers {
		if err := r.Layers[i].validate(float64(r.SampleRate)); err != nil {
			return fmt.Errorf("recipe: layer %d: %w", i, err)
		}
	}

	for i, fx := range r.Effects {
		if fx == nil {
			return invalidf("recipe: effect %d is nil", i)
		}

		if err := fx.validate(); err != nil {
			return fmt.Errorf("recipe: effect %d: %w", i, err)
		}
	}

	return nil
}

func (l *Layer) validate(sampleRate float64) error {
	if l.Synthesis == nil {
		return invalidf("synthesis is required")
	}

	if err := l.Synthesis.validate(sampleRate); err != nil {
		return fmt.Errorf("synthesis: %w", err)
	}

	if err := l.Envelope.validate(); err != nil {
		return fmt.Errorf("envelope: %w", err)
	}

	if l.Filter != nil {
		if err := l.Filter.validate(sampleRate); err != nil {
			return fmt.Errorf("filter: %w", err)
		}
	}

	if math.IsNaN(l.Volume) || math.IsInf(l.Volume, 0) || l.Volume < 0 {
		return invalidf("volume must be >= 0 and finite: %v", l.Volume)
	}

	if math.IsNaN(l.Pan) || l.Pan < -1 || l.Pan > 1 {
		return invalidf("pan must be in [-1, 1]: %v", l.Pan)
	}

	return nil
}

func (e *Envelope) validate() error {
	stages := []struct {
		name string
		v    float64
	}{
		{"attack", e.Attack},
		{"decay", e.Decay},
		{"release", e.Release},
	}
	for _, s := range stages {
		if math.IsNaN(s.v) || math.IsInf(s.v, 0) || s.v < 0 {
			return invalidf("%s must be >= 0 and finite: %v", s.name, s.v)
		}
	}

	if math.IsNaN(e.Sustain) || e.Sustain < 0 || e.Sustain > 1 {
		return invalidf("sustain must be in [0, 1]: %v", e.Sustain)
	}

	if e.Curve != envelope.CurveLinear && e.Curve != envelope.CurveExponential {
		return invalidf("unknown curve %d", int(e.Curve))
	}

	return nil
}

// invalidf builds an ErrInvalidParameter with a formatted context.
func invalidf(format string, args ...any) error {
	args = append(args, ErrInvalidParameter)
	return fmt.Errorf(format+": %w", args...)
}

func checkPositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalidf("%s must be > 0 and finite: %v", name, v)
	}

	return nil
}

func checkUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return invalidf("%s must be in [0, 1]: %v", name, v)
	}

	return nil
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return invalidf("%s must be in [%g, %g]: %v", name, lo, hi, v)
	}

	return nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalidf("%s must be finite: %v", name, v)
	}

	return nil
}
