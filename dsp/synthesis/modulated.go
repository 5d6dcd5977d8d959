package synthesis

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/internal/fastmath"
)

// FM is a two-operator frequency-modulation voice: a sine carrier whose
// phase is offset by a sine modulator scaled by the modulation index
// (in radians, the standard definition).
type FM struct {
	carrierInc float64
	modInc     float64
	indexTurns float64

	carrierPhase float64
	modPhase     float64
}

// NewFM creates an FM voice. Carrier and modulator are in Hz; index >= 0.
func NewFM(carrier, modulator, index, sampleRate float64) (*FM, error) {
	if err := validatePositive("carrier frequency", carrier); err != nil {
		return nil, err
	}

	if err := validatePositive("modulator frequency", modulator); err != nil {
		return nil, err
	}

	if math.IsNaN(index) || math.IsInf(index, 0) || index < 0 {
		return nil, fmt.Errorf("synthesis: modulation index must be non-negative: %v", index)
	}

	if err := validatePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	return &FM{
		carrierInc: carrier / sampleRate,
		modInc:     modulator / sampleRate,
		indexTurns: index / (2 * math.Pi),
	}, nil
}

// Fill overwrites buf with the next len(buf) samples.
func (g *FM) Fill(buf []float64) {
	for i := range buf {
		buf[i] = fastmath.SinTurns(g.carrierPhase + g.indexTurns*fastmath.SinTurns(g.modPhase))

		g.carrierPhase = wrapPhase(g.carrierPhase + g.carrierInc)
		g.modPhase = wrapPhase(g.modPhase + g.modInc)
	}
}

// AM is a two-operator amplitude-modulation voice. The output is scaled
// by 1/(1+depth) so it never exceeds unit amplitude.
type AM struct {
	carrierInc float64
	modInc     float64
	depth      float64
	norm       float64

	carrierPhase float64
	modPhase     float64
}

// NewAM creates an AM voice with modulation depth in [0, 1].
func NewAM(carrier, modulator, depth, sampleRate float64) (*AM, error) {
	if err := validatePositive("carrier frequency", carrier); err != nil {
		return nil, err
	}

	if err := validatePositive("modulator frequency", modulator); err != nil {
		return nil, err
	}

	if err := validateUnitRange("modulation depth", depth); err != nil {
		return nil, err
	}

	if err := validatePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	return &AM{
		carrierInc: carrier / sampleRate,
		modInc:     modulator / sampleRate,
		depth:      depth,
		norm:       1 / (1 + depth),
	}, nil
}

// Fill overwrites buf with the next len(buf) samples.
func (g *AM) Fill(buf []float64) {
	for i := range buf {
		carrier := fastmath.SinTurns(g.carrierPhase)
		mod := 1 + g.depth*fastmath.SinTurns(g.modPhase)
		buf[i] = carrier * mod * g.norm

		g.carrierPhase = wrapPhase(g.carrierPhase + g.carrierInc)
		g.modPhase = wrapPhase(g.modPhase + g.modInc)
	}
}

// RingMod multiplies two sine oscillators, producing sum and difference
// frequencies without the carrier.
type RingMod struct {
	carrierInc float64
	modInc     float64

	carrierPhase float64
	modPhase     float64
}

// NewRingMod creates a ring-modulation voice.
func NewRingMod(carrier, modulator, sampleRate float64) (*RingMod, error) {
	if err := validatePositive("carrier frequency", carrier); err != nil {
		return nil, err
	}

	if err := validatePositive("modulator frequency", modulator); err != nil {
		return nil, err
	}

	if err := validatePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	return &RingMod{
		carrierInc: carrier / sampleRate,
		modInc:     modulator / sampleRate,
	}, nil
}

// Fill overwrites buf with the next len(buf) samples.
func (g *RingMod) Fill(buf []float64) {
	for i := range buf {
		buf[i] = fastmath.SinTurns(g.carrierPhase) * fastmath.SinTurns(g.modPhase)

		g.carrierPhase = wrapPhase(g.carrierPhase + g.carrierInc)
		g.modPhase = wrapPhase(g.modPhase + g.modInc)
	}
}
