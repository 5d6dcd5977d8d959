package synthesis

import (
	"fmt"
	"math"
)

// Generator fills buffers with successive samples of a synthesis voice.
type Generator interface {
	// Fill overwrites buf with the next len(buf) samples.
	Fill(buf []float64)
}

func validateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("synthesis: %s must be finite: %v", name, v)
	}

	return nil
}

func validatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("synthesis: %s must be positive: %v", name, v)
	}

	return nil
}

func validateUnitRange(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("synthesis: %s must be in [0, 1]: %v", name, v)
	}

	return nil
}

// wrapPhase keeps a turns-domain accumulator in [0, 1).
func wrapPhase(p float64) float64 {
	if p >= 1 {
		return p - math.Floor(p)
	}

	return p
}
