package render

import (
	"errors"
	"fmt"
)

// ErrNumericInstability marks a NaN or infinity produced inside the
// pipeline. The render aborts without writing output.
var ErrNumericInstability = errors.New("numeric instability")

// MasterChain is the StageError layer index for failures in the master
// effect chain, which runs after all layers are mixed.
const MasterChain = -1

// StageError locates a fatal render failure: which layer, which stage
// within it, and the underlying cause. Effects on the master chain
// report MasterChain with the effect name as the stage.
type StageError struct {
	Layer int
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	if e.Layer == MasterChain {
		return fmt.Sprintf("render: master %s: %v", e.Stage, e.Err)
	}

	return fmt.Sprintf("render: layer %d %s: %v", e.Layer, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
