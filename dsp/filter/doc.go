// Package filter provides the per-layer tone-shaping stages: RBJ biquad
// designs processed as Direct Form II Transposed sections, a tuned
// feedback comb, a three-formant vowel bank, and a four-stage nonlinear
// ladder.
//
// All processing is scalar float64 in sample order, so filtered buffers
// are bit-identical on every platform. Coefficient design runs once per
// construction and may use the math package; the only per-sample
// transcendental is the ladder's pinned rational tanh.
package filter
