// Package synthesis provides the source-signal generators of the render
// pipeline: classic waveform oscillators with optional pitch sweeps,
// colored noise, FM/AM/ring modulation pairs, additive partial stacks,
// wavetable playback, granular clouds, modal resonator banks, and a
// plucked-string model.
//
// Every generator is a pure function of its parameters, the sample index,
// and (where randomness is involved) an explicit randstream.Stream; the
// same inputs always fill the same samples. Per-sample waveforms use the
// pinned kernels from internal/fastmath, never the host math library.
package synthesis
