// Package effects provides the post-mix processors of the render chain:
// delay, reverb, chorus, flanger, phaser, bit crusher, waveshaper,
// compressor, lookahead limiter and tremolo.
//
// Every processor is deterministic: modulation LFOs are phase-accumulated
// and evaluated with fixed polynomial kernels, dynamics gain computation
// runs in the log2 domain on fixed approximations, and no processor reads
// clocks or external state. Given the same parameters and input samples,
// ProcessSample sequences are bit-identical across runs and platforms.
//
// Processors are mono; stereo rendering runs one instance per channel
// with identical parameters. Delay and Reverb additionally expose stereo
// entry points for their channel-coupled behaviors (ping-pong routing and
// the fixed right-channel tuning spread).
package effects
