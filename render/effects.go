package render

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/effects"
	"github.com/cwbudde/algo-synth/recipe"
)

// monoProcessor is the in-place surface shared by every effect.
type monoProcessor interface {
	ProcessInPlace(buf []float64)
}

// stereoProcessor is implemented by the two channel-coupled effects,
// delay and reverb, which consume both channels at once so ping-pong
// feedback and channel decorrelation work.
type stereoProcessor interface {
	ProcessInPlace(buf []float64)
	ProcessStereoInPlace(left, right []float64)
}

// effectNode applies one master-chain effect to the mixed channels.
type effectNode func(channels [][]float64)

// applyEffects runs the master chain over the mix in declaration order,
// scanning for non-finite values after each effect.
func applyEffects(fxs []recipe.Effect, channels [][]float64, sampleRate float64) error {
	for _, fx := range fxs {
		tag := effectTag(fx)

		node, err := buildEffectNode(fx, sampleRate, len(channels))
		if err != nil {
			return &StageError{Layer: MasterChain, Stage: tag, Err: err}
		}

		node(channels)

		for _, ch := range channels {
			if err := checkFinite(ch); err != nil {
				return &StageError{Layer: MasterChain, Stage: tag, Err: err}
			}
		}
	}

	return nil
}

//nolint:funlen
func buildEffectNode(fx recipe.Effect, sampleRate float64, channels int) (effectNode, error) {
	switch e := fx.(type) {
	case *recipe.Delay:
		opts := []effects.DelayOption{
			effects.WithDelayTime(e.TimeSeconds),
			effects.WithDelayFeedback(e.Feedback),
			effects.WithDelayMix(e.Mix),
		}
		if e.PingPong {
			opts = append(opts, effects.WithDelayPingPong())
		}

		d, err := effects.NewDelay(sampleRate, opts...)
		if err != nil {
			return nil, err
		}

		return stereoCoupled(d), nil

	case *recipe.Reverb:
		rv, err := effects.NewReverb(sampleRate,
			effects.WithReverbRoomSize(e.Room),
			effects.WithReverbDamp(e.Damp),
			effects.WithReverbMix(e.Mix))
		if err != nil {
			return nil, err
		}

		return stereoCoupled(rv), nil

	case *recipe.Chorus:
		return dualMono(channels, func() (monoProcessor, error) {
			return effects.NewChorus(sampleRate,
				effects.WithChorusRateHz(e.Rate),
				effects.WithChorusDepth(e.Depth),
				effects.WithChorusMix(e.Mix))
		})

	case *recipe.Flanger:
		return dualMono(channels, func() (monoProcessor, error) {
			return effects.NewFlanger(sampleRate,
				effects.WithFlangerRateHz(e.Rate),
				effects.WithFlangerDepth(e.Depth),
				effects.WithFlangerFeedback(e.Feedback),
				effects.WithFlangerMix(e.Mix))
		})

	case *recipe.Phaser:
		return dualMono(channels, func() (monoProcessor, error) {
			return effects.NewPhaser(sampleRate,
				effects.WithPhaserRateHz(e.Rate),
				effects.WithPhaserStages(e.Stages),
				effects.WithPhaserFeedback(e.Feedback),
				effects.WithPhaserMix(e.Mix))
		})

	case *recipe.Bitcrush:
		return dualMono(channels, func() (monoProcessor, error) {
			return effects.NewBitCrusher(sampleRate,
				effects.WithBitCrusherBitDepth(e.Bits),
				effects.WithBitCrusherDownsample(e.Downsample),
				effects.WithBitCrusherMix(e.Mix))
		})

	case *recipe.Waveshape:
		return dualMono(channels, func() (monoProcessor, error) {
			return effects.NewWaveshaper(sampleRate,
				effects.WithWaveshaperDrive(e.Drive),
				effects.WithWaveshaperMode(e.Mode),
				effects.WithWaveshaperMix(e.Mix))
		})

	case *recipe.Compressor:
		return dualMono(channels, func() (monoProcessor, error) {
			return effects.NewCompressor(sampleRate,
				effects.WithCompressorThreshold(e.ThresholdDB),
				effects.WithCompressorRatio(e.Ratio),
				effects.WithCompressorKnee(e.KneeDB),
				effects.WithCompressorAttack(e.AttackMs),
				effects.WithCompressorRelease(e.ReleaseMs),
				effects.WithCompressorMakeupGain(e.MakeupDB))
		})

	case *recipe.Limiter:
		return dualMono(channels, func() (monoProcessor, error) {
			return effects.NewLimiter(sampleRate,
				effects.WithLimiterThreshold(e.ThresholdDB),
				effects.WithLimiterRelease(e.ReleaseMs),
				effects.WithLimiterLookahead(e.LookaheadMs))
		})

	case *recipe.Tremolo:
		return dualMono(channels, func() (monoProcessor, error) {
			return effects.NewTremolo(sampleRate,
				effects.WithTremoloRateHz(e.Rate),
				effects.WithTremoloDepth(e.Depth))
		})

	default:
		return nil, fmt.Errorf("effect %T: %w", fx, recipe.ErrUnsupportedVariant)
	}
}

// dualMono builds one independent instance of a mono effect per channel.
// Identical parameters on identical inputs keep the stereo image
// symmetric; dynamics detectors are intentionally unlinked.
func dualMono(channels int, build func() (monoProcessor, error)) (effectNode, error) {
	units := make([]monoProcessor, channels)
	for i := range units {
		u, err := build()
		if err != nil {
			return nil, err
		}

		units[i] = u
	}

	return func(chs [][]float64) {
		for ch, buf := range chs {
			units[ch].ProcessInPlace(buf)
		}
	}, nil
}

func stereoCoupled(unit stereoProcessor) effectNode {
	return func(chs [][]float64) {
		if len(chs) == 2 {
			unit.ProcessStereoInPlace(chs[0], chs[1])
			return
		}

		unit.ProcessInPlace(chs[0])
	}
}

// effectTag names an effect variant the way the wire format does, for
// error context.
func effectTag(fx recipe.Effect) string {
	switch fx.(type) {
	case *recipe.Delay:
		return "delay"
	case *recipe.Reverb:
		return "reverb"
	case *recipe.Chorus:
		return "chorus"
	case *recipe.Flanger:
		return "flanger"
	case *recipe.Phaser:
		return "phaser"
	case *recipe.Bitcrush:
		return "bitcrush"
	case *recipe.Waveshape:
		return "waveshape"
	case *recipe.Compressor:
		return "compressor"
	case *recipe.Limiter:
		return "limiter"
	case *recipe.Tremolo:
		return "tremolo"
	default:
		return fmt.Sprintf("%T", fx)
	}
}
