package filter

import "fmt"

// Vowel selects a formant preset.
type Vowel int

const (
	VowelA Vowel = iota
	VowelE
	VowelI
	VowelO
	VowelU
)

// String returns the vowel letter.
func (v Vowel) String() string {
	switch v {
	case VowelA:
		return "a"
	case VowelE:
		return "e"
	case VowelI:
		return "i"
	case VowelO:
		return "o"
	case VowelU:
		return "u"
	default:
		return fmt.Sprintf("Vowel(%d)", int(v))
	}
}

// ParseVowel maps a vowel letter to its preset.
func ParseVowel(s string) (Vowel, error) {
	switch s {
	case "a":
		return VowelA, nil
	case "e":
		return VowelE, nil
	case "i":
		return VowelI, nil
	case "o":
		return VowelO, nil
	case "u":
		return VowelU, nil
	default:
		return 0, fmt.Errorf("filter: unknown vowel %q", s)
	}
}

type formantSpec struct {
	freq      float64
	bandwidth float64
	amp       float64
}

// MaxFormantFrequency is the highest center frequency in the preset
// tables. Sample rates whose Nyquist falls at or below it cannot carry
// every vowel.
const MaxFormantFrequency = 3010.0

// Three-formant presets: center frequencies are the Peterson-Barney male
// vowel averages, bandwidths and relative amplitudes follow common
// formant-synthesis practice. These tables are part of the output
// contract and must not change.
var formantTable = [...][3]formantSpec{
	VowelA: {{730, 90, 1}, {1090, 110, 0.5}, {2440, 170, 0.25}},
	VowelE: {{530, 90, 1}, {1840, 110, 0.5}, {2480, 170, 0.25}},
	VowelI: {{270, 90, 1}, {2290, 110, 0.5}, {3010, 170, 0.25}},
	VowelO: {{570, 90, 1}, {840, 110, 0.5}, {2410, 170, 0.25}},
	VowelU: {{300, 90, 1}, {870, 110, 0.5}, {2240, 170, 0.25}},
}

// Formant shapes its input toward a vowel spectrum with a parallel bank
// of three bandpass sections.
type Formant struct {
	sampleRate float64
	sections   [3]Biquad
	amps       [3]float64
}

// NewFormant creates a formant bank for the given vowel. The sample rate
// must leave the vowel's highest formant below Nyquist.
func NewFormant(vowel Vowel, sampleRate float64) (*Formant, error) {
	if vowel < VowelA || vowel > VowelU {
		return nil, fmt.Errorf("filter: unknown vowel: %d", int(vowel))
	}

	f := &Formant{sampleRate: sampleRate}

	for i, spec := range formantTable[vowel] {
		c, err := Bandpass(spec.freq, spec.freq/spec.bandwidth, sampleRate)
		if err != nil {
			return nil, err
		}

		f.sections[i] = Biquad{Coefficients: c}
		f.amps[i] = spec.amp
	}

	return f, nil
}

// ProcessSample filters one input sample and returns the output.
func (f *Formant) ProcessSample(x float64) float64 {
	return f.amps[0]*f.sections[0].ProcessSample(x) +
		f.amps[1]*f.sections[1].ProcessSample(x) +
		f.amps[2]*f.sections[2].ProcessSample(x)
}

// ProcessBlock filters a block of samples in place.
func (f *Formant) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears all section delay lines.
func (f *Formant) Reset() {
	for i := range f.sections {
		f.sections[i].Reset()
	}
}

// Response computes the bank's complex frequency response at freqHz.
func (f *Formant) Response(freqHz float64) complex128 {
	h := complex(0, 0)

	for i := range f.sections {
		h += complex(f.amps[i], 0) * f.sections[i].Response(freqHz, f.sampleRate)
	}

	return h
}
