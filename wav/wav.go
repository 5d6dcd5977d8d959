// Package wav encodes rendered sample buffers as 16-bit PCM RIFF/WAVE
// streams and decodes them back for tests and tooling.
//
// Encoding is part of the determinism contract: quantization rounds half
// away from zero at a fixed scale of 32767, values outside the int16 range
// are hard-clipped at the format boundary, and the header is laid out
// byte-for-byte the same on every platform. Encode reports the true peak
// observed before clipping so callers can flag overload without re-scanning
// the buffer.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	bitsPerSample  = 16
	bytesPerSample = 2
	headerBytes    = 44
	formatPCM      = 1

	// quantScale maps +/-1.0 to +/-32767; -32768 is reachable only by
	// clipping, keeping the grid symmetric around zero.
	quantScale = 32767.0
)

// Info summarizes the outcome of an Encode call.
type Info struct {
	// SampleCount is the number of frames per channel.
	SampleCount int
	// Channels is 1 (mono) or 2 (stereo).
	Channels int
	// Peak is the largest absolute input value seen before quantization.
	Peak float64
	// Clipped reports whether Peak exceeded 1.0.
	Clipped bool
	// ClippedSamples counts quantized values clamped to the int16 range.
	ClippedSamples int
	// BytesWritten is the total stream length including the 44-byte header.
	BytesWritten int
}

// Encode writes channels as an interleaved 16-bit PCM WAVE stream.
// Channels are planar, one slice per channel (1 or 2), all the same length.
// Samples are expected in [-1, +1]; values beyond that are clipped at the
// int16 boundary and counted. Non-finite samples are rejected.
func Encode(w io.Writer, channels [][]float64, sampleRate int) (Info, error) {
	if sampleRate <= 0 {
		return Info{}, fmt.Errorf("wav: sample rate must be > 0: %d", sampleRate)
	}
	if len(channels) < 1 || len(channels) > 2 {
		return Info{}, fmt.Errorf("wav: channel count must be 1 or 2: %d", len(channels))
	}

	frames := len(channels[0])
	for ch := 1; ch < len(channels); ch++ {
		if len(channels[ch]) != frames {
			return Info{}, fmt.Errorf("wav: channel %d has %d frames, channel 0 has %d",
				ch, len(channels[ch]), frames)
		}
	}

	info := Info{
		SampleCount: frames,
		Channels:    len(channels),
	}

	data := make([]byte, frames*len(channels)*bytesPerSample)
	for i := range frames {
		for ch, buf := range channels {
			s := buf[i]
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return Info{}, fmt.Errorf("wav: non-finite sample at frame %d channel %d", i, ch)
			}

			if a := math.Abs(s); a > info.Peak {
				info.Peak = a
			}

			// math.Round implements round half away from zero.
			v := math.Round(s * quantScale)
			switch {
			case v > math.MaxInt16:
				v = math.MaxInt16
				info.ClippedSamples++
			case v < math.MinInt16:
				v = math.MinInt16
				info.ClippedSamples++
			}

			off := (i*len(channels) + ch) * bytesPerSample
			binary.LittleEndian.PutUint16(data[off:], uint16(int16(v)))
		}
	}

	info.Clipped = info.Peak > 1

	hdr := buildHeader(len(channels), sampleRate, len(data))
	if _, err := w.Write(hdr[:]); err != nil {
		return Info{}, fmt.Errorf("wav: write header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return Info{}, fmt.Errorf("wav: write data: %w", err)
	}

	info.BytesWritten = headerBytes + len(data)

	return info, nil
}

// buildHeader lays out the canonical RIFF/fmt/data preamble for a 16-bit
// PCM stream with dataSize payload bytes.
func buildHeader(channels, sampleRate, dataSize int) [headerBytes]byte {
	var hdr [headerBytes]byte

	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:], uint32(36+dataSize))
	copy(hdr[8:12], "WAVE")

	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:], 16)
	binary.LittleEndian.PutUint16(hdr[20:], formatPCM)
	binary.LittleEndian.PutUint16(hdr[22:], uint16(channels))
	binary.LittleEndian.PutUint32(hdr[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:], uint32(sampleRate*channels*bytesPerSample))
	binary.LittleEndian.PutUint16(hdr[32:], uint16(channels*bytesPerSample))
	binary.LittleEndian.PutUint16(hdr[34:], bitsPerSample)

	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:], uint32(dataSize))

	return hdr
}

// Decode reads a 16-bit PCM WAVE stream and returns planar channel
// buffers plus the sample rate. Samples are dequantized by the inverse
// of the Encode scale, so a full round trip stays within one LSB.
// Unknown chunks between fmt and data are skipped.
func Decode(r io.Reader) ([][]float64, int, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, 0, fmt.Errorf("wav: read riff header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("wav: not a RIFF/WAVE stream")
	}

	var (
		fmtSeen    bool
		channels   int
		sampleRate int
	)

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF {
				return nil, 0, fmt.Errorf("wav: missing data chunk")
			}
			return nil, 0, fmt.Errorf("wav: read chunk header: %w", err)
		}

		id := string(chunk[0:4])
		size := int(binary.LittleEndian.Uint32(chunk[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, fmt.Errorf("wav: fmt chunk too short: %d bytes", size)
			}

			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, 0, fmt.Errorf("wav: read fmt chunk: %w", err)
			}

			audioFormat := binary.LittleEndian.Uint16(body[0:2])
			if audioFormat != formatPCM {
				return nil, 0, fmt.Errorf("wav: unsupported audio format tag: %d", audioFormat)
			}

			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			if channels < 1 || channels > 2 {
				return nil, 0, fmt.Errorf("wav: channel count must be 1 or 2: %d", channels)
			}

			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			if sampleRate <= 0 {
				return nil, 0, fmt.Errorf("wav: sample rate must be > 0: %d", sampleRate)
			}

			bits := binary.LittleEndian.Uint16(body[14:16])
			if bits != bitsPerSample {
				return nil, 0, fmt.Errorf("wav: unsupported bit depth: %d", bits)
			}

			fmtSeen = true

		case "data":
			if !fmtSeen {
				return nil, 0, fmt.Errorf("wav: data chunk before fmt chunk")
			}

			raw := make([]byte, size)
			if _, err := io.ReadFull(r, raw); err != nil {
				return nil, 0, fmt.Errorf("wav: read data chunk: %w", err)
			}

			return deinterleave(raw, channels), sampleRate, nil

		default:
			// Chunks are word-aligned; odd sizes carry a pad byte.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, 0, fmt.Errorf("wav: skip %q chunk: %w", id, err)
			}
		}
	}
}

func deinterleave(raw []byte, channels int) [][]float64 {
	frames := len(raw) / (channels * bytesPerSample)

	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}

	for i := range frames {
		for ch := range channels {
			off := (i*channels + ch) * bytesPerSample
			v := int16(binary.LittleEndian.Uint16(raw[off:]))
			out[ch][i] = float64(v) / quantScale
		}
	}

	return out
}
