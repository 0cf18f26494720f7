// Package audio reads the normalized PCM WAV files produced by media
// normalization.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

// ErrFormat is returned for WAV files that are not 16-bit PCM.
var ErrFormat = errors.New("unsupported wav format")

// wavFormatPCM is the WAVE_FORMAT_PCM tag of the fmt chunk.
const wavFormatPCM = 1

// Format describes the sample layout of a WAV file.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// ReadPCM16 decodes a 16-bit PCM WAV file into float32 samples in [-1, 1).
// Multi-channel input is downmixed by averaging.
func ReadPCM16(path string) ([]float32, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Format{}, err
	}
	defer f.Close()
	return DecodePCM16(f)
}

// DecodePCM16 is ReadPCM16 over a seekable reader.
func DecodePCM16(r io.ReadSeeker) ([]float32, Format, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, Format{}, fmt.Errorf("%w: not a RIFF/WAVE file", ErrFormat)
	}
	format := Format{
		SampleRate:    int(d.SampleRate),
		Channels:      int(d.NumChans),
		BitsPerSample: int(d.BitDepth),
	}
	if d.WavAudioFormat != wavFormatPCM || format.BitsPerSample != 16 || format.Channels < 1 {
		return nil, Format{}, fmt.Errorf("%w: format=%d bits=%d channels=%d",
			ErrFormat, d.WavAudioFormat, format.BitsPerSample, format.Channels)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, Format{}, fmt.Errorf("read data chunk: %w", err)
	}
	return downmix(buf.Data, format.Channels), format, nil
}

// downmix averages interleaved int16 frames into mono float32.
func downmix(data []int, channels int) []float32 {
	frames := len(data) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(data[i*channels+c]) / 32768
		}
		out[i] = sum / float32(channels)
	}
	return out
}
