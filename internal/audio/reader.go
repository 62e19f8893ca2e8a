package audio

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var ErrInvalidWAV = errors.New("invalid WAV file")

// WavFormat describes the decoded stream.
type WavFormat struct {
	NumChannels int
	SampleRate  int
	BitDepth    int
}

// downmix averages interleaved channels into one mono channel, scaling every
// sample by scale.
func downmix(data []int, channels int, scale float64) []float64 {
	if channels <= 1 {
		out := make([]float64, len(data))
		for i, s := range data {
			out[i] = float64(s) * scale
		}
		return out
	}

	frames := len(data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(data[i*channels+c])
		}
		out[i] = sum / float64(channels) * scale
	}
	return out
}

// fullScale is the magnitude of the most negative sample at bitDepth.
func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return float64(int64(1) << uint(bitDepth-1)), nil
	}
	return 0, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWAV, bitDepth)
}

// toFloat converts a decoded PCM buffer to mono samples in [-1, 1].
func toFloat(buf *goaudio.IntBuffer, bitDepth int) ([]float64, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: no PCM data", ErrInvalidWAV)
	}
	peak, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	data := buf.Data
	if bitDepth == 8 {
		// 8-bit WAV is unsigned with a 128 midpoint.
		centred := make([]int, len(data))
		for i, s := range data {
			centred[i] = s - 128
		}
		data = centred
	}
	return downmix(data, buf.Format.NumChannels, 1/peak), nil
}

// ReadWavAsFloat64 decodes a PCM WAV file of any channel count and returns
// mono samples normalized to [-1, 1] at the file's own sample rate.
func ReadWavAsFloat64(path string) ([]float64, int, error) {
	samples, format, err := ReadWav(path)
	if err != nil {
		return nil, 0, err
	}
	return samples, format.SampleRate, nil
}

// ReadWav is ReadWavAsFloat64 plus the source format.
func ReadWav(path string) ([]float64, WavFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WavFormat{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, WavFormat{}, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	if dec.WavAudioFormat != 1 {
		return nil, WavFormat{}, fmt.Errorf("%w: audio format %d, only PCM (1) supported", ErrInvalidWAV, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, WavFormat{}, fmt.Errorf("decoding PCM samples: %w", err)
	}

	format := WavFormat{
		NumChannels: int(dec.NumChans),
		SampleRate:  int(dec.SampleRate),
		BitDepth:    int(dec.BitDepth),
	}
	if format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, WavFormat{}, fmt.Errorf("%w: empty fmt chunk", ErrInvalidWAV)
	}

	samples, err := toFloat(buf, format.BitDepth)
	if err != nil {
		return nil, WavFormat{}, err
	}
	return samples, format, nil
}
