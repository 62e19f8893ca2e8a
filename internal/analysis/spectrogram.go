package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// MagnitudeSpectrum keeps the non-negative frequency bins 0..n/2 of a
// complex spectrum.
func MagnitudeSpectrum(spectrum []complex128) []float64 {
	bins := len(spectrum)/2 + 1
	if bins > len(spectrum) {
		bins = len(spectrum)
	}
	mag := make([]float64, bins)
	for i := 0; i < bins; i++ {
		mag[i] = cmplx.Abs(spectrum[i])
	}
	return mag
}

// STFT computes a time-major magnitude spectrogram, spectrogram[frame][bin],
// over frames that lie fully inside samples.
func STFT(samples []float64, windowSize, hopSize int, win []float64) ([][]float64, error) {
	if len(win) != windowSize {
		return nil, fmt.Errorf("window length %d must equal window size %d", len(win), windowSize)
	}
	if len(samples) < windowSize {
		return nil, fmt.Errorf("%w: %d samples, window %d", ErrSignalTooShort, len(samples), windowSize)
	}

	frames := (len(samples)-windowSize)/hopSize + 1
	spectrogram := make([][]float64, 0, frames)
	frame := make([]float64, windowSize)
	for start := 0; start+windowSize <= len(samples); start += hopSize {
		for i := 0; i < windowSize; i++ {
			frame[i] = samples[start+i] * win[i]
		}
		spectrogram = append(spectrogram, MagnitudeSpectrum(fft.FFTReal(frame)))
	}
	return spectrogram, nil
}

// CenterPad returns samples with windowSize/2 zeros added on both ends.
// Framing the result with STFT gives 1 + len(samples)/hopSize frames.
func CenterPad(samples []float64, windowSize int) []float64 {
	pad := windowSize / 2
	out := make([]float64, len(samples)+2*pad)
	copy(out[pad:], samples)
	return out
}

// BinFrequency is the centre frequency of bin k.
func BinFrequency(k, sampleRate, windowSize int) float64 {
	return float64(k) * float64(sampleRate) / float64(windowSize)
}
