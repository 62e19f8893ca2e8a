package analysis

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/eligwz/spectrogram"
	"github.com/himanishpuri/AcousticScore/pkg/utils"
)

const (
	ImageWidth  = 2048
	ImageHeight = 512
)

// SaveSpectrogramImage draws a linear-magnitude FFT spectrogram of samples on
// a black background and writes it to path as PNG.
func SaveSpectrogramImage(samples []float64, sampleRate int, path string) error {
	if len(samples) == 0 {
		return errors.New("no samples to draw")
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	img := spectrogram.NewImage128(image.Rect(0, 0, ImageWidth, ImageHeight))
	black := spectrogram.ParseColor("000000")
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

	spectrogram.Drawfft(
		img,
		samples,
		uint32(sampleRate),
		uint32(ImageHeight), // bins
		false,               // Hamming window
		false,               // FFT, not DFT
		true,                // magnitude
		false,               // linear scale
	)

	if err := spectrogram.SavePng(img, path); err != nil {
		return fmt.Errorf("saving spectrogram %s: %w", path, err)
	}
	return nil
}
