package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mjibson/go-dsp/window"
)

// Tunables
const (
	WindowSize = 2048
	HopSize    = 512
)

var ErrSignalTooShort = errors.New("signal shorter than one analysis window")

type Config struct {
	WindowSize int
	HopSize    int
	Window     string // "hann", "hamming" or "rectangular"
	Center     bool   // pad WindowSize/2 zeros on each side so frame t is centred on t*HopSize

	// pitch tracking
	FMin      float64
	FMax      float64
	Threshold float64 // fraction of the frame maximum a peak must exceed

	// tempo and beats
	StartBPM  float64 // centre of the tempo prior
	MinBPM    float64
	MaxBPM    float64
	Tightness float64 // how strongly the beat tracker sticks to the period
}

func DefaultConfig() Config {
	return Config{
		WindowSize: WindowSize,
		HopSize:    HopSize,
		Window:     "hann",
		Center:     true,
		FMin:       150,
		FMax:       4000,
		Threshold:  0.1,
		StartBPM:   120,
		MinBPM:     30,
		MaxBPM:     320,
		Tightness:  100,
	}
}

func (c Config) Validate() error {
	switch {
	case c.WindowSize < 4:
		return fmt.Errorf("window size %d too small", c.WindowSize)
	case c.HopSize <= 0:
		return fmt.Errorf("hop size must be positive, got %d", c.HopSize)
	case c.FMin < 0 || c.FMax <= c.FMin:
		return fmt.Errorf("invalid pitch range [%g, %g)", c.FMin, c.FMax)
	case c.Threshold < 0 || c.Threshold > 1:
		return fmt.Errorf("threshold %g outside [0, 1]", c.Threshold)
	case c.MinBPM <= 0 || c.MaxBPM <= c.MinBPM:
		return fmt.Errorf("invalid tempo range [%g, %g]", c.MinBPM, c.MaxBPM)
	case c.StartBPM <= 0:
		return fmt.Errorf("start bpm must be positive, got %g", c.StartBPM)
	}
	if _, err := windowFunc(c.Window); err != nil {
		return err
	}
	return nil
}

func windowFunc(name string) (func(int) []float64, error) {
	switch strings.ToLower(name) {
	case "hann", "hanning", "":
		return window.Hann, nil
	case "hamming":
		return window.Hamming, nil
	case "rectangular", "boxcar":
		return window.Rectangular, nil
	}
	return nil, fmt.Errorf("unknown window %q", name)
}
