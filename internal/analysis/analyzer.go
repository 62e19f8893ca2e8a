// Package analysis extracts tempo, beats and a per-frame pitch/magnitude
// grid from mono samples.
package analysis

import (
	"fmt"
)

// Result holds one analysis pass. Pitches and Magnitudes are bin-major,
// [bin][frame], and always share a shape.
type Result struct {
	TempoBPM   float64
	BeatFrames []int
	BeatTimes  []float64
	Pitches    [][]float64
	Magnitudes [][]float64
	Onsets     []float64

	SampleRate int
	HopSize    int
	Frames     int
}

// FrameRate is the number of analysis frames per second.
func (r *Result) FrameRate() float64 {
	return float64(r.SampleRate) / float64(r.HopSize)
}

type Analyzer struct {
	cfg    Config
	window []float64
}

func New(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analysis config: %w", err)
	}
	fn, _ := windowFunc(cfg.Window)
	return &Analyzer{cfg: cfg, window: fn(cfg.WindowSize)}, nil
}

func (a *Analyzer) Config() Config { return a.cfg }

// Analyze runs the STFT, pitch tracking, tempo estimation and beat tracking
// over samples.
func (a *Analyzer) Analyze(samples []float64, sampleRate int) (*Result, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrSignalTooShort)
	}
	if a.cfg.Center {
		samples = CenterPad(samples, a.cfg.WindowSize)
	}

	spec, err := STFT(samples, a.cfg.WindowSize, a.cfg.HopSize, a.window)
	if err != nil {
		return nil, err
	}

	pitches, mags := Piptrack(spec, sampleRate, a.cfg.WindowSize, a.cfg.FMin, a.cfg.FMax, a.cfg.Threshold)

	fps := float64(sampleRate) / float64(a.cfg.HopSize)
	onsets := OnsetStrength(spec)
	tempo := EstimateTempo(onsets, fps, a.cfg.StartBPM, a.cfg.MinBPM, a.cfg.MaxBPM)
	beats := TrackBeats(onsets, tempo, fps, a.cfg.Tightness)

	return &Result{
		TempoBPM:   tempo,
		BeatFrames: beats,
		BeatTimes:  FramesToTime(beats, sampleRate, a.cfg.HopSize),
		Pitches:    pitches,
		Magnitudes: mags,
		Onsets:     onsets,
		SampleRate: sampleRate,
		HopSize:    a.cfg.HopSize,
		Frames:     len(spec),
	}, nil
}
