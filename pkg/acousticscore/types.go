package acousticscore

import (
	"time"

	"github.com/himanishpuri/AcousticScore/internal/notation"
	"github.com/himanishpuri/AcousticScore/internal/render"
	"github.com/himanishpuri/AcousticScore/internal/storage"
)

// Run is a recorded transcription.
type Run = storage.Run

// Result describes a finished transcription.
type Result struct {
	RunID      string // empty when history is disabled or recording failed
	InputPath  string
	OutputPath string
	Format     render.Format
	Score      *notation.Score

	RawTempo        float64 // estimate before truncation
	TempoSuspicious bool    // passthrough accepted a tempo below 1 bpm
	BeatTimes       []float64

	SampleRate int
	Duration   time.Duration // of the input audio
	Frames     int
	Notes      int
	Rests      int
}
