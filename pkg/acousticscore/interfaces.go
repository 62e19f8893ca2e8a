package acousticscore

import (
	"context"

	"github.com/himanishpuri/AcousticScore/internal/analysis"
	"github.com/himanishpuri/AcousticScore/internal/notation"
	"github.com/himanishpuri/AcousticScore/internal/render"
)

type Service interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	TranscribeURL(ctx context.Context, youtubeURL string) (*Result, error)
	ListRuns(limit int) ([]Run, error)
	GetRun(id string) (*Run, error)
	DeleteRun(id string) error
	Close() error
}

// Loader turns an audio file into mono samples and their sample rate.
type Loader interface {
	Load(ctx context.Context, path string) ([]float64, int, error)
}

type Analyzer interface {
	Analyze(samples []float64, sampleRate int) (*analysis.Result, error)
}

type Renderer interface {
	Render(score *notation.Score, format render.Format, path string) error
}

type History interface {
	RecordRun(run Run) (string, error)
	ListRuns(limit int) ([]Run, error)
	GetRun(id string) (*Run, error)
	DeleteRun(id string) error
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
