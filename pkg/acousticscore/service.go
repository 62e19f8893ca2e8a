// Package acousticscore transcribes a monophonic recording into a
// single-part score.
package acousticscore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/himanishpuri/AcousticScore/internal/analysis"
	"github.com/himanishpuri/AcousticScore/internal/audio"
	"github.com/himanishpuri/AcousticScore/internal/notation"
	"github.com/himanishpuri/AcousticScore/internal/pitch"
	"github.com/himanishpuri/AcousticScore/internal/render"
	"github.com/himanishpuri/AcousticScore/internal/storage"
	"github.com/himanishpuri/AcousticScore/pkg/logger"
)

// ErrHistoryDisabled is returned by the run history methods when no database
// was configured.
var ErrHistoryDisabled = errors.New("run history is not enabled")

type scoreService struct {
	loader   Loader
	analyzer Analyzer
	renderer Renderer
	history  History
	log      Logger
	config   *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.NoteDuration <= 0 {
		return nil, fmt.Errorf("%w: %d ticks", notation.ErrInvalidDuration, cfg.NoteDuration)
	}
	if err := cfg.TimeSignature.Validate(); err != nil {
		return nil, err
	}
	if _, err := render.ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.Loader == nil {
		cfg.Loader = &audio.Loader{TempDir: cfg.TempDir, SampleRate: cfg.SampleRate}
	}
	if cfg.Analyzer == nil {
		a, err := analysis.New(cfg.Analysis)
		if err != nil {
			return nil, err
		}
		cfg.Analyzer = a
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.Renderer{}
	}
	if cfg.History == nil && cfg.DBPath != "" {
		db, err := storage.NewDBClient(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open run history: %w", err)
		}
		cfg.History = db
	}

	return &scoreService{
		loader:   cfg.Loader,
		analyzer: cfg.Analyzer,
		renderer: cfg.Renderer,
		history:  cfg.History,
		log:      cfg.Logger,
		config:   cfg,
	}, nil
}

// Transcribe runs the whole pipeline on one file and writes the score to the
// configured output path.
func (s *scoreService) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	cfg := s.config
	s.log.Infof("Transcribing: %s", audioPath)

	// 1. Load
	samples, sampleRate, err := s.loader.Load(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("load: invalid sample rate %d", sampleRate)
	}
	duration := time.Duration(float64(len(samples)) / float64(sampleRate) * float64(time.Second))
	s.log.Infof("Loaded %d samples at %d Hz (%s)", len(samples), sampleRate, duration.Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Analyze
	res, err := s.analyzer.Analyze(samples, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	s.log.Infof("Estimated tempo %.2f bpm, %d beats over %d frames", res.TempoBPM, len(res.BeatFrames), res.Frames)

	// 3. Dominant pitch per frame
	freqs, err := pitch.DominantFrequencies(res.Pitches, res.Magnitudes)
	if err != nil {
		return nil, fmt.Errorf("pitch tracking: %w", err)
	}

	// 4. Quantize and sequence
	semitones := pitch.Quantize(freqs)
	events := notation.Sequence(semitones, cfg.NoteDuration)
	notes, rests := notation.Counts(events)
	s.log.Infof("Sequenced %d events: %d notes, %d rests", len(events), notes, rests)

	// 5. Tempo policy
	suspicious, err := cfg.TempoPolicy.Check(res.TempoBPM)
	if err != nil {
		return nil, fmt.Errorf("tempo: %w", err)
	}
	if suspicious {
		s.log.Warnf("Tempo %.2f bpm gives metronome mark %d; writing it as is (%s policy)",
			res.TempoBPM, notation.MetronomeMark(res.TempoBPM).BPM, cfg.TempoPolicy)
	}

	// 6. Assemble
	score := notation.Assemble(res.TempoBPM, cfg.TimeSignature, events)
	score.Title = s.title(ctx, audioPath)
	s.log.Infof("Assembled score: %d bpm, %s, %d events", score.Part.Tempo.BPM, score.Part.TimeSignature, len(score.Part.Events))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 7. Render
	if err := s.renderer.Render(score, cfg.Format, cfg.OutputPath); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	s.log.Infof("Wrote %s to %s", cfg.Format, cfg.OutputPath)

	// The spectrogram is a side artifact: it is only drawn once the score
	// exists and a failure here does not undo the run.
	if cfg.SpectrogramPath != "" {
		if err := analysis.SaveSpectrogramImage(samples, sampleRate, cfg.SpectrogramPath); err != nil {
			s.log.Warnf("spectrogram: %v", err)
		} else {
			s.log.Infof("Saved spectrogram image to %s", cfg.SpectrogramPath)
		}
	}

	result := &Result{
		InputPath:       audioPath,
		OutputPath:      cfg.OutputPath,
		Format:          cfg.Format,
		Score:           score,
		RawTempo:        res.TempoBPM,
		TempoSuspicious: suspicious,
		BeatTimes:       res.BeatTimes,
		SampleRate:      sampleRate,
		Duration:        duration,
		Frames:          len(events),
		Notes:           notes,
		Rests:           rests,
	}

	// 8. History. A failure here never fails the run.
	if s.history != nil {
		id, err := s.history.RecordRun(Run{
			InputPath:  audioPath,
			OutputPath: cfg.OutputPath,
			Format:     string(cfg.Format),
			TempoBPM:   score.Part.Tempo.BPM,
			RawTempo:   res.TempoBPM,
			Frames:     len(events),
			Notes:      notes,
			Rests:      rests,
			Beats:      len(res.BeatFrames),
			DurationMs: int(duration.Milliseconds()),
		})
		if err != nil {
			s.log.Warnf("Failed to record run: %v", err)
		} else {
			result.RunID = id
			s.log.Debugf("Recorded run %s", id)
		}
	}

	return result, nil
}

// title is the configured title or, failing that, the input's title tag.
func (s *scoreService) title(ctx context.Context, audioPath string) string {
	if s.config.Title != "" || !s.config.TitleFromTags {
		return s.config.Title
	}
	meta, err := audio.ReadMetadata(ctx, audioPath)
	if err != nil {
		s.log.Debugf("No metadata for %s: %v", audioPath, err)
		return ""
	}
	return meta.Title
}

// TranscribeURL downloads the audio of a YouTube video into the temp dir and
// transcribes it.
func (s *scoreService) TranscribeURL(ctx context.Context, youtubeURL string) (*Result, error) {
	s.log.Infof("Downloading audio: %s", youtubeURL)
	path, err := audio.DownloadAudio(ctx, youtubeURL, s.config.TempDir)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer os.Remove(path)

	return s.Transcribe(ctx, path)
}

func (s *scoreService) ListRuns(limit int) ([]Run, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.ListRuns(limit)
}

func (s *scoreService) GetRun(id string) (*Run, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.GetRun(id)
}

func (s *scoreService) DeleteRun(id string) error {
	if s.history == nil {
		return ErrHistoryDisabled
	}
	return s.history.DeleteRun(id)
}

func (s *scoreService) Close() error {
	if s.history == nil {
		return nil
	}
	return s.history.Close()
}
