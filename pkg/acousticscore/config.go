package acousticscore

import (
	"os"

	"github.com/himanishpuri/AcousticScore/internal/analysis"
	"github.com/himanishpuri/AcousticScore/internal/notation"
	"github.com/himanishpuri/AcousticScore/internal/render"
)

const DefaultOutputPath = "output/generated_sheet_music.xml"

type Config struct {
	NoteDuration    notation.Duration
	TimeSignature   notation.TimeSignature
	OutputPath      string
	Format          render.Format
	TempoPolicy     notation.TempoPolicy
	Title           string
	TitleFromTags   bool   // use the input's title tag when Title is empty
	SpectrogramPath string // empty disables the PNG
	DBPath          string // empty disables run history

	TempDir    string
	SampleRate int // 0 keeps the source rate
	Analysis   analysis.Config

	Logger   Logger
	Loader   Loader
	Analyzer Analyzer
	Renderer Renderer
	History  History
}

type Option func(*Config)

// WithNoteDuration sets the length given to every frame's note or rest.
func WithNoteDuration(d notation.Duration) Option {
	return func(c *Config) {
		c.NoteDuration = d
	}
}

func WithTimeSignature(ts notation.TimeSignature) Option {
	return func(c *Config) {
		c.TimeSignature = ts
	}
}

func WithOutputPath(path string) Option {
	return func(c *Config) {
		c.OutputPath = path
	}
}

func WithFormat(f render.Format) Option {
	return func(c *Config) {
		c.Format = f
	}
}

func WithTempoPolicy(p notation.TempoPolicy) Option {
	return func(c *Config) {
		c.TempoPolicy = p
	}
}

func WithTitle(title string) Option {
	return func(c *Config) {
		c.Title = title
	}
}

// WithTitleFromTags reads the title from the input's metadata (via ffprobe)
// when no title is set.
func WithTitleFromTags(enabled bool) Option {
	return func(c *Config) {
		c.TitleFromTags = enabled
	}
}

// WithSpectrogramImage also writes a spectrogram PNG of the input to path.
func WithSpectrogramImage(path string) Option {
	return func(c *Config) {
		c.SpectrogramPath = path
	}
}

// WithHistory records every successful run in the SQLite database at dbPath.
func WithHistory(dbPath string) Option {
	return func(c *Config) {
		c.DBPath = dbPath
	}
}

// WithHistoryStore uses h instead of opening a database.
func WithHistoryStore(h History) Option {
	return func(c *Config) {
		c.History = h
	}
}

func WithTempDir(dir string) Option {
	return func(c *Config) {
		c.TempDir = dir
	}
}

func WithSampleRate(rate int) Option {
	return func(c *Config) {
		c.SampleRate = rate
	}
}

func WithAnalysisConfig(cfg analysis.Config) Option {
	return func(c *Config) {
		c.Analysis = cfg
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithLoader(l Loader) Option {
	return func(c *Config) {
		c.Loader = l
	}
}

func WithAnalyzer(a Analyzer) Option {
	return func(c *Config) {
		c.Analyzer = a
	}
}

func WithRenderer(r Renderer) Option {
	return func(c *Config) {
		c.Renderer = r
	}
}

func defaultConfig() *Config {
	return &Config{
		NoteDuration:  notation.Quarter,
		TimeSignature: notation.CommonTime,
		OutputPath:    DefaultOutputPath,
		Format:        render.MusicXML,
		TempoPolicy:   notation.TempoPassthrough,
		TempDir:       os.TempDir(),
		Analysis:      analysis.DefaultConfig(),
	}
}
