// Package render serializes a notation.Score to disk.
package render

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/himanishpuri/AcousticScore/internal/notation"
	"github.com/himanishpuri/AcousticScore/pkg/utils"
)

type Format string

const (
	MusicXML Format = "musicxml"
	MIDI     Format = "midi"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrUnrenderable means the score holds a value the format cannot encode.
	ErrUnrenderable = errors.New("score cannot be rendered in this format")
)

// ParseFormat accepts "musicxml"/"xml" and "midi"/"mid", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "musicxml", "xml", "":
		return MusicXML, nil
	case "midi", "mid":
		return MIDI, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath guesses the format from a file extension. Unknown
// extensions fall back to MusicXML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return MIDI
	}
	return MusicXML
}

func (f Format) Extension() string {
	if f == MIDI {
		return ".mid"
	}
	return ".xml"
}

// Encode writes score to w in format.
func Encode(w io.Writer, score *notation.Score, format Format) error {
	if score == nil {
		return fmt.Errorf("%w: nil score", ErrUnrenderable)
	}
	if err := score.Part.TimeSignature.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnrenderable, err)
	}
	switch format {
	case MusicXML:
		return encodeMusicXML(w, score)
	case MIDI:
		return encodeMIDI(w, score)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Render writes score to path. Missing parent directories are created. The
// file is written to a temporary sibling and renamed into place, so path
// either holds the complete document or is left as it was.
func Render(score *notation.Score, format Format, path string) error {
	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, score, format)
	})
}

// Renderer is the file renderer used by the transcription service.
type Renderer struct{}

func (Renderer) Render(score *notation.Score, format Format, path string) error {
	return Render(score, format, path)
}
