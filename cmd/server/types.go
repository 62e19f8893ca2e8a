package main

import (
	"time"

	"github.com/himanishpuri/AcousticScore/internal/notation"
	"github.com/himanishpuri/AcousticScore/internal/render"
	"github.com/himanishpuri/AcousticScore/pkg/acousticscore"
)

// TranscribeRequest carries the per-request score options. Uploads send the
// fields as form values, YouTube requests as JSON.
type TranscribeRequest struct {
	YouTubeURL  string `json:"youtube_url,omitempty"`
	Format      string `json:"format,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Time        string `json:"time,omitempty"`
	TempoPolicy string `json:"tempo_policy,omitempty"`
	Title       string `json:"title,omitempty"`
}

// Options validates the request and turns it into service options.
func (r *TranscribeRequest) Options() (render.Format, []acousticscore.Option, error) {
	format, err := render.ParseFormat(r.Format)
	if err != nil {
		return "", nil, err
	}
	opts := []acousticscore.Option{
		acousticscore.WithFormat(format),
		acousticscore.WithTitle(r.Title),
		acousticscore.WithTitleFromTags(true),
	}
	if r.Duration != "" {
		d, err := notation.ParseDuration(r.Duration)
		if err != nil {
			return "", nil, err
		}
		opts = append(opts, acousticscore.WithNoteDuration(d))
	}
	if r.Time != "" {
		ts, err := notation.ParseTimeSignature(r.Time)
		if err != nil {
			return "", nil, err
		}
		opts = append(opts, acousticscore.WithTimeSignature(ts))
	}
	policy, err := notation.ParseTempoPolicy(r.TempoPolicy)
	if err != nil {
		return "", nil, err
	}
	opts = append(opts, acousticscore.WithTempoPolicy(policy))
	return format, opts, nil
}

// RunDTO represents a recorded run in API responses
type RunDTO struct {
	ID         string    `json:"id"`
	InputPath  string    `json:"input_path"`
	OutputPath string    `json:"output_path"`
	Format     string    `json:"format"`
	TempoBPM   int       `json:"tempo_bpm"`
	RawTempo   float64   `json:"raw_tempo"`
	Frames     int       `json:"frames"`
	Notes      int       `json:"notes"`
	Rests      int       `json:"rests"`
	Beats      int       `json:"beats"`
	DurationMs int       `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

func newRunDTO(r acousticscore.Run) RunDTO {
	return RunDTO{
		ID:         r.ID,
		InputPath:  r.InputPath,
		OutputPath: r.OutputPath,
		Format:     r.Format,
		TempoBPM:   r.TempoBPM,
		RawTempo:   r.RawTempo,
		Frames:     r.Frames,
		Notes:      r.Notes,
		Rests:      r.Rests,
		Beats:      r.Beats,
		DurationMs: r.DurationMs,
		CreatedAt:  r.CreatedAt,
	}
}

// ListRunsResponse is the response for GET /api/runs
type ListRunsResponse struct {
	Runs  []RunDTO `json:"runs"`
	Count int      `json:"count"`
}

// DeleteRunResponse is the response for DELETE /api/runs/{id}
type DeleteRunResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
