package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/himanishpuri/AcousticScore/internal/analysis"
	"github.com/himanishpuri/AcousticScore/internal/audio"
	"github.com/himanishpuri/AcousticScore/internal/notation"
	"github.com/himanishpuri/AcousticScore/internal/render"
	"github.com/himanishpuri/AcousticScore/internal/storage"
	"github.com/himanishpuri/AcousticScore/pkg/acousticscore"
	"github.com/himanishpuri/AcousticScore/pkg/logger"
)

const (
	maxUploadBytes    = 100 << 20
	transcribeTimeout = 5 * time.Minute
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	history acousticscore.History // nil when run history is disabled
	config  *ServerConfig
	log     acousticscore.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBPath         string
	TempDir        string
	SampleRate     int
	AllowedOrigins []string
}

func NewServer(config *ServerConfig, history acousticscore.History) *Server {
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	return &Server{
		history: history,
		config:  config,
		log:     logger.GetLogger().With("[http]"),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// statusFor maps a pipeline error to an HTTP status. Errors caused by the
// input itself are 422, the rest 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, audio.ErrInvalidWAV),
		errors.Is(err, analysis.ErrSignalTooShort),
		errors.Is(err, notation.ErrInvalidTempo),
		errors.Is(err, render.ErrUnrenderable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "AcousticScore API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":            "GET /health",
			"transcribeFile":    "POST /api/transcribe",
			"transcribeYouTube": "POST /api/transcribe/youtube",
			"runs":              "GET /api/runs",
			"getRun":            "GET /api/runs/{id}",
			"deleteRun":         "DELETE /api/runs/{id}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"history": s.history != nil,
		"time":    time.Now().Format(time.RFC3339),
	})
}

// handleTranscribeFile handles POST /api/transcribe (multipart upload, field "audio")
func (s *Server) handleTranscribeFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.log.Warnf("Failed to parse form: %v", err)
		s.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	req := TranscribeRequest{
		Format:      r.FormValue("format"),
		Duration:    r.FormValue("duration"),
		Time:        r.FormValue("time"),
		TempoPolicy: r.FormValue("tempo_policy"),
		Title:       r.FormValue("title"),
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	// Keep the extension so WAV uploads skip ffmpeg.
	tmp, err := os.CreateTemp(s.config.TempDir, "upload_*"+filepath.Ext(header.Filename))
	if err != nil {
		s.log.Errorf("Failed to create temp file: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		s.log.Errorf("Failed to save upload: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to save uploaded file")
		return
	}
	tmp.Close()

	s.log.Infof("Transcribing upload %s (%d bytes)", header.Filename, header.Size)
	s.transcribe(w, r, req, tmp.Name())
}

// handleTranscribeYouTube handles POST /api/transcribe/youtube
func (s *Server) handleTranscribeYouTube(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.YouTubeURL == "" {
		s.respondError(w, http.StatusBadRequest, "youtube_url is required")
		return
	}
	s.transcribe(w, r, req, "")
}

// transcribe runs one request through a fresh service and streams the score
// back. An empty input means req.YouTubeURL is downloaded first.
func (s *Server) transcribe(w http.ResponseWriter, r *http.Request, req TranscribeRequest, input string) {
	format, opts, err := req.Options()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	outDir, err := os.MkdirTemp(s.config.TempDir, "score_*")
	if err != nil {
		s.log.Errorf("Failed to create output dir: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to prepare output")
		return
	}
	defer os.RemoveAll(outDir)
	outPath := filepath.Join(outDir, "score"+format.Extension())

	opts = append(opts,
		acousticscore.WithOutputPath(outPath),
		acousticscore.WithTempDir(s.config.TempDir),
		acousticscore.WithSampleRate(s.config.SampleRate),
		acousticscore.WithLogger(s.log),
	)
	if s.history != nil {
		opts = append(opts, acousticscore.WithHistoryStore(s.history))
	}

	// Not closed: the only resource it holds is the shared history store.
	svc, err := acousticscore.NewService(opts...)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), transcribeTimeout)
	defer cancel()

	var res *acousticscore.Result
	if input == "" {
		res, err = svc.TranscribeURL(ctx, req.YouTubeURL)
	} else {
		res, err = svc.Transcribe(ctx, input)
	}
	if err != nil {
		s.log.Errorf("Transcription failed: %v", err)
		s.respondError(w, statusFor(err), fmt.Sprintf("Transcription failed: %v", err))
		return
	}

	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		s.log.Errorf("Failed to read rendered score: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to read rendered score")
		return
	}

	contentType := "application/vnd.recordare.musicxml+xml"
	if format == render.MIDI {
		contentType = "audio/midi"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="score%s"`, format.Extension()))
	w.Header().Set("X-Tempo-Bpm", strconv.Itoa(res.Score.Part.Tempo.BPM))
	w.Header().Set("X-Notes", strconv.Itoa(res.Notes))
	w.Header().Set("X-Rests", strconv.Itoa(res.Rests))
	if res.RunID != "" {
		w.Header().Set("X-Run-Id", res.RunID)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// requireHistory answers 503 when run history is disabled.
func (s *Server) requireHistory(w http.ResponseWriter) bool {
	if s.history == nil {
		s.respondError(w, http.StatusServiceUnavailable, "run history is not enabled")
		return false
	}
	return true
}

// handleListRuns handles GET /api/runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w) {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := s.history.ListRuns(limit)
	if err != nil {
		s.log.Errorf("Failed to list runs: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = newRunDTO(run)
	}
	s.respondJSON(w, http.StatusOK, ListRunsResponse{Runs: dtos, Count: len(dtos)})
}

// handleGetRun handles GET /api/runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w) {
		return
	}
	id := mux.Vars(r)["id"]

	run, err := s.history.GetRun(id)
	if errors.Is(err, storage.ErrRunNotFound) {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Run with ID %s not found", id))
		return
	}
	if err != nil {
		s.log.Errorf("Failed to get run %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}
	s.respondJSON(w, http.StatusOK, newRunDTO(*run))
}

// handleDeleteRun handles DELETE /api/runs/{id}
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w) {
		return
	}
	id := mux.Vars(r)["id"]

	err := s.history.DeleteRun(id)
	if errors.Is(err, storage.ErrRunNotFound) {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Run with ID %s not found", id))
		return
	}
	if err != nil {
		s.log.Errorf("Failed to delete run %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to delete run")
		return
	}

	s.log.Infof("Deleted run %s", id)
	s.respondJSON(w, http.StatusOK, DeleteRunResponse{Message: "Run deleted successfully", ID: id})
}
