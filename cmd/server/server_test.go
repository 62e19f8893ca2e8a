package main

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/himanishpuri/AcousticScore/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, withHistory bool) (*Server, *storage.DBClient) {
	t.Helper()
	var db *storage.DBClient
	cfg := &ServerConfig{TempDir: t.TempDir(), AllowedOrigins: []string{"*"}}
	if !withHistory {
		return NewServer(cfg, nil), nil
	}
	db, err := storage.NewDBClient(filepath.Join(t.TempDir(), "runs.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewServer(cfg, db), db
}

func sineWav(t *testing.T) []byte {
	t.Helper()
	const sr = 22050
	data := make([]int, sr)
	for i := range data {
		data[i] = int(0.5 * 32767 * math.Sin(2*math.Pi*440*float64(i)/sr))
	}

	path := filepath.Join(t.TempDir(), "a4.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, sr, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sr},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("audio", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.setupRoutes().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := serve(s, httptest.NewRequest(http.MethodOptions, "/api/transcribe", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowList(t *testing.T) {
	h := corsMiddleware([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestTranscribeUpload(t *testing.T) {
	s, db := newTestServer(t, true)

	req := uploadRequest(t, "a4.wav", sineWav(t), map[string]string{"title": "Tone"})
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/vnd.recordare.musicxml+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<work-title>Tone</work-title>")
	assert.Contains(t, rec.Body.String(), "<step>A</step>")

	runID := rec.Header().Get("X-Run-Id")
	require.NotEmpty(t, runID)
	run, err := db.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "musicxml", run.Format)
}

func TestTranscribeUploadMIDI(t *testing.T) {
	s, _ := newTestServer(t, false)

	req := uploadRequest(t, "a4.wav", sineWav(t), map[string]string{"format": "midi", "tempo_policy": "passthrough"})
	rec := serve(s, req)

	if rec.Code == http.StatusUnprocessableEntity {
		// A pure tone has no onsets, so the tempo may be 0, which MIDI cannot carry.
		assert.Contains(t, rec.Body.String(), "cannot be rendered")
		return
	}
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "audio/midi", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "MThd"))
}

func TestTranscribeUploadBadRequests(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := serve(s, uploadRequest(t, "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(s, uploadRequest(t, "a4.wav", sineWav(t), map[string]string{"format": "pdf"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(s, uploadRequest(t, "a4.wav", sineWav(t), map[string]string{"time": "4/3"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(s, uploadRequest(t, "broken.wav", []byte("not a wav"), nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTranscribeYouTubeRequiresURL(t *testing.T) {
	s, _ := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe/youtube", strings.NewReader(`{"format":"midi"}`))
	rec := serve(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunsWithoutHistory(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunsCRUD(t *testing.T) {
	s, db := newTestServer(t, true)

	id, err := db.RecordRun(storage.Run{InputPath: "song.wav", OutputPath: "out.xml", Format: "musicxml", TempoBPM: 96})
	require.NoError(t, err)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/runs?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListRunsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, id, list.Runs[0].ID)
	assert.Equal(t, 96, list.Runs[0].TempoBPM)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/runs?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/runs/"+id, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodDelete, "/api/runs/"+id, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/runs/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodDelete, "/api/runs/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
