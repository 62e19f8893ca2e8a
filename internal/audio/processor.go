package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/himanishpuri/AcousticScore/pkg/utils"
)

type ConvertWAVConfig struct {
	SampleRate int // 0 keeps the source rate
	Timeout    time.Duration
}

// ConvertToMonoWAV converts any ffmpeg-readable audio file to mono 16-bit PCM
// WAV inside outputDir and returns the new path.
func ConvertToMonoWAV(
	ctx context.Context,
	inputPath string,
	outputDir string,
	cfg ConvertWAVConfig,
) (string, error) {

	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if _, err := os.Stat(inputPath); err != nil {
		return "", err
	}
	if err := utils.MakeDir(outputDir); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(outputDir, base+".wav")

	tmpPath := outputPath + ".tmp.wav"
	defer os.Remove(tmpPath)

	args := []string{
		"-y",
		"-v", "quiet",
		"-i", inputPath,
		"-ac", "1", // mono
	}
	if cfg.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(cfg.SampleRate))
	}
	args = append(args, "-c:a", "pcm_s16le", tmpPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ffmpeg failed: %v (%s)", err, out)
	}

	if err := utils.MoveFile(tmpPath, outputPath); err != nil {
		return "", err
	}

	return outputPath, nil
}

// Loader reads a recording into mono samples. WAV files are decoded
// directly; anything else goes through ffmpeg first.
type Loader struct {
	TempDir    string
	SampleRate int
}

func (l *Loader) Load(ctx context.Context, path string) ([]float64, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return ReadWavAsFloat64(path)
	}

	tempDir := l.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	wavPath, err := ConvertToMonoWAV(ctx, path, tempDir, ConvertWAVConfig{SampleRate: l.SampleRate})
	if err != nil {
		return nil, 0, fmt.Errorf("audio conversion failed: %w", err)
	}
	defer os.Remove(wavPath)

	return ReadWavAsFloat64(wavPath)
}
