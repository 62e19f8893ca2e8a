package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/himanishpuri/AcousticScore/pkg/utils"
	"github.com/lrstanley/go-ytdlp"
)

// DownloadAudio fetches the best audio stream of a YouTube video as WAV into
// outputDir with yt-dlp and returns the file path.
func DownloadAudio(ctx context.Context, youtubeURL, outputDir string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 3*time.Minute)
		defer cancel()
	}

	id, err := utils.ExtractYouTubeID(youtubeURL)
	if err != nil {
		return "", err
	}
	if err := utils.MakeDir(outputDir); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	dl := ytdlp.New().
		NoPlaylist().
		NoWarnings().
		ExtractAudio().
		AudioFormat("wav").
		Output(filepath.Join(outputDir, id+".%(ext)s"))

	if _, err := dl.Run(ctx, youtubeURL); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("yt-dlp download failed: %w", err)
	}

	path := filepath.Join(outputDir, id+".wav")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("downloaded audio not found for video %s: %w", id, err)
	}
	return path, nil
}
