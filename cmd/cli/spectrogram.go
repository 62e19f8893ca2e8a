package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/himanishpuri/AcousticScore/internal/analysis"
	"github.com/himanishpuri/AcousticScore/internal/audio"
	"github.com/himanishpuri/AcousticScore/pkg/logger"
	"github.com/spf13/cobra"
)

var spectrogramOut string

var spectrogramCmd = &cobra.Command{
	Use:   "spectrogram <file_or_dir>",
	Short: "Draw spectrogram PNGs for an audio file or every WAV file under a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := collectAudio(args[0])
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no WAV files found under %s", args[0])
		}

		written, err := drawSpectrograms(cmd.Context(), paths, spectrogramOut, logger.GetLogger())
		if err != nil {
			return err
		}
		fmt.Printf("\n✅ Wrote %d of %d spectrogram(s) to %s\n", written, len(paths), spectrogramOut)
		return nil
	},
}

func init() {
	spectrogramCmd.Flags().StringVarP(&spectrogramOut, "out", "o", "output/spectrograms", "Output directory")
	rootCmd.AddCommand(spectrogramCmd)
}

// collectAudio returns root itself when it is a file, or every .wav file
// below it when it is a directory.
func collectAudio(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root && !d.IsDir() {
			paths = append(paths, path)
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".wav") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// drawSpectrograms writes <outDir>/<base>.png for each input. A file that
// cannot be read is logged and skipped.
func drawSpectrograms(ctx context.Context, paths []string, outDir string, log *logger.Logger) (int, error) {
	loader := &audio.Loader{TempDir: transcribeOpts.tempDir}
	written := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		samples, sr, err := loader.Load(ctx, path)
		if err != nil {
			log.Warnf("Skipping %s: %v", path, err)
			continue
		}

		out := filepath.Join(outDir, filepath.Base(path)+".png")
		if err := analysis.SaveSpectrogramImage(samples, sr, out); err != nil {
			log.Warnf("Skipping %s: %v", path, err)
			continue
		}
		log.Infof("Saved spectrogram of %s (%d samples at %d Hz) to %s", path, len(samples), sr, out)
		written++
	}
	return written, nil
}
