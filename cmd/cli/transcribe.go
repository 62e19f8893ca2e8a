package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/himanishpuri/AcousticScore/internal/notation"
	"github.com/himanishpuri/AcousticScore/internal/render"
	"github.com/himanishpuri/AcousticScore/pkg/acousticscore"
	"github.com/himanishpuri/AcousticScore/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultInput = "audio/test.mp3"

var transcribeOpts struct {
	out         string
	format      string
	duration    string
	timeSig     string
	tempoPolicy string
	rate        int
	tempDir     string
	spectrogram string
	youtubeURL  string
	title       string
	timeout     time.Duration
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio_file]",
	Short: "Transcribe an audio file into a score",
	Long: `Transcribe loads an audio file (WAV directly, anything else through
ffmpeg), tracks its dominant pitch per frame and writes one note or rest of a
fixed duration per frame. Without an argument ` + defaultInput + ` is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranscribe,
}

func init() {
	f := transcribeCmd.Flags()
	f.StringVarP(&transcribeOpts.out, "out", "o", acousticscore.DefaultOutputPath, "Output score path")
	f.StringVarP(&transcribeOpts.format, "format", "f", "", "Output format: musicxml or midi (default: from --out extension)")
	f.StringVar(&transcribeOpts.duration, "duration", "quarter", "Note length per frame: whole, half, quarter, eighth, 16th or a quarter-note fraction like 1/2")
	f.StringVar(&transcribeOpts.timeSig, "time", notation.CommonTime.String(), "Time signature")
	f.StringVar(&transcribeOpts.tempoPolicy, "tempo-policy", notation.TempoPassthrough.String(), "What to do with a tempo below 1 bpm: passthrough or strict")
	f.IntVar(&transcribeOpts.rate, "rate", 0, "Resample non-WAV input to this rate (0 keeps the source rate)")
	f.StringVar(&transcribeOpts.tempDir, "temp", getEnvOrDefault("ACOUSTIC_TEMP_DIR", os.TempDir()), "Directory for temporary audio files (env: ACOUSTIC_TEMP_DIR)")
	f.StringVar(&transcribeOpts.spectrogram, "spectrogram", "", "Also write a spectrogram PNG to this path")
	f.StringVar(&transcribeOpts.youtubeURL, "youtube-url", "", "Download and transcribe a YouTube video instead of a file")
	f.StringVar(&transcribeOpts.title, "title", "", "Score title")
	f.DurationVar(&transcribeOpts.timeout, "timeout", 5*time.Minute, "Abort after this long")

	rootCmd.AddCommand(transcribeCmd)
}

// resolveOutput settles the output format and path. An explicit --format wins;
// otherwise the --out extension decides. When only --format is given, the
// default output path gets the format's extension.
func resolveOutput(cmd *cobra.Command) (render.Format, string, error) {
	out := transcribeOpts.out
	if transcribeOpts.format == "" {
		return render.FormatFromPath(out), out, nil
	}

	format, err := render.ParseFormat(transcribeOpts.format)
	if err != nil {
		return "", "", err
	}
	if !cmd.Flags().Changed("out") {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + format.Extension()
	}
	return format, out, nil
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	log := logger.GetLogger()
	printBanner()

	input := defaultInput
	if len(args) == 1 {
		input = args[0]
	}
	if transcribeOpts.youtubeURL != "" && len(args) == 1 {
		return fmt.Errorf("cannot specify both an audio file and --youtube-url")
	}

	duration, err := notation.ParseDuration(transcribeOpts.duration)
	if err != nil {
		return err
	}
	ts, err := notation.ParseTimeSignature(transcribeOpts.timeSig)
	if err != nil {
		return err
	}
	policy, err := notation.ParseTempoPolicy(transcribeOpts.tempoPolicy)
	if err != nil {
		return err
	}
	format, out, err := resolveOutput(cmd)
	if err != nil {
		return err
	}

	opts := []acousticscore.Option{
		acousticscore.WithNoteDuration(duration),
		acousticscore.WithTimeSignature(ts),
		acousticscore.WithTempoPolicy(policy),
		acousticscore.WithFormat(format),
		acousticscore.WithOutputPath(out),
		acousticscore.WithSampleRate(transcribeOpts.rate),
		acousticscore.WithTempDir(transcribeOpts.tempDir),
		acousticscore.WithTitle(transcribeOpts.title),
		acousticscore.WithTitleFromTags(true),
		acousticscore.WithSpectrogramImage(transcribeOpts.spectrogram),
		acousticscore.WithHistory(dbPath),
	}

	fmt.Println("🔧 Initializing service...")
	svc, err := acousticscore.NewService(opts...)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), transcribeOpts.timeout)
	defer cancel()

	var res *acousticscore.Result
	if transcribeOpts.youtubeURL != "" {
		fmt.Println("📥 Downloading audio from YouTube...")
		fmt.Println("   This may take a few moments depending on video length")
		res, err = svc.TranscribeURL(ctx, transcribeOpts.youtubeURL)
	} else {
		fmt.Printf("🎵 Transcribing %s...\n", input)
		res, err = svc.Transcribe(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	printResult(res)
	log.Infof("Transcription complete: %s", res.OutputPath)
	return nil
}

func printResult(res *acousticscore.Result) {
	part := res.Score.Part

	fmt.Println("\n✅ Transcription complete!")
	fmt.Printf("   Output:   %s (%s", res.OutputPath, res.Format)
	if info, err := os.Stat(res.OutputPath); err == nil {
		fmt.Printf(", %s", humanize.Bytes(uint64(info.Size())))
	}
	fmt.Println(")")
	fmt.Printf("   Audio:    %s at %d Hz\n", res.Duration.Round(time.Millisecond), res.SampleRate)
	fmt.Printf("   Tempo:    %d bpm (estimated %.2f)\n", part.Tempo.BPM, res.RawTempo)
	if res.TempoSuspicious {
		fmt.Println("   ⚠️  Tempo estimate is below 1 bpm; the score carries it as is")
	}
	fmt.Printf("   Meter:    %s\n", part.TimeSignature)
	fmt.Printf("   Events:   %s (%s notes, %s rests)\n",
		humanize.Comma(int64(res.Frames)), humanize.Comma(int64(res.Notes)), humanize.Comma(int64(res.Rests)))
	fmt.Printf("   Beats:    %d\n", len(res.BeatTimes))
	if res.RunID != "" {
		fmt.Printf("   Run ID:   %s\n", res.RunID)
	}
}
