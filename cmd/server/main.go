//go:build !js && !wasm

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/himanishpuri/AcousticScore/internal/storage"
	"github.com/himanishpuri/AcousticScore/pkg/acousticscore"
	"github.com/himanishpuri/AcousticScore/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	port           int
	dbPath         string
	tempDir        string
	sampleRate     int
	allowedOrigins string
	logLevel       string
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

var rootCmd = &cobra.Command{
	Use:          "acousticscore-server",
	Short:        "HTTP API for audio to sheet music transcription",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(lvl)

		var origins []string
		if allowedOrigins == "*" {
			origins = []string{"*"}
		} else {
			for _, o := range strings.Split(allowedOrigins, ",") {
				origins = append(origins, strings.TrimSpace(o))
			}
		}

		var history acousticscore.History
		if dbPath != "" {
			db, err := storage.NewDBClient(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer db.Close()
			history = db
		}

		config := &ServerConfig{
			Port:           port,
			DBPath:         dbPath,
			TempDir:        tempDir,
			SampleRate:     sampleRate,
			AllowedOrigins: origins,
		}
		return NewServer(config, history).Start()
	},
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&port, "port", 8080, "HTTP server port")
	f.StringVar(&dbPath, "db", getEnvOrDefault("ACOUSTIC_SCORE_DB", ""), "SQLite database for run history (empty disables history)")
	f.StringVar(&tempDir, "temp", getEnvOrDefault("ACOUSTIC_TEMP_DIR", os.TempDir()), "Temporary directory")
	f.IntVar(&sampleRate, "rate", 0, "Resample non-WAV uploads to this rate (0 keeps the source rate)")
	f.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
	f.StringVar(&logLevel, "log-level", getEnvOrDefault("LOG_LEVEL", "info"), "Log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.GetLogger().Errorf("Server failed: %v", err)
		os.Exit(1)
	}
}
