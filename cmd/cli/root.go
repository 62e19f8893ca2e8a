package main

import (
	"github.com/himanishpuri/AcousticScore/pkg/acousticscore"
	"github.com/himanishpuri/AcousticScore/pkg/logger"
	"github.com/spf13/cobra"
)

// Global flags
var (
	dbPath   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "acousticscore",
	Short: "Transcribe a monophonic recording into sheet music",
	Long: `AcousticScore estimates the tempo and the dominant pitch of every
analysis frame of a recording and writes the result as a MusicXML or MIDI
score.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("ACOUSTIC_SCORE_DB", ""), "SQLite database for run history (env: ACOUSTIC_SCORE_DB, empty disables history)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", getEnvOrDefault("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
}

// historyService opens a service that only needs the run history.
func historyService() (acousticscore.Service, error) {
	return acousticscore.NewService(acousticscore.WithHistory(dbPath))
}
