package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/himanishpuri/AcousticScore/pkg/acousticscore"
	"github.com/himanishpuri/AcousticScore/pkg/logger"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past transcription runs (needs --db)",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()

		svc, err := openHistory()
		if err != nil {
			return err
		}
		defer svc.Close()

		runs, err := svc.ListRuns(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("\n📭 No runs recorded")
			return nil
		}

		fmt.Printf("\n📚 Found %d run(s):\n\n", len(runs))
		for i, run := range runs {
			fmt.Printf("%d. %s -> %s (%s)\n", i+1, run.InputPath, run.OutputPath, run.Format)
			fmt.Printf("   ID: %s | %s\n", run.ID, humanize.Time(run.CreatedAt))
			fmt.Printf("   Tempo: %d bpm | Notes: %d | Rests: %d | Duration: %s\n",
				run.TempoBPM, run.Notes, run.Rests, time.Duration(run.DurationMs)*time.Millisecond)
			fmt.Println()
		}
		log.Infof("Listed %d runs", len(runs))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run_id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()

		svc, err := openHistory()
		if err != nil {
			return err
		}
		defer svc.Close()

		id := args[0]
		run, err := svc.GetRun(id)
		if err != nil {
			return fmt.Errorf("run not found (ID: %s): %w", id, err)
		}
		if err := svc.DeleteRun(id); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}

		fmt.Printf("\n✅ Successfully deleted run:\n")
		fmt.Printf("   ID:     %s\n", run.ID)
		fmt.Printf("   Input:  %s\n", run.InputPath)
		fmt.Printf("   Output: %s\n", run.OutputPath)
		log.Infof("Deleted run ID=%s", run.ID)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	historyCmd.AddCommand(historyListCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (acousticscore.Service, error) {
	if dbPath == "" {
		return nil, errors.New("run history needs a database: pass --db or set ACOUSTIC_SCORE_DB")
	}
	svc, err := historyService()
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}
