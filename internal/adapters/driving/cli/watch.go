package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/paperpilot/paperpilot-cli/internal/adapters/driving/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest papers dropped into it",
	Long: `Watch a directory and automatically ingest papers dropped into it.

New or changed PDF, text and markdown files are ingested under your
user identity once they stop changing. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	w, err := watcher.New(ingestService, args[0], currentUser())
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (press Ctrl+C to stop)\n", args[0])

	err = w.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
