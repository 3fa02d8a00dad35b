package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [document-id]",
	Short: "Summarise an ingested document",
	Long: `Generate a concise academic summary of an ingested document.

The summary is built from representative chunks of the document itself
and covers the problem, approach and findings.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if assistant == nil {
		return errors.New("assistant not configured")
	}

	summary, err := assistant.Summarize(cmd.Context(), args[0], currentUser())
	if err != nil {
		return fmt.Errorf("failed to summarise document: %w", err)
	}

	cmd.Println(summary)
	return nil
}
