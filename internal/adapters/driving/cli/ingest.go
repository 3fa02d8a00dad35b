package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a paper into the local index",
	Long: `Ingest a PDF or plain-text paper into the local index.

The file is extracted, chunked, embedded and written to the vector
index under your user identity. Ingesting the same document twice is a
no-op: the recorded chunk count is returned without re-processing.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	doc, chunks, err := ingestService.IngestFile(cmd.Context(), args[0], currentUser())
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", args[0], err)
	}

	cmd.Printf("Ingested %q\n", doc.Title)
	cmd.Printf("  ID:     %s\n", doc.ID)
	cmd.Printf("  Chunks: %d\n", chunks)
	return nil
}
