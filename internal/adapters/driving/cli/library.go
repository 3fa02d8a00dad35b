package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document and everything derived from it",
	Long: `Delete a document together with its index entries, ingestion record
and chat history.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex [document-id]",
	Short: "Re-run the ingestion pipeline for a document",
	Long: `Wipe a document's index entries and re-ingest it from the stored
file. Useful after changing the embedding model or chunking settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(reindexCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	docs, err := libraryService.List(cmd.Context(), currentUser())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents yet. Run 'paperpilot ingest <file>' to add one.")
		return nil
	}

	cmd.Println("Documents:")
	for _, d := range docs {
		cmd.Printf("  %s  %s\n", d.ID, d.Title)
		cmd.Printf("    added %s\n", d.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if err := ingestService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	chunks, err := ingestService.Reindex(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to reindex document: %w", err)
	}

	cmd.Printf("Reindexed document %s (%d chunks)\n", args[0], chunks)
	return nil
}
