package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

var (
	askTopK    int
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [document-id] [question]",
	Short: "Ask a question about an ingested document",
	Long: `Ask a question about an ingested document.

The answer is generated strictly from content retrieved from that
document. When the document holds nothing relevant, a fixed not-found
answer is returned instead of a guess. The exchange is appended to the
document's chat history, which later questions see as context.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of context snippets to retrieve (default 5)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "show the snippets the answer was generated from")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistant == nil {
		return errors.New("assistant not configured")
	}

	result, err := assistant.Ask(cmd.Context(), driving.AskRequest{
		DocumentID: args[0],
		UserID:     currentUser(),
		Question:   args[1],
		TopK:       askTopK,
	})
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}

	cmd.Println(result.Answer)

	if askSources && len(result.Snippets) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, s := range result.Snippets {
			cmd.Printf("  [%d] %s\n", i+1, formatSnippetLocation(s))
			cmd.Printf("      %s\n", truncate(s.Text, 160))
		}
	}

	return nil
}

func formatSnippetLocation(s domain.Snippet) string {
	if s.Page == domain.PageUnknown {
		return s.Section
	}
	return fmt.Sprintf("%s, page %d", s.Section, s.Page)
}

func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
