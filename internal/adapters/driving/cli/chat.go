package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/paperpilot/paperpilot-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [document-id]",
	Short: "Chat with a paper in the terminal",
	Long: `Launch the interactive chat interface.

Without arguments a picker lists your ingested documents; with a
document ID the chat opens directly on that document. Answers are
grounded strictly in the document content.

Controls:
  ↑/k, ↓/j - Navigate the document list
  Enter    - Select / Ask
  Esc      - Back / Quit
  Ctrl+C   - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if assistant == nil {
		return errors.New("assistant not configured")
	}
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ports := &tui.Ports{
		Assistant: assistant,
		Library:   libraryService,
	}

	app, err := tui.NewApp(ports, currentUser())
	if err != nil {
		return fmt.Errorf("failed to create chat interface: %w", err)
	}
	app.WithContext(cmd.Context())

	if len(args) == 1 {
		doc, err := libraryService.Get(cmd.Context(), args[0], currentUser())
		if err != nil {
			return fmt.Errorf("failed to open document: %w", err)
		}
		app.WithDocument(doc)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface error: %w", err)
	}

	return nil
}
