// Package cli provides the command-line interface for paperpilot.
// It is a driving adapter: commands talk to the core exclusively
// through the driving ports and are wired up by main via SetServices.
package cli

import (
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
	"github.com/paperpilot/paperpilot-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main. Commands check for nil before use so the
// CLI degrades gracefully when run without full wiring (e.g. in tests).
var (
	ingestService   driving.IngestService
	assistant       driving.Assistant
	paperService    driving.PaperDirectory
	libraryService  driving.LibraryService
	settingsService driving.SettingsService
)

var (
	verboseFlag bool
	userFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "paperpilot",
	Short: "A local research-paper assistant",
	Long: `Paperpilot indexes research papers and answers questions about them.

Ingest PDF or plain-text papers into a local index, then ask questions
whose answers are grounded strictly in the document content. A shared
arXiv corpus can be fetched and searched semantically alongside your
own uploads.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

// Services aggregates the driving ports the CLI needs.
type Services struct {
	Ingest    driving.IngestService
	Assistant driving.Assistant
	Papers    driving.PaperDirectory
	Library   driving.LibraryService
	Settings  driving.SettingsService
}

// SetServices injects the core services into the CLI commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	assistant = s.Assistant
	paperService = s.Papers
	libraryService = s.Library
	settingsService = s.Settings
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user identity for document scoping (defaults to the OS username)")
}

// currentUser resolves the identity used for ownership and chat scoping.
func currentUser() string {
	if userFlag != "" {
		return userFlag
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "default"
}
