package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
)

var (
	papersCategories []string
	papersMax        int
	papersLimit      int
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Manage the shared arXiv paper corpus",
	Long: `Fetch, search and browse the shared corpus of arXiv papers.

Papers are shared across users: their abstracts are indexed once and
everyone can search them.`,
}

var papersFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent papers from arXiv",
	Long: `Fetch the most recent papers from arXiv and index their abstracts.

Papers already in the corpus are skipped; only newly seen papers are
indexed. Defaults to a set of machine-learning categories.`,
	Args: cobra.NoArgs,
	RunE: runPapersFetch,
}

var papersSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantic search over paper abstracts",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersSearch,
}

var papersRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently added papers",
	Args:  cobra.NoArgs,
	RunE:  runPapersRecent,
}

func init() {
	papersFetchCmd.Flags().StringSliceVarP(&papersCategories, "category", "c", nil, "arXiv categories to fetch (repeatable)")
	papersFetchCmd.Flags().IntVarP(&papersMax, "max", "m", 25, "maximum number of papers to fetch")
	papersSearchCmd.Flags().IntVarP(&papersLimit, "limit", "n", 10, "maximum number of results")
	papersRecentCmd.Flags().IntVarP(&papersLimit, "limit", "n", 10, "maximum number of papers to list")

	papersCmd.AddCommand(papersFetchCmd)
	papersCmd.AddCommand(papersSearchCmd)
	papersCmd.AddCommand(papersRecentCmd)
	rootCmd.AddCommand(papersCmd)
}

func runPapersFetch(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	count, err := paperService.Fetch(cmd.Context(), papersCategories, papersMax)
	if err != nil {
		return fmt.Errorf("failed to fetch papers: %w", err)
	}

	cmd.Printf("Indexed %d new paper(s)\n", count)
	return nil
}

func runPapersSearch(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	papers, err := paperService.Search(cmd.Context(), args[0], papersLimit)
	if err != nil {
		return fmt.Errorf("failed to search papers: %w", err)
	}

	if len(papers) == 0 {
		cmd.Println("No papers found.")
		return nil
	}

	cmd.Println("Results:")
	printPapers(cmd, papers)
	return nil
}

func runPapersRecent(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	papers, err := paperService.Recent(cmd.Context(), papersLimit)
	if err != nil {
		return fmt.Errorf("failed to list papers: %w", err)
	}

	if len(papers) == 0 {
		cmd.Println("No papers in the corpus yet. Run 'paperpilot papers fetch' first.")
		return nil
	}

	cmd.Println("Recent papers:")
	printPapers(cmd, papers)
	return nil
}

func printPapers(cmd *cobra.Command, papers []domain.Document) {
	for i, p := range papers {
		cmd.Printf("%d. %s\n", i+1, p.Title)
		if p.ExternalID != nil {
			cmd.Printf("   arXiv: %s", *p.ExternalID)
			if !p.Published.IsZero() {
				cmd.Printf("  (%s)", p.Published.Format("2006-01-02"))
			}
			cmd.Println()
		}
		if p.Abstract != "" {
			cmd.Printf("   %s\n", truncate(p.Abstract, 200))
		}
	}
}
