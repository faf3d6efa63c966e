package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the vector index from the knowledge sources",
	Long: `Re-reads all knowledge sources, re-embeds every passage and
persists a fresh index bundle. Use after editing the knowledge files.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if indexManager == nil {
		return errors.New("index manager not configured")
	}

	cmd.Println("Rebuilding index...")
	if err := indexManager.Reindex(context.Background()); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	stats := indexManager.Stats()
	cmd.Printf("Indexed %d passages with %s.\n", stats.Passages, stats.Model)
	return nil
}
