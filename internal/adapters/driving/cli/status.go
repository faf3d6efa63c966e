package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// pingTimeout bounds each backend connectivity check.
const pingTimeout = 5 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and backend status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexManager != nil {
		stats := indexManager.Stats()
		cmd.Printf("Index:      %d passages (%s)\n", stats.Passages, stats.Model)
	} else {
		cmd.Println("Index:      not configured")
	}

	cmd.Printf("Embeddings: %s\n", backendStatus(embeddingPing))
	cmd.Printf("Model:      %s\n", backendStatus(llmPing))
	return nil
}

func embeddingPing(ctx context.Context) (string, error) {
	if embeddingService == nil {
		return "", errNotConfigured
	}
	return embeddingService.ModelName(), embeddingService.Ping(ctx)
}

func llmPing(ctx context.Context) (string, error) {
	if llmService == nil {
		return "", errNotConfigured
	}
	return llmService.ModelName(), llmService.Ping(ctx)
}

var errNotConfigured = notConfiguredError{}

type notConfiguredError struct{}

func (notConfiguredError) Error() string { return "not configured" }

// backendStatus runs a ping with a bounded timeout and renders the
// outcome as a one-line status.
func backendStatus(ping func(context.Context) (string, error)) string {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	model, err := ping(ctx)
	if err == errNotConfigured {
		return "not configured"
	}
	if err != nil {
		return model + " (unreachable)"
	}
	return model + " (ok)"
}
