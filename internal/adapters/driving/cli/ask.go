package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Answers one question against the knowledge base and exits.
The index is loaded (or rebuilt) automatically before answering.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil || indexManager == nil {
		return errors.New("answer service not configured")
	}

	ctx := context.Background()
	if err := indexManager.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	answer, err := answerService.Answer(ctx, args[0])
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	outputAnswerText(cmd, answer)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer domain.Answer) {
	cmd.Println(answer.Text)

	if len(answer.Cited) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, c := range answer.Cited {
			cmd.Printf("  [%d] %s (%.2f)\n", c.Rank, c.Passage.Source, c.Score)
		}
	}
	if answer.Fallback {
		cmd.Println()
		cmd.Println("Note: this answer came from a general model, not the knowledge base.")
	}
}
