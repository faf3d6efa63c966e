package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Starts a conversational session. Follow-up questions inherit
context from earlier turns ("what about 200 level?").

Commands inside the session:
  /clear    forget the current conversation context
  /quit     end the session (also: exit, quit)`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if answerService == nil || indexManager == nil {
		return errors.New("answer service not configured")
	}

	ctx := context.Background()
	if err := indexManager.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	stats := indexManager.Stats()
	cmd.Printf("CrescentBot ready (%d passages indexed). Type /quit to leave.\n\n", stats.Passages)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "/quit", "quit", "exit":
			cmd.Println("Goodbye!")
			return nil
		case "/clear":
			answerService.ClearSession()
			cmd.Println("Conversation context cleared.")
			continue
		}

		answer, err := answerService.Answer(ctx, line)
		if err != nil {
			cmd.Printf("error: %v\n", err)
			continue
		}

		cmd.Printf("bot> %s\n", answer.Text)
		if len(answer.Cited) > 0 {
			for _, c := range answer.Cited {
				cmd.Printf("     [%d] %s (%.2f)\n", c.Rank, c.Passage.Source, c.Score)
			}
		}
		cmd.Println()
	}
	return scanner.Err()
}
