// Package cli implements the CrescentBot command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driving"
	"github.com/crescentlabs/crescentbot/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by main before Execute.
var (
	answerService    driving.AnswerService
	indexManager     driving.IndexManager
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "crescentbot",
	Short: "Question answering for Crescent University",
	Long: `CrescentBot answers questions about Crescent University from a local
knowledge base: courses, departments, admissions, fees and campus life.
Answers are retrieved from indexed passages and grounded before
generation; sources are cited alongside each answer.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"print pipeline details to stderr")
}

// SetServices wires the driving-side services. Must be called before
// Execute.
func SetServices(answer driving.AnswerService, index driving.IndexManager) {
	answerService = answer
	indexManager = index
}

// SetBackends wires the model backends used by status checks.
func SetBackends(embedding driven.EmbeddingService, llm driven.LLMService) {
	embeddingService = embedding
	llmService = llm
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
