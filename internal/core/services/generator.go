package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
	"github.com/crescentlabs/crescentbot/internal/logger"
)

// Generation defaults.
const (
	defaultAnswerMaxTokens   = 256
	defaultAnswerTemperature = 0.2
)

// GeneratorService turns an assembled context block and a question into
// answer text via the configured LLM.
type GeneratorService struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewGeneratorService creates a generator. The prompt store is optional;
// without one the embedded default templates are used.
func NewGeneratorService(llm driven.LLMService) *GeneratorService {
	return &GeneratorService{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *GeneratorService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// HasModel reports whether a generation backend is configured.
func (s *GeneratorService) HasModel() bool {
	return s.llm != nil
}

// Generate produces a grounded answer from the context block.
func (s *GeneratorService) Generate(ctx context.Context, question, contextBlock string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: no model configured", domain.ErrGenerationFailed)
	}

	template := s.loadPrompt(driven.PromptAnswer, driven.DefaultAnswerTemplate)
	prompt := fmt.Sprintf(template, contextBlock, question)
	logger.Debug("Generating grounded answer with %s", s.llm.ModelName())

	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   defaultAnswerMaxTokens,
		Temperature: defaultAnswerTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return strings.TrimSpace(text), nil
}

// Fallback produces an ungrounded answer when retrieval found nothing
// usable. Callers must tag the result as a fallback.
func (s *GeneratorService) Fallback(ctx context.Context, question string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: no model configured", domain.ErrGenerationFailed)
	}

	template := s.loadPrompt(driven.PromptFallback, driven.DefaultFallbackTemplate)
	prompt := fmt.Sprintf(template, question)
	logger.Debug("Generating fallback answer with %s", s.llm.ModelName())

	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   defaultAnswerMaxTokens,
		Temperature: defaultAnswerTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return strings.TrimSpace(text), nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *GeneratorService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
