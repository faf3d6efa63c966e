// Package ai provides factory functions for creating model service
// adapters from backend settings.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/crescentlabs/crescentbot/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/crescentlabs/crescentbot/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/crescentlabs/crescentbot/internal/adapters/driven/llm/ollama"
	openaillm "github.com/crescentlabs/crescentbot/internal/adapters/driven/llm/openai"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
	"github.com/crescentlabs/crescentbot/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Settings selects and configures one model backend.
type Settings struct {
	// Backend is the provider name: "ollama" (default) or "openai".
	Backend string

	// BaseURL overrides the provider API base URL.
	BaseURL string

	// Model overrides the provider default model.
	Model string

	// APIKey authenticates hosted providers. Ignored by Ollama.
	APIKey string

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// CreateEmbeddingService creates the configured embedding backend.
func CreateEmbeddingService(settings Settings) (driven.EmbeddingService, error) {
	switch settings.Backend {
	case "", "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", settings.Backend)
	}
}

// CreateLLMService creates the configured generation backend.
func CreateLLMService(settings Settings) (driven.LLMService, error) {
	switch settings.Backend {
	case "", "ollama":
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil
	case "openai":
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown llm backend %q", settings.Backend)
	}
}

// ValidateEmbeddingService pings the embedding backend with a bounded
// timeout. A failed ping is not fatal; callers decide whether to warn
// or abort.
func ValidateEmbeddingService(svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		logger.Warn("Embedding backend %s unreachable: %v", svc.ModelName(), err)
		return fmt.Errorf("embedding backend %s: %w", svc.ModelName(), err)
	}
	return nil
}

// ValidateLLMService pings the generation backend with a bounded timeout.
func ValidateLLMService(svc driven.LLMService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		logger.Warn("Generation backend %s unreachable: %v", svc.ModelName(), err)
		return fmt.Errorf("generation backend %s: %w", svc.ModelName(), err)
	}
	return nil
}
