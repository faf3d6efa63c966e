package driven

import "context"

// LLMService produces natural-language answers from assembled context.
//
// Implementations may include:
//   - Ollama (local sequence-to-sequence or decoder models)
//   - OpenAI (hosted chat models, used as the fallback path)
type LLMService interface {
	// Generate produces text completion from a prompt. Temperature 0
	// requests deterministic decoding; sampling otherwise.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens bounds the generated output length.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
