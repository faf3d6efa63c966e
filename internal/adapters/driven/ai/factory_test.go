package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEmbeddingService_DefaultsToOllama(t *testing.T) {
	svc, err := CreateEmbeddingService(Settings{})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "all-minilm", svc.ModelName())
}

func TestCreateEmbeddingService_UnknownBackend(t *testing.T) {
	_, err := CreateEmbeddingService(Settings{Backend: "cohere"})
	assert.ErrorContains(t, err, "unknown embedding backend")
}

func TestCreateLLMService_DefaultsToOllama(t *testing.T) {
	svc, err := CreateLLMService(Settings{})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestCreateLLMService_OpenAIRequiresKey(t *testing.T) {
	_, err := CreateLLMService(Settings{Backend: "openai"})
	assert.Error(t, err)
}

func TestCreateLLMService_UnknownBackend(t *testing.T) {
	_, err := CreateLLMService(Settings{Backend: "bedrock"})
	assert.ErrorContains(t, err, "unknown llm backend")
}
