package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits        []domain.ScoredPassage
	retrieveErr error
	loadErr     error
	buildErr    error
	saveErr     error

	built      []domain.Passage
	buildCalls int
	saveCalls  int
	loadCalls  int
	lastQuery  string
}

func (m *mockVectorIndex) Build(_ context.Context, passages []domain.Passage) error {
	m.buildCalls++
	if m.buildErr != nil {
		return m.buildErr
	}
	m.built = passages
	return nil
}

func (m *mockVectorIndex) Retrieve(_ context.Context, query string, topK int) ([]domain.ScoredPassage, error) {
	m.lastQuery = query
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	if topK > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:topK], nil
}

func (m *mockVectorIndex) Save(_ string) error {
	m.saveCalls++
	return m.saveErr
}

func (m *mockVectorIndex) Load(_ string) error {
	m.loadCalls++
	return m.loadErr
}

func (m *mockVectorIndex) Len() int          { return len(m.built) }
func (m *mockVectorIndex) ModelName() string { return "mock-embed" }
func (m *mockVectorIndex) Close() error      { return nil }

// mockLLM implements driven.LLMService for testing. It echoes a canned
// answer and records the prompts it saw.
type mockLLM struct {
	answer      string
	generateErr error
	prompts     []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	if m.answer != "" {
		return m.answer, nil
	}
	return "mock answer", nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) sawPromptContaining(substr string) bool {
	for _, p := range m.prompts {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

// mockMemory implements driven.MemoryStore in memory.
type mockMemory struct {
	mu           sync.Mutex
	interactions []domain.Interaction
	logged       []loggedQuery
	appendErr    error
}

type loggedQuery struct {
	query string
	score float64
}

func (m *mockMemory) AppendInteraction(_ context.Context, it domain.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.interactions = append(m.interactions, it)
	return nil
}

func (m *mockMemory) RecentInteractions(_ context.Context, limit int) ([]domain.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.interactions)
	if limit > n {
		limit = n
	}
	// Most recent first.
	out := make([]domain.Interaction, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.interactions[i])
	}
	return out, nil
}

func (m *mockMemory) LogQuery(_ context.Context, query string, score float64, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logged = append(m.logged, loggedQuery{query: query, score: score})
	return nil
}

func (m *mockMemory) Close() error { return nil }
