package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

func scoredPassages() []domain.ScoredPassage {
	return []domain.ScoredPassage{
		{Passage: domain.Passage{ID: "a", Source: "crescent_qa.json", Text: "Admission needs five credits."}, Score: 0.91, Rank: 1},
		{Passage: domain.Passage{ID: "b", Source: "crescent_qa.json", Text: "Fees are per semester."}, Score: 0.62, Rank: 2},
		{Passage: domain.Passage{ID: "c", Source: "handbook.txt", Text: "Hostel rules apply."}, Score: 0.48, Rank: 3},
		{Passage: domain.Passage{ID: "d", Source: "handbook.txt", Text: "Dress code section."}, Score: 0.21, Rank: 4},
	}
}

func TestRetrieve_FiltersBelowFloor(t *testing.T) {
	index := &mockVectorIndex{hits: scoredPassages()}
	r := NewRetrieverService(index, RetrieverConfig{})

	hits, err := r.Retrieve(context.Background(), "admission requirements")
	require.NoError(t, err)

	// 0.21 is below the 0.45 floor; the rest survive with fresh ranks.
	require.Len(t, hits, 3)
	for i, h := range hits {
		assert.Equal(t, i+1, h.Rank)
		assert.GreaterOrEqual(t, h.Score, DefaultSimilarityFloor)
	}
}

func TestRetrieve_CustomFloor(t *testing.T) {
	index := &mockVectorIndex{hits: scoredPassages()}
	r := NewRetrieverService(index, RetrieverConfig{SimilarityFloor: 0.9})

	hits, err := r.Retrieve(context.Background(), "admission")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].Passage.ID)
}

func TestRetrieve_IndexError(t *testing.T) {
	index := &mockVectorIndex{retrieveErr: domain.ErrEmbeddingUnavailable}
	r := NewRetrieverService(index, RetrieverConfig{})

	_, err := r.Retrieve(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestConstructContext_Format(t *testing.T) {
	r := NewRetrieverService(&mockVectorIndex{}, RetrieverConfig{MaxPassages: 2})

	got := r.ConstructContext(scoredPassages())
	want := "[1] crescent_qa.json\nAdmission needs five credits.\n\n" +
		"[2] crescent_qa.json\nFees are per semester."
	assert.Equal(t, want, got)
}

func TestConstructContext_Empty(t *testing.T) {
	r := NewRetrieverService(&mockVectorIndex{}, RetrieverConfig{})
	assert.Empty(t, r.ConstructContext(nil))
}

func TestContextPassages_Cap(t *testing.T) {
	r := NewRetrieverService(&mockVectorIndex{}, RetrieverConfig{MaxPassages: 3})

	assert.Len(t, r.ContextPassages(scoredPassages()), 3)
	assert.Len(t, r.ContextPassages(scoredPassages()[:2]), 2)
}
