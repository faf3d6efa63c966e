package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
	"github.com/crescentlabs/crescentbot/internal/logger"
)

// Retrieval defaults.
const (
	DefaultTopK            = 10
	DefaultMaxPassages     = 3
	DefaultSimilarityFloor = 0.45
)

// RetrieverConfig holds the retrieval thresholds.
type RetrieverConfig struct {
	// TopK is how many candidates to request from the index.
	TopK int

	// MaxPassages caps how many passages enter the context block.
	MaxPassages int

	// SimilarityFloor discards candidates scoring below it.
	SimilarityFloor float64
}

// RetrieverService retrieves relevant passages and assembles the
// citation-numbered context block handed to the generator.
type RetrieverService struct {
	index driven.VectorIndex
	cfg   RetrieverConfig
}

// NewRetrieverService creates a retriever over the vector index.
// Zero config values fall back to the defaults.
func NewRetrieverService(index driven.VectorIndex, cfg RetrieverConfig) *RetrieverService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.MaxPassages <= 0 {
		cfg.MaxPassages = DefaultMaxPassages
	}
	if cfg.SimilarityFloor == 0 {
		cfg.SimilarityFloor = DefaultSimilarityFloor
	}
	return &RetrieverService{index: index, cfg: cfg}
}

// Retrieve returns the passages scoring at or above the similarity
// floor, best first, with ranks renumbered after filtering.
func (s *RetrieverService) Retrieve(ctx context.Context, query string) ([]domain.ScoredPassage, error) {
	hits, err := s.index.Retrieve(ctx, query, s.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve passages: %w", err)
	}
	logger.Debug("Retrieved %d candidates for %q", len(hits), query)

	kept := hits[:0:0]
	for _, h := range hits {
		if h.Score < s.cfg.SimilarityFloor {
			continue
		}
		h.Rank = len(kept) + 1
		kept = append(kept, h)
	}
	logger.Debug("%d candidates above similarity floor %.2f", len(kept), s.cfg.SimilarityFloor)
	return kept, nil
}

// ContextPassages returns the passages that enter the context block:
// the best MaxPassages of the filtered candidates.
func (s *RetrieverService) ContextPassages(passages []domain.ScoredPassage) []domain.ScoredPassage {
	if len(passages) > s.cfg.MaxPassages {
		return passages[:s.cfg.MaxPassages]
	}
	return passages
}

// ConstructContext renders up to MaxPassages passages as the numbered
// context block: "[i] source" on one line, the passage text on the
// next, entries separated by a blank line.
func (s *RetrieverService) ConstructContext(passages []domain.ScoredPassage) string {
	passages = s.ContextPassages(passages)

	entries := make([]string, len(passages))
	for i, p := range passages {
		entries[i] = fmt.Sprintf("[%d] %s\n%s", i+1, p.Passage.Source, p.Passage.Text)
	}
	return strings.Join(entries, "\n\n")
}
