// Package memory provides an in-memory implementation of the memory
// store, used for tests and for running without a persistent database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MemoryStore = (*Store)(nil)

// Store is an in-memory implementation of driven.MemoryStore.
// Interactions are kept in append order; nothing survives a restart.
type Store struct {
	mu           sync.RWMutex
	interactions []domain.Interaction
	queryLog     []QueryRecord
}

// QueryRecord is one logged query with its best retrieval score.
type QueryRecord struct {
	Query string
	Score float64
	At    time.Time
}

// NewStore creates a new in-memory memory store.
func NewStore() *Store {
	return &Store{}
}

// AppendInteraction records one answered query.
func (s *Store) AppendInteraction(_ context.Context, it domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now().UTC()
	}
	s.interactions = append(s.interactions, it)
	return nil
}

// RecentInteractions returns up to limit interactions, most recent first.
func (s *Store) RecentInteractions(_ context.Context, limit int) ([]domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.interactions) {
		limit = len(s.interactions)
	}
	result := make([]domain.Interaction, 0, limit)
	for i := len(s.interactions) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.interactions[i])
	}
	return result, nil
}

// LogQuery records a query with its best retrieval score.
func (s *Store) LogQuery(_ context.Context, query string, score float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryLog = append(s.queryLog, QueryRecord{Query: query, Score: score, At: at})
	return nil
}

// QueryLog returns a copy of the logged queries in append order.
func (s *Store) QueryLog() []QueryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]QueryRecord, len(s.queryLog))
	copy(out, s.queryLog)
	return out
}

// Close releases resources. A no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
