package driven

import (
	"context"
	"time"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

// MemoryStore persists long-term conversational memory.
// Backed by SQLite. The interaction log is append-only: each write is
// an independent, atomic record insertion that must not corrupt
// concurrent reads.
type MemoryStore interface {
	// AppendInteraction records one answered query. Interactions are
	// never mutated or deleted afterwards.
	AppendInteraction(ctx context.Context, it domain.Interaction) error

	// RecentInteractions returns up to limit interactions, most recent
	// first.
	RecentInteractions(ctx context.Context, limit int) ([]domain.Interaction, error)

	// LogQuery records a query with its best retrieval score for
	// observability. The not-found path logs score 0.0.
	LogQuery(ctx context.Context, query string, score float64, at time.Time) error

	// Close releases resources.
	Close() error
}
