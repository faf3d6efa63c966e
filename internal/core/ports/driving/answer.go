package driving

import (
	"context"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

// AnswerService is the external collaborator contract: one user turn in,
// one answer with citations out. Callers (CLI, HTTP glue, widgets) hand
// over a raw utterance and render whatever comes back.
type AnswerService interface {
	// Answer runs the full pipeline for one utterance:
	// normalize -> enrich from memory -> retrieve -> assemble ->
	// generate -> persist interaction.
	Answer(ctx context.Context, utterance string) (domain.Answer, error)

	// ClearSession resets short-term memory for the conversation.
	ClearSession()
}

// IndexManager controls the lifecycle of the vector index.
type IndexManager interface {
	// EnsureIndex loads the persisted index, rebuilding from the
	// knowledge sources when the bundle is missing, corrupt or built
	// with a different embedding model.
	EnsureIndex(ctx context.Context) error

	// Reindex forces a full rebuild from current knowledge sources and
	// persists the result.
	Reindex(ctx context.Context) error

	// Stats describes the current index contents.
	Stats() IndexStats
}

// IndexStats describes the state of the vector index.
type IndexStats struct {
	// Passages is the number of indexed passages.
	Passages int

	// Model is the embedding model fingerprint.
	Model string
}
