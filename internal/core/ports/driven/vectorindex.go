package driven

import (
	"context"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

// VectorIndex stores passage embeddings and answers nearest-neighbour
// queries. It is a pure mechanism: no similarity floor is applied here,
// that policy belongs to the retriever.
//
// The index owns its embedding rows and passage metadata as a single
// unit. Row i always describes passage i; the two are persisted and
// restored together, never independently.
type VectorIndex interface {
	// Build embeds all passages in one batch and replaces the index
	// contents atomically. Concurrent retrievals observe either the
	// old or the new index, never a partial one. An empty passage set
	// builds a valid empty index rather than failing.
	Build(ctx context.Context, passages []domain.Passage) error

	// Save persists the index and metadata as a co-located pair under
	// dir. Both files are written or neither is considered valid.
	Save(dir string) error

	// Load restores the pair from dir. Returns domain.ErrIndexMissing
	// when either file is absent, domain.ErrIndexCorrupt when the
	// files disagree, and domain.ErrModelMismatch when the persisted
	// model fingerprint differs from the configured embedding model.
	Load(dir string) error

	// Retrieve embeds the query with the build-time model and returns
	// up to topK passages ordered by descending cosine similarity.
	// An empty index returns an empty slice, never an error.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.ScoredPassage, error)

	// Len returns the number of indexed passages.
	Len() int

	// ModelName returns the fingerprint of the embedding model the
	// current contents were built with.
	ModelName() string

	// Close releases resources.
	Close() error
}
