package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driving"
	"github.com/crescentlabs/crescentbot/internal/knowledge"
	"github.com/crescentlabs/crescentbot/internal/logger"
)

// Ensure IndexManagerService implements the interface.
var _ driving.IndexManager = (*IndexManagerService)(nil)

// IndexManagerService controls the vector index lifecycle: loading the
// persisted bundle, rebuilding it from the knowledge sources when it
// cannot be trusted, and reporting its state.
type IndexManagerService struct {
	loader   *knowledge.Loader
	index    driven.VectorIndex
	dataDir  string
	indexDir string

	// mu serialises rebuilds; retrievals stay lock-free on the index's
	// own read path.
	mu    sync.Mutex
	stale atomic.Bool
}

// NewIndexManagerService creates an index manager over the knowledge
// directory and the index bundle directory.
func NewIndexManagerService(
	loader *knowledge.Loader,
	index driven.VectorIndex,
	dataDir, indexDir string,
) *IndexManagerService {
	return &IndexManagerService{
		loader:   loader,
		index:    index,
		dataDir:  dataDir,
		indexDir: indexDir,
	}
}

// EnsureIndex loads the persisted bundle, rebuilding when it is
// missing, corrupt, built with a different embedding model, or marked
// stale by the knowledge watcher.
func (s *IndexManagerService) EnsureIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale.Load() {
		logger.Info("Knowledge sources changed, rebuilding index")
		return s.rebuild(ctx)
	}

	err := s.index.Load(s.indexDir)
	if err == nil {
		logger.Debug("Index loaded: %d passages", s.index.Len())
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrIndexMissing):
		logger.Info("No persisted index, building from knowledge sources")
	case errors.Is(err, domain.ErrIndexCorrupt):
		logger.Warn("Persisted index unreadable, rebuilding: %v", err)
	case errors.Is(err, domain.ErrModelMismatch):
		logger.Warn("Embedding model changed, rebuilding: %v", err)
	default:
		return fmt.Errorf("loading index: %w", err)
	}
	return s.rebuild(ctx)
}

// Reindex forces a full rebuild from current knowledge sources and
// persists the result.
func (s *IndexManagerService) Reindex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuild(ctx)
}

// MarkStale flags the index for rebuild on the next EnsureIndex call.
// Invoked by the knowledge directory watcher.
func (s *IndexManagerService) MarkStale() {
	s.stale.Store(true)
}

// Stale reports whether a rebuild is pending.
func (s *IndexManagerService) Stale() bool {
	return s.stale.Load()
}

// Stats describes the current index contents.
func (s *IndexManagerService) Stats() driving.IndexStats {
	return driving.IndexStats{
		Passages: s.index.Len(),
		Model:    s.index.ModelName(),
	}
}

// rebuild loads the knowledge sources, builds the index and persists
// the bundle. An empty knowledge base yields a valid empty index.
// Caller must hold mu.
func (s *IndexManagerService) rebuild(ctx context.Context) error {
	passages, err := s.loader.Load(s.dataDir)
	if errors.Is(err, domain.ErrEmptyKnowledgeBase) {
		logger.Warn("Knowledge base is empty, building empty index")
		passages = nil
	} else if err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}

	if err := s.index.Build(ctx, passages); err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	if err := s.index.Save(s.indexDir); err != nil {
		return fmt.Errorf("persisting index: %w", err)
	}

	s.stale.Store(false)
	logger.Info("Index rebuilt: %d passages", s.index.Len())
	return nil
}
