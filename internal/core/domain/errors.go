package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChunking indicates chunker parameters that cannot
	// produce valid passages (overlap >= max tokens). Configuration
	// errors are reported immediately, never silently defaulted.
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrEmptyKnowledgeBase indicates ingestion produced zero passages
	// across all sources. Building an index from nothing is a
	// reportable failure unless the caller explicitly tolerates it.
	ErrEmptyKnowledgeBase = errors.New("knowledge base is empty")

	// ErrIndexMissing indicates the persisted index bundle is absent.
	// Distinct from a generic I/O error so callers can trigger a
	// fresh build instead of failing.
	ErrIndexMissing = errors.New("index not found")

	// ErrIndexCorrupt indicates the index and metadata files disagree
	// (one present without the other, or row counts mismatched).
	// Proceeding would silently misalign scores and passages, so the
	// condition forces a rebuild.
	ErrIndexCorrupt = errors.New("index corrupt or incomplete")

	// ErrModelMismatch indicates the persisted index was built with a
	// different embedding model than the one configured. Mismatched
	// models produce meaningless similarity scores.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrEmbeddingUnavailable indicates the embedding backend is
	// unreachable or misconfigured. Retrieval is impossible without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationFailed indicates the generation backend failed.
	// This is a system fault, distinct from a genuine "I don't know"
	// answer, which is a valid output.
	ErrGenerationFailed = errors.New("answer generation failed")
)
