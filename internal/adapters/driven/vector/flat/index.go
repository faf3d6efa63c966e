// Package flat provides an exact inner-product vector index held in
// memory and persisted as a two-file bundle. Vectors are stored
// L2-normalized, so the inner product of a row with a normalized query
// is the cosine similarity.
package flat

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Bundle file names. The pair is always written and read together.
const (
	IndexFile    = "index.bin"
	MetadataFile = "metadata.json"
)

// index.bin header constants.
const (
	magic         = "CBIX"
	formatVersion = 1
)

// Index is a flat (exhaustive) cosine similarity index.
//
// Reads take the read lock; Build swaps the full contents under the
// write lock, so a rebuild never overlaps retrievals and readers see
// either the old rows or the new rows, never a mix.
type Index struct {
	embedder driven.EmbeddingService

	mu       sync.RWMutex
	model    string
	dims     int
	vectors  [][]float32
	passages []domain.Passage
}

// passageRecord is the on-disk metadata representation. The array
// order is positionally aligned with index rows: record i describes
// vector i.
type passageRecord struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text"`
	Page   int    `json:"page,omitempty"`
}

// New creates an empty index bound to an embedding service. The same
// service embeds passages at build time and queries at retrieval time,
// which keeps the model identical on both sides.
func New(embedder driven.EmbeddingService) *Index {
	return &Index{
		embedder: embedder,
		model:    embedder.ModelName(),
		dims:     embedder.Dimensions(),
	}
}

// Build embeds all passages in one batch and atomically replaces the
// index contents. An empty passage set produces a valid empty index of
// the model's native dimensionality so callers can query an empty
// knowledge base without crashing.
func (ix *Index) Build(ctx context.Context, passages []domain.Passage) error {
	model := ix.embedder.ModelName()
	dims := ix.embedder.Dimensions()

	if len(passages) == 0 {
		ix.mu.Lock()
		ix.model = model
		ix.dims = dims
		ix.vectors = nil
		ix.passages = nil
		ix.mu.Unlock()
		return nil
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	embeddings, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embedding passages: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) != len(passages) {
		return fmt.Errorf("embedding count %d does not match passage count %d",
			len(embeddings), len(passages))
	}

	vectors := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		vectors[i] = normalize(emb)
	}

	// Build-then-swap: retrievals in flight keep the old rows.
	ix.mu.Lock()
	ix.model = model
	ix.dims = dims
	ix.vectors = vectors
	ix.passages = append([]domain.Passage(nil), passages...)
	ix.mu.Unlock()
	return nil
}

// Retrieve embeds the query, normalizes it and returns up to topK
// passages ordered by descending cosine similarity. No similarity
// floor is applied here; that policy belongs to the retriever.
func (ix *Index) Retrieve(ctx context.Context, query string, topK int) ([]domain.ScoredPassage, error) {
	if topK <= 0 {
		return nil, nil
	}

	ix.mu.RLock()
	vectors := ix.vectors
	passages := ix.passages
	ix.mu.RUnlock()

	if len(vectors) == 0 {
		return nil, nil
	}

	emb, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", domain.ErrEmbeddingUnavailable, err)
	}
	q := normalize(emb)

	type scored struct {
		idx   int
		score float64
	}
	hits := make([]scored, len(vectors))
	for i, v := range vectors {
		hits[i] = scored{idx: i, score: dot(q, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})

	if topK > len(hits) {
		topK = len(hits)
	}
	results := make([]domain.ScoredPassage, topK)
	for rank, h := range hits[:topK] {
		results[rank] = domain.ScoredPassage{
			Passage: passages[h.idx],
			Score:   h.score,
			Rank:    rank + 1,
		}
	}
	return results, nil
}

// Save persists the vectors and metadata under dir as a pair. Each
// file is written to a temp path and renamed into place, so a crashed
// save never leaves a truncated file behind.
func (ix *Index) Save(dir string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	indexData, err := ix.encodeVectors()
	if err != nil {
		return fmt.Errorf("encoding vectors: %w", err)
	}

	records := make([]passageRecord, len(ix.passages))
	for i, p := range ix.passages {
		records[i] = passageRecord{
			ID: p.ID, Source: p.Source, Title: p.Title, Text: p.Text, Page: p.Page,
		}
	}
	metaData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	if err := writeAtomic(filepath.Join(dir, IndexFile), indexData); err != nil {
		return fmt.Errorf("writing index file: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, MetadataFile), metaData); err != nil {
		return fmt.Errorf("writing metadata file: %w", err)
	}
	return nil
}

// Load restores the pair from dir. Either file being absent is
// domain.ErrIndexMissing; disagreeing files are domain.ErrIndexCorrupt;
// a fingerprint from a different embedding model is
// domain.ErrModelMismatch. Callers treat all three as "rebuild".
func (ix *Index) Load(dir string) error {
	indexPath := filepath.Join(dir, IndexFile)
	metaPath := filepath.Join(dir, MetadataFile)

	indexData, err := os.ReadFile(indexPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrIndexMissing, indexPath)
	} else if err != nil {
		return fmt.Errorf("reading index file: %w", err)
	}

	metaData, err := os.ReadFile(metaPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrIndexMissing, metaPath)
	} else if err != nil {
		return fmt.Errorf("reading metadata file: %w", err)
	}

	model, dims, vectors, err := decodeVectors(indexData)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexCorrupt, err)
	}

	var records []passageRecord
	if err := json.Unmarshal(metaData, &records); err != nil {
		return fmt.Errorf("%w: decoding metadata: %v", domain.ErrIndexCorrupt, err)
	}
	if len(records) != len(vectors) {
		return fmt.Errorf("%w: %d metadata records for %d vectors",
			domain.ErrIndexCorrupt, len(records), len(vectors))
	}

	if model != ix.embedder.ModelName() {
		return fmt.Errorf("%w: index built with %q, configured model is %q",
			domain.ErrModelMismatch, model, ix.embedder.ModelName())
	}

	passages := make([]domain.Passage, len(records))
	for i, r := range records {
		passages[i] = domain.Passage{
			ID: r.ID, Source: r.Source, Title: r.Title, Text: r.Text, Page: r.Page,
		}
	}

	ix.mu.Lock()
	ix.model = model
	ix.dims = dims
	ix.vectors = vectors
	ix.passages = passages
	ix.mu.Unlock()
	return nil
}

// Len returns the number of indexed passages.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.passages)
}

// ModelName returns the embedding model fingerprint of the contents.
func (ix *Index) ModelName() string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.model
}

// Close releases resources.
func (ix *Index) Close() error {
	return nil
}

// encodeVectors serializes the header and row-major float32 vectors.
// Layout: magic, version, dims, count, model length, model bytes,
// then count*dims little-endian float32 values.
func (ix *Index) encodeVectors() ([]byte, error) {
	headerLen := len(magic) + 4*4 + len(ix.model)
	buf := make([]byte, 0, headerLen+len(ix.vectors)*ix.dims*4)

	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint32(buf, formatVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(ix.dims))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ix.vectors)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ix.model)))
	buf = append(buf, ix.model...)

	for _, v := range ix.vectors {
		if len(v) != ix.dims {
			return nil, fmt.Errorf("vector has %d dimensions, index has %d", len(v), ix.dims)
		}
		for _, f := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return buf, nil
}

// decodeVectors parses the binary bundle produced by encodeVectors.
func decodeVectors(data []byte) (model string, dims int, vectors [][]float32, err error) {
	minHeader := len(magic) + 4*4
	if len(data) < minHeader {
		return "", 0, nil, errors.New("index file too short")
	}
	if string(data[:len(magic)]) != magic {
		return "", 0, nil, errors.New("bad magic")
	}
	off := len(magic)

	version := binary.LittleEndian.Uint32(data[off:])
	off += 4
	if version != formatVersion {
		return "", 0, nil, fmt.Errorf("unsupported format version %d", version)
	}

	dims = int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	count := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	modelLen := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4

	if len(data) < off+modelLen {
		return "", 0, nil, errors.New("truncated model fingerprint")
	}
	model = string(data[off : off+modelLen])
	off += modelLen

	want := count * dims * 4
	if len(data)-off != want {
		return "", 0, nil, fmt.Errorf("expected %d bytes of vector data, found %d", want, len(data)-off)
	}

	vectors = make([][]float32, count)
	for i := 0; i < count; i++ {
		row := make([]float32, dims)
		for j := 0; j < dims; j++ {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = row
	}
	return model, dims, vectors, nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// normalize returns the unit-length copy of v. The zero vector is
// returned unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
