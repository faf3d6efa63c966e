package flat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

// stubEmbedder produces deterministic embeddings from token overlap so
// similarity scores behave like a real model: shared words move texts
// closer together.
type stubEmbedder struct {
	model    string
	embedErr error
}

var vocab = []string{
	"admission", "waec", "certificate", "course", "fees", "hostel",
	"semester", "level", "nursing", "computer",
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	v := make([]float32, len(vocab)+1)
	lower := strings.ToLower(text)
	for i, w := range vocab {
		if strings.Contains(lower, w) {
			v[i] = 1
		}
	}
	// Last dimension keeps the zero-overlap case non-degenerate.
	v[len(vocab)] = 0.1
	return v, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int { return len(vocab) + 1 }

func (s *stubEmbedder) ModelName() string {
	if s.model != "" {
		return s.model
	}
	return "stub-embed-v1"
}

func (s *stubEmbedder) Ping(_ context.Context) error { return nil }
func (s *stubEmbedder) Close() error                 { return nil }

func testPassages() []domain.Passage {
	return []domain.Passage{
		{ID: "faq_admission_0", Source: "faq", Text: "Admission requires a WAEC certificate."},
		{ID: "faq_fees_0", Source: "faq", Text: "Fees are paid per semester via the portal."},
		{ID: "faq_hostel_0", Source: "faq", Text: "Hostel accommodation is allocated by level."},
	}
}

func TestBuildAndRetrieve(t *testing.T) {
	ix := New(&stubEmbedder{})
	require.NoError(t, ix.Build(context.Background(), testPassages()))
	assert.Equal(t, 3, ix.Len())

	results, err := ix.Retrieve(context.Background(), "what do I need for admission", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "faq_admission_0", results[0].Passage.ID)
	assert.Greater(t, results[0].Score, 0.45)

	// Descending order, ranks are 1-based and sequential.
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRetrieve_TopKBounds(t *testing.T) {
	ix := New(&stubEmbedder{})
	require.NoError(t, ix.Build(context.Background(), testPassages()))

	results, err := ix.Retrieve(context.Background(), "fees", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = ix.Retrieve(context.Background(), "fees", 50)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = ix.Retrieve(context.Background(), "fees", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEmptyIndex(t *testing.T) {
	ix := New(&stubEmbedder{})
	require.NoError(t, ix.Build(context.Background(), nil))
	assert.Zero(t, ix.Len())

	results, err := ix.Retrieve(context.Background(), "anything at all", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	embedder := &stubEmbedder{}

	built := New(embedder)
	require.NoError(t, built.Build(context.Background(), testPassages()))
	require.NoError(t, built.Save(dir))

	loaded := New(embedder)
	require.NoError(t, loaded.Load(dir))
	assert.Equal(t, built.Len(), loaded.Len())
	assert.Equal(t, "stub-embed-v1", loaded.ModelName())

	query := "hostel accommodation"
	want, err := built.Retrieve(context.Background(), query, 3)
	require.NoError(t, err)
	got, err := loaded.Retrieve(context.Background(), query, 3)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Passage.ID, got[i].Passage.ID)
		assert.InDelta(t, want[i].Score, got[i].Score, 1e-6)
	}
}

func TestSaveLoad_EmptyIndex(t *testing.T) {
	dir := t.TempDir()
	embedder := &stubEmbedder{}

	built := New(embedder)
	require.NoError(t, built.Build(context.Background(), nil))
	require.NoError(t, built.Save(dir))

	loaded := New(embedder)
	require.NoError(t, loaded.Load(dir))
	assert.Zero(t, loaded.Len())
}

func TestLoad_MissingBundle(t *testing.T) {
	ix := New(&stubEmbedder{})
	err := ix.Load(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrIndexMissing)
}

func TestLoad_HalfBundleIsMissing(t *testing.T) {
	dir := t.TempDir()
	embedder := &stubEmbedder{}

	built := New(embedder)
	require.NoError(t, built.Build(context.Background(), testPassages()))
	require.NoError(t, built.Save(dir))

	// Metadata without index and index without metadata are both
	// incomplete bundles.
	require.NoError(t, os.Remove(filepath.Join(dir, IndexFile)))
	err := New(embedder).Load(dir)
	assert.ErrorIs(t, err, domain.ErrIndexMissing)

	require.NoError(t, built.Save(dir))
	require.NoError(t, os.Remove(filepath.Join(dir, MetadataFile)))
	err = New(embedder).Load(dir)
	assert.ErrorIs(t, err, domain.ErrIndexMissing)
}

func TestLoad_CorruptBundle(t *testing.T) {
	dir := t.TempDir()
	embedder := &stubEmbedder{}

	built := New(embedder)
	require.NoError(t, built.Build(context.Background(), testPassages()))
	require.NoError(t, built.Save(dir))

	t.Run("metadata count mismatch", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte("[]"), 0o600))
		err := New(embedder).Load(dir)
		assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
	})

	t.Run("truncated index file", func(t *testing.T) {
		require.NoError(t, built.Save(dir))
		data, err := os.ReadFile(filepath.Join(dir, IndexFile))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), data[:len(data)-7], 0o600))
		err = New(embedder).Load(dir)
		assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
	})

	t.Run("bad magic", func(t *testing.T) {
		require.NoError(t, built.Save(dir))
		require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), []byte("not an index"), 0o600))
		err := New(embedder).Load(dir)
		assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
	})
}

func TestLoad_ModelMismatch(t *testing.T) {
	dir := t.TempDir()

	built := New(&stubEmbedder{model: "stub-embed-v1"})
	require.NoError(t, built.Build(context.Background(), testPassages()))
	require.NoError(t, built.Save(dir))

	err := New(&stubEmbedder{model: "other-model"}).Load(dir)
	assert.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestBuild_EmbeddingFailure(t *testing.T) {
	ix := New(&stubEmbedder{embedErr: errors.New("connection refused")})
	err := ix.Build(context.Background(), testPassages())
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRebuildSwapsContents(t *testing.T) {
	ix := New(&stubEmbedder{})
	require.NoError(t, ix.Build(context.Background(), testPassages()))
	require.NoError(t, ix.Build(context.Background(), testPassages()[:1]))
	assert.Equal(t, 1, ix.Len())

	results, err := ix.Retrieve(context.Background(), "hostel", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
