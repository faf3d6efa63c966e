package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecentInteractions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, q := range []string{"first question", "second question", "third question"} {
		err := store.AppendInteraction(ctx, domain.Interaction{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Query:     q,
			Response:  "answer to " + q,
		})
		require.NoError(t, err)
	}

	recent, err := store.RecentInteractions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Most recent first.
	assert.Equal(t, "third question", recent[0].Query)
	assert.Equal(t, "second question", recent[1].Query)
	assert.NotEmpty(t, recent[0].ID)
}

func TestAppendInteraction_FacetsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	facets := domain.Facets{
		Department: "Computer Science",
		Faculty:    "CONAS",
		Level:      300,
		Semester:   domain.SemesterFirst,
		Keywords:   []string{"courses", "computer", "science"},
		Sentiment:  domain.SentimentNeutral,
	}
	require.NoError(t, store.AppendInteraction(ctx, domain.Interaction{
		Query:    "300 level computer science courses",
		Response: "Here they are.",
		Facets:   facets,
	}))

	recent, err := store.RecentInteractions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, facets, recent[0].Facets)
}

func TestRecentInteractions_Empty(t *testing.T) {
	store := newTestStore(t)

	recent, err := store.RecentInteractions(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	recent, err = store.RecentInteractions(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestLogQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.LogQuery(ctx, "hostel fees", 0.82, time.Now()))
	require.NoError(t, store.LogQuery(ctx, "gibberish query", 0.0, time.Now()))

	count, err := store.QueryLogCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.AppendInteraction(ctx, domain.Interaction{
		Query: "library hours", Response: "8am to 10pm",
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	recent, err := reopened.RecentInteractions(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "library hours", recent[0].Query)
}
