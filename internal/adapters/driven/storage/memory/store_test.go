package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

func TestStore_AppendAndRecent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, q := range []string{"first", "second", "third"} {
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
	assert.Equal(t, "third", recent[0].Query)
	assert.Equal(t, "second", recent[1].Query)
}

func TestStore_AppendAssignsID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.AppendInteraction(ctx, domain.Interaction{Query: "q"}))

	recent, err := store.RecentInteractions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.NotEmpty(t, recent[0].ID)
	assert.False(t, recent[0].Timestamp.IsZero())
}

func TestStore_RecentEmpty(t *testing.T) {
	store := NewStore()

	recent, err := store.RecentInteractions(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestStore_LogQuery(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.LogQuery(ctx, "nursing fees", 0.82, at))
	require.NoError(t, store.LogQuery(ctx, "quantum basket weaving", 0.0, at.Add(time.Minute)))

	log := store.QueryLog()
	require.Len(t, log, 2)
	assert.Equal(t, "nursing fees", log[0].Query)
	assert.Equal(t, 0.82, log[0].Score)
	assert.Equal(t, 0.0, log[1].Score)
}
