package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFacetsMerge(t *testing.T) {
	prev := Facets{
		Department: "Nursing",
		Faculty:    "COHES",
		Level:      200,
		Semester:   SemesterFirst,
	}

	t.Run("current values always win", func(t *testing.T) {
		cur := Facets{Department: "Law", Faculty: "BACOLAW", Level: 300}
		got := cur.Merge(prev)

		assert.Equal(t, "Law", got.Department)
		assert.Equal(t, "BACOLAW", got.Faculty)
		assert.Equal(t, 300, got.Level)
		// Blanks still inherit.
		assert.Equal(t, SemesterFirst, got.Semester)
	})

	t.Run("blanks inherit from previous", func(t *testing.T) {
		cur := Facets{Level: 300}
		got := cur.Merge(prev)

		assert.Equal(t, "Nursing", got.Department)
		assert.Equal(t, "COHES", got.Faculty)
		assert.Equal(t, 300, got.Level)
		assert.Equal(t, SemesterFirst, got.Semester)
	})

	t.Run("faculty follows department", func(t *testing.T) {
		// A current-turn department keeps its own faculty even when the
		// previous turn had a different one.
		cur := Facets{Department: "Law", Faculty: "BACOLAW"}
		got := cur.Merge(prev)
		assert.Equal(t, "BACOLAW", got.Faculty)
	})
}

func TestFacetsIsZero(t *testing.T) {
	assert.True(t, Facets{}.IsZero())
	assert.False(t, Facets{Department: "Law"}.IsZero())
	assert.False(t, Facets{Level: 100}.IsZero())
	assert.False(t, Facets{Sentiment: SentimentNeutral}.IsZero())
}
