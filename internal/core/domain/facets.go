package domain

import "time"

// Sentiment classifies the emotional tone of a query.
type Sentiment string

// Sentiment values.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Semester identifies an academic semester.
type Semester string

// Semester values.
const (
	SemesterFirst  Semester = "First"
	SemesterSecond Semester = "Second"
)

// Facets are the structured attributes extracted from a free-text
// query. Zero values mean "not present in the query". Facets are
// derived per turn and never persisted raw — only as part of an
// Interaction.
type Facets struct {
	// Department is the canonical department name in title case
	// (e.g. "Computer Science"), empty when not detected.
	Department string

	// Level is the course level: 100, 200, 300 or 400. Zero when
	// absent.
	Level int

	// Semester is First or Second, empty when absent.
	Semester Semester

	// Faculty is derived from Department via the static faculty table,
	// never extracted directly.
	Faculty string

	// Keywords are the leading tokens of the processed query, in order.
	Keywords []string

	// Sentiment is the detected query sentiment.
	Sentiment Sentiment
}

// IsZero reports whether no facet was extracted.
func (f Facets) IsZero() bool {
	return f.Department == "" && f.Level == 0 && f.Semester == "" &&
		f.Faculty == "" && len(f.Keywords) == 0 && f.Sentiment == ""
}

// Merge combines the receiver with facets from a previous turn.
// Current-turn values always win; previous values only fill blanks.
// This is the explicit combinator behind follow-up handling: "what
// about 300 level" inherits the department of the prior question but a
// query that names its own department is never overridden.
func (f Facets) Merge(prev Facets) Facets {
	out := f
	if out.Department == "" {
		out.Department = prev.Department
		out.Faculty = prev.Faculty
	}
	if out.Level == 0 {
		out.Level = prev.Level
	}
	if out.Semester == "" {
		out.Semester = prev.Semester
	}
	return out
}

// Interaction is one answered query appended to long-term memory.
// Interactions are append-only: never mutated or deleted.
type Interaction struct {
	// ID is a unique identifier assigned at insert time.
	ID string

	// Timestamp is when the interaction was recorded.
	Timestamp time.Time

	// Query is the raw user utterance.
	Query string

	// Response is the answer text that was returned.
	Response string

	// Facets are the facets extracted for the turn.
	Facets Facets
}

// MemoryContext aggregates facets seen across recent interactions.
// It is used to softly bias retrieval for the next query; it must
// never override facets explicit in the current query.
type MemoryContext struct {
	// Departments are the distinct departments mentioned recently.
	Departments []string

	// Keywords are the distinct keywords seen recently, most recent
	// first.
	Keywords []string

	// Sentiments are the distinct sentiments observed recently.
	Sentiments []Sentiment
}

// IsZero reports whether the context carries no signal.
func (m MemoryContext) IsZero() bool {
	return len(m.Departments) == 0 && len(m.Keywords) == 0 && len(m.Sentiments) == 0
}
