package domain

// Passage is the unit of retrieval: a bounded chunk of source text
// produced during ingestion. Passages are immutable once created and
// map one-to-one onto rows of the vector index.
type Passage struct {
	// ID is a stable identifier derived from the source file, record
	// key and chunk ordinal. Re-ingesting identical content yields
	// identical IDs.
	ID string

	// Source is the origin file or record the passage came from.
	Source string

	// Title is a human-readable display label (e.g. "KB:admissions/fees").
	Title string

	// Text is the passage content, including any overlap prefix
	// injected by the chunker.
	Text string

	// Page is the page number for paginated sources, zero otherwise.
	Page int
}

// ScoredPassage is a retrieval hit: a passage with its cosine
// similarity against the query and its rank in the result list.
type ScoredPassage struct {
	Passage Passage

	// Score is the cosine similarity in [-1, 1].
	Score float64

	// Rank is the 1-based position in the result ordering. It doubles
	// as the citation number in the assembled context block.
	Rank int
}

// Answer is the result of one full pipeline turn.
type Answer struct {
	// Text is the natural-language answer shown to the user.
	Text string

	// Cited are the passages the answer was grounded on, in citation
	// order.
	Cited []ScoredPassage

	// FromKnowledgeBase is true when the answer was produced from
	// retrieved context, false for the not-found response path.
	FromKnowledgeBase bool

	// Fallback is true when the hosted model produced the text instead
	// of the local generator. The distinction is never silently lost.
	Fallback bool

	// Sentiment is the sentiment detected on the query for this turn.
	Sentiment Sentiment

	// BestScore is the highest retrieval score for the turn, 0.0 on
	// the not-found path.
	BestScore float64
}
