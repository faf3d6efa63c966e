// Package chunker splits raw text into overlapping passages bounded by
// a word budget. Splitting is sentence-aware: sentences are never cut
// mid-way unless a single sentence exceeds the budget on its own.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

// DefaultMaxTokens is the default word budget per chunk.
const DefaultMaxTokens = 400

// DefaultOverlap is the default number of words shared between
// adjacent chunks.
const DefaultOverlap = 60

// QAMaxTokens is the smaller budget tuned for short Q&A-style entries.
const QAMaxTokens = 120

// Chunker splits text into passages. It is pure and deterministic:
// the same input always yields the same chunks.
type Chunker struct {
	maxTokens int
	overlap   int
}

// New creates a chunker with the given word budget and overlap.
// The budget must be positive and strictly greater than the overlap;
// anything else is a configuration error, never silently defaulted.
func New(maxTokens, overlap int) (*Chunker, error) {
	if maxTokens <= 0 || overlap < 0 || overlap >= maxTokens {
		return nil, fmt.Errorf("%w: max tokens %d, overlap %d",
			domain.ErrInvalidChunking, maxTokens, overlap)
	}
	return &Chunker{maxTokens: maxTokens, overlap: overlap}, nil
}

// Split chunks text into passages. Sentences are accumulated greedily
// until adding the next one would exceed the word budget, then the
// buffer is flushed as one chunk. Every chunk after the first is
// prefixed with the trailing overlap words of the previous chunk so
// adjacent chunks share context. Empty chunks are dropped.
func (c *Chunker) Split(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var buf []string
	size := 0

	flush := func() {
		if len(buf) > 0 {
			chunks = append(chunks, strings.Join(buf, " "))
			buf = nil
			size = 0
		}
	}

	for _, sent := range sentences {
		words := strings.Fields(sent)
		if len(words) == 0 {
			continue
		}

		// A single sentence over the budget is hard-split so the
		// bound holds for any input.
		if len(words) > c.maxTokens {
			flush()
			for start := 0; start < len(words); start += c.maxTokens {
				end := min(start+c.maxTokens, len(words))
				chunks = append(chunks, strings.Join(words[start:end], " "))
			}
			continue
		}

		if size+len(words) > c.maxTokens {
			flush()
		}
		buf = append(buf, sent)
		size += len(words)
	}
	flush()

	return c.applyOverlap(chunks)
}

// applyOverlap prefixes each chunk except the first with the trailing
// overlap words of the previous chunk.
func (c *Chunker) applyOverlap(chunks []string) []string {
	if c.overlap == 0 || len(chunks) < 2 {
		return chunks
	}
	out := make([]string, len(chunks))
	out[0] = chunks[0]
	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1])
		tail := prev
		if len(prev) > c.overlap {
			tail = prev[len(prev)-c.overlap:]
		}
		out[i] = strings.TrimSpace(strings.Join(tail, " ") + " " + chunks[i])
	}
	return out
}

// Split chunks text with explicit parameters. It is a convenience for
// callers that do not hold a Chunker.
func Split(text string, maxTokens, overlap int) ([]string, error) {
	c, err := New(maxTokens, overlap)
	if err != nil {
		return nil, err
	}
	return c.Split(text), nil
}

// splitSentences splits on terminal punctuation followed by
// whitespace, keeping the punctuation with the preceding sentence.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Consume a run of terminal punctuation.
		j := i
		for j+1 < len(runes) && isTerminal(runes[j+1]) {
			j++
		}
		// Only a boundary when followed by whitespace.
		if j+1 < len(runes) && unicode.IsSpace(runes[j+1]) {
			sent := strings.TrimSpace(string(runes[start : j+1]))
			if sent != "" {
				sentences = append(sentences, sent)
			}
			start = j + 1
		}
		i = j
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
