// Package normalize performs lexical cleanup and structured facet
// extraction on raw user queries. Cleanup runs in a fixed order:
// character normalization, abbreviation expansion, spelling
// correction, synonym substitution. Facet extraction then pulls
// department, level and semester out of the cleaned text.
package normalize

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// maxEditDistance is the furthest a misspelling may be from a
// dictionary word and still be corrected.
const maxEditDistance = 2

// Normalize strips non-word, non-hyphen characters, collapses runs of
// three or more repeated characters down to one (informal typing), and
// lowercases. It does not touch token boundaries.
func Normalize(text string) string {
	var kept []rune
	for _, r := range strings.ToLower(text) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '-' && r != '_' {
			continue
		}
		kept = append(kept, r)
	}

	var b strings.Builder
	b.Grow(len(kept))
	for i := 0; i < len(kept); {
		j := i
		for j < len(kept) && kept[j] == kept[i] {
			j++
		}
		// A run of three or more collapses to a single rune; pairs
		// ("too", "fee") survive.
		n := j - i
		if n >= 3 {
			n = 1
		}
		for k := 0; k < n; k++ {
			b.WriteRune(kept[i])
		}
		i = j
	}
	return b.String()
}

// ExpandAbbreviations substitutes known shorthand token-wise.
// Unknown tokens pass through unchanged.
func ExpandAbbreviations(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		if full, ok := abbreviations[strings.ToLower(w)]; ok {
			out[i] = full
		} else {
			out[i] = w
		}
	}
	return out
}

// ApplySynonyms folds tokens onto canonical domain vocabulary.
func ApplySynonyms(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		if canon, ok := synonyms[strings.ToLower(w)]; ok {
			out[i] = canon
		} else {
			out[i] = w
		}
	}
	return out
}

// CorrectSpelling corrects each token against the frequency
// dictionary. A token already in the dictionary is kept. Otherwise the
// dictionary word with the smallest edit distance (at most
// maxEditDistance) wins; ties break toward the higher corpus
// frequency. Tokens with no close match pass through unchanged.
func CorrectSpelling(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = correctWord(w)
	}
	return out
}

func correctWord(word string) string {
	lower := strings.ToLower(word)
	if _, ok := wordFrequencies[lower]; ok {
		return lower
	}
	// Numbers and very short tokens are never "misspellings".
	if len(lower) < 3 || isNumeric(lower) {
		return word
	}

	best := word
	bestDist := maxEditDistance + 1
	var bestFreq int64
	for candidate, freq := range wordFrequencies {
		// Length difference lower-bounds edit distance.
		if abs(len(candidate)-len(lower)) > maxEditDistance {
			continue
		}
		d := levenshtein.ComputeDistance(lower, candidate)
		if d < bestDist || (d == bestDist && freq > bestFreq) {
			bestDist = d
			bestFreq = freq
			best = candidate
		}
	}
	if bestDist > maxEditDistance {
		return word
	}
	return best
}

// Preprocess runs the full cleanup sequence and returns the canonical
// query text. The order is fixed: abbreviations expand before the
// spell pass so shorthand is not mangled, synonyms apply after so
// corrected words still match the table.
func Preprocess(text string) string {
	words := strings.Fields(Normalize(text))
	words = ExpandAbbreviations(words)
	// Expansions may be multi-word ("computer science"); re-split so
	// each token is corrected independently.
	words = strings.Fields(strings.Join(words, " "))
	words = CorrectSpelling(words)
	words = ApplySynonyms(words)
	return strings.Join(words, " ")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
