package normalize

import (
	"strings"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

// Sentiment thresholds on mean polarity of matched tokens.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// sentimentLexicon assigns a valence to sentiment-bearing words.
// Pure data so the table is independently testable and extensible.
var sentimentLexicon = map[string]float64{
	"good": 0.7, "great": 0.8, "excellent": 1.0, "amazing": 0.9,
	"awesome": 0.9, "love": 0.8, "like": 0.4, "happy": 0.8,
	"glad": 0.6, "thanks": 0.6, "thank": 0.6, "helpful": 0.5,
	"best": 0.9, "nice": 0.6, "wonderful": 0.9, "perfect": 1.0,
	"excited": 0.7, "interested": 0.4, "easy": 0.4,

	"bad": -0.7, "terrible": -1.0, "awful": -0.9, "hate": -0.8,
	"angry": -0.7, "sad": -0.6, "upset": -0.6, "confused": -0.4,
	"frustrated": -0.7, "worried": -0.5, "difficult": -0.4,
	"problem": -0.4, "wrong": -0.5, "worst": -1.0, "annoying": -0.7,
	"disappointed": -0.7, "stressed": -0.6, "hard": -0.3,
	"fail": -0.6, "failed": -0.6,
}

// DetectSentiment classifies the query tone from the mean valence of
// lexicon words it contains. Queries with no sentiment-bearing words
// are neutral.
func DetectSentiment(text string) domain.Sentiment {
	var total float64
	matched := 0
	for _, w := range strings.Fields(Normalize(text)) {
		if v, ok := sentimentLexicon[w]; ok {
			total += v
			matched++
		}
	}
	if matched == 0 {
		return domain.SentimentNeutral
	}

	polarity := total / float64(matched)
	switch {
	case polarity > positiveThreshold:
		return domain.SentimentPositive
	case polarity < negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
