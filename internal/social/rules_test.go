package social

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

func TestIsGreeting(t *testing.T) {
	greetings := []string{
		"hello", "Hi!", "hey there", "Good morning", "GREETINGS",
	}
	for _, g := range greetings {
		assert.True(t, IsGreeting(g), "should greet on %q", g)
	}

	questions := []string{
		"what courses are offered in nursing",
		"admission requirements please",
		"", "highway to campus",
	}
	for _, q := range questions {
		assert.False(t, IsGreeting(q), "should not greet on %q", q)
	}
}

func TestMatchRule_FirstMatchWins(t *testing.T) {
	// "thanks, good bot" matches both the thanks rule and the praise
	// rule; table order decides.
	responses := MatchRule("thanks, good bot")
	assert.Equal(t, "You're very welcome!", responses[0])
}

func TestMatchRule_NoMatch(t *testing.T) {
	assert.Nil(t, MatchRule("which courses run in first semester"))
	assert.Empty(t, Response("which courses run in first semester"))
}

func TestResponse_FromRuleSet(t *testing.T) {
	got := Response("what is your name")
	assert.Contains(t, got, "CrescentBot")
}

func TestNotFoundResponse(t *testing.T) {
	assert.Contains(t, notFoundResponses, NotFoundResponse())
}

func TestUnavailableResponse(t *testing.T) {
	got := UnavailableResponse()
	assert.Contains(t, unavailableResponses, got)
	// Fault phrasings always invite a retry and never read as a miss.
	assert.Contains(t, got, "try again")
	assert.NotContains(t, notFoundResponses, got)
}

func TestAnswerPrefix(t *testing.T) {
	assert.Equal(t,
		"I'm sorry you're feeling that way. Let's see if this helps:",
		AnswerPrefix(domain.SentimentNegative))
	assert.Equal(t,
		"I'm glad you're feeling good! Here's what I found:",
		AnswerPrefix(domain.SentimentPositive))
	assert.Contains(t, answerPrefixes, AnswerPrefix(domain.SentimentNeutral))
}
