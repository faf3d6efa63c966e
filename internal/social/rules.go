// Package social handles greeting and small-talk turns with ordered
// pattern tables evaluated by first match. Rules are pure data so the
// tables can be tested and extended without touching dispatch logic.
package social

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

// Rule pairs a trigger pattern with its candidate responses.
type Rule struct {
	// Pattern matches against the lowercased utterance.
	Pattern *regexp.Regexp

	// Responses are the candidate replies; one is picked per turn.
	Responses []string
}

// greetingRe matches standalone greeting words and phrases.
var greetingRe = regexp.MustCompile(
	`\b(hello|hi|hey|yo|howdy|hiya|sup|what's up|good morning|good afternoon|good evening|greetings)\b`)

// greetingResponses are the candidate replies to a greeting.
var greetingResponses = []string{
	"Hello! How can I assist you with Crescent University today?",
	"Hi there! What would you like to know about Crescent University?",
	"Hey! Feel free to ask me anything related to Crescent University.",
	"Greetings! I'm here to help with your Crescent University questions.",
	"Good to see you! Got any questions about Crescent University?",
}

// rules is the ordered small-talk table. Earlier rules win.
var rules = []Rule{
	{
		Pattern: regexp.MustCompile(`\bhow are you\b`),
		Responses: []string{
			"I'm doing great, thank you! How can I help you today?",
			"All good here, ready to help you out!",
		},
	},
	{
		Pattern: regexp.MustCompile(`\bwhat(?:'s| is) your name\b`),
		Responses: []string{
			"You can call me CrescentBot, your helpful university assistant.",
			"I go by CrescentBot! I know quite a lot about Crescent University.",
		},
	},
	{
		Pattern: regexp.MustCompile(`\btell me about yourself\b`),
		Responses: []string{
			"I'm CrescentBot, built to assist students and staff with everything about Crescent University!",
			"I'm trained to answer your questions about courses, departments, admissions and more!",
		},
	},
	{
		Pattern: regexp.MustCompile(`\bwho (are|r) you\b`),
		Responses: []string{
			"I'm CrescentBot, your guide to Crescent University. Ask me anything!",
			"I'm your virtual assistant, here to help with all things Crescent University!",
		},
	},
	{
		Pattern: regexp.MustCompile(`\bthank(s| you)\b`),
		Responses: []string{
			"You're very welcome!",
			"Anytime! Let me know if you have more questions.",
			"Glad to help!",
		},
	},
	{
		Pattern: regexp.MustCompile(`\bgood (job|bot|work)\b`),
		Responses: []string{
			"Thank you! I'm here to help anytime!",
			"I appreciate that!",
		},
	},
	{
		Pattern: regexp.MustCompile(`\bi(?:'m| am)?\s+(confused|lost|not sure)\b`),
		Responses: []string{
			"No worries, I'm here to help. Can you clarify what you're trying to find?",
			"It's okay to feel confused! Just ask me anything about Crescent University.",
		},
	},
	{
		Pattern: regexp.MustCompile(`\bi(?:'m| am)?\s+(sad|tired|bored|upset)\b`),
		Responses: []string{
			"Sorry you're feeling that way. Let's focus on something helpful or interesting!",
			"I'm here if you need someone to talk to. Want to explore some university resources together?",
		},
	},
	{
		Pattern: regexp.MustCompile(`\bthat (wasn't|isn't|is not) helpful\b`),
		Responses: []string{
			"Oops! Let me try that again. Could you be more specific so I can assist better?",
			"Thanks for the feedback. I'll do my best to clarify or find a better answer.",
		},
	},
}

// notFoundResponses are the "could not find an answer" phrasings.
// Not finding an answer is an expected outcome, phrased as such; it is
// never used for backend faults.
var notFoundResponses = []string{
	"I couldn't find an answer to that. Try rephrasing it?",
	"That one stumped me. Can you ask another way?",
	"I'm not sure I have that info yet. Ask something else?",
	"Sorry, I couldn't match that to anything I know.",
}

// unavailableResponses cover backend faults: the question may well be
// answerable, the bot just can't reach its tools right now. Every
// phrasing invites a retry.
var unavailableResponses = []string{
	"I'm temporarily unable to answer that. Please try again in a moment.",
	"I'm having trouble reaching my knowledge tools right now. Please try again shortly.",
}

// answerPrefixes introduce a knowledge-base answer.
var answerPrefixes = []string{
	"Here's what I found for you:",
	"Let's break it down:",
	"Check this out:",
	"Here's something helpful:",
}

// IsGreeting reports whether the utterance is a plain greeting.
func IsGreeting(text string) bool {
	return greetingRe.MatchString(strings.ToLower(text))
}

// GreetingResponse picks a greeting reply.
func GreetingResponse() string {
	return greetingResponses[rand.Intn(len(greetingResponses))]
}

// MatchRule returns the response set of the first rule matching the
// utterance, or nil when no small-talk rule applies.
func MatchRule(text string) []string {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.Pattern.MatchString(lower) {
			return r.Responses
		}
	}
	return nil
}

// Response picks one reply for a small-talk utterance, or empty when
// none of the rules match.
func Response(text string) string {
	responses := MatchRule(text)
	if len(responses) == 0 {
		return ""
	}
	return responses[rand.Intn(len(responses))]
}

// NotFoundResponse picks a "could not find an answer" phrasing.
func NotFoundResponse() string {
	return notFoundResponses[rand.Intn(len(notFoundResponses))]
}

// UnavailableResponse picks a "temporarily unable to answer" phrasing
// for turns that failed on a backend fault.
func UnavailableResponse() string {
	return unavailableResponses[rand.Intn(len(unavailableResponses))]
}

// AnswerPrefix picks an introduction for a knowledge-base answer,
// adjusted for the detected sentiment of the query.
func AnswerPrefix(sentiment domain.Sentiment) string {
	switch sentiment {
	case domain.SentimentNegative:
		return "I'm sorry you're feeling that way. Let's see if this helps:"
	case domain.SentimentPositive:
		return "I'm glad you're feeling good! Here's what I found:"
	default:
		return answerPrefixes[rand.Intn(len(answerPrefixes))]
	}
}
