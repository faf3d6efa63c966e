package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driving"
	"github.com/crescentlabs/crescentbot/internal/logger"
	"github.com/crescentlabs/crescentbot/internal/normalize"
	"github.com/crescentlabs/crescentbot/internal/social"
)

// Ensure AnswerPipeline implements the interface.
var _ driving.AnswerService = (*AnswerPipeline)(nil)

// Pipeline defaults.
const (
	DefaultAcceptThreshold = 0.6
	DefaultMemoryWindow    = 5

	// maxKeywords is how many leading query tokens become facet keywords.
	maxKeywords = 5

	// maxMemoryHints caps how many remembered keywords enrich a query.
	maxMemoryHints = 3
)

// PipelineConfig holds the answer pipeline thresholds and toggles.
type PipelineConfig struct {
	// AcceptThreshold is the minimum best score for a grounded answer.
	AcceptThreshold float64

	// MemoryWindow is how many recent interactions inform a query.
	MemoryWindow int

	// EnrichFacets appends detected facets to the retrieval query.
	EnrichFacets bool

	// EnrichMemory appends hints from recent interactions to the
	// retrieval query.
	EnrichMemory bool
}

// AnswerPipeline runs one user turn end to end: social short-circuit,
// normalisation, facet extraction, enrichment, retrieval, generation
// and memory persistence.
//
// Session facets are the only mutable state; they are guarded by a
// mutex so concurrent turns on the same pipeline stay safe.
type AnswerPipeline struct {
	retriever *RetrieverService
	generator *GeneratorService
	memory    driven.MemoryStore
	cfg       PipelineConfig

	mu      sync.Mutex
	session domain.Facets
}

// NewAnswerPipeline creates the pipeline. The memory store is optional;
// without one the bot answers statelessly. Zero config values fall back
// to the defaults.
func NewAnswerPipeline(
	retriever *RetrieverService,
	generator *GeneratorService,
	memory driven.MemoryStore,
	cfg PipelineConfig,
) *AnswerPipeline {
	if cfg.AcceptThreshold == 0 {
		cfg.AcceptThreshold = DefaultAcceptThreshold
	}
	if cfg.MemoryWindow <= 0 {
		cfg.MemoryWindow = DefaultMemoryWindow
	}
	return &AnswerPipeline{
		retriever: retriever,
		generator: generator,
		memory:    memory,
		cfg:       cfg,
	}
}

// Answer runs the full pipeline for one utterance.
func (p *AnswerPipeline) Answer(ctx context.Context, utterance string) (domain.Answer, error) {
	logger.Section("Answer Pipeline")

	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty utterance", domain.ErrInvalidInput)
	}
	logger.Debug("Utterance: %q", utterance)

	// Social turns never touch retrieval or memory.
	if social.IsGreeting(utterance) {
		logger.Debug("Greeting detected")
		return domain.Answer{Text: social.GreetingResponse(), Sentiment: domain.SentimentNeutral}, nil
	}
	if resp := social.Response(utterance); resp != "" {
		logger.Debug("Small-talk rule matched")
		return domain.Answer{Text: resp, Sentiment: normalize.DetectSentiment(utterance)}, nil
	}

	processed := normalize.Preprocess(normalize.NormalizeSlang(utterance))
	logger.Debug("Processed query: %q", processed)
	if processed == "" {
		return domain.Answer{}, fmt.Errorf("%w: nothing left after normalisation", domain.ErrInvalidInput)
	}

	facets := normalize.ExtractFacets(processed)
	facets.Sentiment = normalize.DetectSentiment(utterance)
	facets.Keywords = leadingKeywords(processed, maxKeywords)

	// A follow-up fragment inherits the missing facets from the session;
	// anything stated in the current turn wins.
	p.mu.Lock()
	if isFollowUp(processed, facets) {
		logger.Debug("Follow-up detected, inheriting session facets")
		facets = facets.Merge(p.session)
	}
	p.session = facets
	p.mu.Unlock()

	query := p.enrichQuery(ctx, processed, facets)
	logger.Debug("Retrieval query: %q", query)

	// Backend faults never surface as raw errors: the user gets a
	// retryable "temporarily unable" reply instead.
	hits, err := p.retriever.Retrieve(ctx, query)
	if err != nil {
		logger.Warn("Retrieval unavailable: %v", err)
		return domain.Answer{Text: social.UnavailableResponse(), Sentiment: facets.Sentiment}, nil
	}

	best := 0.0
	if len(hits) > 0 {
		best = hits[0].Score
	}
	logger.Info("Best retrieval score: %.3f (threshold %.2f)", best, p.cfg.AcceptThreshold)

	var ans domain.Answer
	logScore := best
	if len(hits) == 0 || best < p.cfg.AcceptThreshold {
		ans = p.fallbackAnswer(ctx, utterance, facets.Sentiment)
		logScore = 0.0
	} else {
		ans = p.groundedAnswer(ctx, processed, hits, facets.Sentiment)
		ans.BestScore = best
	}

	p.persist(ctx, utterance, ans, facets, logScore)
	return ans, nil
}

// ClearSession resets short-term memory for the conversation.
func (p *AnswerPipeline) ClearSession() {
	p.mu.Lock()
	p.session = domain.Facets{}
	p.mu.Unlock()
}

// groundedAnswer assembles context and generates from it. A generation
// failure degrades to quoting the best passage rather than failing the
// turn.
func (p *AnswerPipeline) groundedAnswer(
	ctx context.Context, question string, hits []domain.ScoredPassage, sentiment domain.Sentiment,
) domain.Answer {
	cited := p.retriever.ContextPassages(hits)
	block := p.retriever.ConstructContext(hits)

	text, err := p.generator.Generate(ctx, question, block)
	if err != nil {
		logger.Warn("Generation failed, quoting best passage: %v", err)
		text = cited[0].Passage.Text
	}

	return domain.Answer{
		Text:              social.AnswerPrefix(sentiment) + "\n" + text,
		Cited:             cited,
		FromKnowledgeBase: true,
		Sentiment:         sentiment,
	}
}

// fallbackAnswer handles the low-confidence path. With no hosted model
// configured the canned not-found reply is the valid, expected outcome.
// A configured model that errors is a system fault and gets the
// retryable "temporarily unable" reply instead; the two must never be
// conflated.
func (p *AnswerPipeline) fallbackAnswer(
	ctx context.Context, utterance string, sentiment domain.Sentiment,
) domain.Answer {
	if !p.generator.HasModel() {
		return domain.Answer{Text: social.NotFoundResponse(), Sentiment: sentiment}
	}
	text, err := p.generator.Fallback(ctx, utterance)
	if err != nil {
		logger.Warn("Fallback generation failed: %v", err)
		return domain.Answer{Text: social.UnavailableResponse(), Sentiment: sentiment}
	}
	return domain.Answer{Text: text, Fallback: true, Sentiment: sentiment}
}

// enrichQuery appends facet terms and memory hints to the retrieval
// query, governed by the configured toggles.
func (p *AnswerPipeline) enrichQuery(ctx context.Context, query string, facets domain.Facets) string {
	var extra []string

	if p.cfg.EnrichFacets {
		lower := strings.ToLower(query)
		if facets.Department != "" && !strings.Contains(lower, strings.ToLower(facets.Department)) {
			extra = append(extra, strings.ToLower(facets.Department))
		}
		if facets.Level != 0 {
			term := fmt.Sprintf("%d level", facets.Level)
			if !strings.Contains(lower, term) {
				extra = append(extra, term)
			}
		}
		if facets.Semester != "" {
			term := strings.ToLower(string(facets.Semester)) + " semester"
			if !strings.Contains(lower, term) {
				extra = append(extra, term)
			}
		}
	}

	if p.cfg.EnrichMemory && p.memory != nil {
		mem := p.recallContext(ctx)
		lower := strings.ToLower(query)

		rememberedDept := make(map[string]bool, len(mem.Departments))
		for _, d := range mem.Departments {
			rememberedDept[strings.ToLower(d)] = true
		}

		if facets.Department == "" {
			for _, dept := range mem.Departments {
				d := strings.ToLower(dept)
				if !strings.Contains(lower, d) {
					extra = append(extra, d)
					break
				}
			}
		}

		added := 0
		for _, kw := range mem.Keywords {
			if added == maxMemoryHints {
				break
			}
			// A remembered department name never joins a turn that
			// names its own department.
			if facets.Department != "" && rememberedDept[kw] {
				continue
			}
			if !strings.Contains(lower, kw) {
				extra = append(extra, kw)
				added++
			}
		}
	}

	if len(extra) == 0 {
		return query
	}
	return query + " " + strings.Join(extra, " ")
}

// recallContext summarises the recent interaction window.
func (p *AnswerPipeline) recallContext(ctx context.Context) domain.MemoryContext {
	recent, err := p.memory.RecentInteractions(ctx, p.cfg.MemoryWindow)
	if err != nil {
		logger.Warn("Reading recent interactions failed: %v", err)
		return domain.MemoryContext{}
	}

	var mem domain.MemoryContext
	seenDept := make(map[string]bool)
	seenKw := make(map[string]bool)
	seenSent := make(map[domain.Sentiment]bool)
	for _, it := range recent {
		if d := it.Facets.Department; d != "" && !seenDept[d] {
			seenDept[d] = true
			mem.Departments = append(mem.Departments, d)
		}
		for _, kw := range it.Facets.Keywords {
			if !seenKw[kw] {
				seenKw[kw] = true
				mem.Keywords = append(mem.Keywords, kw)
			}
		}
		if s := it.Facets.Sentiment; s != "" && !seenSent[s] {
			seenSent[s] = true
			mem.Sentiments = append(mem.Sentiments, s)
		}
	}
	return mem
}

// persist appends the interaction and the query log entry. Memory
// failures are logged, never fatal: answering beats remembering.
func (p *AnswerPipeline) persist(
	ctx context.Context, utterance string, ans domain.Answer, facets domain.Facets, score float64,
) {
	if p.memory == nil {
		return
	}
	now := time.Now().UTC()
	err := p.memory.AppendInteraction(ctx, domain.Interaction{
		Timestamp: now,
		Query:     utterance,
		Response:  ans.Text,
		Facets:    facets,
	})
	if err != nil {
		logger.Warn("Persisting interaction failed: %v", err)
	}
	if err := p.memory.LogQuery(ctx, utterance, score, now); err != nil {
		logger.Warn("Logging query failed: %v", err)
	}
}

// leadingKeywords returns the first n tokens of the processed query.
func leadingKeywords(processed string, n int) []string {
	words := strings.Fields(processed)
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// followUpPrefixes mark an utterance as continuing the previous topic.
var followUpPrefixes = []string{"what about", "how about", "and "}

// isFollowUp reports whether the query is a fragment that should
// inherit facets from the session: an explicit continuation phrase, or
// a level/semester mention with no department of its own.
func isFollowUp(processed string, facets domain.Facets) bool {
	for _, prefix := range followUpPrefixes {
		if strings.HasPrefix(processed, prefix) {
			return true
		}
	}
	return facets.Department == "" && (facets.Level != 0 || facets.Semester != "")
}
