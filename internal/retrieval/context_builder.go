package retrieval

import (
	"fmt"
	"strings"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
)

// DefaultConfidenceThreshold is the minimum relevance score a retrieved
// fact needs to inform an answer.
const DefaultConfidenceThreshold = 0.3

// DefaultMaxFacts caps how many facts feed into a single answer.
const DefaultMaxFacts = 5

// minAnswerConfidence is the floor reported when no usable facts survive
// filtering.
const minAnswerConfidence = 0.1

// ResponseContext carries a question and its surviving facts into answer
// generation.
type ResponseContext struct {
	Query    string
	Language string
	Facts    []ScoredItem
}

// ContextBuilder filters ranked search results into the fact set an answer
// may rely on.
type ContextBuilder struct {
	threshold float64
	maxFacts  int
}

// NewContextBuilder creates a ContextBuilder. Non-positive arguments fall
// back to the defaults.
func NewContextBuilder(threshold float64, maxFacts int) *ContextBuilder {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	if maxFacts <= 0 {
		maxFacts = DefaultMaxFacts
	}
	return &ContextBuilder{threshold: threshold, maxFacts: maxFacts}
}

// Build drops facts below the confidence threshold and keeps the top ones
// by score. Input is already ranked, so filtering preserves order. An
// empty fact set is a valid outcome; the caller answers from a fallback.
func (b *ContextBuilder) Build(query, language string, results []ScoredItem) *ResponseContext {
	var facts []ScoredItem
	for _, r := range results {
		if r.Score >= b.threshold {
			facts = append(facts, r)
		}
		if len(facts) == b.maxFacts {
			break
		}
	}
	return &ResponseContext{Query: query, Language: language, Facts: facts}
}

// Summary renders the facts grouped by topic for the model prompt. Topics
// appear in the order their first fact was ranked; each fact is prefixed
// with its relevance score and the credibility of its primary source.
func (ctx *ResponseContext) Summary() string {
	if len(ctx.Facts) == 0 {
		return "No specific information available."
	}

	byTopic := map[string][]ScoredItem{}
	var topicOrder []string
	for _, fact := range ctx.Facts {
		if _, seen := byTopic[fact.Item.Topic]; !seen {
			topicOrder = append(topicOrder, fact.Item.Topic)
		}
		byTopic[fact.Item.Topic] = append(byTopic[fact.Item.Topic], fact)
	}

	var parts []string
	for _, topic := range topicOrder {
		parts = append(parts, fmt.Sprintf("\n=== %s ===", strings.ToUpper(topic)))
		for _, fact := range byTopic[topic] {
			credibility := "unknown"
			if src := fact.Item.PrimarySource(); src != nil {
				credibility = string(src.Credibility)
			}
			parts = append(parts, fmt.Sprintf("[Confidence: %.2f, Source: %s]", fact.Score, credibility))
			parts = append(parts, fact.Item.Content)
			parts = append(parts, "")
		}
	}
	return strings.Join(parts, "\n")
}

// Confidence aggregates fact scores into one answer confidence: the
// credibility-weighted average of relevance scores, capped at 1.0. Items
// without sources weigh in at the unverified tier. No facts means the
// floor confidence.
func (ctx *ResponseContext) Confidence() float64 {
	if len(ctx.Facts) == 0 {
		return minAnswerConfidence
	}

	var totalScore, totalWeight float64
	for _, fact := range ctx.Facts {
		weight := storage.CredibilityUnverified.Weight()
		if src := fact.Item.PrimarySource(); src != nil {
			weight = src.Credibility.Weight()
		}
		totalScore += fact.Score * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return minAnswerConfidence
	}

	confidence := totalScore / totalWeight
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// Topics returns the distinct topics covered by the facts, in rank order.
func (ctx *ResponseContext) Topics() []string {
	var topics []string
	seen := map[string]struct{}{}
	for _, fact := range ctx.Facts {
		if _, dup := seen[fact.Item.Topic]; dup {
			continue
		}
		seen[fact.Item.Topic] = struct{}{}
		topics = append(topics, fact.Item.Topic)
	}
	return topics
}
