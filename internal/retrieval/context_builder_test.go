package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
)

func scoredFact(id, topic string, score float64, credibility storage.SourceCredibility) ScoredItem {
	return ScoredItem{
		Item: &storage.KnowledgeItem{
			ID:      id,
			Content: "Content for " + id,
			Topic:   topic,
			Sources: []storage.KnowledgeSource{{
				URL:         "https://www.ali2025.com/",
				Credibility: credibility,
			}},
		},
		Score: score,
	}
}

func TestContextBuilder_DropsFactsBelowThreshold(t *testing.T) {
	builder := NewContextBuilder(0.3, 5)

	rctx := builder.Build("q", "en", []ScoredItem{
		scoredFact("a", "housing", 0.8, storage.CredibilityPrimary),
		scoredFact("b", "housing", 0.29, storage.CredibilityPrimary),
		scoredFact("c", "housing", 0.3, storage.CredibilityPrimary),
	})

	require.Len(t, rctx.Facts, 2)
	assert.Equal(t, "a", rctx.Facts[0].Item.ID)
	// Exactly at threshold survives.
	assert.Equal(t, "c", rctx.Facts[1].Item.ID)
}

func TestContextBuilder_CapsFactCount(t *testing.T) {
	builder := NewContextBuilder(0.3, 5)

	var results []ScoredItem
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		results = append(results, scoredFact(id, "housing", 0.9, storage.CredibilityPrimary))
	}

	rctx := builder.Build("q", "en", results)
	assert.Len(t, rctx.Facts, 5)
}

func TestResponseContext_Summary_GroupsByTopic(t *testing.T) {
	builder := NewContextBuilder(0.3, 5)
	rctx := builder.Build("q", "en", []ScoredItem{
		scoredFact("a", "housing", 0.9, storage.CredibilityPrimary),
		scoredFact("b", "education", 0.8, storage.CredibilityVerified),
		scoredFact("c", "housing", 0.7, storage.CredibilityPrimary),
	})

	summary := rctx.Summary()

	assert.Contains(t, summary, "=== HOUSING ===")
	assert.Contains(t, summary, "=== EDUCATION ===")
	assert.Contains(t, summary, "[Confidence: 0.90, Source: primary]")
	assert.Contains(t, summary, "[Confidence: 0.80, Source: verified]")

	// Topic of the top-ranked fact comes first.
	assert.Less(t, strings.Index(summary, "HOUSING"), strings.Index(summary, "EDUCATION"))
}

func TestResponseContext_Summary_Empty(t *testing.T) {
	rctx := &ResponseContext{}
	assert.Equal(t, "No specific information available.", rctx.Summary())
}

func TestResponseContext_Summary_SourcelessItem(t *testing.T) {
	fact := scoredFact("a", "housing", 0.9, storage.CredibilityPrimary)
	fact.Item.Sources = nil

	rctx := &ResponseContext{Facts: []ScoredItem{fact}}
	assert.Contains(t, rctx.Summary(), "Source: unknown")
}

func TestResponseContext_Confidence_WeightedByCredibility(t *testing.T) {
	rctx := &ResponseContext{Facts: []ScoredItem{
		scoredFact("a", "housing", 0.8, storage.CredibilityPrimary),
		scoredFact("b", "housing", 0.4, storage.CredibilityUnverified),
	}}

	// (0.8*1.0 + 0.4*0.3) / (1.0 + 0.3) = 0.92 / 1.3
	assert.InDelta(t, 0.7077, rctx.Confidence(), 0.001)
}

func TestResponseContext_Confidence_FloorWithNoFacts(t *testing.T) {
	rctx := &ResponseContext{}
	assert.Equal(t, 0.1, rctx.Confidence())
}

func TestResponseContext_Confidence_CappedAtOne(t *testing.T) {
	rctx := &ResponseContext{Facts: []ScoredItem{
		scoredFact("a", "housing", 1.0, storage.CredibilityPrimary),
	}}
	assert.LessOrEqual(t, rctx.Confidence(), 1.0)
}

func TestResponseContext_Confidence_SourcelessUsesUnverifiedWeight(t *testing.T) {
	fact := scoredFact("a", "housing", 0.6, storage.CredibilityPrimary)
	fact.Item.Sources = nil

	rctx := &ResponseContext{Facts: []ScoredItem{fact}}
	// Weight cancels out with a single fact: 0.6*0.3/0.3.
	assert.InDelta(t, 0.6, rctx.Confidence(), 0.0001)
}

func TestResponseContext_Topics_DistinctInRankOrder(t *testing.T) {
	rctx := &ResponseContext{Facts: []ScoredItem{
		scoredFact("a", "housing", 0.9, storage.CredibilityPrimary),
		scoredFact("b", "education", 0.8, storage.CredibilityPrimary),
		scoredFact("c", "housing", 0.7, storage.CredibilityPrimary),
	}}

	assert.Equal(t, []string{"housing", "education"}, rctx.Topics())
}
