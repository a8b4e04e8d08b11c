package retrieval

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/cache"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
)

func newSearchStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "search.db"), observability.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedItem(t *testing.T, store *storage.Store, id, topic, language, content string, keywords []string) {
	t.Helper()
	err := store.Upsert(context.Background(), &storage.KnowledgeItem{
		ID:          id,
		Content:     content,
		ContentType: storage.ContentTypeFAQ,
		Topic:       topic,
		Keywords:    keywords,
		Language:    language,
		Sources: []storage.KnowledgeSource{{
			URL:         "https://www.ali2025.com/",
			Title:       "Campaign",
			SourceType:  "campaign_website",
			Credibility: storage.CredibilityPrimary,
		}},
	})
	require.NoError(t, err)
}

func newTestSearcher(t *testing.T, store *storage.Store) *Searcher {
	t.Helper()
	return NewSearcher(store, nil, Options{Limit: 10}, observability.NopLogger())
}

func TestSearcher_EmptyStore(t *testing.T) {
	searcher := newTestSearcher(t, newSearchStore(t))

	results, err := searcher.Search(context.Background(), "housing plan", "en", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearcher_ExperienceQuestionRanksExperienceFAQFirst(t *testing.T) {
	store := newSearchStore(t)
	seedItem(t, store, "faq_experience", "candidate_qualifications", "en",
		"While Mussab is young, he is also ridiculously accomplished.",
		[]string{"experience", "young", "age", "accomplished"})
	seedItem(t, store, "faq_housing", "housing", "en",
		"Mussab will expand zoning and approve over 25,000 units.",
		[]string{"housing", "rent", "affordable"})

	searcher := newTestSearcher(t, store)
	results, err := searcher.Search(context.Background(), "why should I vote for him, he has no experience", "en", 10)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "faq_experience", results[0].Item.ID)
}

func TestSearcher_ScoresBoundedAndOrdered(t *testing.T) {
	store := newSearchStore(t)
	seedItem(t, store, "a", "transportation", "en",
		"Free citywide buses for all residents.", []string{"buses", "transit", "free buses"})
	seedItem(t, store, "b", "housing", "en",
		"Cap rent increases by developers.", []string{"rent", "housing"})

	searcher := newTestSearcher(t, store)
	results, err := searcher.Search(context.Background(), "free buses and transit", "en", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for i, res := range results {
		assert.Greater(t, res.Score, 0.0)
		assert.LessOrEqual(t, res.Score, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Score, res.Score)
		}
	}
}

func TestSearcher_BestStageWins_NotSum(t *testing.T) {
	store := newSearchStore(t)
	// Matches the keyword stage perfectly (1.0) and full-text (0.56); the
	// merged score is the maximum, never the sum.
	seedItem(t, store, "a", "transportation", "en",
		"Expanded transit for Jersey City.", []string{"transit"})

	searcher := newTestSearcher(t, store)
	results, err := searcher.Search(context.Background(), "transit", "en", 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestSearcher_TopicStageFindsItemsWithoutKeywordOverlap(t *testing.T) {
	store := newSearchStore(t)
	// No keyword or content overlap with the query; only the topic name
	// connects them.
	seedItem(t, store, "a", "housing", "en",
		"Approve 25,000 units.", []string{"zoning"})

	searcher := newTestSearcher(t, store)
	// "rent control" names the housing subtopic without sharing any word
	// with the item's indexed text.
	results, err := searcher.Search(context.Background(), "rent control", "en", 10)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	found := false
	for _, res := range results {
		if res.Item.ID == "a" {
			found = true
			// Direct topic hit: 0.5 raw * 0.6 weight.
			assert.InDelta(t, 0.3, res.Score, 0.0001)
		}
	}
	assert.True(t, found)
}

func TestSearcher_SpanishQueryExpandsToEnglishContent(t *testing.T) {
	store := newSearchStore(t)
	seedItem(t, store, "faq_housing", "housing", "en",
		"Mussab will expand zoning and cap rent increases.",
		[]string{"housing", "rent", "affordable"})
	seedItem(t, store, "faq_housing_es", "housing", "es",
		"Mussab se compromete a expandir la zonificación.",
		[]string{"vivienda", "alquiler"})

	searcher := newTestSearcher(t, store)
	results, err := searcher.Search(context.Background(), "política de vivienda", "es", 10)
	require.NoError(t, err)

	ids := map[string]float64{}
	for _, res := range results {
		ids[res.Item.ID] = res.Score
	}
	// The Spanish item matches the keyword stage directly; the English item
	// is reached through multilingual expansion.
	assert.Contains(t, ids, "faq_housing_es")
	assert.Contains(t, ids, "faq_housing")
}

func TestSearcher_NoMultilingualExpansionForEnglish(t *testing.T) {
	store := newSearchStore(t)
	seedItem(t, store, "faq_housing", "housing", "en",
		"Housing content.", []string{"housing"})

	searcher := newTestSearcher(t, store)
	// "vivienda" is Spanish vocabulary; an English query gets no expansion
	// and no keyword overlap, so only substring/FTS stages could match.
	results, err := searcher.Search(context.Background(), "vivienda", "en", 10)
	require.NoError(t, err)
	for _, res := range results {
		assert.NotEqual(t, 0.7, res.Score)
	}
}

func TestSearcher_SymbolQueryFallsBackToSubstring(t *testing.T) {
	store := newSearchStore(t)
	seedItem(t, store, "a", "governance", "en",
		"Ask us anything??? We answer every question.", []string{"questions"})

	searcher := newTestSearcher(t, store)
	// "???" sanitizes to an empty match expression, so the full-text stage
	// degrades to substring matching instead of returning nothing.
	results, err := searcher.Search(context.Background(), "???", "en", 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Item.ID)
	// Substring raw 0.4 * full-text weight 0.8.
	assert.InDelta(t, 0.32, results[0].Score, 0.0001)
}

func TestSearcher_LimitTruncates(t *testing.T) {
	store := newSearchStore(t)
	for _, id := range []string{"a", "b", "c", "d"} {
		seedItem(t, store, id, "housing", "en",
			"Affordable housing content "+id, []string{"housing"})
	}

	searcher := newTestSearcher(t, store)
	results, err := searcher.Search(context.Background(), "housing", "en", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearcher_CachesResults(t *testing.T) {
	store := newSearchStore(t)
	seedItem(t, store, "a", "housing", "en", "Housing content.", []string{"housing"})

	memCache := cache.NewMemoryClient(100)
	searcher := NewSearcher(store, memCache, Options{
		Limit:        10,
		CacheResults: true,
		CacheTTL:     time.Minute,
	}, observability.NopLogger())

	ctx := context.Background()
	first, err := searcher.Search(ctx, "housing", "en", 10)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// A new matching item stays invisible until the cache is invalidated.
	seedItem(t, store, "b", "housing", "en", "More housing content.", []string{"housing"})

	cached, err := searcher.Search(ctx, "housing", "en", 10)
	require.NoError(t, err)
	assert.Len(t, cached, len(first))

	require.NoError(t, searcher.InvalidateCache(ctx))

	fresh, err := searcher.Search(ctx, "housing", "en", 10)
	require.NoError(t, err)
	assert.Len(t, fresh, len(first)+1)
}

func TestBuildMatchExpression(t *testing.T) {
	assert.Equal(t, `"housing" OR "plan"`, buildMatchExpression("housing plan"))
	// Operator characters are stripped so they cannot break the query.
	assert.Equal(t, `"whats" OR "next"`, buildMatchExpression(`what's (next)?`))
	assert.Equal(t, "", buildMatchExpression("?! --"))
}
