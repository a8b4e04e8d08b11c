package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/cache"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/config"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/response"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "engine.db")

	logger := observability.NopLogger()
	store, err := storage.Open(cfg.Database.Path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return New(cfg, store, cache.NewMemoryClient(100), logger)
}

func TestEngine_SeedSearchAnswer(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	n, err := eng.EnsureSeeded(ctx)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	// Second call is a no-op on a populated store.
	n, err = eng.EnsureSeeded(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	results, err := eng.Search(ctx, "experience young qualify accomplished", "", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "faq_experience", results[0].Item.ID)

	// No API key configured: the answer is the canned fallback but still
	// carries the detected language.
	answer, err := eng.Answer(ctx, "¿Cuál es la política de vivienda?", "")
	require.NoError(t, err)
	assert.Equal(t, "es", answer.Language)
	assert.Equal(t, response.TypeFallback, answer.ResponseType)
	assert.Equal(t, response.FallbackResponse("es"), answer.Response)
}

func TestEngine_DetectLanguage(t *testing.T) {
	eng := newTestEngine(t)

	assert.Equal(t, "es", eng.DetectLanguage("¿Cuál es?"))
	assert.Equal(t, "en", eng.DetectLanguage("hello"))
}

func TestEngine_AnswerServesFallbackWhenStoreFails(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "engine.db")

	logger := observability.NopLogger()
	store, err := storage.Open(cfg.Database.Path, logger)
	require.NoError(t, err)

	eng := New(cfg, store, cache.NewMemoryClient(100), logger)

	// Closing the store makes every search error. The voter still gets the
	// canned answer rather than the failure.
	require.NoError(t, store.Close())

	answer, err := eng.Answer(context.Background(), "what is the housing plan", "")
	require.NoError(t, err)
	assert.Equal(t, response.TypeFallback, answer.ResponseType)
	assert.Equal(t, response.FallbackResponse("en"), answer.Response)
	assert.Equal(t, 0.1, answer.Confidence)
}

func TestEngine_AddOrUpdateInvalidatesCache(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.AddOrUpdate(ctx, &storage.KnowledgeItem{
		ID:          "custom_a",
		Content:     "Bike lane expansion across downtown.",
		ContentType: storage.ContentTypePolicy,
		Topic:       "transportation",
		Keywords:    []string{"bike lanes"},
	}))

	first, err := eng.Search(ctx, "bike lanes", "en", 5)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, eng.AddOrUpdate(ctx, &storage.KnowledgeItem{
		ID:          "custom_b",
		Content:     "Protected bike lanes on all arterials.",
		ContentType: storage.ContentTypePolicy,
		Topic:       "transportation",
		Keywords:    []string{"bike lanes"},
	}))

	// The upsert dropped the cached result, so the new item is visible.
	second, err := eng.Search(ctx, "bike lanes", "en", 5)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestEngine_StatisticsAndGetItem(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.EnsureSeeded(ctx)
	require.NoError(t, err)

	stats, err := eng.Statistics(ctx)
	require.NoError(t, err)
	assert.Greater(t, stats.TotalItems, 0)

	item, err := eng.GetItem(ctx, "faq_housing")
	require.NoError(t, err)
	assert.Equal(t, "housing", item.Topic)

	_, err = eng.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEngine_ReloadData(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.EnsureSeeded(ctx)
	require.NoError(t, err)

	before, err := eng.Statistics(ctx)
	require.NoError(t, err)

	n, err := eng.ReloadData(ctx)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	after, err := eng.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.TotalItems, after.TotalItems)
}
