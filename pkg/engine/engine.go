// Package engine wires the fact store, staged search, context building,
// and answer generation into one campaign knowledge engine.
package engine

import (
	"context"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/cache"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/config"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/response"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/retrieval"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/seed"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
)

// Engine is the top-level API over the knowledge pipeline.
type Engine struct {
	store     *storage.Store
	searcher  *retrieval.Searcher
	builder   *retrieval.ContextBuilder
	generator *response.Generator
	seeder    *seed.Loader
	logger    *observability.Logger
}

// New assembles an Engine from an opened store and optional cache client.
func New(cfg *config.Config, store *storage.Store, cacheClient cache.Client, logger *observability.Logger) *Engine {
	searcher := retrieval.NewSearcher(store, cacheClient, retrieval.Options{
		Limit:        cfg.Retrieval.Limit,
		CacheResults: cfg.Retrieval.CacheResults,
		CacheTTL:     cfg.Retrieval.CacheTTL,
	}, logger)

	generator := response.NewGenerator(response.Options{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Models:            []string{cfg.LLM.PreferredModel, cfg.LLM.SecondaryModel, cfg.LLM.LastResortModel},
		MaxTokens:         cfg.LLM.MaxTokens,
		Timeout:           cfg.LLM.Timeout,
		MaxResponseLength: cfg.LLM.MaxResponseLength,
	}, logger)

	return &Engine{
		store:     store,
		searcher:  searcher,
		builder:   retrieval.NewContextBuilder(cfg.Retrieval.ConfidenceThreshold, cfg.Retrieval.MaxFacts),
		generator: generator,
		seeder:    seed.NewLoader(store, logger),
		logger:    logger.WithComponent("engine"),
	}
}

// DetectLanguage classifies a query's language by character patterns.
func (e *Engine) DetectLanguage(text string) string {
	return retrieval.DetectLanguage(text)
}

// Search runs the staged search. An empty language triggers detection from
// the query text.
func (e *Engine) Search(ctx context.Context, query, language string, limit int) ([]retrieval.ScoredItem, error) {
	if language == "" {
		language = retrieval.DetectLanguage(query)
	}
	return e.searcher.Search(ctx, query, language, limit)
}

// Answer retrieves facts for the question and generates a reply. It always
// produces an answer: with no relevant facts or no reachable model the
// reply is the canned fallback for the detected language.
func (e *Engine) Answer(ctx context.Context, query, language string) (*response.Answer, error) {
	if language == "" {
		language = retrieval.DetectLanguage(query)
	}

	results, err := e.searcher.Search(ctx, query, language, 0)
	if err != nil {
		// A broken store must not surface to the voter. Answer with zero
		// facts so the canned fallback is served instead.
		e.logger.Warn().Err(err).Str("query", query).Msg("Search failed, answering without facts")
		results = nil
	}

	rctx := e.builder.Build(query, language, results)
	return e.generator.Generate(ctx, rctx)
}

// AddOrUpdate upserts a knowledge item and drops cached search results so
// the new content is immediately visible.
func (e *Engine) AddOrUpdate(ctx context.Context, item *storage.KnowledgeItem) error {
	if err := e.store.Upsert(ctx, item); err != nil {
		return err
	}
	if err := e.searcher.InvalidateCache(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to invalidate search cache")
	}
	return nil
}

// GetItem fetches a knowledge item by id.
func (e *Engine) GetItem(ctx context.Context, id string) (*storage.KnowledgeItem, error) {
	return e.store.GetByID(ctx, id)
}

// Statistics reports store contents.
func (e *Engine) Statistics(ctx context.Context) (*storage.Statistics, error) {
	return e.store.Statistics(ctx)
}

// EnsureSeeded loads the built-in dataset when the store is empty.
func (e *Engine) EnsureSeeded(ctx context.Context) (int, error) {
	return e.seeder.EnsureSeeded(ctx)
}

// ReloadData force-reloads the built-in dataset and clears the search
// cache.
func (e *Engine) ReloadData(ctx context.Context) (int, error) {
	n, err := e.seeder.Reload(ctx)
	if err != nil {
		return 0, err
	}
	if err := e.searcher.InvalidateCache(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to invalidate search cache")
	}
	return n, nil
}
