// Package retrieval implements multi-stage knowledge search: exact keyword
// overlap, full-text matching, topic hierarchy traversal, and multilingual
// keyword expansion, merged into a single ranked result set.
package retrieval

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/cache"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
)

// Stage weights. Every stage yields raw scores in (0, 1]; the weighted
// maximum across stages becomes the item's relevance.
const (
	weightExactKeyword = 1.0
	weightFullText     = 0.8
	weightMultilingual = 0.7
	weightTopic        = 0.6

	rawFullText       = 0.7
	rawSubstring      = 0.4
	rawTopicDirect    = 0.5
	rawTopicRelated   = 0.3
	matchLimit        = 10
	substringLimit    = 5
	substringMaxWords = 3
)

// ScoredItem pairs a knowledge item with its relevance score.
type ScoredItem struct {
	Item  *storage.KnowledgeItem `json:"item"`
	Score float64                `json:"score"`
}

// Options configures a Searcher.
type Options struct {
	Limit        int
	CacheResults bool
	CacheTTL     time.Duration
}

// Searcher runs the staged search pipeline against the fact store, with an
// optional result cache in front.
type Searcher struct {
	store  *storage.Store
	cache  cache.Client
	opts   Options
	logger *observability.Logger
}

// NewSearcher creates a Searcher. cacheClient may be nil to disable caching.
func NewSearcher(store *storage.Store, cacheClient cache.Client, opts Options, logger *observability.Logger) *Searcher {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &Searcher{
		store:  store,
		cache:  cacheClient,
		opts:   opts,
		logger: logger.WithComponent("searcher"),
	}
}

// Search runs all applicable stages for the query and returns the merged,
// ranked results. When the same item surfaces from several stages its best
// weighted score wins; results are sorted by score descending with ties
// kept in discovery order, then truncated to limit. limit <= 0 uses the
// configured default. An empty store yields an empty slice, not an error.
func (s *Searcher) Search(ctx context.Context, query, language string, limit int) ([]ScoredItem, error) {
	if limit <= 0 {
		limit = s.opts.Limit
	}

	cacheKey := cache.Key("search", language, strconv.Itoa(limit), query)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	normalized := NormalizeQuery(query, language)

	merged := newResultSet()

	exact, err := s.exactKeywordStage(ctx, normalized, language)
	if err != nil {
		return nil, err
	}
	merged.add(exact, weightExactKeyword)

	fullText, err := s.fullTextStage(ctx, normalized, language)
	if err != nil {
		return nil, err
	}
	merged.add(fullText, weightFullText)

	topical, err := s.topicStage(ctx, normalized, language)
	if err != nil {
		return nil, err
	}
	merged.add(topical, weightTopic)

	if language != LanguageEnglish {
		expanded, err := s.multilingualStage(ctx, query, language)
		if err != nil {
			return nil, err
		}
		merged.add(expanded, weightMultilingual)
	}

	results := merged.ranked(limit)

	s.logger.Debug().
		Str("query", query).
		Str("language", language).
		Int("results", len(results)).
		Msg("Search complete")

	s.toCache(ctx, cacheKey, results)
	return results, nil
}

// InvalidateCache drops every cached search result. Called after the store
// changes so stale rankings are never served.
func (s *Searcher) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPrefix(ctx, "search:")
}

// exactKeywordStage scores items by keyword overlap with the query tokens:
// |intersection| / max(|query tokens|, |item keywords|).
func (s *Searcher) exactKeywordStage(ctx context.Context, query, language string) ([]ScoredItem, error) {
	queryWords := tokenSet(query)
	if len(queryWords) == 0 {
		return nil, nil
	}

	candidates, err := s.store.SearchCandidates(ctx, language, nil)
	if err != nil {
		return nil, err
	}

	var results []ScoredItem
	for _, item := range candidates {
		overlap := 0
		for _, kw := range item.Keywords {
			if _, ok := queryWords[strings.ToLower(kw)]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		denom := len(queryWords)
		if len(item.Keywords) > denom {
			denom = len(item.Keywords)
		}
		results = append(results, ScoredItem{Item: item, Score: float64(overlap) / float64(denom)})
	}
	return results, nil
}

// fullTextStage matches the query against the FTS index with a flat raw
// score. A query that cannot be compiled into a match expression, or one
// the index rejects, degrades to substring matching at a lower raw score.
func (s *Searcher) fullTextStage(ctx context.Context, query, language string) ([]ScoredItem, error) {
	match := buildMatchExpression(query)
	if match == "" {
		return s.substringFallback(ctx, query, language)
	}

	items, err := s.store.MatchFullText(ctx, match, language, matchLimit)
	if err != nil {
		s.logger.Warn().Err(err).Str("match", match).Msg("Full-text match failed, using substring fallback")
		return s.substringFallback(ctx, query, language)
	}

	results := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		results = append(results, ScoredItem{Item: item, Score: rawFullText})
	}
	return results, nil
}

func (s *Searcher) substringFallback(ctx context.Context, query, language string) ([]ScoredItem, error) {
	var results []ScoredItem

	words := strings.Fields(query)
	if len(words) > substringMaxWords {
		words = words[:substringMaxWords]
	}
	for _, word := range words {
		if len([]rune(word)) <= 2 {
			continue
		}
		items, err := s.store.MatchSubstring(ctx, word, language, substringLimit)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			results = append(results, ScoredItem{Item: item, Score: rawSubstring})
		}
	}
	return results, nil
}

// topicStage finds topics named in the query and scores their items: a
// direct topic hit rates above an item merely related to a matched topic.
func (s *Searcher) topicStage(ctx context.Context, query, language string) ([]ScoredItem, error) {
	matched := MatchTopics(query)
	if len(matched) == 0 {
		return nil, nil
	}

	matchedSet := make(map[string]struct{}, len(matched))
	unique := matched[:0]
	for _, t := range matched {
		if _, dup := matchedSet[t]; dup {
			continue
		}
		matchedSet[t] = struct{}{}
		unique = append(unique, t)
	}

	items, err := s.store.SearchCandidates(ctx, language, unique)
	if err != nil {
		return nil, err
	}

	results := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		score := rawTopicRelated
		if _, ok := matchedSet[item.Topic]; ok {
			score = rawTopicDirect
		}
		results = append(results, ScoredItem{Item: item, Score: score})
	}
	return results, nil
}

// multilingualStage translates query terms to English keyword lists and
// re-runs the exact keyword stage against English content. Runs on the raw
// query: stop-word lists differ per language and expansion terms are plain
// vocabulary, not stop words.
func (s *Searcher) multilingualStage(ctx context.Context, query, language string) ([]ScoredItem, error) {
	expanded := ExpandKeywords(query, language)
	if len(expanded) == 0 {
		return nil, nil
	}
	return s.exactKeywordStage(ctx, strings.Join(expanded, " "), LanguageEnglish)
}

// buildMatchExpression turns query tokens into an FTS5 OR-of-phrases
// expression. Tokens are stripped to letters and digits so operator
// characters cannot produce syntax errors; an empty result means the query
// has nothing the index can match.
func buildMatchExpression(query string) string {
	var phrases []string
	for _, word := range strings.Fields(query) {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, word)
		if clean != "" {
			phrases = append(phrases, `"`+clean+`"`)
		}
	}
	return strings.Join(phrases, " OR ")
}

func tokenSet(query string) map[string]struct{} {
	words := strings.Fields(query)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// resultSet merges stage outputs by item id, keeping the best weighted
// score per item and remembering first-seen order for stable ties.
type resultSet struct {
	scores map[string]float64
	items  map[string]*storage.KnowledgeItem
	order  []string
}

func newResultSet() *resultSet {
	return &resultSet{
		scores: map[string]float64{},
		items:  map[string]*storage.KnowledgeItem{},
	}
}

func (rs *resultSet) add(stage []ScoredItem, weight float64) {
	for _, si := range stage {
		weighted := si.Score * weight
		prev, seen := rs.scores[si.Item.ID]
		if !seen {
			rs.order = append(rs.order, si.Item.ID)
			rs.items[si.Item.ID] = si.Item
		}
		if !seen || weighted > prev {
			rs.scores[si.Item.ID] = weighted
		}
	}
}

func (rs *resultSet) ranked(limit int) []ScoredItem {
	results := make([]ScoredItem, 0, len(rs.order))
	for _, id := range rs.order {
		results = append(results, ScoredItem{Item: rs.items[id], Score: rs.scores[id]})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (s *Searcher) fromCache(ctx context.Context, key string) []ScoredItem {
	if s.cache == nil || !s.opts.CacheResults {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var results []ScoredItem
	if err := json.Unmarshal(data, &results); err != nil {
		return nil
	}
	return results
}

func (s *Searcher) toCache(ctx context.Context, key string, results []ScoredItem) {
	if s.cache == nil || !s.opts.CacheResults {
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to cache search results")
	}
}
