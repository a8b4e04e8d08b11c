package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/pkg/engine"
)

// KnowledgeHandler handles knowledge store management requests.
type KnowledgeHandler struct {
	logger *observability.Logger
	engine *engine.Engine
}

// NewKnowledgeHandler creates a knowledge handler.
func NewKnowledgeHandler(logger *observability.Logger, eng *engine.Engine) *KnowledgeHandler {
	return &KnowledgeHandler{logger: logger.WithComponent("knowledge_handler"), engine: eng}
}

// SearchRequest is the search API request body.
type SearchRequest struct {
	Query    string `json:"query"`
	Language string `json:"language,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// SearchResult is one ranked item in the search API response.
type SearchResult struct {
	Item  *storage.KnowledgeItem `json:"item"`
	Score float64                `json:"score"`
}

// Search runs the staged knowledge search and returns ranked items.
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "empty query")
		return
	}

	results, err := h.engine.Search(r.Context(), req.Query, req.Language, req.Limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Search request failed")
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	out := make([]SearchResult, 0, len(results))
	for _, res := range results {
		out = append(out, SearchResult{Item: res.Item, Score: res.Score})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": out})
}

// Stats returns knowledge store statistics.
func (h *KnowledgeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Statistics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Stats request failed")
		writeError(w, http.StatusInternalServerError, "failed to read statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Get returns a single knowledge item by id.
func (h *KnowledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.engine.GetItem(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "knowledge item not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("item_id", id).Msg("Get request failed")
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Upsert inserts or replaces a knowledge item. A missing id gets a
// generated one; the response echoes the stored item.
func (h *KnowledgeHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var item storage.KnowledgeItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if err := h.engine.AddOrUpdate(r.Context(), &item); err != nil {
		h.logger.Error().Err(err).Str("item_id", item.ID).Msg("Upsert request failed")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, &item)
}

// RefreshData force-reloads the built-in campaign dataset.
func (h *KnowledgeHandler) RefreshData(w http.ResponseWriter, r *http.Request) {
	n, err := h.engine.ReloadData(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Data refresh failed")
		writeError(w, http.StatusInternalServerError, "failed to refresh data")
		return
	}

	h.logger.Info().Int("items", n).Msg("Campaign data refreshed")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Campaign data refreshed successfully.",
		"items":   n,
	})
}
