// Package handlers provides HTTP handlers for the campaign chatbot API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/pkg/engine"
)

// supportedLanguages are the languages a client may request explicitly.
// Anything else falls back to detection from the message text.
var supportedLanguages = map[string]bool{"en": true, "es": true, "ar": true, "fr": true}

// ChatHandler handles voter chat requests.
type ChatHandler struct {
	logger *observability.Logger
	engine *engine.Engine
}

// NewChatHandler creates a chat handler.
func NewChatHandler(logger *observability.Logger, eng *engine.Engine) *ChatHandler {
	return &ChatHandler{logger: logger.WithComponent("chat_handler"), engine: eng}
}

// ChatRequest is the chat API request body.
type ChatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
}

// Chat answers a voter question. The client may pin a supported language;
// otherwise the language is detected from the message.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "empty message")
		return
	}

	language := req.Language
	if !supportedLanguages[language] {
		language = h.engine.DetectLanguage(req.Message)
	}

	answer, err := h.engine.Answer(r.Context(), req.Message, language)
	if err != nil {
		h.logger.Error().Err(err).Msg("Chat request failed")
		writeError(w, http.StatusInternalServerError, "failed to generate response")
		return
	}

	h.logger.Info().
		Str("language", language).
		Float64("confidence", answer.Confidence).
		Str("response_type", answer.ResponseType).
		Msg("Answered chat request")

	writeJSON(w, http.StatusOK, answer)
}

// HealthResponse reports service and store status.
type HealthResponse struct {
	Status       string   `json:"status"`
	TotalItems   int      `json:"total_items"`
	Languages    []string `json:"languages"`
	StoreHealthy bool     `json:"store_healthy"`
}

// Health reports liveness plus knowledge store statistics.
func (h *ChatHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Languages: []string{}}

	stats, err := h.engine.Statistics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Health check could not read store")
		resp.Status = "degraded"
	} else {
		resp.StoreHealthy = true
		resp.TotalItems = stats.TotalItems
		for lang := range stats.ByLanguage {
			resp.Languages = append(resp.Languages, lang)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
