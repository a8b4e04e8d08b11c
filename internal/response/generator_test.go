package response

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/retrieval"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
)

func factContext(language string) *retrieval.ResponseContext {
	return &retrieval.ResponseContext{
		Query:    "what is the housing plan",
		Language: language,
		Facts: []retrieval.ScoredItem{{
			Item: &storage.KnowledgeItem{
				ID:      "faq_housing",
				Content: "Mussab will expand zoning and approve over 25,000 units.",
				Topic:   "housing",
				Sources: []storage.KnowledgeSource{{
					URL:         "https://www.ali2025.com/",
					Credibility: storage.CredibilityPrimary,
				}},
			},
			Score: 0.8,
		}},
	}
}

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func completionResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  "o3-mini",
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
	}
}

func TestGenerator_Generate_Success(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		// The fact summary travels in the user message.
		assert.Contains(t, req.Messages[1].Content, "25,000 units")

		_ = json.NewEncoder(w).Encode(completionResponse("I hear you. Mussab will approve over 25,000 units."))
	})

	gen := NewGenerator(Options{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Models:  []string{"o3-mini"},
	}, observability.NopLogger())

	answer, err := gen.Generate(context.Background(), factContext("en"))
	require.NoError(t, err)

	assert.Equal(t, TypeGenerated, answer.ResponseType)
	assert.Equal(t, "I hear you. Mussab will approve over 25,000 units.", answer.Response)
	assert.Equal(t, "en", answer.Language)
	assert.Equal(t, []string{"housing"}, answer.Topics)
	require.Len(t, answer.Sources, 1)
	assert.Greater(t, answer.Confidence, 0.0)
}

func TestGenerator_Generate_FallsBackThroughModelChain(t *testing.T) {
	var calls int32
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		if atomic.AddInt32(&calls, 1) == 1 {
			assert.Equal(t, "o3-mini", req.Model)
			http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "o1-mini", req.Model)
		_ = json.NewEncoder(w).Encode(completionResponse("Answer from the second model."))
	})

	gen := NewGenerator(Options{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Models:  []string{"o3-mini", "o1-mini"},
	}, observability.NopLogger())

	answer, err := gen.Generate(context.Background(), factContext("en"))
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "Answer from the second model.", answer.Response)
	assert.Equal(t, TypeGenerated, answer.ResponseType)
}

func TestGenerator_Generate_AllModelsFailServesFallback(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"down"}}`, http.StatusInternalServerError)
	})

	gen := NewGenerator(Options{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Models:  []string{"o3-mini", "gpt-4-turbo-preview"},
	}, observability.NopLogger())

	answer, err := gen.Generate(context.Background(), factContext("es"))
	require.NoError(t, err)

	assert.Equal(t, TypeFallback, answer.ResponseType)
	assert.Equal(t, FallbackResponse("es"), answer.Response)
	assert.Equal(t, 0.1, answer.Confidence)
	assert.Empty(t, answer.Sources)
}

func TestGenerator_Generate_NoFactsSkipsAPI(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no API call expected with an empty fact set")
	})

	gen := NewGenerator(Options{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, observability.NopLogger())

	answer, err := gen.Generate(context.Background(), &retrieval.ResponseContext{
		Query:    "unknown topic",
		Language: "ar",
	})
	require.NoError(t, err)

	assert.Equal(t, TypeFallback, answer.ResponseType)
	assert.Equal(t, FallbackResponse("ar"), answer.Response)
	assert.Equal(t, 0.1, answer.Confidence)
}

func TestGenerator_Generate_NoAPIKeyServesFallback(t *testing.T) {
	gen := NewGenerator(Options{}, observability.NopLogger())

	answer, err := gen.Generate(context.Background(), factContext("fr"))
	require.NoError(t, err)

	assert.Equal(t, TypeFallback, answer.ResponseType)
	assert.Equal(t, FallbackResponse("fr"), answer.Response)
}

func TestGenerator_Generate_TruncatesLongResponses(t *testing.T) {
	long := strings.Repeat("This is a fairly long sentence about the campaign. ", 60)
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(long))
	})

	gen := NewGenerator(Options{
		APIKey:            "test-key",
		BaseURL:           server.URL,
		Models:            []string{"o3-mini"},
		MaxResponseLength: 300,
		Timeout:           5 * time.Second,
	}, observability.NopLogger())

	answer, err := gen.Generate(context.Background(), factContext("en"))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(answer.Response), 300)
	assert.True(t, strings.HasSuffix(answer.Response, "."))
}

func TestGenerator_RequestShapePerModelFamily(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// Reasoning models get the completion-token cap and no sampling.
		assert.Equal(t, 600, req.MaxCompletionTokens)
		assert.Zero(t, req.MaxTokens)
		assert.Zero(t, req.Temperature)

		_ = json.NewEncoder(w).Encode(completionResponse("ok"))
	})

	gen := NewGenerator(Options{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Models:  []string{"o3-mini"},
	}, observability.NopLogger())

	_, err := gen.Generate(context.Background(), factContext("en"))
	require.NoError(t, err)
}

func TestTruncateAtSentence(t *testing.T) {
	text := "First sentence. Second sentence. Third sentence."

	out := truncateAtSentence(text, 35)
	assert.Equal(t, "First sentence. Second sentence.", out)

	// Nothing fits: empty result rather than a cut-off fragment.
	assert.Equal(t, "", truncateAtSentence(text, 5))
}

func TestSystemPrompt_FallsBackToEnglish(t *testing.T) {
	assert.Equal(t, systemPrompts["en"], SystemPrompt("de"))
	assert.NotEqual(t, systemPrompts["en"], SystemPrompt("es"))
}

func TestFallbackResponse_AllLanguages(t *testing.T) {
	for _, lang := range []string{"en", "es", "ar", "fr"} {
		assert.NotEmpty(t, FallbackResponse(lang))
	}
	assert.Equal(t, fallbackResponses["en"], FallbackResponse("pt"))
}
