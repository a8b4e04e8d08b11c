// Package response turns retrieved facts into voter-facing answers through
// a chain of chat models, with canned per-language fallbacks when the
// models are unavailable or the facts are insufficient.
package response

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/retrieval"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
)

// Answer is the generated reply to a voter question.
type Answer struct {
	Response     string                    `json:"response"`
	Language     string                    `json:"language"`
	Confidence   float64                   `json:"confidence_score"`
	Sources      []storage.KnowledgeSource `json:"sources"`
	Topics       []string                  `json:"topics_covered"`
	ResponseType string                    `json:"response_type"`
}

// Response types reported in Answer.ResponseType.
const (
	TypeGenerated = "generated"
	TypeFallback  = "fallback"
)

const maxAnswerSources = 3

// Options configures a Generator. Models are tried in order until one
// answers.
type Options struct {
	APIKey            string
	BaseURL           string
	Models            []string
	MaxTokens         int
	Timeout           time.Duration
	MaxResponseLength int
}

// Generator produces answers from response contexts.
type Generator struct {
	client *openai.Client
	opts   Options
	logger *observability.Logger
}

// NewGenerator creates a Generator. An empty API key is allowed: the
// generator then serves fallback answers only.
func NewGenerator(opts Options, logger *observability.Logger) *Generator {
	if len(opts.Models) == 0 {
		opts.Models = []string{"o3-mini", "o1-mini", "gpt-4-turbo-preview"}
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 600
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxResponseLength <= 0 {
		opts.MaxResponseLength = 1500
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(cfg),
		opts:   opts,
		logger: logger.WithComponent("generator"),
	}
}

// Generate produces an answer for the context. With no usable facts, or
// when every model in the chain fails, it returns the canned fallback for
// the detected language; an answer is always produced and the error return
// stays nil for model failures.
func (g *Generator) Generate(ctx context.Context, rctx *retrieval.ResponseContext) (*Answer, error) {
	if len(rctx.Facts) == 0 {
		return g.fallback(rctx), nil
	}
	if g.opts.APIKey == "" {
		g.logger.Warn().Msg("No API key configured, serving fallback answer")
		return g.fallback(rctx), nil
	}

	text, err := g.complete(ctx, rctx)
	if err != nil {
		g.logger.Error().Err(err).Msg("All models failed, serving fallback answer")
		return g.fallback(rctx), nil
	}

	text = g.postProcess(text, rctx.Language)

	return &Answer{
		Response:     text,
		Language:     rctx.Language,
		Confidence:   rctx.Confidence(),
		Sources:      answerSources(rctx.Facts),
		Topics:       rctx.Topics(),
		ResponseType: TypeGenerated,
	}, nil
}

// complete walks the model chain. Reasoning models reject sampling
// parameters and use the completion-token cap, so the request shape
// depends on the model.
func (g *Generator) complete(ctx context.Context, rctx *retrieval.ResponseContext) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(rctx.Language)},
		{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(rctx)},
	}

	var lastErr error
	for _, model := range g.opts.Models {
		req := openai.ChatCompletionRequest{
			Model:    model,
			Messages: messages,
		}
		if isReasoningModel(model) {
			req.MaxCompletionTokens = g.opts.MaxTokens
		} else {
			req.MaxTokens = g.opts.MaxTokens
			req.Temperature = 0.7
		}

		reqCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
		resp, err := g.client.CreateChatCompletion(reqCtx, req)
		cancel()

		if err != nil {
			g.logger.Warn().Err(err).Str("model", model).Msg("Model attempt failed")
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("model %s returned no choices", model)
			continue
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

func buildUserMessage(rctx *retrieval.ResponseContext) string {
	return fmt.Sprintf(`VOTER QUESTION: %s
DETECTED LANGUAGE: %s

RELEVANT CAMPAIGN INFORMATION:
%s

RESPONSE REQUIREMENTS:
- Respond in %s
- Follow the empathy-first structure: acknowledge, explain, show action, connect benefits, future plan
- Use specific facts and numbers from the provided information
- Keep response conversational and between 200-400 words
- Make it personally relevant to Jersey City residents
- Include Mussab's track record and future plans
- End with an inspiring, values-based message`,
		rctx.Query, rctx.Language, rctx.Summary(), rctx.Language)
}

// postProcess truncates over-length text at a sentence boundary and keeps
// the candidate's name present in non-English answers.
func (g *Generator) postProcess(text, language string) string {
	if len(text) > g.opts.MaxResponseLength {
		text = truncateAtSentence(text, g.opts.MaxResponseLength)
	}
	if language != "en" && !strings.Contains(text, "Mussab") {
		text = strings.ReplaceAll(text, "the candidate", "Mussab")
	}
	return text
}

// truncateAtSentence keeps whole sentences up to maxLen bytes. The result
// always ends with a period when non-empty.
func truncateAtSentence(text string, maxLen int) string {
	sentences := strings.Split(text, ". ")
	var kept []string
	length := 0
	for _, sentence := range sentences {
		if length+len(sentence)+2 > maxLen {
			break
		}
		kept = append(kept, sentence)
		length += len(sentence) + 2
	}
	out := strings.Join(kept, ". ")
	if out != "" && !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}

func (g *Generator) fallback(rctx *retrieval.ResponseContext) *Answer {
	return &Answer{
		Response:     FallbackResponse(rctx.Language),
		Language:     rctx.Language,
		Confidence:   0.1,
		Sources:      []storage.KnowledgeSource{},
		Topics:       []string{},
		ResponseType: TypeFallback,
	}
}

// answerSources collects the primary source of the top facts.
func answerSources(facts []retrieval.ScoredItem) []storage.KnowledgeSource {
	sources := []storage.KnowledgeSource{}
	for _, fact := range facts {
		if len(sources) == maxAnswerSources {
			break
		}
		if src := fact.Item.PrimarySource(); src != nil {
			sources = append(sources, *src)
		}
	}
	return sources
}

// isReasoningModel reports whether the model belongs to the o-series,
// which uses max_completion_tokens and fixed sampling.
func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3")
}
