// Package generation wraps the external text-generation model that drafts
// decision briefs. Generation is mandatory on the safe path: failures here
// surface to the caller as errors and are never converted into a verdict.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config describes the chat-completion endpoint. BaseURL supports any
// OpenAI-compatible server, including a local Ollama instance.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float32
}

const systemPrompt = "You are drafting a decision brief for business leaders. " +
	"Ground every claim in the supplied context where possible, state the " +
	"recommendation first, then the reasoning, known risks, and metrics to monitor. " +
	"If no context is supplied, say so and keep the brief conservative."

// OpenAIGenerator produces briefs through a chat-completion endpoint.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	maxRetries  int
	temperature float32
	cache       *BriefCache
	logger      *slog.Logger
}

// New builds a generator. cache may be nil to disable brief caching.
func New(cfg Config, cache *BriefCache, logger *slog.Logger) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		// Low temperature keeps repeated briefs stable for the same inputs.
		temperature = 0.1
	}

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		timeout:     timeout,
		maxRetries:  cfg.MaxRetries,
		temperature: temperature,
		cache:       cache,
		logger:      logger,
	}
}

// Generate drafts a brief for the question using the retrieved context
// excerpts (possibly empty). Retries transient failures up to MaxRetries
// before giving up.
func (g *OpenAIGenerator) Generate(ctx context.Context, question string, excerpts []string) (string, error) {
	prompt := buildPrompt(question, excerpts)

	if brief, ok := g.cache.Get(ctx, prompt); ok {
		g.logger.Debug("brief cache hit")
		return brief, nil
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		brief, err := g.complete(ctx, prompt)
		if err == nil {
			g.cache.Set(ctx, prompt, brief)
			return brief, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		g.logger.Warn("brief generation attempt failed",
			"attempt", attempt+1,
			"error", err,
		)
	}
	return "", fmt.Errorf("generate brief: %w", lastErr)
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	brief := strings.TrimSpace(resp.Choices[0].Message.Content)
	if brief == "" {
		return "", fmt.Errorf("model returned an empty brief")
	}
	return brief, nil
}

// Health reports whether the model endpoint is reachable.
func (g *OpenAIGenerator) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func buildPrompt(question string, excerpts []string) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	if len(excerpts) == 0 {
		b.WriteString("Context: no relevant experiments or KPI documents were found.\n")
		return b.String()
	}
	b.WriteString("Context from past experiments and KPI documents:\n")
	for i, e := range excerpts {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, e)
	}
	return b.String()
}
