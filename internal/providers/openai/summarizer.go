// Package openai provides capability backends built on OpenAI-compatible
// APIs: a chat-model summarizer, an embeddings client, and a whisper-server
// transcriber. All of them work against self-hosted endpoints as well as
// the hosted API.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/memovox/memovox/internal/config"
)

const summaryPrompt = "Summarize the following memo in one or two short sentences. Reply with the summary only.\n\n"

// Summarizer generates memo summaries via an OpenAI-compatible chat API.
type Summarizer struct {
	model  llms.Model
	logger *slog.Logger
}

func NewSummarizer(cfg config.OpenAIConfig) (*Summarizer, error) {
	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(tokenOrNone(cfg.APIKey)),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}

	return &Summarizer{
		model:  client,
		logger: slog.Default().With("component", "openai-summarizer"),
	}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	s.logger.Debug("summarizing text", "length", len(text))

	out, err := llms.GenerateFromSinglePrompt(ctx, s.model, summaryPrompt+text,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(120),
	)
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}

	return strings.TrimSpace(out), nil
}

// tokenOrNone substitutes a placeholder token for local OpenAI-compatible
// services that don't require authentication; langchaingo rejects an
// empty token outright.
func tokenOrNone(key string) string {
	if key == "" {
		return "none"
	}
	return key
}
