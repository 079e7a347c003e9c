package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/memovox/memovox/internal/config"
)

// Embedder generates fixed-length vectors via an OpenAI-compatible
// embeddings API.
type Embedder struct {
	embedder   embeddings.Embedder
	dimensions int
	logger     *slog.Logger
}

func NewEmbedder(cfg config.OpenAIConfig, dimensions int) (*Embedder, error) {
	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(tokenOrNone(cfg.APIKey)),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("creating openai embeddings client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("wrapping embedder: %w", err)
	}

	return &Embedder{
		embedder:   embedder,
		dimensions: dimensions,
		logger:     slog.Default().With("component", "openai-embedder"),
	}, nil
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding", "length", len(text))

	vecs, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("generating embedding: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embeddings API returned no vectors")
	}

	vec := vecs[0]
	if len(vec) != e.dimensions {
		return nil, fmt.Errorf("embeddings API returned %d dimensions, expected %d", len(vec), e.dimensions)
	}
	return vec, nil
}

func (e *Embedder) Dimensions() int {
	return e.dimensions
}
