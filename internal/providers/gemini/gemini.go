// Package gemini provides capability backends built on the Gemini API:
// summarization and audio transcription via GenerateContent, and vectors
// via EmbedContent. One client serves all three capabilities.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"github.com/memovox/memovox/internal/config"
	"github.com/memovox/memovox/internal/providers"
)

const (
	summaryPrompt    = "Summarize the following memo in one or two short sentences. Reply with the summary only.\n\n"
	transcribePrompt = "Transcribe this audio recording verbatim. Reply with the transcript text only."
)

// Client implements providers.Transcriber, providers.Summarizer and
// providers.Embedder against the Gemini API.
type Client struct {
	client          *genai.Client
	generativeModel string
	embeddingModel  string
	dimensions      int
	logger          *slog.Logger
}

func New(ctx context.Context, cfg config.GeminiConfig, dimensions int) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Client{
		client:          client,
		generativeModel: cfg.Model,
		embeddingModel:  cfg.EmbeddingModel,
		dimensions:      dimensions,
		logger:          slog.Default().With("component", "gemini"),
	}, nil
}

func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	c.logger.Debug("summarizing text", "length", len(text))

	resp, err := c.client.Models.GenerateContent(ctx, c.generativeModel,
		genai.Text(summaryPrompt+text), nil)
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, filename, language string) ([]providers.Segment, error) {
	c.logger.Debug("transcribing audio", "filename", filename, "bytes", len(audio), "language", language)

	prompt := transcribePrompt
	if language != "" {
		prompt = fmt.Sprintf("%s The audio is in language %q.", transcribePrompt, language)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(audio, audioMIMEType(filename)),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.generativeModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcribing audio: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("transcription returned no text")
	}

	// Gemini returns one flat transcript, not timed segments.
	return []providers.Segment{{Text: text}}, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	c.logger.Debug("generating embedding", "length", len(text))

	resp, err := c.client.Models.EmbedContent(ctx, c.embeddingModel,
		genai.Text(text), &genai.EmbedContentConfig{
			OutputDimensionality: genai.Ptr(int32(c.dimensions)),
		})
	if err != nil {
		return nil, fmt.Errorf("generating embedding: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding API returned no vectors")
	}

	vec := resp.Embeddings[0].Values
	if len(vec) != c.dimensions {
		return nil, fmt.Errorf("embedding API returned %d dimensions, expected %d", len(vec), c.dimensions)
	}
	return vec, nil
}

func (c *Client) Dimensions() int {
	return c.dimensions
}

func audioMIMEType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	default:
		// Browser MediaRecorder uploads default to webm.
		return "audio/webm"
	}
}
