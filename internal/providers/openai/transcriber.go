package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/memovox/memovox/internal/config"
	"github.com/memovox/memovox/internal/providers"
)

// Transcriber calls a whisper-server exposing the OpenAI audio
// transcription API (`/audio/transcriptions`, verbose_json).
type Transcriber struct {
	client *resty.Client
	model  string
	logger *slog.Logger
}

func NewTranscriber(cfg config.WhisperConfig, apiKey string) *Transcriber {
	c := resty.New().SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/"))
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}

	return &Transcriber{
		client: c,
		model:  cfg.Model,
		logger: slog.Default().With("component", "whisper-transcriber"),
	}
}

type transcriptionResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename, language string) ([]providers.Segment, error) {
	t.logger.Debug("transcribing audio", "filename", filename, "bytes", len(audio), "language", language)

	resp, err := t.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audio)).
		SetFormData(map[string]string{
			"model":           t.model,
			"language":        language,
			"response_format": "verbose_json",
		}).
		Post("/audio/transcriptions")
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("transcription failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return nil, fmt.Errorf("decoding transcription response: %w", err)
	}

	segments := make([]providers.Segment, 0, len(tr.Segments))
	for _, s := range tr.Segments {
		segments = append(segments, providers.Segment{
			Text:     strings.TrimSpace(s.Text),
			StartSec: s.Start,
			EndSec:   s.End,
		})
	}

	// Some servers omit segments for short clips and return only the
	// full text.
	if len(segments) == 0 && strings.TrimSpace(tr.Text) != "" {
		segments = append(segments, providers.Segment{Text: strings.TrimSpace(tr.Text)})
	}

	return segments, nil
}
