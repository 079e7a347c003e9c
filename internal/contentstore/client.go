// Package contentstore submits enriched memo records to the remote
// content store, a microCMS-style write-only append API.
package contentstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/memovox/memovox/internal/config"
)

// Record is the wire shape of a persisted memo. The embedding vector is
// encoded as a JSON numeric array inside a string field, matching the
// store's text-field contract.
type Record struct {
	UserID          string   `json:"user_id"`
	AudioURL        string   `json:"audio_url"`
	Transcript      string   `json:"transcript"`
	Summary         string   `json:"summary"`
	Tags            []string `json:"tags"`
	ProcessedAt     string   `json:"processed_at"`
	AudioFilename   string   `json:"audio_filename"`
	DurationSeconds int      `json:"duration_seconds"`
	EmbeddingVector string   `json:"embedding_vector"`
}

// Result reports the outcome of a submission. Failures are data, not
// faults: the caller surfaces them directly in its own response.
type Result struct {
	Success   bool
	ContentID string
	Error     string
}

type Client struct {
	client   *resty.Client
	endpoint string
	logger   *slog.Logger
}

func NewClient(cfg config.StoreConfig) *Client {
	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-MICROCMS-API-KEY", cfg.APIKey).
		SetTimeout(cfg.Timeout)

	return &Client{
		client:   c,
		endpoint: cfg.Endpoint(),
		logger:   slog.Default().With("component", "contentstore"),
	}
}

// Submit posts one record. A single synchronous attempt, no retries: the
// caller decides what a failed persistence means for its request.
func (c *Client) Submit(ctx context.Context, rec Record) Result {
	c.logger.Debug("submitting memo", "user_id", rec.UserID, "filename", rec.AudioFilename)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&rec).
		Post(c.endpoint)
	if err != nil {
		c.logger.Error("content store unreachable", "error", err)
		return Result{Error: fmt.Sprintf("content store unreachable: %v", err)}
	}

	if resp.StatusCode() != http.StatusCreated {
		c.logger.Error("content store rejected record",
			"status", resp.StatusCode(), "body", resp.String())
		return Result{Error: fmt.Sprintf("content store returned status %d", resp.StatusCode())}
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		// Created, but the body is unusable; report success without an ID.
		c.logger.Warn("content store response undecodable", "error", err)
		return Result{Success: true}
	}

	c.logger.Info("memo persisted", "content_id", body.ID, "user_id", rec.UserID)
	return Result{Success: true, ContentID: body.ID}
}
