package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// Content store credentials
	if c.Store.APIKey == "" {
		errs = append(errs, "STORE_API_KEY is required")
	}
	if c.Store.ServiceID == "" && c.Store.BaseURL == "" {
		errs = append(errs, "STORE_SERVICE_ID or STORE_BASE_URL is required")
	}
	if c.Store.Timeout <= 0 {
		errs = append(errs, "STORE_TIMEOUT must be positive")
	}

	// Model backend
	switch c.Models.Backend {
	case "openai":
		if c.OpenAI.APIKey == "" {
			slog.Warn("OPENAI_API_KEY is empty — assuming an unauthenticated OpenAI-compatible endpoint")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			errs = append(errs, "GEMINI_API_KEY is required when MODELS_BACKEND=gemini")
		}
	default:
		errs = append(errs, fmt.Sprintf("MODELS_BACKEND must be one of openai, gemini, got %q", c.Models.Backend))
	}

	if c.Models.EmbeddingDimensions < 1 {
		errs = append(errs, fmt.Sprintf("MODELS_EMBEDDING_DIMENSIONS must be positive, got %d", c.Models.EmbeddingDimensions))
	}

	// Port range
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}

	if c.Server.MaxUploadBytes < 1 {
		errs = append(errs, "SERVER_MAX_UPLOAD_BYTES must be positive")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
