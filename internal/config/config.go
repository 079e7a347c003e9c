package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Models  ModelsConfig
	OpenAI  OpenAIConfig
	Whisper WhisperConfig
	Gemini  GeminiConfig
	Staging StagingConfig
	CORS    CORSConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	MaxUploadBytes int64
}

// StoreConfig points at the remote content store (a microCMS-style
// write-only append API).
type StoreConfig struct {
	ServiceID string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
}

// Endpoint returns the memo collection URL. BaseURL, when set, overrides
// the service-id derived default.
func (c StoreConfig) Endpoint() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/") + "/api/v1/memos"
	}
	return fmt.Sprintf("https://%s.microcms.io/api/v1/memos", c.ServiceID)
}

type ModelsConfig struct {
	Backend             string // "openai" or "gemini"
	EmbeddingDimensions int
}

type OpenAIConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	EmbeddingModel string
}

type WhisperConfig struct {
	BaseURL  string
	Model    string
	Language string
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
}

type StagingConfig struct {
	Dir string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           k.String("server.host"),
			Port:           k.Int("server.port"),
			MaxUploadBytes: k.Int64("server.max.upload.bytes"),
		},
		Store: StoreConfig{
			ServiceID: k.String("store.service.id"),
			APIKey:    k.String("store.api.key"),
			BaseURL:   k.String("store.base.url"),
		},
		Models: ModelsConfig{
			Backend:             k.String("models.backend"),
			EmbeddingDimensions: k.Int("models.embedding.dimensions"),
		},
		OpenAI: OpenAIConfig{
			BaseURL:        k.String("openai.base.url"),
			APIKey:         k.String("openai.api.key"),
			Model:          k.String("openai.model"),
			EmbeddingModel: k.String("openai.embedding.model"),
		},
		Whisper: WhisperConfig{
			BaseURL:  k.String("whisper.base.url"),
			Model:    k.String("whisper.model"),
			Language: k.String("whisper.language"),
		},
		Gemini: GeminiConfig{
			APIKey:         k.String("gemini.api.key"),
			Model:          k.String("gemini.model"),
			EmbeddingModel: k.String("gemini.embedding.model"),
		},
		Staging: StagingConfig{
			Dir: k.String("staging.dir"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitOrigins(k.String("cors.allowed.origins")),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5050
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 32 << 20
	}
	if cfg.Models.Backend == "" {
		cfg.Models.Backend = "openai"
	}
	if cfg.Models.EmbeddingDimensions == 0 {
		cfg.Models.EmbeddingDimensions = 384
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "http://localhost:8000/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.Whisper.BaseURL == "" {
		cfg.Whisper.BaseURL = "http://localhost:9000/v1"
	}
	if cfg.Whisper.Model == "" {
		cfg.Whisper.Model = "whisper-1"
	}
	if cfg.Whisper.Language == "" {
		cfg.Whisper.Language = "ja"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Gemini.EmbeddingModel == "" {
		cfg.Gemini.EmbeddingModel = "gemini-embedding-001"
	}
	if cfg.Staging.Dir == "" {
		cfg.Staging.Dir = "/tmp"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	timeoutStr := k.String("store.timeout")
	if timeoutStr == "" {
		timeoutStr = "30s"
	}
	cfg.Store.Timeout, err = time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("parsing store timeout: %w", err)
	}

	return cfg, nil
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
