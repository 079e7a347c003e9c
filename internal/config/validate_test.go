package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 5050, MaxUploadBytes: 32 << 20},
		Store: StoreConfig{
			ServiceID: "voicememo",
			APIKey:    "store-api-key",
			Timeout:   30 * time.Second,
		},
		Models: ModelsConfig{Backend: "openai", EmbeddingDimensions: 384},
		OpenAI: OpenAIConfig{
			BaseURL: "http://localhost:8000/v1",
			Model:   "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small",
		},
		Whisper: WhisperConfig{BaseURL: "http://localhost:9000/v1", Model: "whisper-1", Language: "ja"},
		Staging: StagingConfig{Dir: "/tmp"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_MissingStoreAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Store.APIKey = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "STORE_API_KEY") {
		t.Fatalf("expected STORE_API_KEY error, got: %v", err)
	}
}

func TestValidate_MissingStoreTarget(t *testing.T) {
	cfg := validConfig()
	cfg.Store.ServiceID = ""
	cfg.Store.BaseURL = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "STORE_SERVICE_ID") {
		t.Fatalf("expected STORE_SERVICE_ID error, got: %v", err)
	}
}

func TestValidate_BaseURLAloneIsEnough(t *testing.T) {
	cfg := validConfig()
	cfg.Store.ServiceID = ""
	cfg.Store.BaseURL = "https://store.internal"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Models.Backend = "llama"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "MODELS_BACKEND") {
		t.Fatalf("expected MODELS_BACKEND error, got: %v", err)
	}
}

func TestValidate_GeminiRequiresKey(t *testing.T) {
	cfg := validConfig()
	cfg.Models.Backend = "gemini"
	cfg.Gemini.APIKey = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected GEMINI_API_KEY error, got: %v", err)
	}
}

func TestValidate_PortRange(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Fatalf("expected SERVER_PORT error, got: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Store.APIKey = ""
	cfg.Server.Port = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"STORE_API_KEY", "SERVER_PORT"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in error, got: %v", want, err)
		}
	}
}

func TestStoreEndpoint(t *testing.T) {
	c := StoreConfig{ServiceID: "voicememo"}
	if got := c.Endpoint(); got != "https://voicememo.microcms.io/api/v1/memos" {
		t.Fatalf("unexpected endpoint: %s", got)
	}

	c.BaseURL = "https://store.internal/"
	if got := c.Endpoint(); got != "https://store.internal/api/v1/memos" {
		t.Fatalf("unexpected endpoint with base URL: %s", got)
	}
}
