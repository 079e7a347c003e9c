package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/memovox/memovox/internal/api"
	"github.com/memovox/memovox/internal/config"
	"github.com/memovox/memovox/internal/contentstore"
	"github.com/memovox/memovox/internal/memo"
	"github.com/memovox/memovox/internal/providers"
	"github.com/memovox/memovox/internal/providers/gemini"
	"github.com/memovox/memovox/internal/providers/openai"
	"github.com/memovox/memovox/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("validating config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Capability providers: built once, before the endpoint accepts
	// traffic, and read-only from then on.
	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		slog.Error("initializing model providers", "error", err)
		os.Exit(1)
	}
	slog.Info("model providers initialized",
		"backend", cfg.Models.Backend,
		"embedding_dimensions", cfg.Models.EmbeddingDimensions,
	)

	// Content store
	store := contentstore.NewClient(cfg.Store)

	// Ingestion pipeline
	staging := memo.NewStaging(cfg.Staging.Dir)
	svc := memo.NewService(registry, store, cfg.Whisper.Language)
	handler := memo.NewHandler(svc, staging, cfg.Server.MaxUploadBytes)

	// Router
	router := api.NewRouter(api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
	}, api.HandlerSet{
		Process:      handler.Process,
		ModelsLoaded: registry.Loaded,
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func buildRegistry(ctx context.Context, cfg *config.Config) (*providers.Registry, error) {
	switch cfg.Models.Backend {
	case "gemini":
		client, err := gemini.New(ctx, cfg.Gemini, cfg.Models.EmbeddingDimensions)
		if err != nil {
			return nil, err
		}
		return providers.NewRegistry(client, client, client)
	default:
		summarizer, err := openai.NewSummarizer(cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		embedder, err := openai.NewEmbedder(cfg.OpenAI, cfg.Models.EmbeddingDimensions)
		if err != nil {
			return nil, err
		}
		transcriber := openai.NewTranscriber(cfg.Whisper, cfg.OpenAI.APIKey)
		return providers.NewRegistry(transcriber, summarizer, embedder)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
