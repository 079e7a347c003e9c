package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/memovox/memovox/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	Process http.HandlerFunc

	// ModelsLoaded reports whether every capability provider has been
	// initialized. Wired from the provider registry.
	ModelsLoaded func() bool
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
}

func NewRouter(cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Health probe — models are loaded before the router starts serving,
	// but report honestly if a handler set is wired without them.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		loaded := h.ModelsLoaded != nil && h.ModelsLoaded()
		status := http.StatusOK
		state := "ok"
		if !loaded {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		JSON(w, status, map[string]any{
			"status":        state,
			"models_loaded": loaded,
		})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Ingestion route: multipart audio or JSON text
	r.Post("/process", h.Process)

	return r
}
