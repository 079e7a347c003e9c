package memo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/memovox/memovox/internal/contentstore"
	"github.com/memovox/memovox/internal/metrics"
	"github.com/memovox/memovox/internal/providers"
)

// ContentStore persists enriched memos. Implemented by contentstore.Client.
type ContentStore interface {
	Submit(ctx context.Context, rec contentstore.Record) contentstore.Result
}

// Service runs the enrichment pipeline: transcribe (audio only), then
// summarize, tag, embed and persist, strictly in order. Failure at any
// stage aborts the remaining stages.
type Service struct {
	providers *providers.Registry
	store     ContentStore
	language  string
	logger    *slog.Logger
}

func NewService(reg *providers.Registry, store ContentStore, language string) *Service {
	return &Service{
		providers: reg,
		store:     store,
		language:  language,
		logger:    slog.Default().With("component", "pipeline"),
	}
}

// Process handles one memo request to completion. Every failure mode is
// returned as data; a fault inside a stage is recovered here and never
// reaches the caller as a panic.
func (s *Service) Process(ctx context.Context, req MemoRequest) (result Result) {
	source := "text"
	if req.Audio != nil {
		source = "audio"
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("pipeline panic", "panic", rec, "user_id", req.UserID)
			result = Result{Error: fmt.Sprintf("internal pipeline failure: %v", rec)}
		}
		status := "failure"
		if result.Success {
			status = "success"
		}
		metrics.MemosProcessedTotal.WithLabelValues(source, status).Inc()
	}()

	if err := req.Validate(); err != nil {
		return Result{Error: err.Error()}
	}

	text := ""
	filename := ""
	switch {
	case req.Audio != nil:
		transcript, err := s.transcribe(ctx, req.Audio)
		if err != nil {
			s.logger.Error("transcription failed", "error", err, "filename", req.Audio.Filename, "user_id", req.UserID)
			return Result{Error: fmt.Sprintf("transcription failed: %v", err)}
		}
		text, filename = transcript, req.Audio.Filename
	default:
		text, filename = req.Text.Text, req.Text.Filename
	}

	return s.enrich(ctx, text, filename, req.UserID)
}

// transcribe converts audio into one transcript string: segments are
// space-joined in utterance order.
func (s *Service) transcribe(ctx context.Context, asset *AudioAsset) (string, error) {
	defer observeStage("transcribe", time.Now())

	segments, err := s.providers.Transcriber().Transcribe(ctx, asset.Bytes, asset.Filename, s.language)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " "), nil
}

func (s *Service) enrich(ctx context.Context, text, filename, userID string) Result {
	// Summarize the full text.
	start := time.Now()
	summary, err := s.providers.Summarizer().Summarize(ctx, text)
	observeStage("summarize", start)
	if err != nil {
		s.logger.Error("summarization failed", "error", err, "user_id", userID)
		return Result{Error: fmt.Sprintf("summarization failed: %v", err)}
	}
	if strings.TrimSpace(summary) == "" {
		// Downstream stages rely on a non-empty summary wherever the
		// input itself is non-empty.
		summary = firstRunes(text, 100)
	}

	// Tags come from the original text, not the summary.
	tags := Tag(text)

	// The embedding indexes the gist: summaries keep vectors comparable
	// across memos of very different lengths.
	start = time.Now()
	vector, err := s.providers.Embedder().Embed(ctx, summary)
	observeStage("embed", start)
	if err != nil {
		s.logger.Error("embedding failed", "error", err, "user_id", userID)
		return Result{Error: fmt.Sprintf("embedding failed: %v", err)}
	}

	enriched := EnrichedMemo{
		UserID:         userID,
		AudioURL:       "pending://" + filename,
		Transcript:     text,
		Summary:        summary,
		Tags:           tags,
		ProcessedAt:    time.Now(),
		SourceFilename: filename,
		Embedding:      vector,
	}

	start = time.Now()
	sub := s.store.Submit(ctx, newRecord(enriched))
	observeStage("persist", start)

	return Result{
		Success:    sub.Success,
		ContentID:  sub.ContentID,
		Transcript: enriched.Transcript,
		Summary:    enriched.Summary,
		Tags:       enriched.Tags,
		Error:      sub.Error,
	}
}

func newRecord(m EnrichedMemo) contentstore.Record {
	vec, _ := json.Marshal(m.Embedding)
	return contentstore.Record{
		UserID:        m.UserID,
		AudioURL:      m.AudioURL,
		Transcript:    m.Transcript,
		Summary:       m.Summary,
		Tags:          m.Tags,
		ProcessedAt:   m.ProcessedAt.Format(time.RFC3339),
		AudioFilename: m.SourceFilename,
		// Duration extraction is deferred together with real audio
		// persistence; the store contract keeps the field.
		DurationSeconds: 0,
		EmbeddingVector: string(vec),
	}
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func observeStage(stage string, start time.Time) {
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
