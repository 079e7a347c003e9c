// Package providers defines the capability contracts the enrichment
// pipeline depends on, and the process-wide registry that holds them.
package providers

import (
	"context"
	"errors"
)

// Segment is one portion of transcribed audio, in utterance order.
type Segment struct {
	Text     string
	StartSec float64
	EndSec   float64
}

// Transcriber converts an audio asset into ordered text segments.
// Implementations must be safe for concurrent use.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, language string) ([]Segment, error)
}

// Summarizer condenses arbitrary text into a short natural-language summary.
// Implementations must be safe for concurrent use.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Embedder converts text into a fixed-length vector. Dimensions reports the
// fixed output length; every vector returned by Embed has exactly that
// length. Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Registry is the process-wide set of capability providers. It is built
// once at startup before the server accepts traffic and never mutated,
// so concurrent reads need no synchronization.
type Registry struct {
	transcriber Transcriber
	summarizer  Summarizer
	embedder    Embedder
}

func NewRegistry(t Transcriber, s Summarizer, e Embedder) (*Registry, error) {
	if t == nil || s == nil || e == nil {
		return nil, errors.New("providers: registry requires a transcriber, summarizer and embedder")
	}
	return &Registry{transcriber: t, summarizer: s, embedder: e}, nil
}

func (r *Registry) Transcriber() Transcriber { return r.transcriber }
func (r *Registry) Summarizer() Summarizer   { return r.summarizer }
func (r *Registry) Embedder() Embedder       { return r.embedder }

// Loaded reports whether all providers are present. The registry
// constructor enforces this, so a non-nil registry is always loaded.
func (r *Registry) Loaded() bool {
	return r != nil && r.transcriber != nil && r.summarizer != nil && r.embedder != nil
}
