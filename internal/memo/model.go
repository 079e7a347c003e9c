package memo

import (
	"errors"
	"time"
)

// AudioAsset is an uploaded recording. It lives only for the duration of
// one request; the staged copy is removed after processing regardless of
// outcome.
type AudioAsset struct {
	Filename string
	Bytes    []byte
}

// TextPayload is a memo submitted as raw text. Filename is synthetic,
// derived from the submission timestamp, and exists for provenance only.
type TextPayload struct {
	Text     string
	Filename string
}

// MemoRequest is the tagged union handed to the pipeline: exactly one of
// Audio or Text is set. Dispatch on the variant happens once, at the
// ingestion boundary.
type MemoRequest struct {
	UserID string
	Audio  *AudioAsset
	Text   *TextPayload
}

func (r MemoRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("user_id is required")
	}
	if (r.Audio == nil) == (r.Text == nil) {
		return errors.New("exactly one of audio or text must be provided")
	}
	return nil
}

// EnrichedMemo is the fully derived record. It is constructed once per
// request, after transcript and summary are both available, and submitted
// exactly once to the content store.
type EnrichedMemo struct {
	UserID         string
	AudioURL       string
	Transcript     string
	Summary        string
	Tags           []string
	ProcessedAt    time.Time
	SourceFilename string
	Embedding      []float32
}

// Result is the ingestion endpoint's response body. Success mirrors the
// content store outcome; transcript, summary and tags are included
// whenever enrichment got far enough to produce them.
type Result struct {
	Success    bool     `json:"success"`
	ContentID  string   `json:"content_id,omitempty"`
	Transcript string   `json:"transcript,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Error      string   `json:"error,omitempty"`
}
