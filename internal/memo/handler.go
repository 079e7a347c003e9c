package memo

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/memovox/memovox/internal/api"
)

// Handler is the ingestion boundary: one route accepting either a
// multipart audio upload or a JSON text payload.
type Handler struct {
	svc            *Service
	staging        *Staging
	maxUploadBytes int64
	validate       *validator.Validate
}

func NewHandler(svc *Service, staging *Staging, maxUploadBytes int64) *Handler {
	return &Handler{
		svc:            svc,
		staging:        staging,
		maxUploadBytes: maxUploadBytes,
		validate:       validator.New(),
	}
}

// ProcessTextRequest is the JSON body of the text path. Text is a pointer
// so a present-but-empty memo is accepted while a missing field is not.
type ProcessTextRequest struct {
	UserID string  `json:"user_id" validate:"required"`
	Text   *string `json:"text" validate:"required"`
}

// Process handles POST /process. Validation failures reject the request
// before any pipeline stage runs.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.processAudio(w, r)
		return
	}
	h.processText(w, r)
}

func (h *Handler) processAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid multipart form"))
		return
	}

	userID := r.FormValue("user_id")
	if userID == "" {
		api.HandleError(w, api.NewValidationError("user_id is required"))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		api.HandleError(w, api.NewValidationError("audio file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("reading audio upload", "error", err)
		api.HandleError(w, api.NewBadRequestError("unreadable audio upload"))
		return
	}

	// Stage the upload under a collision-free generated name and remove
	// it when this request finishes, success or not.
	name, removeStaged, err := h.staging.Stash(header.Filename, data)
	if err != nil {
		slog.Error("staging audio upload", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	defer removeStaged()

	slog.Info("audio memo received", "filename", header.Filename, "staged_as", name, "user_id", userID)

	result := h.svc.Process(r.Context(), MemoRequest{
		UserID: userID,
		Audio:  &AudioAsset{Filename: name, Bytes: data},
	})
	writeResult(w, result)
}

func (h *Handler) processText(w http.ResponseWriter, r *http.Request) {
	var req ProcessTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid JSON body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError("user_id and text are required"))
		return
	}

	filename := fmt.Sprintf("memo_%d.txt", time.Now().Unix())
	slog.Info("text memo received", "filename", filename, "user_id", req.UserID)

	result := h.svc.Process(r.Context(), MemoRequest{
		UserID: req.UserID,
		Text:   &TextPayload{Text: *req.Text, Filename: filename},
	})
	writeResult(w, result)
}

func writeResult(w http.ResponseWriter, result Result) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	api.JSON(w, status, result)
}
