package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/service"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, img service.ImageUpload) (string, error)
}

// UploadHandler serves POST /api/upload.
type UploadHandler struct {
	uploader Uploader
	maxBytes int64
	logger   *slog.Logger
}

func NewUploadHandler(uploader Uploader, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, maxBytes: maxBytes, logger: logger}
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// HandleUpload takes a multipart form with a "file" part, stores it under a
// fresh key and answers 201 {"url": "<public address>"}.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if !isMultipart(r) {
		writeError(w, apperror.ValidationFailed("body", "expected multipart/form-data"))
		return
	}
	cleanup, err := parseMultipart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cleanup()

	image, closeImage, err := formImage(r, "file")
	if err != nil {
		writeError(w, err)
		return
	}
	defer closeImage()
	if image == nil {
		writeError(w, apperror.ValidationFailed("file", "No file provided"))
		return
	}

	url, err := h.uploader.Upload(r.Context(), *image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UploadResponse{URL: url})
}
