package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/memories/internal/model"
	"github.com/sakif/memories/internal/service"
)

// MemoryService is what MemoryHandler needs from the service layer.
type MemoryService interface {
	Create(ctx context.Context, fields model.Memory, image *service.ImageUpload) (*model.Memory, error)
	GetByID(ctx context.Context, id string) (*model.Memory, error)
	List(ctx context.Context) ([]model.Memory, error)
	Update(ctx context.Context, id string, upd model.MemoryUpdate, image *service.ImageUpload) (*model.Memory, error)
	Delete(ctx context.Context, id string) error
}

// MemoryHandler serves /api/memories.
//
// TWO REQUEST FORMATS:
// Create and update accept either
//   - application/json with an "imageUrl" the client got from /api/upload, or
//   - multipart/form-data with the same fields as form values plus the
//     image itself in an "image" file part.
//
// The multipart form lets the server own the whole upload → write → cleanup
// sequence in one request.
type MemoryHandler struct {
	svc      MemoryService
	maxBytes int64
	logger   *slog.Logger
}

func NewMemoryHandler(svc MemoryService, maxBytes int64, logger *slog.Logger) *MemoryHandler {
	return &MemoryHandler{svc: svc, maxBytes: maxBytes, logger: logger}
}

func (h *MemoryHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGetByID)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

// HandleList: GET /api/memories → timeline order (date ascending).
func (h *MemoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	memories, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memories)
}

type createMemoryRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ImageURL    string  `json:"imageUrl"`
}

// HandleCreate: POST /api/memories → 201 + the stored memory.
func (h *MemoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var (
		fields model.Memory
		image  *service.ImageUpload
	)

	if isMultipart(r) {
		cleanup, err := parseMultipart(r)
		if err != nil {
			writeError(w, err)
			return
		}
		defer cleanup()

		upd, err := memoryUpdateFromForm(r)
		if err != nil {
			writeError(w, err)
			return
		}
		fields = applyMemoryUpdate(model.Memory{}, upd)

		img, closeImage, err := formImage(r, "image")
		if err != nil {
			writeError(w, err)
			return
		}
		defer closeImage()
		image = img
	} else {
		var req createMemoryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		fields = model.Memory{
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			ImageURL:    req.ImageURL,
		}
	}

	memory, err := h.svc.Create(r.Context(), fields, image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memory)
}

func (h *MemoryHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	memory, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memory)
}

// HandleUpdate: PUT /api/memories/{id}. Only the fields sent are changed.
func (h *MemoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var (
		upd   model.MemoryUpdate
		image *service.ImageUpload
	)

	if isMultipart(r) {
		cleanup, err := parseMultipart(r)
		if err != nil {
			writeError(w, err)
			return
		}
		defer cleanup()

		if upd, err = memoryUpdateFromForm(r); err != nil {
			writeError(w, err)
			return
		}

		img, closeImage, err := formImage(r, "image")
		if err != nil {
			writeError(w, err)
			return
		}
		defer closeImage()
		image = img
	} else if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	memory, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), upd, image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memory)
}

// HandleDelete: DELETE /api/memories/{id} removes the memory and its image.
func (h *MemoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// memoryUpdateFromForm reads the text fields of a parsed multipart form.
func memoryUpdateFromForm(r *http.Request) (model.MemoryUpdate, error) {
	upd := model.MemoryUpdate{
		Title:       formString(r, "title"),
		Description: formString(r, "description"),
		Date:        formString(r, "date"),
		ImageURL:    formString(r, "imageUrl"),
	}
	var err error
	if upd.Latitude, err = formFloat(r, "latitude"); err != nil {
		return upd, err
	}
	if upd.Longitude, err = formFloat(r, "longitude"); err != nil {
		return upd, err
	}
	return upd, nil
}

func applyMemoryUpdate(m model.Memory, upd model.MemoryUpdate) model.Memory {
	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.Description != nil {
		m.Description = *upd.Description
	}
	if upd.Date != nil {
		m.Date = *upd.Date
	}
	if upd.Latitude != nil {
		m.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		m.Longitude = *upd.Longitude
	}
	if upd.ImageURL != nil {
		m.ImageURL = *upd.ImageURL
	}
	return m
}
