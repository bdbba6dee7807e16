package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/memories/internal/model"
)

// BucketItemService is what BucketItemHandler needs from the service layer.
type BucketItemService interface {
	Create(ctx context.Context, text string) (*model.BucketItem, error)
	GetByID(ctx context.Context, id string) (*model.BucketItem, error)
	List(ctx context.Context) ([]model.BucketItem, error)
	Update(ctx context.Context, id string, upd model.BucketItemUpdate) (*model.BucketItem, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (model.BucketSummary, error)
}

// BucketItemHandler serves /api/bucket-list.
type BucketItemHandler struct {
	svc    BucketItemService
	logger *slog.Logger
}

func NewBucketItemHandler(svc BucketItemService, logger *slog.Logger) *BucketItemHandler {
	return &BucketItemHandler{svc: svc, logger: logger}
}

// Routes registers the handler under its mount point.
func (h *BucketItemHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/summary", h.HandleSummary)
	r.Get("/{id}", h.HandleGetByID)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

// HandleList: GET /api/bucket-list → newest first.
func (h *BucketItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type createBucketItemRequest struct {
	Text string `json:"text"`
}

// HandleCreate: POST /api/bucket-list {"text": "..."} → 201.
func (h *BucketItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBucketItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.svc.Create(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *BucketItemHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleUpdate: PUT /api/bucket-list/{id} {"completed": true} → item or 404.
func (h *BucketItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var upd model.BucketItemUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleDelete: DELETE /api/bucket-list/{id} → {"success": true}, also for
// an id that is already gone.
func (h *BucketItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// HandleSummary: GET /api/bucket-list/summary → {"total": 5, "completed": 2}.
func (h *BucketItemHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
