package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/memories/internal/model"
)

// PoemService is what PoemHandler needs from the service layer.
type PoemService interface {
	Create(ctx context.Context, title, content string, author model.Author, language model.Language) (*model.Poem, error)
	GetByID(ctx context.Context, id string) (*model.Poem, error)
	List(ctx context.Context, author model.Author) ([]model.Poem, error)
	Update(ctx context.Context, id string, upd model.PoemUpdate) (*model.Poem, error)
	Delete(ctx context.Context, id string) error
}

// PoemHandler serves /api/poems.
type PoemHandler struct {
	svc    PoemService
	logger *slog.Logger
}

func NewPoemHandler(svc PoemService, logger *slog.Logger) *PoemHandler {
	return &PoemHandler{svc: svc, logger: logger}
}

func (h *PoemHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGetByID)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

// HandleList: GET /api/poems[?author=nikita]
func (h *PoemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	author := model.Author(r.URL.Query().Get("author"))
	poems, err := h.svc.List(r.Context(), author)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poems)
}

type createPoemRequest struct {
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Author   model.Author   `json:"author"`
	Language model.Language `json:"language"`
}

func (h *PoemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPoemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	poem, err := h.svc.Create(r.Context(), req.Title, req.Content, req.Author, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, poem)
}

func (h *PoemHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	poem, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poem)
}

// HandleUpdate: PUT /api/poems/{id}. The author can't be changed; sending it
// is rejected as an unknown field.
func (h *PoemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var upd model.PoemUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	poem, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poem)
}

func (h *PoemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
