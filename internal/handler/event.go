package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/model"
)

// EventService is what EventHandler needs from the service layer.
type EventService interface {
	Create(ctx context.Context, title, date string, recurrence model.Recurrence) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, id string, upd model.EventUpdate) (*model.Event, error)
	Delete(ctx context.Context, id string) error
	Calendar(ctx context.Context, year int, month time.Month) (*model.CalendarMonth, error)
}

// EventHandler serves /api/events.
type EventHandler struct {
	svc    EventService
	logger *slog.Logger
	now    func() time.Time
}

func NewEventHandler(svc EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{svc: svc, logger: logger, now: time.Now}
}

func (h *EventHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/calendar", h.HandleCalendar)
	r.Get("/{id}", h.HandleGetByID)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type createEventRequest struct {
	Title      string           `json:"title"`
	Date       string           `json:"date"`
	Recurrence model.Recurrence `json:"recurrence"`
}

// HandleCreate: POST /api/events {"title","date","recurrence"?} → 201.
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.Create(r.Context(), req.Title, req.Date, req.Recurrence)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var upd model.EventUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// HandleCalendar: GET /api/events/calendar?year=2025&month=3
//
// Both parameters default to the current month. month is 1-based.
func (h *EventHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year, month := now.Year(), int(now.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, apperror.ValidationFailed("year", "year must be a number"))
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, apperror.ValidationFailed("month", "month must be a number"))
			return
		}
		month = n
	}

	cal, err := h.svc.Calendar(r.Context(), year, time.Month(month))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}
