package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/calendar"
	"github.com/sakif/memories/internal/model"
	"github.com/sakif/memories/internal/repository"
)

// Calendar year bounds. Anything outside is almost certainly a typo in a
// query string, and time.Date would happily accept it.
const (
	MinCalendarYear = 1
	MaxCalendarYear = 9999
)

// EventService handles calendar events and the expanded month view.
type EventService struct {
	repo   repository.EventRepository
	logger *slog.Logger
}

func NewEventService(repo repository.EventRepository, logger *slog.Logger) *EventService {
	return &EventService{repo: repo, logger: logger}
}

// Create stores a new event. An empty recurrence means one-time.
//
// The title must not be blank; title and date are otherwise stored as given.
// A malformed date is not rejected here; the calendar simply never shows that
// event (see Calendar).
func (s *EventService) Create(ctx context.Context, title, date string, recurrence model.Recurrence) (*model.Event, error) {
	if err := requireText("title", title); err != nil {
		return nil, err
	}
	if recurrence == "" {
		recurrence = model.RecurrenceOneTime
	}
	if !recurrence.Valid() {
		return nil, apperror.ValidationFailed("recurrence",
			fmt.Sprintf("recurrence must be one of %q, %q, %q",
				model.RecurrenceOneTime, model.RecurrenceMonthly, model.RecurrenceYearly))
	}

	event := &model.Event{Title: title, Date: date, Recurrence: recurrence}
	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error("failed to create event", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating event: %w", err)
	}

	s.logger.Info("event created",
		slog.String("id", event.ID),
		slog.String("recurrence", string(event.Recurrence)),
	)
	return event, nil
}

func (s *EventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	id, err := requireID("event", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns every event, newest first.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list events", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// Update applies the fields present in upd.
func (s *EventService) Update(ctx context.Context, id string, upd model.EventUpdate) (*model.Event, error) {
	id, err := requireID("event", id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		if err := requireText("title", *upd.Title); err != nil {
			return nil, err
		}
	}
	if upd.Recurrence != nil && !upd.Recurrence.Valid() {
		return nil, apperror.ValidationFailed("recurrence",
			fmt.Sprintf("unknown recurrence %q", *upd.Recurrence))
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Date != nil {
		event.Date = *upd.Date
	}
	if upd.Recurrence != nil {
		event.Recurrence = *upd.Recurrence
	}

	if err := s.repo.Update(ctx, event); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("failed to update event",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating event: %w", err)
	}

	s.logger.Info("event updated", slog.String("id", id))
	return event, nil
}

// Delete removes an event. A missing id is not an error.
func (s *EventService) Delete(ctx context.Context, id string) error {
	return deleteIdempotent(ctx, s.logger, "event", id, s.repo.Delete)
}

// Calendar expands every stored event into the given month.
//
// Events with an unparseable anchor date are skipped, not fatal: one bad row
// must not blank out everybody else's calendar. They're logged at Warn so
// someone can fix the data.
func (s *EventService) Calendar(ctx context.Context, year int, month time.Month) (*model.CalendarMonth, error) {
	if year < MinCalendarYear || year > MaxCalendarYear {
		return nil, apperror.ValidationFailed("year",
			fmt.Sprintf("year must be between %d and %d", MinCalendarYear, MaxCalendarYear))
	}
	if month < time.January || month > time.December {
		return nil, apperror.ValidationFailed("month", "month must be between 1 and 12")
	}

	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		if _, _, _, ok := calendar.ParseAnchor(e.Date); !ok {
			s.logger.Warn("event has an invalid date and is hidden from the calendar",
				slog.String("id", e.ID),
				slog.String("date", e.Date),
			)
		}
	}

	return &model.CalendarMonth{
		Year:        year,
		Month:       int(month),
		DaysInMonth: calendar.DaysIn(year, month),
		Days:        calendar.OccurrencesInMonth(events, year, month),
	}, nil
}
