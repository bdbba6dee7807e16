package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/model"
	"github.com/sakif/memories/internal/repository"
)

var _ repository.EventRepository = (*EventDB)(nil)

// EventDB is the events table.
type EventDB struct {
	db *DB
}

func (e *EventDB) Create(ctx context.Context, event *model.Event) error {
	event.ID = xid.New().String()
	event.CreatedAt = time.Now().UTC()

	_, err := e.db.exec(ctx,
		`INSERT INTO events (id, title, date, recurrence, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.Date, string(event.Recurrence), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: creating event: %w", err)
	}
	return nil
}

func (e *EventDB) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := e.db.queryRow(ctx,
		`SELECT id, title, date, recurrence, created_at FROM events WHERE id = ?`, id,
	).Scan(&event.ID, &event.Title, &event.Date, &event.Recurrence, &event.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("event", id)
		}
		return nil, fmt.Errorf("sqlstore: getting event %s: %w", id, err)
	}
	return &event, nil
}

// List returns every event, newest first.
func (e *EventDB) List(ctx context.Context) ([]model.Event, error) {
	rows, err := e.db.query(ctx,
		`SELECT id, title, date, recurrence, created_at
		 FROM events
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Date, &event.Recurrence, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating events: %w", err)
	}
	return events, nil
}

func (e *EventDB) Update(ctx context.Context, event *model.Event) error {
	result, err := e.db.exec(ctx,
		`UPDATE events SET title = ?, date = ?, recurrence = ? WHERE id = ?`,
		event.Title, event.Date, string(event.Recurrence), event.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: updating event %s: %w", event.ID, err)
	}
	return requireAffected(result, "event", event.ID)
}

func (e *EventDB) Delete(ctx context.Context, id string) error {
	return e.db.deleteRow(ctx, "events", "event", id)
}
