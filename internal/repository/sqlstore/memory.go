package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/model"
	"github.com/sakif/memories/internal/repository"
)

var _ repository.MemoryRepository = (*MemoryDB)(nil)

// MemoryDB is the memories table. It knows nothing about blobs; keeping
// image_url pointed at a live blob is the service layer's job.
type MemoryDB struct {
	db *DB
}

const memoryColumns = `id, title, description, date, latitude, longitude, image_url`

func scanMemory(s interface{ Scan(...any) error }, m *model.Memory) error {
	return s.Scan(&m.ID, &m.Title, &m.Description, &m.Date, &m.Latitude, &m.Longitude, &m.ImageURL)
}

func (m *MemoryDB) Create(ctx context.Context, memory *model.Memory) error {
	memory.ID = xid.New().String()

	_, err := m.db.exec(ctx,
		`INSERT INTO memories (`+memoryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		memory.ID, memory.Title, memory.Description, memory.Date,
		memory.Latitude, memory.Longitude, memory.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: creating memory: %w", err)
	}
	return nil
}

func (m *MemoryDB) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	var memory model.Memory
	row := m.db.queryRow(ctx, `SELECT `+memoryColumns+` FROM memories WHERE id = ?`, id)
	if err := scanMemory(row, &memory); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("memory", id)
		}
		return nil, fmt.Errorf("sqlstore: getting memory %s: %w", id, err)
	}
	return &memory, nil
}

// List returns every memory in date order, oldest first (timeline order).
func (m *MemoryDB) List(ctx context.Context) ([]model.Memory, error) {
	rows, err := m.db.query(ctx,
		`SELECT `+memoryColumns+` FROM memories ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing memories: %w", err)
	}
	defer rows.Close()

	memories := []model.Memory{}
	for rows.Next() {
		var memory model.Memory
		if err := scanMemory(rows, &memory); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning memory row: %w", err)
		}
		memories = append(memories, memory)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating memories: %w", err)
	}
	return memories, nil
}

// Update replaces every mutable column in a single statement, so the row is
// never observed half-updated.
func (m *MemoryDB) Update(ctx context.Context, memory *model.Memory) error {
	result, err := m.db.exec(ctx,
		`UPDATE memories
		 SET title = ?, description = ?, date = ?, latitude = ?, longitude = ?, image_url = ?
		 WHERE id = ?`,
		memory.Title, memory.Description, memory.Date,
		memory.Latitude, memory.Longitude, memory.ImageURL, memory.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: updating memory %s: %w", memory.ID, err)
	}
	return requireAffected(result, "memory", memory.ID)
}

func (m *MemoryDB) Delete(ctx context.Context, id string) error {
	return m.db.deleteRow(ctx, "memories", "memory", id)
}
