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

var _ repository.PoemRepository = (*PoemDB)(nil)

// PoemDB is the poems table.
type PoemDB struct {
	db *DB
}

const poemColumns = `id, title, content, author, language, created_at, updated_at`

func scanPoem(s interface{ Scan(...any) error }, p *model.Poem) error {
	return s.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.Language, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts a poem with UpdatedAt == CreatedAt.
func (p *PoemDB) Create(ctx context.Context, poem *model.Poem) error {
	poem.ID = xid.New().String()
	now := time.Now().UTC()
	poem.CreatedAt = now
	poem.UpdatedAt = now

	_, err := p.db.exec(ctx,
		`INSERT INTO poems (`+poemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		poem.ID, poem.Title, poem.Content, string(poem.Author), string(poem.Language),
		poem.CreatedAt, poem.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: creating poem: %w", err)
	}
	return nil
}

func (p *PoemDB) GetByID(ctx context.Context, id string) (*model.Poem, error) {
	var poem model.Poem
	row := p.db.queryRow(ctx, `SELECT `+poemColumns+` FROM poems WHERE id = ?`, id)
	if err := scanPoem(row, &poem); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("poem", id)
		}
		return nil, fmt.Errorf("sqlstore: getting poem %s: %w", id, err)
	}
	return &poem, nil
}

// List returns poems newest first, optionally narrowed to one author.
func (p *PoemDB) List(ctx context.Context, filter repository.PoemFilter) ([]model.Poem, error) {
	query := `SELECT ` + poemColumns + ` FROM poems`
	var args []any
	if filter.Author != "" {
		query += ` WHERE author = ?`
		args = append(args, string(filter.Author))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := p.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing poems: %w", err)
	}
	defer rows.Close()

	poems := []model.Poem{}
	for rows.Next() {
		var poem model.Poem
		if err := scanPoem(rows, &poem); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning poem row: %w", err)
		}
		poems = append(poems, poem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating poems: %w", err)
	}
	return poems, nil
}

// Update writes title, content and language and bumps updated_at.
// author and created_at are not in the SET list, so they cannot change.
func (p *PoemDB) Update(ctx context.Context, poem *model.Poem) error {
	poem.UpdatedAt = time.Now().UTC()
	if poem.UpdatedAt.Before(poem.CreatedAt) {
		poem.UpdatedAt = poem.CreatedAt
	}

	result, err := p.db.exec(ctx,
		`UPDATE poems SET title = ?, content = ?, language = ?, updated_at = ? WHERE id = ?`,
		poem.Title, poem.Content, string(poem.Language), poem.UpdatedAt, poem.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: updating poem %s: %w", poem.ID, err)
	}
	return requireAffected(result, "poem", poem.ID)
}

func (p *PoemDB) Delete(ctx context.Context, id string) error {
	return p.db.deleteRow(ctx, "poems", "poem", id)
}
