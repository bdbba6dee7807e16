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

// compile-time check that *BucketItemDB implements repository.BucketItemRepository
var _ repository.BucketItemRepository = (*BucketItemDB)(nil)

// BucketItemDB is the bucket_list table.
type BucketItemDB struct {
	db *DB
}

// Create inserts a new item. ID and CreatedAt are assigned here; Completed
// is stored as given (false for a fresh item).
func (b *BucketItemDB) Create(ctx context.Context, item *model.BucketItem) error {
	item.ID = xid.New().String()
	item.CreatedAt = time.Now().UTC()

	_, err := b.db.exec(ctx,
		`INSERT INTO bucket_list (id, text, completed, created_at)
		 VALUES (?, ?, ?, ?)`,
		item.ID, item.Text, item.Completed, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: creating bucket item: %w", err)
	}
	return nil
}

func (b *BucketItemDB) GetByID(ctx context.Context, id string) (*model.BucketItem, error) {
	var item model.BucketItem
	err := b.db.queryRow(ctx,
		`SELECT id, text, completed, created_at FROM bucket_list WHERE id = ?`, id,
	).Scan(&item.ID, &item.Text, &item.Completed, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("bucket item", id)
		}
		return nil, fmt.Errorf("sqlstore: getting bucket item %s: %w", id, err)
	}
	return &item, nil
}

// List returns every item, newest first. xid ids sort by creation time, so
// they break ties between rows created in the same instant.
func (b *BucketItemDB) List(ctx context.Context) ([]model.BucketItem, error) {
	rows, err := b.db.query(ctx,
		`SELECT id, text, completed, created_at
		 FROM bucket_list
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing bucket items: %w", err)
	}
	defer rows.Close()

	items := []model.BucketItem{}
	for rows.Next() {
		var item model.BucketItem
		if err := rows.Scan(&item.ID, &item.Text, &item.Completed, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning bucket item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating bucket items: %w", err)
	}
	return items, nil
}

// Update writes text and completed. id and created_at never change.
func (b *BucketItemDB) Update(ctx context.Context, item *model.BucketItem) error {
	result, err := b.db.exec(ctx,
		`UPDATE bucket_list SET text = ?, completed = ? WHERE id = ?`,
		item.Text, item.Completed, item.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: updating bucket item %s: %w", item.ID, err)
	}
	return requireAffected(result, "bucket item", item.ID)
}

func (b *BucketItemDB) Delete(ctx context.Context, id string) error {
	return b.db.deleteRow(ctx, "bucket_list", "bucket item", id)
}
