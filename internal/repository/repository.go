// Package repository declares the storage contracts the service layer depends on.
//
// Each interface covers exactly one table. Implementations live in
// sub-packages (see repository/sqlstore); tests supply in-memory fakes.
//
// Shared conventions:
//   - Create fills in the server-assigned fields (ID, CreatedAt, ...) on the
//     passed pointer.
//   - GetByID, Update and Delete return apperror.NotFound when the id is absent.
//   - List returns a non-nil slice in the entity's fixed sort order.
package repository

import (
	"context"

	"github.com/sakif/memories/internal/model"
)

// BucketItemRepository stores bucket-list items, listed newest first.
type BucketItemRepository interface {
	Create(ctx context.Context, item *model.BucketItem) error
	GetByID(ctx context.Context, id string) (*model.BucketItem, error)
	List(ctx context.Context) ([]model.BucketItem, error)
	Update(ctx context.Context, item *model.BucketItem) error
	Delete(ctx context.Context, id string) error
}

// EventRepository stores calendar events, listed newest first.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
}

// MemoryRepository stores memories, listed by date ascending.
type MemoryRepository interface {
	Create(ctx context.Context, memory *model.Memory) error
	GetByID(ctx context.Context, id string) (*model.Memory, error)
	List(ctx context.Context) ([]model.Memory, error)
	Update(ctx context.Context, memory *model.Memory) error
	Delete(ctx context.Context, id string) error
}

// PoemFilter narrows a poem listing. The zero value lists everything.
type PoemFilter struct {
	Author model.Author
}

// PoemRepository stores poems, listed newest first.
type PoemRepository interface {
	Create(ctx context.Context, poem *model.Poem) error
	GetByID(ctx context.Context, id string) (*model.Poem, error)
	List(ctx context.Context, filter PoemFilter) ([]model.Poem, error)
	Update(ctx context.Context, poem *model.Poem) error
	Delete(ctx context.Context, id string) error
}
