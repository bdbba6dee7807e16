package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/model"
	"github.com/sakif/memories/internal/repository"
)

// BucketItemService handles the shared bucket list.
type BucketItemService struct {
	repo   repository.BucketItemRepository
	logger *slog.Logger
}

func NewBucketItemService(repo repository.BucketItemRepository, logger *slog.Logger) *BucketItemService {
	return &BucketItemService{repo: repo, logger: logger}
}

// Create adds an unfinished item. Text is the only thing the server insists
// on: a blank bucket-list entry is meaningless.
func (s *BucketItemService) Create(ctx context.Context, text string) (*model.BucketItem, error) {
	if err := requireText("text", text); err != nil {
		return nil, err
	}

	item := &model.BucketItem{Text: text}
	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error("failed to create bucket item", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating bucket item: %w", err)
	}

	s.logger.Info("bucket item created", slog.String("id", item.ID))
	return item, nil
}

func (s *BucketItemService) GetByID(ctx context.Context, id string) (*model.BucketItem, error) {
	id, err := requireID("bucket item", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns every item, newest first.
func (s *BucketItemService) List(ctx context.Context) ([]model.BucketItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list bucket items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing bucket items: %w", err)
	}
	return items, nil
}

// Update applies the fields present in upd. Ticking an item off is the
// common case ({"completed": true}); text can be edited too but not blanked.
func (s *BucketItemService) Update(ctx context.Context, id string, upd model.BucketItemUpdate) (*model.BucketItem, error) {
	id, err := requireID("bucket item", id)
	if err != nil {
		return nil, err
	}
	if upd.Text == nil && upd.Completed == nil {
		return nil, apperror.ValidationFailed("body", "nothing to update")
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Text != nil {
		if err := requireText("text", *upd.Text); err != nil {
			return nil, err
		}
		item.Text = *upd.Text
	}
	if upd.Completed != nil {
		item.Completed = *upd.Completed
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("failed to update bucket item",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating bucket item: %w", err)
	}

	s.logger.Info("bucket item updated",
		slog.String("id", id),
		slog.Bool("completed", item.Completed),
	)
	return item, nil
}

// Delete removes an item. A missing id is not an error.
func (s *BucketItemService) Delete(ctx context.Context, id string) error {
	return deleteIdempotent(ctx, s.logger, "bucket item", id, s.repo.Delete)
}

// Summary counts total and completed items for the progress header.
func (s *BucketItemService) Summary(ctx context.Context) (model.BucketSummary, error) {
	items, err := s.List(ctx)
	if err != nil {
		return model.BucketSummary{}, err
	}

	summary := model.BucketSummary{Total: len(items)}
	for _, item := range items {
		if item.Completed {
			summary.Completed++
		}
	}
	return summary, nil
}
