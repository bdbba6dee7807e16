package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/metrics"
	"github.com/sakif/memories/internal/model"
	"github.com/sakif/memories/internal/repository"
)

// MemoryService keeps the memories table and the image blobs in step.
//
// Every memory owns one image. The rows live in the database, the bytes in
// the blob store, and there is no transaction spanning the two. So the order
// of steps is what keeps them consistent:
//
//	Create: upload blob → insert row
//	Update: upload new blob → update row → delete old blob
//	Delete: delete row → delete blob
//
// THE RULE: a blob is only deleted after no row points at it any more. A
// failure part way through can leave an unreferenced blob behind (logged and
// counted in metrics.OrphanedBlobs), but never a row whose image is gone.
//
// KNOWN RACE: two concurrent updates that both replace the image of the same
// memory each upload a blob, the later row write wins, and the loser's blob
// is orphaned. No locking is attempted; last write wins, as for every other
// record.
type MemoryService struct {
	repo   repository.MemoryRepository
	assets *AssetService
	logger *slog.Logger
}

func NewMemoryService(repo repository.MemoryRepository, assets *AssetService, logger *slog.Logger) *MemoryService {
	return &MemoryService{repo: repo, assets: assets, logger: logger}
}

// Create stores a memory. The image comes either as a file (image != nil),
// which is uploaded first, or as fields.ImageURL pointing at an image that was
// already uploaded through the upload endpoint.
//
// If the insert fails after a successful upload the new blob is left behind.
// We can't tell whether the insert really failed or only its reply got lost,
// and deleting a blob a committed row points at is the one outcome we never
// allow.
func (s *MemoryService) Create(ctx context.Context, fields model.Memory, image *ImageUpload) (*model.Memory, error) {
	fields.ID = ""
	hasURL := strings.TrimSpace(fields.ImageURL) != ""

	if image != nil && hasURL {
		return nil, apperror.ValidationFailed("imageUrl", "send either an image file or imageUrl, not both")
	}
	if image == nil && !hasURL {
		return nil, apperror.ValidationFailed("image", "an image is required")
	}
	if err := validateCoordinates(fields.Latitude, fields.Longitude); err != nil {
		return nil, err
	}

	uploaded := ""
	if image != nil {
		url, err := s.assets.Upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		fields.ImageURL = url
		uploaded = url
	}

	memory := fields
	if err := s.repo.Create(ctx, &memory); err != nil {
		s.logger.Error("failed to create memory", slog.String("error", err.Error()))
		s.noteOrphan(uploaded)
		return nil, fmt.Errorf("creating memory: %w", err)
	}

	s.logger.Info("memory created",
		slog.String("id", memory.ID),
		slog.String("imageUrl", memory.ImageURL),
	)
	return &memory, nil
}

func (s *MemoryService) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	id, err := requireID("memory", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns every memory in timeline order (date ascending).
func (s *MemoryService) List(ctx context.Context) ([]model.Memory, error) {
	memories, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list memories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing memories: %w", err)
	}
	return memories, nil
}

// Update applies the fields present in upd and, optionally, swaps the image.
//
// When the image changes (a new file, or an imageUrl different from the
// stored one) the old blob is released only AFTER the row has been repointed.
// If the row update fails, the old blob is untouched and the row still points
// at it.
func (s *MemoryService) Update(ctx context.Context, id string, upd model.MemoryUpdate, image *ImageUpload) (*model.Memory, error) {
	id, err := requireID("memory", id)
	if err != nil {
		return nil, err
	}
	if image != nil && upd.ImageURL != nil {
		return nil, apperror.ValidationFailed("imageUrl", "send either an image file or imageUrl, not both")
	}
	if upd.ImageURL != nil && strings.TrimSpace(*upd.ImageURL) == "" {
		return nil, apperror.ValidationFailed("imageUrl", "imageUrl cannot be empty")
	}

	memory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldURL := memory.ImageURL

	if upd.Title != nil {
		memory.Title = *upd.Title
	}
	if upd.Description != nil {
		memory.Description = *upd.Description
	}
	if upd.Date != nil {
		memory.Date = *upd.Date
	}
	if upd.Latitude != nil {
		memory.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		memory.Longitude = *upd.Longitude
	}
	if err := validateCoordinates(memory.Latitude, memory.Longitude); err != nil {
		return nil, err
	}

	uploaded := ""
	switch {
	case image != nil:
		url, err := s.assets.Upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		memory.ImageURL = url
		uploaded = url
	case upd.ImageURL != nil:
		memory.ImageURL = *upd.ImageURL
	}

	if err := s.repo.Update(ctx, memory); err != nil {
		s.noteOrphan(uploaded)
		if apperror.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("failed to update memory",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating memory: %w", err)
	}

	if memory.ImageURL != oldURL {
		s.assets.Release(ctx, oldURL)
	}

	s.logger.Info("memory updated",
		slog.String("id", id),
		slog.Bool("imageChanged", memory.ImageURL != oldURL),
	)
	return memory, nil
}

// Delete removes a memory and then its image. A missing id is success.
//
// The row goes first. If the blob delete then fails, nothing references the
// blob any more and it is merely orphaned. The other order could leave a
// visible memory with a broken image if the row delete failed.
func (s *MemoryService) Delete(ctx context.Context, id string) error {
	id, err := requireID("memory", id)
	if err != nil {
		return err
	}

	memory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.logger.Debug("memory already gone", slog.String("id", id))
			return nil
		}
		return fmt.Errorf("deleting memory: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if apperror.IsNotFound(err) {
			// Deleted by someone else between our read and delete. Their
			// request releases the image.
			return nil
		}
		s.logger.Error("failed to delete memory",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting memory: %w", err)
	}

	s.assets.Release(ctx, memory.ImageURL)

	s.logger.Info("memory deleted", slog.String("id", id))
	return nil
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return apperror.ValidationFailed("latitude", "latitude must be between -90 and 90")
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return apperror.ValidationFailed("longitude", "longitude must be between -180 and 180")
	}
	return nil
}

// noteOrphan records a blob that was uploaded for a row write that failed.
func (s *MemoryService) noteOrphan(url string) {
	if url == "" {
		return
	}
	metrics.OrphanedBlobs.Inc()
	s.logger.Warn("row write failed after upload, image left orphaned", slog.String("url", url))
}
