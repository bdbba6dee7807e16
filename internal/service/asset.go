package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/metrics"
	"github.com/sakif/memories/internal/storage"
)

// ImageUpload is an image file on its way into the blob store.
type ImageUpload struct {
	Filename    string // original client-side name, only its extension is kept
	ContentType string
	Size        int64 // -1 if unknown
	Body        io.Reader
}

// AssetService owns the blob store side of memory images: it mints keys,
// uploads, and removes blobs that are no longer referenced.
//
// OWNERSHIP:
// Only URLs under the configured public namespace are ours. Release on any
// other URL (an image hot-linked from elsewhere) is a no-op, so we can never
// delete something we didn't create.
type AssetService struct {
	store  storage.BlobStore
	ns     storage.Namespace
	logger *slog.Logger
	now    func() time.Time
}

func NewAssetService(store storage.BlobStore, ns storage.Namespace, logger *slog.Logger) *AssetService {
	return &AssetService{store: store, ns: ns, logger: logger, now: time.Now}
}

// Upload stores img under a freshly minted key and returns its public URL.
// Every call mints a new key, so retrying after a failure never overwrites.
func (a *AssetService) Upload(ctx context.Context, img ImageUpload) (string, error) {
	if img.Body == nil {
		return "", apperror.ValidationFailed("file", "no file provided")
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storage.NewKey(img.Filename, a.now())
	err := a.store.Put(ctx, key, img.Body, img.Size, contentType)
	metrics.BlobOperations.WithLabelValues("put", metrics.Result(err)).Inc()
	if err != nil {
		a.logger.Error("failed to upload image",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("uploading image: %w", err)
	}

	a.logger.Info("image uploaded",
		slog.String("key", key),
		slog.Int64("size", img.Size),
	)
	return a.ns.URL(key), nil
}

// Owns reports whether url points into our blob namespace.
func (a *AssetService) Owns(url string) bool {
	_, ok := a.ns.Key(url)
	return ok
}

// Release deletes the blob behind url if we own it. Best effort: failures
// are logged and counted, never returned. A blob we fail to delete is an
// orphan, which costs storage; a request failing because of it would cost
// the user their edit.
func (a *AssetService) Release(ctx context.Context, url string) {
	key, ok := a.ns.Key(url)
	if !ok {
		if url != "" {
			a.logger.Debug("image not in our namespace, leaving it alone", slog.String("url", url))
		}
		return
	}

	err := a.store.Delete(ctx, key)
	metrics.BlobOperations.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		a.logger.Warn("failed to delete image, leaving an orphaned blob",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}
	a.logger.Info("image deleted", slog.String("key", key))
}
