// Package storage defines the blob store the memory service writes images to.
//
// The service layer only ever talks to BlobStore. Two implementations exist:
//   - s3store:    any S3-compatible endpoint through aws-sdk-go-v2
//     (Supabase Storage, AWS S3, MinIO in S3 mode)
//   - miniostore: a MinIO server through the native minio-go client
//
// Objects are addressed two ways: by KEY inside the bucket ("1729000000000-<uuid>.jpg")
// and by PUBLIC URL, which is what a Memory record stores. Namespace converts
// between the two and decides which URLs belong to us at all.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore stores and removes objects in a single bucket.
type BlobStore interface {
	// Put writes body under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Delete removes key. Deleting a key that does not exist is not an error.
	Delete(ctx context.Context, key string) error
}

// Namespace is the public URL prefix under which our bucket's objects are served,
// e.g. "https://xyz.supabase.co/storage/v1/object/public/uploads".
type Namespace struct {
	Base string
}

// NewNamespace trims any trailing slash so URL and Key agree on the separator.
func NewNamespace(base string) Namespace {
	return Namespace{Base: strings.TrimRight(base, "/")}
}

// URL returns the public address of key.
func (n Namespace) URL(key string) string {
	return n.Base + "/" + key
}

// Key extracts the object key from a public URL. ok is false for anything
// that isn't one of ours: an externally hosted image, an empty string, or
// a URL that points at the bucket root.
func (n Namespace) Key(url string) (key string, ok bool) {
	if n.Base == "" {
		return "", false
	}
	key, found := strings.CutPrefix(url, n.Base+"/")
	if !found || key == "" {
		return "", false
	}
	return key, true
}

// NewKey mints a fresh object key for an uploaded file:
//
//	<unix millis>-<uuid><ext>
//
// The timestamp keeps a bucket listing roughly chronological, the uuid makes
// collisions between concurrent uploads impossible in practice. The original
// file's extension is kept (lower-cased) so the object is served with a
// sensible type; files without one get ".jpg".
func NewKey(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" || ext == "." {
		ext = ".jpg"
	}
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString(), ext)
}
