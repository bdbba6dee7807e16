// Package miniostore implements storage.BlobStore with the native MinIO client.
package miniostore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sakif/memories/internal/storage"
)

var _ storage.BlobStore = (*Store)(nil)

// Config holds MinIO connection settings.
type Config struct {
	Endpoint  string // "host:port", or a full URL whose scheme decides TLS
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// objectAPI is the slice of *minio.Client we use.
type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// Store is a BlobStore backed by one MinIO bucket.
type Store struct {
	client objectAPI
	bucket string
}

// New connects to MinIO and makes sure the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("miniostore: endpoint and bucket are required")
	}

	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	mc, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure || cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("miniostore: creating client: %w", err)
	}

	s := &Store{client: mc, bucket: cfg.Bucket}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureBucket creates the bucket, tolerating "already exists".
func (s *Store) ensureBucket(ctx context.Context) error {
	err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err == nil {
		return nil
	}
	exists, xerr := s.client.BucketExists(ctx, s.bucket)
	if xerr != nil || !exists {
		return fmt.Errorf("miniostore: ensuring bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("miniostore: put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. MinIO, like S3, reports success for a missing key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("miniostore: delete %s: %w", key, err)
	}
	return nil
}

// splitEndpoint accepts both "127.0.0.1:9000" and "https://minio.example.com".
// minio.New wants the bare host; the scheme, if any, turns TLS on.
func splitEndpoint(endpoint string) (host string, secure bool, err error) {
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), false, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("miniostore: parsing endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("miniostore: endpoint %q has no host", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}
