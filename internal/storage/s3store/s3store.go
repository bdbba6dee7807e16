// Package s3store implements storage.BlobStore against any S3-compatible API.
//
// Supabase Storage, MinIO and AWS itself all speak this protocol; only the
// endpoint and credentials differ. Path-style addressing
// ("endpoint/bucket/key") is forced because neither Supabase nor a local
// MinIO serve virtual-hosted buckets ("bucket.endpoint/key").
package s3store

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sakif/memories/internal/storage"
)

var _ storage.BlobStore = (*Store)(nil)

// Config holds connection settings.
type Config struct {
	Endpoint  string // e.g. "http://127.0.0.1:9000" or "https://<project>.supabase.co/storage/v1/s3"
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// objectAPI is the slice of *s3.Client we use. Tests substitute a fake.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store is a BlobStore backed by one S3 bucket.
type Store struct {
	client objectAPI
	bucket string
}

// New builds an S3 client with static credentials. It does not contact the
// endpoint; a wrong address shows up on the first Put.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3store: bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"", // session token, only used with temporary credentials
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("s3store: loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads body. Over plain HTTP the SDK needs to hash the payload before
// sending, so body should be an io.ReadSeeker (multipart.File is one).
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("s3store: put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. S3 answers 204 for a missing key too, so this is
// naturally idempotent.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3store: delete %s: %w", key, err)
	}
	return nil
}
