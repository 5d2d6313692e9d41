// Package storage wraps MinIO (or any S3-compatible store) for the proof
// documents and protocol photos. Records only ever hold object keys; clients
// exchange keys for short-lived presigned URLs through the API.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is a thin client bound to one bucket.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// Config holds the connection settings for the object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// New connects to the object store. It does not create the bucket; call
// EnsureBucket once at startup.
func New(cfg Config) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage.New: %w", err)
	}
	return &ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage.ObjectStore.EnsureBucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage.ObjectStore.EnsureBucket: %w", err)
	}
	return nil
}

// PresignedPutURL returns a URL a client can PUT the object to directly.
func (s *ObjectStore) PresignedPutURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("storage.ObjectStore.PresignedPutURL: %w", err)
	}
	return u.String(), nil
}

// PresignedGetURL returns a short-lived download URL for the object.
func (s *ObjectStore) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("storage.ObjectStore.PresignedGetURL: %w", err)
	}
	return u.String(), nil
}

// NewObjectKey builds a collision-free key for a driver upload. The original
// filename is reduced to its extension; everything else about the name comes
// from us so keys are safe to use in URLs and paths.
func NewObjectKey(driverID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("uploads/%s/%s%s", driverID, uuid.New(), ext)
}
