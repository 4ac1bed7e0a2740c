package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"certhub/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectInfo describes a stored blob
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// MinioService wraps the object storage client used for renewal evidence files
type MinioService struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

// NewMinioService creates an object storage service
func NewMinioService(cfg *config.MinioConfig) (*MinioService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// PutBlob uploads an object with user-defined metadata and returns its key
func (s *MinioService) PutBlob(ctx context.Context, key string, reader io.Reader, size int64, contentType string, metadata map[string]string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return key, nil
}

// PresignedURL generates a time-limited download URL for the object
func (s *MinioService) PresignedURL(ctx context.Context, key string) (string, error) {
	expiry := time.Duration(s.config.URLExpireHours) * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}

// DeleteBlob deletes a single object
func (s *MinioService) DeleteBlob(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ListPrefix lists all objects under a key prefix
func (s *MinioService) ListPrefix(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, obj.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

// DeletePrefix deletes every object under a key prefix and returns how many
// were removed. Used for rollback after a failed submission.
func (s *MinioService) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	objects, err := s.ListPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objects {
		if err := s.DeleteBlob(ctx, obj.Key); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
