package blobstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
)

// MinIO stores blobs as objects in a single bucket.
type MinIO struct {
	client     *minio.Client
	bucketName string
	urlTTL     time.Duration
}

// NewMinIO creates a new MinIO backed store and makes sure the bucket exists.
func NewMinIO(ctx context.Context, cfg config.MinIO) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ttl := cfg.PresignedURLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	store := &MinIO{
		client:     client,
		bucketName: cfg.BucketName,
		urlTTL:     ttl,
	}

	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return store, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (s *MinIO) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// streamPartSize caps the buffer minio-go allocates per part when the size is unknown.
const streamPartSize = 16 << 20

func putOptions(name string, size int64) minio.PutObjectOptions {
	opts := minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
	}
	if size < 0 {
		opts.PartSize = streamPartSize
	}
	return opts
}

// Save uploads r. A multipart upload that fails is aborted, so no partial object is left behind.
func (s *MinIO) Save(ctx context.Context, name string, r io.Reader, size int64) (int64, error) {
	if !ValidName(name) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	info, err := s.client.PutObject(ctx, s.bucketName, name, r, size, putOptions(name, size))
	if err != nil {
		return 0, fmt.Errorf("put object %s: %w", name, err)
	}
	return info.Size, nil
}

func (s *MinIO) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", name, err)
	}
	return obj, nil
}

// Delete removes an object. RemoveObject already succeeds for missing keys.
func (s *MinIO) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, name, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("remove object %s: %w", name, err)
	}
	return nil
}

func (s *MinIO) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	objectsCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Recursive: true})

	for object := range objectsCh {
		if object.Err != nil {
			return nil, object.Err
		}
		objects = append(objects, Object{Name: object.Key, Size: object.Size, ModTime: object.LastModified})
	}

	return objects, nil
}

// URL returns a presigned GET URL valid for the configured TTL.
func (s *MinIO) URL(ctx context.Context, name string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, name, s.urlTTL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return u.String(), nil
}
