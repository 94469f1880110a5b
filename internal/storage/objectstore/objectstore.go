package objectstore

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/crypto/blake2b"

	"github.com/gravadigital/fring-api/internal/logger"
)

// photo extensions by accepted content type
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// ErrUnsupportedType is returned for uploads that are not an accepted image type
var ErrUnsupportedType = fmt.Errorf("unsupported image type, allowed: jpeg, png, webp, heic")

// Store keeps clothing photos in an S3-compatible bucket
type Store struct {
	client *minio.Client
	bucket string
	log    *log.Logger
}

// New creates a Store for the bucket at endpoint. An empty region is looked up from the bucket.
func New(endpoint, accessKey, secretKey, bucket, region string, useSSL bool) (*Store, error) {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	return &Store{
		client: client,
		bucket: bucket,
		log:    logger.WithContext("component", "objectstore", "bucket", bucket),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket %s exists: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.log.Info("Bucket created")
	return nil
}

// ObjectKey derives a content-addressed key: identical photos share one object
func ObjectKey(data []byte, contentType string) (string, error) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}
	sum := blake2b.Sum256(data)
	return "items/" + hex.EncodeToString(sum[:]) + ext, nil
}

// Put uploads data and returns its key
func (s *Store) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	key, err := ObjectKey(data, contentType)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	s.log.Debug("Photo stored", "key", key, "size", len(data))
	return key, nil
}

// Get downloads the object at key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the object at key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// URL returns a presigned download URL valid for ttl
func (s *Store) URL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", key, err)
	}
	return u.String(), nil
}
