package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/devconnect/profile-service/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotConfigured is returned when no MinIO endpoint is set.
var ErrNotConfigured = errors.New("minio not configured")

// AvatarStore keeps user avatar images in a MinIO bucket, one object per user.
type AvatarStore struct {
	client *minio.Client
	bucket string
}

// NewAvatarStore connects to MinIO and ensures the bucket exists.
func NewAvatarStore(ctx context.Context, cfg config.MinIOConfig) (*AvatarStore, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &AvatarStore{client: mc, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// already exists is fine
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// ObjectKey is the object name of sub's avatar.
func ObjectKey(sub string) string {
	return "avatars/" + sub
}

// Put stores sub's avatar, replacing any previous one.
func (s *AvatarStore) Put(ctx context.Context, sub string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, ObjectKey(sub), r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Exists reports whether sub has uploaded an avatar.
func (s *AvatarStore) Exists(ctx context.Context, sub string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, ObjectKey(sub), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PresignedURL returns a GET URL for sub's avatar valid for expires.
func (s *AvatarStore) PresignedURL(ctx context.Context, sub string, expires time.Duration) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, ObjectKey(sub), expires, make(url.Values))
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
