package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/jansamadhan/backend/internal/imaging"
	"github.com/jansamadhan/backend/internal/models"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MinIOStore struct {
	client *miniogo.Client
	bucket string
	logger zerolog.Logger
}

func NewMinIOStore(ctx context.Context, cfg MinIOConfig, logger zerolog.Logger) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("MINIO_ENDPOINT is not set")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("MINIO_BUCKET is not set")
	}
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, miniogo.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("created image bucket")
	}

	logger.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("minio image store initialized")
	return &MinIOStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

func (s *MinIOStore) PutImage(ctx context.Context, data []byte, meta models.ImageMeta) (string, error) {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	key := ObjectKey(meta.CreatedAt, uuid.NewString(), meta.ContentType)

	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), miniogo.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"filename":    meta.Filename,
			"citizen-id":  meta.CitizenID,
			"uploaded-at": meta.CreatedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	s.logger.Debug().Str("object_key", key).Int("size", len(data)).Msg("uploaded image to minio")
	return key, nil
}

func (s *MinIOStore) GetImage(ctx context.Context, ref string) ([]byte, models.ImageMeta, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, ref, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, models.ImageMeta{}, mapMinIOError(err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, models.ImageMeta{}, mapMinIOError(err)
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, models.ImageMeta{}, mapMinIOError(err)
	}

	meta := models.ImageMeta{
		Filename:    userMeta(info.UserMetadata, "filename"),
		ContentType: info.ContentType,
		CitizenID:   userMeta(info.UserMetadata, "citizen-id"),
		Size:        info.Size,
		CreatedAt:   info.LastModified,
	}
	if ts := userMeta(info.UserMetadata, "uploaded-at"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			meta.CreatedAt = parsed
		}
	}
	return data, meta, nil
}

// ObjectKey lays images out as grievances/{year}/{month}/{day}/{id}{ext}.
func ObjectKey(at time.Time, id, contentType string) string {
	at = at.UTC()
	return "grievances/" + at.Format("2006") + "/" + at.Format("01") + "/" + at.Format("02") + "/" + id + imaging.Extension(contentType)
}

func userMeta(m map[string]string, key string) string {
	for k, v := range m {
		k = strings.TrimPrefix(strings.ToLower(k), "x-amz-meta-")
		if k == key {
			return v
		}
	}
	return ""
}

func mapMinIOError(err error) error {
	resp := miniogo.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return fmt.Errorf("minio: %w", err)
}
