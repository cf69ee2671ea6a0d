// Package storage keeps uploaded grievance photos. The default backend is the
// Postgres store in internal/db; MinIO is used when BLOB_BACKEND=minio.
package storage

import (
	"context"
	"errors"

	"github.com/jansamadhan/backend/internal/models"
)

var ErrNotFound = errors.New("image not found")

// BlobStore stores image bytes and hands back an opaque reference.
type BlobStore interface {
	PutImage(ctx context.Context, data []byte, meta models.ImageMeta) (string, error)
	GetImage(ctx context.Context, ref string) ([]byte, models.ImageMeta, error)
}
