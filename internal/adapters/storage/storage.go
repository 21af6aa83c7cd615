// Package storage uploads event posters to an object store and returns their public URL.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"collegeevents/config"
	"collegeevents/internal/domain"
)

// NewObjectStore picks the poster store named by cfg.Provider.
func NewObjectStore(cfg config.StorageConfig, logger *slog.Logger) (domain.ObjectStore, error) {
	switch cfg.Provider {
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("storage: S3_BUCKET is required for the s3 provider")
		}
		return NewS3Store(cfg), nil
	case "cloudinary":
		return NewCloudinaryStore(cfg)
	case "noop", "":
		logger.Warn("poster storage is disabled, uploads will not be persisted")
		return &noopStore{}, nil
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", cfg.Provider)
	}
}

// noopStore accepts every upload and returns a placeholder URL. For local development.
type noopStore struct{}

func (noopStore) Upload(ctx context.Context, key string, img *domain.Image) (string, error) {
	return "https://placehold.co/600x400?text=" + key, nil
}

func (noopStore) Delete(ctx context.Context, key string) error {
	return nil
}
