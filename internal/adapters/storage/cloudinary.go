package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"collegeevents/config"
	"collegeevents/internal/domain"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore keeps posters in a Cloudinary folder. The object key minus its extension is the public ID.
type CloudinaryStore struct {
	api    cloudinaryAPI
	folder string
}

func NewCloudinaryStore(cfg config.StorageConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryStore{api: &cld.Upload, folder: cfg.CloudinaryFolder}, nil
}

func publicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

func (c *CloudinaryStore) Upload(ctx context.Context, key string, img *domain.Image) (string, error) {
	resp, err := c.api.Upload(ctx, img.Reader(), uploader.UploadParams{
		PublicID: publicID(key),
		Folder:   c.folder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload %s: %w", key, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload %s: %s", key, resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure url")
	}
	return resp.SecureURL, nil
}

func (c *CloudinaryStore) Delete(ctx context.Context, key string) error {
	id := publicID(key)
	if c.folder != "" {
		id = c.folder + "/" + id
	}
	resp, err := c.api.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", id, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", id, resp.Error.Message)
	}
	return nil
}
