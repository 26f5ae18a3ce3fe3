package storage

import (
	"context"
	"fmt"

	"github.com/yi-nology/satimage_bridge/pkg/config"
	"github.com/yi-nology/satimage_bridge/pkg/storage/gcs"
	"github.com/yi-nology/satimage_bridge/pkg/storage/local"
	"github.com/yi-nology/satimage_bridge/pkg/storage/s3"
)

// New creates a storage adapter based on configuration.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		basePath := cfg.Local.BasePath
		if basePath == "" {
			basePath = "data/output"
		}
		return local.New(basePath)

	case "s3":
		return s3.New(ctx, s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PathStyle: cfg.S3.PathStyle,
		})

	case "gcs":
		return gcs.New(ctx, gcs.Config{
			Bucket:   cfg.GCS.Bucket,
			Prefix:   cfg.GCS.Prefix,
			Endpoint: cfg.GCS.Endpoint,
		})

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
