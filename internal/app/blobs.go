package app

import (
	"context"
	"fmt"
	"log/slog"

	"marketplace/internal/config"
	"marketplace/internal/domain/services"
	"marketplace/internal/storage/local"
	"marketplace/internal/storage/s3"
)

// OpenBlobStore selects the blob backend from BLOB_BACKEND. The returned
// func releases backend resources.
func OpenBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.BlobStore, func(), error) {
	switch cfg.BlobBackend {
	case "local":
		store, err := local.NewStore(cfg.UploadDir, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("blob storage ready", "backend", "local", "dir", cfg.UploadDir)
		return store, func() { store.Close() }, nil

	case "s3":
		store, err := s3.NewStore(ctx, s3.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			Prefix:          cfg.S3Prefix,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("blob storage ready", "backend", "s3", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported BLOB_BACKEND %q (want local or s3)", cfg.BlobBackend)
	}
}
