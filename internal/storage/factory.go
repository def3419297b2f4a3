package storage

import (
	"fmt"

	"linewall/internal/adapters/storage/localfs"
	"linewall/internal/adapters/storage/miniostore"
	"linewall/internal/config"
	"linewall/internal/pkg/errors"
)

// NewStore builds the configured object store. Credentials missing for
// the selected provider fail here, at startup, not on first upload.
func NewStore(cfg config.StorageConfig) (Store, error) {
	switch cfg.Provider {
	case "localfs":
		if cfg.PublicBaseURL == "" {
			return nil, errors.NotConfigured("localfs public base URL")
		}
		return localfs.New(cfg.LocalRoot, cfg.PublicBaseURL), nil

	case "minio":
		return miniostore.New(
			cfg.MinioEndpoint,
			cfg.MinioAccessKey,
			cfg.MinioSecretKey,
			cfg.MinioBucket,
			cfg.MinioUseSSL,
			cfg.PublicBaseURL,
		)

	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}
