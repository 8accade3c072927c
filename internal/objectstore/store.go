// Package objectstore writes content-addressed objects to a public bucket.
package objectstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docsync/internal/config"
	"docsync/internal/domain"
)

// Store is a write-once object store with public URLs.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
}

// New builds the store named by cfg.Provider.
func New(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3(cfg, logger)
	case "oss":
		return NewOSS(cfg, logger)
	case "local":
		return NewLocal(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage provider %q", domain.ErrConfigMissing, cfg.Provider)
	}
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

func requireBucket(cfg config.StorageConfig) error {
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return fmt.Errorf("%w: %s storage needs bucket and credentials", domain.ErrConfigMissing, cfg.Provider)
	}
	if cfg.PublicBaseURL == "" {
		return fmt.Errorf("%w: %s storage needs public_base_url", domain.ErrConfigMissing, cfg.Provider)
	}
	return nil
}
