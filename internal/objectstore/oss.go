package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"docsync/internal/config"
	"docsync/internal/domain"
)

// OSS stores objects in an Aliyun OSS bucket.
type OSS struct {
	bucket  *oss.Bucket
	baseURL string
	logger  *slog.Logger
}

func NewOSS(cfg config.StorageConfig, logger *slog.Logger) (*OSS, error) {
	if err := requireBucket(cfg); err != nil {
		return nil, err
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("create oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open oss bucket: %w", err)
	}

	return &OSS{
		bucket:  bucket,
		baseURL: cfg.PublicBaseURL,
		logger:  logger.With("store", "oss"),
	}, nil
}

func (o *OSS) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := o.bucket.IsObjectExist(key, oss.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("%w: check object %s: %w", domain.ErrStorage, key, err)
	}
	return ok, nil
}

func (o *OSS) Put(ctx context.Context, key string, data []byte, contentType string) error {
	err := o.bucket.PutObject(key, bytes.NewReader(data), oss.ContentType(contentType), oss.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: put object %s: %w", domain.ErrStorage, key, err)
	}

	o.logger.Debug("stored object", "key", key, "bytes", len(data))
	return nil
}

func (o *OSS) URL(key string) string {
	return publicURL(o.baseURL, key)
}
