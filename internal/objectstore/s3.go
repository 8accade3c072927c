package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"docsync/internal/config"
	"docsync/internal/domain"
)

// S3 stores objects in any S3-compatible bucket.
type S3 struct {
	client  *s3.S3
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func NewS3(cfg config.StorageConfig, logger *slog.Logger) (*S3, error) {
	if err := requireBucket(cfg); err != nil {
		return nil, err
	}

	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(cfg.PathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	return &S3{
		client:  s3.New(sess),
		bucket:  cfg.Bucket,
		baseURL: cfg.PublicBaseURL,
		logger:  logger.With("store", "s3"),
	}, nil
}

func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("%w: head object %s: %w", domain.ErrStorage, key, err)
}

func (s *S3) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%w: put object %s: %w", domain.ErrStorage, key, err)
	}

	s.logger.Debug("stored object", "key", key, "bytes", len(data))
	return nil
}

func (s *S3) URL(key string) string {
	return publicURL(s.baseURL, key)
}
