package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"docsync/internal/domain"
)

type ImageMappingStore struct {
	db *sqlx.DB
}

func NewImageMappingStore(db *sqlx.DB) *ImageMappingStore {
	return &ImageMappingStore{db: db}
}

const imageColumns = `
	id, original_url, destination_url, file_hash, storage_key, content_type,
	size_bytes, access_count, created_at, updated_at`

// GetByHash returns the mapping for a content hash, or nil.
func (s *ImageMappingStore) GetByHash(ctx context.Context, hash string) (*domain.ImageMapping, error) {
	var m domain.ImageMapping
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &m,
		`SELECT `+imageColumns+` FROM image_mappings WHERE file_hash = $1`, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image mapping: %w", err)
	}
	return &m, nil
}

// Create inserts a mapping and returns the canonical row for its hash, which
// is the existing one if another writer got there first.
func (s *ImageMappingStore) Create(ctx context.Context, m *domain.ImageMapping) (*domain.ImageMapping, error) {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO image_mappings (
			original_url, destination_url, file_hash, storage_key, content_type, size_bytes, access_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (file_hash) DO NOTHING`,
		m.OriginalURL,
		m.DestinationURL,
		m.FileHash,
		m.StorageKey,
		m.ContentType,
		m.SizeBytes,
		max(m.AccessCount, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("insert image mapping: %w", err)
	}

	canonical, err := s.GetByHash(ctx, m.FileHash)
	if err != nil {
		return nil, err
	}
	if canonical == nil {
		return nil, fmt.Errorf("%w: image mapping %s vanished after insert", domain.ErrStorage, m.FileHash)
	}
	return canonical, nil
}

func (s *ImageMappingStore) IncrementAccess(ctx context.Context, id int64) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		UPDATE image_mappings
		SET access_count = access_count + 1, updated_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment image access: %w", err)
	}
	return nil
}

func (s *ImageMappingStore) Stats(ctx context.Context) (*domain.ImageStats, error) {
	var stats domain.ImageStats
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &stats, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(size_bytes), 0) AS total_bytes,
			COALESCE(SUM(access_count), 0) AS total_access
		FROM image_mappings`)
	if err != nil {
		return nil, fmt.Errorf("get image stats: %w", err)
	}
	return &stats, nil
}
