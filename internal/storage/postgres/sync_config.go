package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"docsync/internal/domain"
)

type ConfigStore struct {
	db *sqlx.DB
}

func NewConfigStore(db *sqlx.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

const configColumns = `
	id, platform, document_id, is_sync_enabled, auto_sync, sync_direction,
	COALESCE(notion_category, '') AS notion_category, created_at, updated_at`

// IsAutoSyncEnabled is true only when a config row exists with both sync
// and auto-sync enabled.
func (s *ConfigStore) IsAutoSyncEnabled(ctx context.Context, platform domain.Platform, documentID string) (bool, error) {
	var enabled bool
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &enabled, `
		SELECT is_sync_enabled AND auto_sync FROM sync_configs
		WHERE platform = $1 AND document_id = $2`, platform, documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get sync config: %w", err)
	}
	return enabled, nil
}

// GetCategory returns the configured destination category, or "".
func (s *ConfigStore) GetCategory(ctx context.Context, platform domain.Platform, documentID string) (string, error) {
	var category string
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &category, `
		SELECT COALESCE(notion_category, '') FROM sync_configs
		WHERE platform = $1 AND document_id = $2`, platform, documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get sync category: %w", err)
	}
	return category, nil
}

func (s *ConfigStore) List(ctx context.Context) ([]domain.SyncConfig, error) {
	var configs []domain.SyncConfig
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &configs,
		`SELECT `+configColumns+` FROM sync_configs ORDER BY platform, document_id`)
	if err != nil {
		return nil, fmt.Errorf("list sync configs: %w", err)
	}
	return configs, nil
}

func (s *ConfigStore) Upsert(ctx context.Context, cfg *domain.SyncConfig) error {
	query := `
		INSERT INTO sync_configs (
			platform, document_id, is_sync_enabled, auto_sync, sync_direction, notion_category
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		ON CONFLICT (platform, document_id) DO UPDATE SET
			is_sync_enabled = EXCLUDED.is_sync_enabled,
			auto_sync = EXCLUDED.auto_sync,
			sync_direction = EXCLUDED.sync_direction,
			notion_category = EXCLUDED.notion_category,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		cfg.Platform,
		cfg.DocumentID,
		cfg.IsSyncEnabled,
		cfg.AutoSync,
		cfg.SyncDirection,
		cfg.NotionCategory,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert sync config: %w", err)
	}
	return nil
}
