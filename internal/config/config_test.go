package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  user: docsync
  dbname: docsync
feishu:
  app_id: cli_a
  app_secret: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, 5, cfg.Sync.BatchSize)
	assert.Equal(t, 50, cfg.Sync.MaxBatchCreate)
	assert.Equal(t, 30*time.Minute, cfg.Sync.StaleAfter)
	assert.Equal(t, "secret", cfg.Feishu.WebhookSecret)
	assert.Equal(t, 3, cfg.Feishu.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Feishu.Retry.InitialBackoff)
	assert.Equal(t, 10*time.Minute, cfg.Feishu.FolderCacheTTL)
	assert.Equal(t, "2022-06-28", cfg.Notion.Version)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, 70, cfg.Images.Quality)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Contains(t, cfg.Database.DSN(), "sslmode=disable")
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("DOCSYNC_TEST_NOTION_TOKEN", "secret_token")
	path := writeConfig(t, `
notion:
  token: ${DOCSYNC_TEST_NOTION_TOKEN}
  database_id: db123
sync:
  interval: 1m
  allow_test_fixtures: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret_token", cfg.Notion.Token)
	assert.Equal(t, "db123", cfg.Notion.DatabaseID)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
	assert.True(t, cfg.Sync.AllowTestFixtures)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
