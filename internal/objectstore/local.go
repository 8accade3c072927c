package objectstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/spf13/afero"

	"docsync/internal/config"
	"docsync/internal/domain"
)

// Local stores objects on a filesystem served by the API under /files.
type Local struct {
	fs      afero.Fs
	baseURL string
	logger  *slog.Logger
}

func NewLocal(cfg config.StorageConfig, logger *slog.Logger) *Local {
	return NewLocalFs(afero.NewBasePathFs(afero.NewOsFs(), cfg.LocalDir), cfg.PublicBaseURL, logger)
}

// NewLocalFs wraps an arbitrary afero filesystem.
func NewLocalFs(fs afero.Fs, baseURL string, logger *slog.Logger) *Local {
	if baseURL == "" {
		baseURL = "/files"
	}
	return &Local{fs: fs, baseURL: baseURL, logger: logger.With("store", "local")}
}

func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	ok, err := afero.Exists(l.fs, key)
	if err != nil {
		return false, fmt.Errorf("%w: stat %s: %w", domain.ErrStorage, key, err)
	}
	return ok, nil
}

func (l *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	if err := l.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return fmt.Errorf("%w: create dir for %s: %w", domain.ErrStorage, key, err)
	}
	if err := afero.WriteFile(l.fs, key, data, os.FileMode(0o644)); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrStorage, key, err)
	}

	l.logger.Debug("stored object", "key", key, "bytes", len(data))
	return nil
}

func (l *Local) URL(key string) string {
	return publicURL(l.baseURL, key)
}

// Fs exposes the backing filesystem for serving.
func (l *Local) Fs() afero.Fs {
	return l.fs
}
