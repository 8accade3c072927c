// Package imagesync moves source images into object storage and resolves
// each image token to a public URL or a placeholder.
package imagesync

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image/jpeg"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"docsync/internal/domain"
)

type Downloader interface {
	DownloadFile(ctx context.Context, token string) ([]byte, error)
}

type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
}

type MappingStore interface {
	GetByHash(ctx context.Context, hash string) (*domain.ImageMapping, error)
	Create(ctx context.Context, m *domain.ImageMapping) (*domain.ImageMapping, error)
	IncrementAccess(ctx context.Context, id int64) error
}

type Config struct {
	Compress       bool
	Quality        int
	MaxWidth       int
	Concurrency    int
	PlaceholderURL string
}

type Pipeline struct {
	downloader Downloader
	store      Store
	mappings   MappingStore
	cfg        Config
	logger     *slog.Logger
}

// New builds a pipeline. A nil store means storage is not configured and
// every image resolves to a placeholder.
func New(downloader Downloader, store Store, mappings MappingStore, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Pipeline{
		downloader: downloader,
		store:      store,
		mappings:   mappings,
		cfg:        cfg,
		logger:     logger.With("component", "imagesync"),
	}
}

var errStorageNotConfigured = errors.New("object storage not configured")

// Resolve processes each distinct token once and never fails: images that
// cannot be moved resolve to a placeholder.
func (p *Pipeline) Resolve(ctx context.Context, images []domain.ImageBlock) map[string]domain.ResolvedImage {
	resolved := make(map[string]domain.ResolvedImage, len(images))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	seen := make(map[string]bool, len(images))
	for _, img := range images {
		if img.FileToken == "" || seen[img.FileToken] {
			continue
		}
		seen[img.FileToken] = true

		token := img.FileToken
		g.Go(func() error {
			result := p.resolveOne(gctx, token)
			mu.Lock()
			resolved[token] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return resolved
}

func (p *Pipeline) resolveOne(ctx context.Context, token string) domain.ResolvedImage {
	mapping, err := p.transfer(ctx, token)
	if err != nil {
		p.logger.Warn("image transfer failed, using placeholder", "token", token, "error", err)
		return p.placeholder(err)
	}
	return domain.ResolvedImage{URL: mapping.DestinationURL}
}

func (p *Pipeline) transfer(ctx context.Context, token string) (*domain.ImageMapping, error) {
	if p.store == nil {
		return nil, errStorageNotConfigured
	}
	data, err := p.downloader.DownloadFile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	return p.Upload(ctx, data, domain.SourceImageURL(token))
}

// Upload stores data under its content hash. The same bytes always yield the
// same mapping and are uploaded at most once.
func (p *Pipeline) Upload(ctx context.Context, data []byte, originalURL string) (*domain.ImageMapping, error) {
	if p.store == nil {
		return nil, errStorageNotConfigured
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrValidation)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	existing, err := p.mappings.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("get image mapping: %w", err)
	}
	if existing != nil {
		if err := p.mappings.IncrementAccess(ctx, existing.ID); err != nil {
			p.logger.Warn("failed to bump image access count", "id", existing.ID, "error", err)
		}
		return existing, nil
	}

	body, contentType, ext := p.encode(data)
	key := fmt.Sprintf("images/%s.%s", hash, ext)

	exists, err := p.store.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := p.store.Put(ctx, key, body, contentType); err != nil {
			return nil, err
		}
	}

	mapping, err := p.mappings.Create(ctx, &domain.ImageMapping{
		OriginalURL:    originalURL,
		DestinationURL: p.store.URL(key),
		FileHash:       hash,
		StorageKey:     key,
		ContentType:    contentType,
		SizeBytes:      int64(len(body)),
		AccessCount:    1,
	})
	if err != nil {
		return nil, fmt.Errorf("create image mapping: %w", err)
	}

	p.logger.Info("uploaded image", "key", key, "bytes", len(body), "original_bytes", len(data))
	return mapping, nil
}

// encode optionally re-encodes to JPEG within MaxWidth. The original bytes
// are kept when decoding fails or the result is not smaller.
func (p *Pipeline) encode(data []byte) ([]byte, string, string) {
	contentType := http.DetectContentType(data)
	ext := extension(contentType)
	if !p.cfg.Compress {
		return data, contentType, ext
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		p.logger.Debug("image decode failed, keeping original", "error", err)
		return data, contentType, ext
	}
	if p.cfg.MaxWidth > 0 && img.Bounds().Dx() > p.cfg.MaxWidth {
		img = imaging.Resize(img, p.cfg.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality())); err != nil {
		return data, contentType, ext
	}
	if buf.Len() >= len(data) {
		return data, contentType, ext
	}
	return buf.Bytes(), "image/jpeg", "jpg"
}

func (p *Pipeline) quality() int {
	if p.cfg.Quality <= 0 || p.cfg.Quality > 100 {
		return jpeg.DefaultQuality
	}
	return p.cfg.Quality
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}

func (p *Pipeline) placeholder(err error) domain.ResolvedImage {
	label, caption := "Image unavailable", "Image unavailable"
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		label, caption = "Permission denied", "Image unavailable: permission denied"
	case errors.Is(err, domain.ErrResourceNotFound):
		label, caption = "Image not found", "Image unavailable: not found"
	case errors.Is(err, errStorageNotConfigured), errors.Is(err, domain.ErrConfigMissing):
		label, caption = "Storage not configured", "Image unavailable: storage not configured"
	}

	return domain.ResolvedImage{
		URL:         p.cfg.PlaceholderURL + "?text=" + url.QueryEscape(label),
		Caption:     caption,
		Placeholder: true,
	}
}
