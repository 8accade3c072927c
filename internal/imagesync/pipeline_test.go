package imagesync

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/domain"
)

type fakeDownloader struct {
	files map[string][]byte
	errs  map[string]error
}

func (f *fakeDownloader) DownloadFile(_ context.Context, token string) ([]byte, error) {
	if err, ok := f.errs[token]; ok {
		return nil, err
	}
	return f.files[token], nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.puts++
	return nil
}

func (f *fakeStore) URL(key string) string {
	return "https://cdn.example.com/" + key
}

type fakeMappings struct {
	mu     sync.Mutex
	byHash map[string]*domain.ImageMapping
	nextID int64
}

func newFakeMappings() *fakeMappings {
	return &fakeMappings{byHash: make(map[string]*domain.ImageMapping)}
}

func (f *fakeMappings) GetByHash(_ context.Context, hash string) (*domain.ImageMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.byHash[hash]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeMappings) Create(_ context.Context, m *domain.ImageMapping) (*domain.ImageMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byHash[m.FileHash]; ok {
		cp := *existing
		return &cp, nil
	}
	f.nextID++
	stored := *m
	stored.ID = f.nextID
	f.byHash[m.FileHash] = &stored
	cp := stored
	return &cp, nil
}

func (f *fakeMappings) IncrementAccess(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.byHash {
		if m.ID == id {
			m.AccessCount++
		}
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noisePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUpload_Idempotent(t *testing.T) {
	store := newFakeStore()
	mappings := newFakeMappings()
	p := New(nil, store, mappings, Config{PlaceholderURL: "https://ph.example.com"}, testLogger())
	ctx := context.Background()
	data := []byte("GIF89a not really a gif but stable bytes")

	first, err := p.Upload(ctx, data, "source://a")
	require.NoError(t, err)
	second, err := p.Upload(ctx, data, "source://b")
	require.NoError(t, err)

	assert.Equal(t, first.DestinationURL, second.DestinationURL)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.puts)
	assert.Len(t, mappings.byHash, 1)
	assert.EqualValues(t, 2, mappings.byHash[first.FileHash].AccessCount)
	assert.True(t, strings.HasPrefix(first.StorageKey, "images/"+first.FileHash+"."))
}

func TestUpload_SkipsPutWhenObjectExists(t *testing.T) {
	store := newFakeStore()
	p := New(nil, store, newFakeMappings(), Config{}, testLogger())
	data := []byte("plain bytes")

	key := "images/" + fmt.Sprintf("%x", sha256.Sum256(data)) + ".bin"
	store.objects[key] = data

	m, err := p.Upload(context.Background(), data, "source://x")
	require.NoError(t, err)
	assert.Equal(t, key, m.StorageKey)
	assert.Zero(t, store.puts)
}

func TestUpload_CompressesToJPEG(t *testing.T) {
	store := newFakeStore()
	p := New(nil, store, newFakeMappings(), Config{Compress: true, Quality: 70, MaxWidth: 100}, testLogger())
	data := noisePNG(t, 400, 40)

	m, err := p.Upload(context.Background(), data, "source://png")
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", m.ContentType)
	assert.True(t, strings.HasSuffix(m.StorageKey, ".jpg"))
	assert.Less(t, m.SizeBytes, int64(len(data)))

	decoded, _, err := image.Decode(bytes.NewReader(store.objects[m.StorageKey]))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
}

func TestUpload_KeepsUndecodableBytes(t *testing.T) {
	store := newFakeStore()
	p := New(nil, store, newFakeMappings(), Config{Compress: true}, testLogger())
	data := []byte("not an image at all")

	m, err := p.Upload(context.Background(), data, "source://junk")
	require.NoError(t, err)
	assert.Equal(t, data, store.objects[m.StorageKey])
}

func TestResolve_PlaceholdersByFailureClass(t *testing.T) {
	downloader := &fakeDownloader{
		files: map[string][]byte{"ok": []byte("image-bytes")},
		errs: map[string]error{
			"denied":  fmt.Errorf("download: %w", domain.ErrPermissionDenied),
			"missing": fmt.Errorf("download: %w", domain.ErrResourceNotFound),
			"broken":  fmt.Errorf("download: %w", domain.ErrUpstream),
		},
	}
	p := New(downloader, newFakeStore(), newFakeMappings(), Config{PlaceholderURL: "https://ph.example.com/img", Concurrency: 2}, testLogger())

	images := []domain.ImageBlock{
		{FileToken: "ok"}, {FileToken: "denied"}, {FileToken: "missing"}, {FileToken: "broken"}, {FileToken: "ok"},
	}
	resolved := p.Resolve(context.Background(), images)

	require.Len(t, resolved, 4)
	assert.False(t, resolved["ok"].Placeholder)
	assert.True(t, strings.HasPrefix(resolved["ok"].URL, "https://cdn.example.com/images/"))

	assert.True(t, resolved["denied"].Placeholder)
	assert.Equal(t, "https://ph.example.com/img?text=Permission+denied", resolved["denied"].URL)
	assert.Equal(t, "Image unavailable: permission denied", resolved["denied"].Caption)
	assert.Equal(t, "Image unavailable: not found", resolved["missing"].Caption)
	assert.Equal(t, "Image unavailable", resolved["broken"].Caption)
}

func TestResolve_NoStorageConfigured(t *testing.T) {
	downloader := &fakeDownloader{files: map[string][]byte{"ok": []byte("x")}}
	p := New(downloader, nil, newFakeMappings(), Config{PlaceholderURL: "https://ph.example.com"}, testLogger())

	resolved := p.Resolve(context.Background(), []domain.ImageBlock{{FileToken: "ok"}})
	assert.Equal(t, "Image unavailable: storage not configured", resolved["ok"].Caption)
}
