package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: make(map[string][]byte)}
}

func (m *memoryStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return path, nil
}

func (m *memoryStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return io.NopCloser(bytes.NewReader(m.files[path])), nil
}

func (m *memoryStorage) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memoryStorage) GetURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return "http://files.local/" + path, nil
}

func (m *memoryStorage) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestPhotoService_SaveClockInPhoto(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		encoded func(t *testing.T) string
	}{
		{"plain base64", func(t *testing.T) string { return pngBase64(t, 32, 24) }},
		{"data url", func(t *testing.T) string { return "data:image/png;base64," + pngBase64(t, 32, 24) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStorage()
			svc := NewPhotoService(store)

			path, err := svc.SaveClockInPhoto(ctx, "user-1", tt.encoded(t), at)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(path, "attendance/2025-03-03/user-1-"))
			assert.True(t, strings.HasSuffix(path, ".jpg"))

			stored := store.files[path]
			require.NotEmpty(t, stored)
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(stored))
			require.NoError(t, err)
			assert.Equal(t, 32, cfg.Width)
			assert.Equal(t, 24, cfg.Height)
		})
	}
}

func TestPhotoService_SaveClockInPhoto_Invalid(t *testing.T) {
	ctx := context.Background()
	svc := NewPhotoService(newMemoryStorage())

	tests := []struct {
		name    string
		encoded string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"not an image", base64.StdEncoding.EncodeToString([]byte("hello world"))},
		{"data url without base64", "data:image/png," + pngBase64(t, 4, 4)},
		{"data url without comma", "data:image/png;base64"},
		{"empty after prefix", "data:image/png;base64,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveClockInPhoto(ctx, "user-1", tt.encoded, time.Now())
			assert.ErrorIs(t, err, attendance.ErrInvalidPhotoData)
		})
	}
}

func TestPhotoService_Delete(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStorage()
	svc := NewPhotoService(store)

	path, err := svc.SaveClockInPhoto(ctx, "user-1", pngBase64(t, 8, 8), time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, path))
	exists, err := store.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCompressImage_ShrinksLargeImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1600, 1200))
	for x := 0; x < 1600; x++ {
		for y := 0; y < 1200; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 13), uint8(x * y), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, err := compressImage(buf.Bytes(), maxPhotoSize, minPhotoSize)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 1600)
	assert.InDelta(t, 4.0/3.0, float64(cfg.Width)/float64(cfg.Height), 0.05)
}
