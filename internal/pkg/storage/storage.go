package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrFileNotFound = errors.New("file not found")

type FileStorage interface {
	// Upload stores the content and returns the storage key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete is a no-op for missing keys
	Delete(ctx context.Context, path string) error

	// GetURL returns a presigned or public URL
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, path string) (bool, error)
}
