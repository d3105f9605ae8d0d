package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage is an object store addressed by bucket-relative keys such as "faces/jane.jpg".
type FileStorage interface {
	// Upload writes (or overwrites) the object and returns its key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves an object
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes an object; deleting a missing object is not an error
	Delete(ctx context.Context, path string) error

	// GetURL returns a public URL for the object
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks if an object exists
	Exists(ctx context.Context, path string) (bool, error)
}
