package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	key, err := s.Upload(ctx, strings.NewReader("jpeg-bytes"), "faces/Jane Doe.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "faces/Jane Doe.jpg", key)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))

	url, err := s.GetURL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/faces/Jane Doe.jpg", url)
}

func TestLocalStorage_UploadOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Upload(ctx, strings.NewReader("old"), "faces/a.jpg", "image/jpeg")
	require.NoError(t, err)
	_, err = s.Upload(ctx, strings.NewReader("new"), "faces/a.jpg", "image/jpeg")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.BasePath(), "faces", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestLocalStorage_TraversalStaysInsideBase(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	key, err := s.Upload(ctx, strings.NewReader("x"), "../../escape.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", key)

	_, err = os.Stat(filepath.Join(s.BasePath(), "escape.txt"))
	assert.NoError(t, err)
}

func TestLocalStorage_EmptyPath(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.Upload(context.Background(), strings.NewReader("x"), "", "text/plain")
	assert.True(t, errors.Is(err, ErrInvalidPath))
}

func TestLocalStorage_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Upload(ctx, strings.NewReader("x"), "faces/b.png", "image/png")
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "faces/b.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "faces/b.png"))
	ok, err = s.Exists(ctx, "faces/b.png")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is a no-op.
	assert.NoError(t, s.Delete(ctx, "faces/b.png"))

	_, err = s.Download(ctx, "faces/b.png")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}
