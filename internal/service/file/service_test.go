package file

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (FileService, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	return NewFileService(local, "faces"), local
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestNormalizeImage_DownscalesToJPEG(t *testing.T) {
	out, err := normalizeImage(pngBytes(t, 2000, 1000))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}

func TestNormalizeImage_KeepsSmallImages(t *testing.T) {
	out, err := normalizeImage(pngBytes(t, 300, 400))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestNormalizeImage_RejectsGarbage(t *testing.T) {
	_, err := normalizeImage([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestNormalizeImage_RejectsOversizedHeader(t *testing.T) {
	data := pngBytes(t, 1, 1)
	// IHDR data starts after the 8-byte signature and the chunk length and type
	binary.BigEndian.PutUint32(data[16:20], 20000)
	binary.BigEndian.PutUint32(data[20:24], 20000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 20000, cfg.Width)

	_, err = normalizeImage(data)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.ErrorContains(t, err, "20000x20000")
}

func TestFaceLifecycle(t *testing.T) {
	svc, local := newTestService(t)
	ctx := context.Background()

	url, err := svc.UploadFacePhoto(ctx, "Jane Doe", bytes.NewReader(pngBytes(t, 64, 64)))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/faces/Jane Doe.jpg", url)

	data, err := svc.ReadFacePhoto(ctx, "Jane Doe")
	require.NoError(t, err)
	_, err = jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)

	url, err = svc.RenameFacePhoto(ctx, "Jane Doe", "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/faces/Jane Smith.jpg", url)

	exists, err := local.Exists(ctx, "faces/Jane Doe.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	deleted, err := svc.DeleteFacePhoto(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteFacePhoto(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.ReadFacePhoto(ctx, "Jane Smith")
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}

func TestReadFacePhoto_FindsLegacyExtension(t *testing.T) {
	svc, local := newTestService(t)
	ctx := context.Background()

	_, err := local.Upload(ctx, bytes.NewReader([]byte("png-bytes")), "faces/Bob.png", "image/png")
	require.NoError(t, err)

	data, err := svc.ReadFacePhoto(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestUploadSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	at := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

	url, err := svc.UploadSnapshot(context.Background(), "rec-1", at, bytes.NewReader(pngBytes(t, 32, 32)))
	require.NoError(t, err)
	assert.Contains(t, url, "/uploads/snapshots/2025-03-04/rec-1-")
	assert.Contains(t, url, ".jpg")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a_b", sanitizeName("a/b"))
	assert.Equal(t, "_", sanitizeName(" .. "))
	assert.Equal(t, "Jane Doe", sanitizeName(" Jane Doe "))
}
