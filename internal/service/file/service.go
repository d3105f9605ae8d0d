package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Import for GIF decoding support
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/storage"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Import for WebP decoding support
)

const (
	snapshotsBucket = "snapshots"
	maxImageSide    = 1024
	jpegQuality     = 85
	// Headers are checked against this before any pixel buffer is allocated
	maxImagePixels  = 40_000_000
)

// Extensions a face photo may have been stored under. New uploads are always jpg.
var facePhotoExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

var ErrUnsupportedImage = errors.New("unsupported image format")

type FileService interface {
	// UploadFacePhoto normalises the image and stores it as <bucket>/<name>.jpg, returning its URL
	UploadFacePhoto(ctx context.Context, employeeName string, file io.Reader) (string, error)

	// ReadFacePhoto returns the stored photo bytes for an employee
	ReadFacePhoto(ctx context.Context, employeeName string) ([]byte, error)

	// RenameFacePhoto moves the photo when an employee is renamed
	RenameFacePhoto(ctx context.Context, oldName, newName string) (string, error)

	// DeleteFacePhoto removes every known variant and reports whether any existed
	DeleteFacePhoto(ctx context.Context, employeeName string) (bool, error)

	// UploadSnapshot stores a recognition snapshot under snapshots/<date>/
	UploadSnapshot(ctx context.Context, recordID string, at time.Time, file io.Reader) (string, error)
}

type fileServiceImpl struct {
	storage     storage.FileStorage
	facesBucket string
}

func NewFileService(storage storage.FileStorage, facesBucket string) FileService {
	return &fileServiceImpl{
		storage:     storage,
		facesBucket: facesBucket,
	}
}

func (s *fileServiceImpl) faceKey(employeeName, ext string) string {
	return path.Join(s.facesBucket, sanitizeName(employeeName)+"."+ext)
}

// UploadFacePhoto implements FileService.
func (s *fileServiceImpl) UploadFacePhoto(ctx context.Context, employeeName string, file io.Reader) (string, error) {
	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	normalized, err := normalizeImage(buffer)
	if err != nil {
		return "", err
	}

	key := s.faceKey(employeeName, "jpg")
	if _, err := s.storage.Upload(ctx, bytes.NewReader(normalized), key, "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload face photo: %w", err)
	}

	// Drop variants left behind by older uploads in other formats.
	for _, ext := range facePhotoExtensions[1:] {
		if err := s.storage.Delete(ctx, s.faceKey(employeeName, ext)); err != nil {
			slog.Warn("Failed to remove stale face photo", "employee_name", employeeName, "ext", ext, "error", err)
		}
	}

	return s.storage.GetURL(ctx, key, 0)
}

// ReadFacePhoto implements FileService.
func (s *fileServiceImpl) ReadFacePhoto(ctx context.Context, employeeName string) ([]byte, error) {
	for _, ext := range facePhotoExtensions {
		rc, err := s.storage.Download(ctx, s.faceKey(employeeName, ext))
		if err != nil {
			if errors.Is(err, storage.ErrFileNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to open face photo: %w", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read face photo: %w", err)
		}
		return data, nil
	}
	return nil, storage.ErrFileNotFound
}

// RenameFacePhoto implements FileService.
func (s *fileServiceImpl) RenameFacePhoto(ctx context.Context, oldName, newName string) (string, error) {
	data, err := s.ReadFacePhoto(ctx, oldName)
	if err != nil {
		return "", err
	}

	key := s.faceKey(newName, "jpg")
	if _, err := s.storage.Upload(ctx, bytes.NewReader(data), key, "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload face photo: %w", err)
	}
	if _, err := s.DeleteFacePhoto(ctx, oldName); err != nil {
		return "", err
	}

	return s.storage.GetURL(ctx, key, 0)
}

// DeleteFacePhoto implements FileService.
func (s *fileServiceImpl) DeleteFacePhoto(ctx context.Context, employeeName string) (bool, error) {
	deleted := false
	for _, ext := range facePhotoExtensions {
		key := s.faceKey(employeeName, ext)
		exists, err := s.storage.Exists(ctx, key)
		if err != nil {
			return deleted, fmt.Errorf("failed to check face photo: %w", err)
		}
		if !exists {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			return deleted, fmt.Errorf("failed to delete face photo: %w", err)
		}
		deleted = true
	}
	return deleted, nil
}

// UploadSnapshot implements FileService.
func (s *fileServiceImpl) UploadSnapshot(ctx context.Context, recordID string, at time.Time, file io.Reader) (string, error) {
	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	normalized, err := normalizeImage(buffer)
	if err != nil {
		return "", err
	}

	// snapshots/{date}/{recordID}-{timestamp}.jpg
	key := path.Join(snapshotsBucket, at.Format("2006-01-02"), fmt.Sprintf("%s-%d.jpg", recordID, time.Now().Unix()))
	if _, err := s.storage.Upload(ctx, bytes.NewReader(normalized), key, "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	return s.storage.GetURL(ctx, key, 0)
}

// ==================== HELPER FUNCTIONS ====================

// sanitizeName keeps the employee name as the object name but strips path separators.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

// normalizeImage decodes jpeg/png/gif/webp, bounds the longest side to
// maxImageSide and re-encodes as JPEG.
func normalizeImage(buffer []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, maxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid image dimensions", ErrUnsupportedImage)
	}

	if longest := max(width, height); longest > maxImageSide {
		scale := float64(maxImageSide) / float64(longest)
		img = resizeImage(img, max(1, int(float64(width)*scale)), max(1, int(float64(height)*scale)))
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
