package upload

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	apperrors "biosen/internal/errors"
)

const thumbnailWidth = 320

// Storage writes uploaded images under <dir>/<category>/ with generated
// unique names and keeps a thumbnail next to each original. Stored paths
// are relative to the base dir and served under /storage/.
type Storage struct {
	dir    string
	logger *zap.Logger
}

func NewStorage(dir string, logger *zap.Logger) *Storage {
	return &Storage{
		dir:    dir,
		logger: logger,
	}
}

func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) Save(file io.Reader, originalName, category string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "image",
			Message: "image must be a jpg or png file",
		})
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return "", apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "image",
			Message: "file is not a valid image",
		})
	}

	name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.New().String()[:8], ext)
	relPath := filepath.Join(category, name)

	if err := os.MkdirAll(filepath.Join(s.dir, category), 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	if err := s.encode(img, filepath.Join(s.dir, relPath), ext); err != nil {
		return "", err
	}

	thumb := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)
	if err := s.encode(thumb, filepath.Join(s.dir, category, "thumb_"+name), ext); err != nil {
		// The original is already on disk; a missing thumbnail is not
		// worth failing the request over.
		s.logger.Warn("failed to write thumbnail", zap.String("path", relPath), zap.Error(err))
	}

	return relPath, nil
}

func (s *Storage) encode(img image.Image, path, ext string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	defer out.Close()

	switch ext {
	case ".png":
		err = png.Encode(out, img)
	default:
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	return nil
}

func (s *Storage) Delete(relPath string) {
	if relPath == "" {
		return
	}

	full := filepath.Join(s.dir, relPath)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to delete image", zap.String("path", relPath), zap.Error(err))
	}

	thumb := filepath.Join(filepath.Dir(full), "thumb_"+filepath.Base(full))
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to delete thumbnail", zap.String("path", relPath), zap.Error(err))
	}
}

// Replace stores the new image, then removes the previous one.
func (s *Storage) Replace(file io.Reader, originalName, category string, oldPath *string) (string, error) {
	relPath, err := s.Save(file, originalName, category)
	if err != nil {
		return "", err
	}

	if oldPath != nil {
		s.Delete(*oldPath)
	}
	return relPath, nil
}
