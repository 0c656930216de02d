package upload

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "biosen/internal/errors"
)

func testImage(t *testing.T) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir, zap.NewNop())

	relPath, err := s.Save(testImage(t), "logo.png", "products")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(relPath, "products"+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(relPath, ".png"))

	_, err = os.Stat(filepath.Join(dir, relPath))
	require.NoError(t, err)

	thumb := filepath.Join(dir, "products", "thumb_"+filepath.Base(relPath))
	_, err = os.Stat(thumb)
	require.NoError(t, err)

	s.Delete(relPath)
	_, err = os.Stat(filepath.Join(dir, relPath))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(thumb)
	assert.True(t, os.IsNotExist(err))
}

func TestStorageRejectsNonImages(t *testing.T) {
	s := NewStorage(t.TempDir(), zap.NewNop())

	_, err := s.Save(bytes.NewBufferString("not an image"), "evil.png", "products")
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	_, err = s.Save(testImage(t), "report.pdf", "products")
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestStorageReplaceRemovesOld(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir, zap.NewNop())

	old, err := s.Save(testImage(t), "a.png", "employees")
	require.NoError(t, err)

	next, err := s.Replace(testImage(t), "b.png", "employees", &old)
	require.NoError(t, err)
	assert.NotEqual(t, old, next)

	_, err = os.Stat(filepath.Join(dir, old))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, next))
	assert.NoError(t, err)
}
