package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"lensgallery/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestGetImageInfo(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "tiny.png"), 4, 3)
	is := NewImageService(dir)
	img := catalog.Image{Name: "tiny.png", Path: "/Gallery/tiny.png"}

	info, err := is.GetImageInfo(img)
	require.NoError(t, err)
	assert.Equal(t, 4, info.Width)
	assert.Equal(t, 3, info.Height)
	assert.Positive(t, info.Size)
	assert.Empty(t, info.EXIFData, "PNG files carry no EXIF")
}

func TestGetImageInfoErrors(t *testing.T) {
	_, err := NewImageService("").GetImageInfo(catalog.Image{Name: "a.jpg"})
	assert.Error(t, err)

	dir := t.TempDir()
	is := NewImageService(dir)
	_, err = is.GetImageInfo(catalog.Image{Name: "missing.jpg"})
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.jpg"), []byte("not an image"), 0644))
	_, err = is.GetImageInfo(catalog.Image{Name: "junk.jpg"})
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wide.png"), 400, 200)
	writePNG(t, filepath.Join(dir, "small.png"), 20, 10)
	is := NewImageService(dir)

	thumb, err := is.Thumbnail(catalog.Image{Name: "wide.png"}, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, thumb.Bounds().Dx())
	assert.Equal(t, 50, thumb.Bounds().Dy())

	thumb, err = is.Thumbnail(catalog.Image{Name: "small.png"}, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, thumb.Bounds().Dx(), "small images are not enlarged")

	_, err = is.Thumbnail(catalog.Image{Name: "missing.png"}, 100, 100)
	assert.Error(t, err)
}

func TestAvailable(t *testing.T) {
	assert.False(t, NewImageService("").Available())
	assert.True(t, NewImageService(t.TempDir()).Available())
}
