package goexif_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exiflyzer/internal/extractor/goexif"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "pixel.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestExtract_FileFactsWithoutExif(t *testing.T) {
	path := writePNG(t, 3, 2)
	r := goexif.New()

	tags, err := r.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "pixel.png", tags["FileName"])
	assert.Equal(t, "PNG", tags["FileType"])
	assert.Equal(t, "image/png", tags["MIMEType"])
	assert.Equal(t, "png", tags["FileTypeExtension"])
	assert.Equal(t, 3, tags["ImageWidth"])
	assert.Equal(t, 2, tags["ImageHeight"])
	assert.Greater(t, tags["FileSize"], int64(0))
	assert.NotContains(t, tags, "GPSLatitude")
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := goexif.New().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	r := goexif.New()
	v, err := r.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "goexif", v)
	assert.Equal(t, "goexif", r.Name())
}
