// Package stripper writes metadata-free copies of uploaded files.
package stripper

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/logging"
	"exiflyzer/internal/port"
)

// JPEGQuality is the quality used when re-encoding JPEG pixels.
const JPEGQuality = 95

// Stripper re-encodes JPEG, PNG and GIF from pixel data only, which drops
// every embedded segment. Other formats go to the fallback stripper.
type Stripper struct {
	fallback port.MetadataStripper
}

// New creates a Stripper. fallback may be nil.
func New(fallback port.MetadataStripper) *Stripper {
	return &Stripper{fallback: fallback}
}

// Strip writes the cleaned copy of src to dst.
func (s *Stripper) Strip(ctx context.Context, src, dst string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(src), "."))
	log := logging.WithContext(ctx).With(zap.String("src", filepath.Base(src)), zap.String("ext", ext))

	switch ext {
	case "jpg", "jpeg", "png", "gif":
		log.Debug("re-encoding image pixels")
		return reencode(ext, src, dst)
	}
	if s.fallback == nil {
		return fmt.Errorf("%w: .%s", domain.ErrStripUnsupported, ext)
	}
	log.Debug("stripping with fallback tool")
	return s.fallback.Strip(ctx, src, dst)
}

func reencode(ext, src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	switch ext {
	case "gif":
		g, err := gif.DecodeAll(in)
		if err != nil {
			return fmt.Errorf("decoding gif: %w", err)
		}
		return gif.EncodeAll(out, g)
	case "png":
		img, err := png.Decode(in)
		if err != nil {
			return fmt.Errorf("decoding png: %w", err)
		}
		return png.Encode(out, img)
	default:
		img, _, err := image.Decode(in)
		if err != nil {
			return fmt.Errorf("decoding jpeg: %w", err)
		}
		return jpeg.Encode(out, img, &jpeg.Options{Quality: JPEGQuality})
	}
}
