// Package goexif reads embedded EXIF natively, without an external tool.
package goexif

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"go.uber.org/zap"

	"exiflyzer/internal/config"
	"exiflyzer/internal/logging"
	"exiflyzer/internal/port"
)

// ProviderName is the registry name of this extractor.
const ProviderName = "goexif"

// Reader extracts file facts, image dimensions and EXIF tags.
type Reader struct{}

// New creates a Reader.
func New() *Reader {
	return &Reader{}
}

// Factory adapts New to extractor.ProviderFactory.
func Factory(_ *config.ToolConfig) (port.MetadataExtractor, error) {
	return New(), nil
}

// Name returns the provider name.
func (r *Reader) Name() string {
	return ProviderName
}

// Version identifies the built-in decoder.
func (r *Reader) Version(_ context.Context) (string, error) {
	return ProviderName, nil
}

// Extract returns file facts plus every decodable EXIF tag. A file without
// EXIF still yields its file facts.
func (r *Reader) Extract(ctx context.Context, path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	mimeType := http.DetectContentType(head[:n])
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" && mimeType == "application/octet-stream" {
		mimeType = byExt
	}

	tags := map[string]any{
		"FileName":          filepath.Base(path),
		"FileSize":          info.Size(),
		"FileModifyDate":    info.ModTime().Format("2006:01:02 15:04:05-07:00"),
		"FileTypeExtension": strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		"MIMEType":          mimeType,
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if cfg, format, err := image.DecodeConfig(f); err == nil {
		tags["FileType"] = strings.ToUpper(format)
		tags["ImageWidth"] = cfg.Width
		tags["ImageHeight"] = cfg.Height
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	x, err := exif.Decode(f)
	if err != nil {
		// No EXIF is not an error.
		logging.WithContext(ctx).Debug("no exif data", zap.String("path", path), zap.Error(err))
		return tags, nil
	}

	if err := x.Walk(tagWalker(tags)); err != nil {
		return nil, fmt.Errorf("walking exif tags: %w", err)
	}
	if lat, lon, err := x.LatLong(); err == nil && !math.IsNaN(lat) && !math.IsNaN(lon) {
		tags["GPSLatitude"] = lat
		tags["GPSLongitude"] = lon
	}
	return tags, nil
}

// tagWalker copies each EXIF tag into a flat map.
type tagWalker map[string]any

func (w tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if v, ok := tagValue(tag); ok {
		w[string(name)] = v
	}
	return nil
}

// tagValue converts a tag to a JSON-friendly value. Single values become
// scalars, repeated values become slices. Undefined blobs are skipped.
func tagValue(tag *tiff.Tag) (any, bool) {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return nil, false
		}
		s = strings.TrimRight(s, "\x00 ")
		return s, s != ""
	case tiff.IntVal:
		return collect(int(tag.Count), func(i int) (any, error) { return tag.Int64(i) })
	case tiff.RatVal:
		return collect(int(tag.Count), func(i int) (any, error) {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return nil, err
			}
			if den == 0 {
				return nil, errors.New("zero denominator")
			}
			return float64(num) / float64(den), nil
		})
	case tiff.FloatVal:
		return collect(int(tag.Count), func(i int) (any, error) { return tag.Float(i) })
	default:
		return nil, false
	}
}

func collect(count int, get func(int) (any, error)) (any, bool) {
	if count == 0 {
		return nil, false
	}
	if count == 1 {
		v, err := get(0)
		return v, err == nil
	}
	vals := make([]any, 0, count)
	for i := 0; i < count; i++ {
		v, err := get(i)
		if err != nil {
			return nil, false
		}
		vals = append(vals, v)
	}
	return vals, true
}
