package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exiflyzer/internal/config"
	"exiflyzer/internal/domain"
	"exiflyzer/internal/logging"
	"exiflyzer/internal/metrics"
	"exiflyzer/internal/organizer"
	"exiflyzer/internal/port"
)

// UploadInput is the DTO for a received file.
type UploadInput struct {
	File     io.Reader
	Filename string
	Size     int64
}

// ExtractResult holds the categorized and raw tag maps of one file.
type ExtractResult struct {
	Metadata *domain.MetadataDocument
	Raw      map[string]any
}

// MetadataService defines the metadata server contract.
type MetadataService interface {
	SystemCheck(ctx context.Context) (*domain.SystemStatus, error)
	SupportedTypes() *domain.SupportedTypes
	Extract(ctx context.Context, input UploadInput) (*ExtractResult, error)
	Strip(ctx context.Context, input UploadInput) (*domain.Artifact, error)
}

type metadataService struct {
	extractor port.MetadataExtractor
	stripper  port.MetadataStripper
	cfg       *config.UploadConfig
}

// NewMetadataService creates a new MetadataService implementation.
func NewMetadataService(
	extractor port.MetadataExtractor,
	stripper port.MetadataStripper,
	cfg *config.UploadConfig,
) MetadataService {
	return &metadataService{
		extractor: extractor,
		stripper:  stripper,
		cfg:       cfg,
	}
}

func (s *metadataService) SystemCheck(ctx context.Context) (*domain.SystemStatus, error) {
	version, err := s.extractor.Version(ctx)
	if err != nil {
		logging.WithContext(ctx).Error("extractor unavailable",
			zap.String("provider", s.extractor.Name()), zap.Error(err))
		return nil, err
	}
	return &domain.SystemStatus{
		Status:              domain.StatusOK,
		SupportedExtensions: s.extensions(),
		ExiftoolVersion:     version,
	}, nil
}

func (s *metadataService) SupportedTypes() *domain.SupportedTypes {
	return &domain.SupportedTypes{
		SupportedExtensions: s.extensions(),
		MaxFileSizeMB:       s.cfg.MaxFileSizeMB,
	}
}

func (s *metadataService) Extract(ctx context.Context, input UploadInput) (*ExtractResult, error) {
	log := logging.WithContext(ctx)

	path, _, err := s.saveTemp(input)
	if err != nil {
		return nil, err
	}
	defer s.cleanup(ctx, path)

	start := time.Now()
	raw, err := s.extractor.Extract(ctx, path)
	metrics.RecordExtraction(s.extractor.Name(), time.Since(start), err == nil)
	if err != nil {
		log.Error("metadata extraction failed", zap.String("file", input.Filename), zap.Error(err))
		return nil, err
	}

	doc := organizer.Organize(raw)
	log.Info("metadata extracted",
		zap.String("file", input.Filename),
		zap.Int("categories", len(doc.Categories)),
		zap.Int("fields", doc.FieldCount()))
	return &ExtractResult{Metadata: doc, Raw: raw}, nil
}

func (s *metadataService) Strip(ctx context.Context, input UploadInput) (*domain.Artifact, error) {
	log := logging.WithContext(ctx)

	src, name, err := s.saveTemp(input)
	if err != nil {
		return nil, err
	}
	defer s.cleanup(ctx, src)

	dst := filepath.Join(s.cfg.TempDir, uuid.New().String()+"_clean_"+name)
	defer s.cleanup(ctx, dst)

	if err := s.stripper.Strip(ctx, src, dst); err != nil {
		metrics.RecordStrip(false)
		log.Error("metadata removal failed", zap.String("file", input.Filename), zap.Error(err))
		return nil, err
	}
	body, err := os.ReadFile(dst)
	if err != nil {
		metrics.RecordStrip(false)
		return nil, fmt.Errorf("reading cleaned file: %w", err)
	}
	metrics.RecordStrip(true)

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	log.Info("metadata removed",
		zap.String("file", input.Filename),
		zap.Int64("original_bytes", input.Size),
		zap.Int("clean_bytes", len(body)))
	return &domain.Artifact{
		Filename:    "clean_" + name,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// saveTemp validates the upload and writes it to <temp_dir>/<uuid>_<safe name>.
// It returns the temp path and the safe name.
func (s *metadataService) saveTemp(input UploadInput) (path, name string, err error) {
	if input.File == nil || input.Filename == "" {
		return "", "", domain.ErrMissingFile
	}
	ext, ok := s.allowedExtension(input.Filename)
	if !ok {
		return "", "", domain.ErrUnsupportedFileType
	}
	maxBytes := s.cfg.MaxBytes()
	if maxBytes > 0 && input.Size > maxBytes {
		return "", "", domain.ErrFileTooLarge
	}

	if err := os.MkdirAll(s.cfg.TempDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating temp dir: %w", err)
	}
	name = SecureFilename(input.Filename, ext)
	path = filepath.Join(s.cfg.TempDir, uuid.New().String()+"_"+name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", "", fmt.Errorf("creating temp file: %w", err)
	}
	src := input.File
	if maxBytes > 0 {
		src = io.LimitReader(src, maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && maxBytes > 0 && n > maxBytes {
		err = domain.ErrFileTooLarge
	}
	if err != nil {
		os.Remove(path)
		if errors.Is(err, domain.ErrFileTooLarge) {
			return "", "", err
		}
		return "", "", fmt.Errorf("saving upload: %w", err)
	}
	metrics.RecordUpload(n)
	return path, name, nil
}

func (s *metadataService) cleanup(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.WithContext(ctx).Error("removing temp file", zap.String("path", path), zap.Error(err))
	}
}

func (s *metadataService) allowedExtension(filename string) (string, bool) {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return "", false
	}
	ext := strings.ToLower(filename[i+1:])
	for _, allowed := range s.cfg.AllowedExtensions {
		if ext == allowed {
			return ext, true
		}
	}
	return "", false
}

func (s *metadataService) extensions() []string {
	out := make([]string, len(s.cfg.AllowedExtensions))
	copy(out, s.cfg.AllowedExtensions)
	return out
}

// SecureFilename reduces a client-supplied name to a safe base name of
// ASCII letters, digits, '-', '_' and '.', ending in .ext in the case the
// client used.
func SecureFilename(filename, ext string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	stem := base
	if i := strings.LastIndex(base, "."); i >= 0 {
		stem = base[:i]
		// Keep the client's spelling of the extension: photo.JPG stays .JPG.
		if suffix := base[i+1:]; strings.EqualFold(suffix, ext) {
			ext = suffix
		}
	}

	var b strings.Builder
	for _, r := range stem {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.'):
			b.WriteRune(r)
		}
	}
	safe := strings.Trim(b.String(), "._")
	if safe == "" {
		safe = "file"
	}
	return safe + "." + ext
}
