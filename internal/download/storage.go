package download

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exiflyzer/internal/config"
	"exiflyzer/internal/logging"
	"exiflyzer/internal/port"
	s3storage "exiflyzer/internal/storage/s3"
)

// StorageSink uploads artifacts to object storage and returns a presigned
// download URL.
type StorageSink struct {
	storage       port.ObjectStorage
	bucket        string
	prefix        string
	presignExpiry int64
}

// NewStorageSink creates a sink over an ObjectStorage.
func NewStorageSink(storage port.ObjectStorage, cfg *config.S3Config) *StorageSink {
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 3600
	}
	return &StorageSink{
		storage:       storage,
		bucket:        cfg.Bucket,
		prefix:        cfg.Prefix,
		presignExpiry: expiry,
	}
}

// Save uploads body under <prefix>/<uuid>/<name>.
func (s *StorageSink) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key := path.Join(s.prefix, uuid.New().String(), path.Base(name))
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Filename:    name,
		Body:        body,
		ContentType: contentType,
	}); err != nil {
		return "", err
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, key, s.presignExpiry)
	if err != nil {
		return "", err
	}
	logging.WithContext(ctx).Debug("artifact uploaded", zap.String("bucket", s.bucket), zap.String("key", key))
	return url, nil
}

// NewSink builds the sink selected by configuration.
func NewSink(ctx context.Context, cfg *config.Config) (port.ArtifactSink, error) {
	switch cfg.Download.Sink {
	case "", "local":
		return NewLocalSink(cfg.Download.Dir), nil
	case "s3":
		storage, err := s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return nil, err
		}
		return NewStorageSink(storage, &cfg.S3), nil
	default:
		return nil, fmt.Errorf("unknown download sink %q", cfg.Download.Sink)
	}
}
