// Package download saves cleaned artifacts where the user can reach them.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"exiflyzer/internal/logging"
)

// LocalSink writes artifacts into a directory. A file appears under its
// final name only once fully written.
type LocalSink struct {
	dir string
}

// NewLocalSink creates a sink writing into dir.
func NewLocalSink(dir string) *LocalSink {
	if dir == "" {
		dir = "."
	}
	return &LocalSink{dir: dir}
}

// Save writes body to dir/name and returns the path. An existing file of the
// same name is replaced.
func (s *LocalSink) Save(ctx context.Context, name, _ string, body io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}

	dest := filepath.Join(s.dir, filepath.Base(name))
	tmp, err := os.CreateTemp(s.dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	n, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}

	logging.WithContext(ctx).Debug("artifact saved", zap.String("path", dest), zap.Int64("bytes", n))
	return dest, nil
}
