// Package exiftool runs the exiftool binary to read and strip metadata.
package exiftool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"exiflyzer/internal/config"
	"exiflyzer/internal/domain"
	"exiflyzer/internal/logging"
	"exiflyzer/internal/port"
)

// ProviderName is the registry name of this extractor.
const ProviderName = "exiftool"

// Tool wraps one exiftool executable.
type Tool struct {
	path    string
	timeout time.Duration
}

// New creates a Tool from the tool config.
func New(cfg *config.ToolConfig) *Tool {
	path := cfg.ExiftoolPath
	if path == "" {
		path = "exiftool"
	}
	return &Tool{path: path, timeout: cfg.Timeout()}
}

// Factory adapts New to extractor.ProviderFactory.
func Factory(cfg *config.ToolConfig) (port.MetadataExtractor, error) {
	return New(cfg), nil
}

// Name returns the provider name.
func (t *Tool) Name() string {
	return ProviderName
}

// Version returns the output of `exiftool -ver`.
func (t *Tool) Version(ctx context.Context) (string, error) {
	out, err := t.run(ctx, "-ver")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Extract runs `exiftool -json -n` on path and returns the tag map of the
// single file. Numbers are kept as json.Number.
func (t *Tool) Extract(ctx context.Context, path string) (map[string]any, error) {
	out, err := t.run(ctx, "-json", "-n", path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(out))
	dec.UseNumber()
	var files []map[string]any
	if err := dec.Decode(&files); err != nil {
		return nil, fmt.Errorf("%w: parsing output: %v", domain.ErrToolFailed, err)
	}
	if len(files) == 0 || len(files[0]) == 0 {
		return nil, domain.ErrNoMetadata
	}
	return files[0], nil
}

// Strip writes a copy of src with all writable tags removed to dst.
// dst must not exist.
func (t *Tool) Strip(ctx context.Context, src, dst string) error {
	_, err := t.run(ctx, "-all=", "-o", dst, src)
	return err
}

// Available reports whether the executable can be found.
func (t *Tool) Available() bool {
	_, err := exec.LookPath(t.path)
	return err == nil
}

func (t *Tool) run(ctx context.Context, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(t.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrToolNotFound, t.path)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := logging.WithContext(ctx)
	log.Debug("running exiftool", zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		log.Error("exiftool failed", zap.Strings("args", args), zap.String("stderr", msg))
		return nil, fmt.Errorf("%w: %s", domain.ErrToolFailed, msg)
	}
	if stderr.Len() > 0 {
		log.Warn("exiftool warnings", zap.String("stderr", strings.TrimSpace(stderr.String())))
	}
	return stdout.Bytes(), nil
}
