package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exiflyzer/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Client.BaseURL)
	assert.Equal(t, "exiftool", cfg.Tool.Provider)
	assert.Equal(t, []string{"png", "jpg", "jpeg", "gif", "tiff", "bmp", "webp", "heic", "pdf"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, int64(50), cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, "local", cfg.Download.Sink)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Len(t, cfg.CORS.AllowedOrigins, 4)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EXIFLYZER_CLIENT_BASE_URL", "http://meta.internal:9000/")
	t.Setenv("EXIFLYZER_UPLOAD_ALLOWED_EXTENSIONS", " .JPG, png ,, pdf")
	t.Setenv("EXIFLYZER_TOOL_TIMEOUT_SECS", "5")
	t.Setenv("EXIFLYZER_CLIENT_TIMEOUT", "3s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://meta.internal:9000", cfg.Client.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Client.Timeout)
	assert.Equal(t, []string{"jpg", "png", "pdf"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, 5*time.Second, cfg.Tool.Timeout())
}

func TestLoad_BarePortFallback(t *testing.T) {
	t.Setenv("PORT", "8081")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Server.Port)

	t.Setenv("EXIFLYZER_SERVER_PORT", ":7000")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Port)
}

func TestToolConfig_TimeoutDefault(t *testing.T) {
	tc := config.ToolConfig{}
	assert.Equal(t, 60*time.Second, tc.Timeout())
}

func TestUploadConfig_MaxBytes(t *testing.T) {
	uc := config.UploadConfig{MaxFileSizeMB: 2}
	assert.Equal(t, int64(2*1024*1024), uc.MaxBytes())
}
