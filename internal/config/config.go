package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Client   ClientConfig
	Tool     ToolConfig
	Upload   UploadConfig
	Download DownloadConfig
	S3       S3Config
	Log      LogConfig
	CORS     CORSConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// ClientConfig holds settings for talking to a metadata server.
// BaseURL is the only address the workflow core needs.
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ToolConfig selects and configures the metadata extraction provider.
type ToolConfig struct {
	Provider     string `mapstructure:"provider"`
	ExiftoolPath string `mapstructure:"exiftool_path"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// Timeout returns the per-invocation tool timeout.
func (t *ToolConfig) Timeout() time.Duration {
	if t.TimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(t.TimeoutSecs) * time.Second
}

// UploadConfig holds server-side intake settings.
type UploadConfig struct {
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	MaxFileSizeMB     int64    `mapstructure:"max_file_size_mb"`
	TempDir           string   `mapstructure:"temp_dir"`
}

// MaxBytes returns the upload size limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// DownloadConfig holds settings for where cleaned artifacts are saved.
type DownloadConfig struct {
	Sink string `mapstructure:"sink"`
	Dir  string `mapstructure:"dir"`
}

// S3Config holds AWS S3 settings for the s3 download sink.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Prefix        string `mapstructure:"prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from environment variables with the EXIFLYZER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EXIFLYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// Client defaults
	v.SetDefault("client.base_url", "http://localhost:5000")
	v.SetDefault("client.timeout", "120s")

	// Tool defaults
	v.SetDefault("tool.provider", "exiftool")
	v.SetDefault("tool.exiftool_path", "exiftool")
	v.SetDefault("tool.timeout_secs", 60)

	// Upload defaults
	v.SetDefault("upload.allowed_extensions", "png,jpg,jpeg,gif,tiff,bmp,webp,heic,pdf")
	v.SetDefault("upload.max_file_size_mb", 50)
	v.SetDefault("upload.temp_dir", "temp_uploads")

	// Download defaults
	v.SetDefault("download.sink", "local")
	v.SetDefault("download.dir", ".")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "exiflyzer-clean")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "clean")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// CORS defaults (the web front-end dev server)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000,http://127.0.0.1:3000")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "EXIFLYZER_SERVER_PORT",
		"server.read_timeout":        "EXIFLYZER_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "EXIFLYZER_SERVER_WRITE_TIMEOUT",
		"server.environment":         "EXIFLYZER_SERVER_ENVIRONMENT",
		"client.base_url":            "EXIFLYZER_CLIENT_BASE_URL",
		"client.timeout":             "EXIFLYZER_CLIENT_TIMEOUT",
		"tool.provider":              "EXIFLYZER_TOOL_PROVIDER",
		"tool.exiftool_path":         "EXIFLYZER_TOOL_EXIFTOOL_PATH",
		"tool.timeout_secs":          "EXIFLYZER_TOOL_TIMEOUT_SECS",
		"upload.allowed_extensions":  "EXIFLYZER_UPLOAD_ALLOWED_EXTENSIONS",
		"upload.max_file_size_mb":    "EXIFLYZER_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.temp_dir":            "EXIFLYZER_UPLOAD_TEMP_DIR",
		"download.sink":              "EXIFLYZER_DOWNLOAD_SINK",
		"download.dir":               "EXIFLYZER_DOWNLOAD_DIR",
		"s3.region":                  "EXIFLYZER_S3_REGION",
		"s3.bucket":                  "EXIFLYZER_S3_BUCKET",
		"s3.endpoint":                "EXIFLYZER_S3_ENDPOINT",
		"s3.access_key":              "EXIFLYZER_S3_ACCESS_KEY",
		"s3.secret_key":              "EXIFLYZER_S3_SECRET_KEY",
		"s3.prefix":                  "EXIFLYZER_S3_PREFIX",
		"s3.presign_expiry":          "EXIFLYZER_S3_PRESIGN_EXPIRY",
		"log.level":                  "EXIFLYZER_LOG_LEVEL",
		"log.format":                 "EXIFLYZER_LOG_FORMAT",
		"cors.allowed_origins":       "EXIFLYZER_CORS_ALLOWED_ORIGINS",
		"metrics.enabled":            "EXIFLYZER_METRICS_ENABLED",
		"metrics.path":               "EXIFLYZER_METRICS_PATH",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a bare PORT. Use it if EXIFLYZER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("EXIFLYZER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Client = ClientConfig{
		BaseURL: strings.TrimRight(v.GetString("client.base_url"), "/"),
		Timeout: v.GetDuration("client.timeout"),
	}
	cfg.Tool = ToolConfig{
		Provider:     v.GetString("tool.provider"),
		ExiftoolPath: v.GetString("tool.exiftool_path"),
		TimeoutSecs:  v.GetInt("tool.timeout_secs"),
	}
	cfg.Upload = UploadConfig{
		AllowedExtensions: splitList(v.GetString("upload.allowed_extensions"), true),
		MaxFileSizeMB:     v.GetInt64("upload.max_file_size_mb"),
		TempDir:           v.GetString("upload.temp_dir"),
	}
	cfg.Download = DownloadConfig{
		Sink: v.GetString("download.sink"),
		Dir:  v.GetString("download.dir"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		Prefix:        v.GetString("s3.prefix"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins"), false),
	}
	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("metrics.enabled"),
		Path:    v.GetString("metrics.path"),
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(raw string, lower bool) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if lower {
			item = strings.ToLower(strings.TrimPrefix(item, "."))
		}
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
