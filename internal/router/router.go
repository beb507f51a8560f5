package router

import (
	"github.com/gin-gonic/gin"

	"exiflyzer/internal/config"
	"exiflyzer/internal/handler"
	"exiflyzer/internal/metrics"
	"exiflyzer/internal/middleware"
)

// multipartOverhead leaves room for form boundaries on top of the file limit.
const multipartOverhead = 1 << 20

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	metaH *handler.MetadataHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxBytes() + multipartOverhead

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
	}
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	// Metadata endpoints
	r.GET("/system-check", metaH.SystemCheck)
	r.GET("/supported-types", metaH.SupportedTypes)
	r.POST("/upload", metaH.Upload)
	r.POST("/remove-metadata", metaH.RemoveMetadata)

	return r
}
