// Package metrics provides Prometheus metrics for the metadata server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exiflyzer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exiflyzer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Metadata operations
	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exiflyzer_extractions_total",
			Help: "Total metadata extractions",
		},
		[]string{"provider", "status"},
	)

	extractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exiflyzer_extraction_duration_seconds",
			Help:    "Metadata extraction duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	stripsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exiflyzer_strips_total",
			Help: "Total metadata removals",
		},
		[]string{"status"},
	)

	bytesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "exiflyzer_upload_bytes_total",
			Help: "Total bytes received in uploads",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordExtraction records one extraction run.
func RecordExtraction(provider string, duration time.Duration, success bool) {
	extractionDuration.WithLabelValues(provider).Observe(duration.Seconds())
	extractionsTotal.WithLabelValues(provider, statusLabel(success)).Inc()
}

// RecordStrip records one metadata removal.
func RecordStrip(success bool) {
	stripsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordUpload records the size of a received upload.
func RecordUpload(bytes int64) {
	bytesReceived.Add(float64(bytes))
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// Middleware records request count and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
