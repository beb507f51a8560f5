package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMiddleware_RecordsRoute(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())
	r.GET("/system-check", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system-check", nil))

	assert.Contains(t, scrape(t), `exiflyzer_http_requests_total{method="GET",path="/system-check",status="418"}`)
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Contains(t, scrape(t), `path="unmatched",status="404"`)
}

func TestRecordExtractionAndStrip(t *testing.T) {
	RecordExtraction("exiftool", 10*time.Millisecond, false)
	RecordStrip(true)
	RecordUpload(512)

	body := scrape(t)
	assert.Contains(t, body, `exiflyzer_extractions_total{provider="exiftool",status="error"}`)
	assert.Contains(t, body, `exiflyzer_extraction_duration_seconds_count{provider="exiftool"}`)
	assert.Contains(t, body, `exiflyzer_strips_total{status="success"}`)
	assert.Contains(t, body, "exiflyzer_upload_bytes_total")
}
