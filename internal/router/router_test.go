package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"exiflyzer/internal/config"
	"exiflyzer/internal/domain"
	"exiflyzer/internal/handler"
	"exiflyzer/internal/router"
	"exiflyzer/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(metricsEnabled bool) *config.Config {
	return &config.Config{
		Upload:  config.UploadConfig{MaxFileSizeMB: 1},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Metrics: config.MetricsConfig{Enabled: metricsEnabled, Path: "/metrics"},
	}
}

func setup(cfg *config.Config, svc *mocks.MockMetadataService) *gin.Engine {
	return router.Setup(cfg, handler.NewMetadataHandler(svc), handler.NewHealthHandler(svc))
}

func TestSetup_Routes(t *testing.T) {
	svc := new(mocks.MockMetadataService)
	svc.On("SystemCheck", mock.Anything).Return(&domain.SystemStatus{Status: domain.StatusOK}, nil)
	svc.On("SupportedTypes").Return(&domain.SupportedTypes{SupportedExtensions: []string{"jpg"}, MaxFileSizeMB: 1})
	r := setup(testConfig(true), svc)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/system-check", http.StatusOK},
		{http.MethodGet, "/supported-types", http.StatusOK},
		{http.MethodPost, "/upload", http.StatusBadRequest},
		{http.MethodPost, "/remove-metadata", http.StatusBadRequest},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestSetup_MetricsDisabled(t *testing.T) {
	r := setup(testConfig(false), new(mocks.MockMetadataService))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetup_CORSPreflight(t *testing.T) {
	r := setup(testConfig(false), new(mocks.MockMetadataService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
