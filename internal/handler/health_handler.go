package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"exiflyzer/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	svc service.MetadataService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(svc service.MetadataService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Description Ready when the configured extractor answers
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if _, err := h.svc.SystemCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "extractor not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
