package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medscribe/internal/api/v1/dto"
	"medscribe/internal/api/v1/services"
)

// MonitorHandler handles health and dependency status endpoints.
type MonitorHandler struct {
	service services.MonitorService
	info    dto.ServiceInfoResponse
}

// NewMonitorHandler creates a new monitor handler. Name and version appear
// in the service descriptor at the API root.
func NewMonitorHandler(service services.MonitorService, name, version, docsURL string) *MonitorHandler {
	return &MonitorHandler{
		service: service,
		info: dto.ServiceInfoResponse{
			Name:    name,
			Version: version,
			Docs:    docsURL,
		},
	}
}

// Root handles GET /api/
//
// @Summary Describe the API
// @Description Returns the service name, version and documentation URL
// @Tags monitor
// @Produce json
// @Success 200 {object} dto.ServiceInfoResponse "Service descriptor"
// @Router / [get]
func (h *MonitorHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}

// Health handles GET /api/health
//
// @Summary Liveness check
// @Description Reports that the API process is up
// @Tags monitor
// @Produce json
// @Success 200 {object} dto.HealthResponse "Always healthy while serving"
// @Router /health [get]
func (h *MonitorHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

// Ping handles GET /api/monitor/ping
//
// @Summary Monitoring ping
// @Description Minimal reachability probe for uptime monitors
// @Tags monitor
// @Produce json
// @Success 200 {object} dto.HealthResponse "Pong"
// @Router /monitor/ping [get]
func (h *MonitorHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Status handles GET /api/monitor/status
//
// @Summary Dependency status
// @Description Probes speech recognition, translation, database, file storage and cache and reports healthy or degraded
// @Tags monitor
// @Produce json
// @Success 200 {object} dto.StatusResponse "Per dependency availability"
// @Router /monitor/status [get]
func (h *MonitorHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status(c.Request.Context()))
}
