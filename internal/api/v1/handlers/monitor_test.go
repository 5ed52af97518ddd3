package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medscribe/internal/api/v1/dto"
)

func TestMonitorHandler_Root(t *testing.T) {
	router, mockServices := setupTestRouter(t)

	handler := NewMonitorHandler(mockServices.MonitorService, "Medical Transcription API", "1.0.0", "/swagger/index.html")
	router.GET("/api/", handler.Root)

	req := httptest.NewRequest("GET", "/api/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Medical Transcription API", body["name"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.Equal(t, "/swagger/index.html", body["docs"])
}

func TestMonitorHandler_Health(t *testing.T) {
	router, mockServices := setupTestRouter(t)

	handler := NewMonitorHandler(mockServices.MonitorService, "Medical Transcription API", "1.0.0", "")
	router.GET("/api/health", handler.Health)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestMonitorHandler_Ping(t *testing.T) {
	router, mockServices := setupTestRouter(t)

	handler := NewMonitorHandler(mockServices.MonitorService, "Medical Transcription API", "1.0.0", "")
	router.GET("/api/monitor/ping", handler.Ping)

	req := httptest.NewRequest("GET", "/api/monitor/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMonitorHandler_Status(t *testing.T) {
	router, mockServices := setupTestRouter(t)
	mockServices.MonitorService.On("Status", mock.Anything).
		Return(&dto.StatusResponse{
			Status: "degraded",
			Services: map[string]dto.ServiceStatus{
				"database": {Name: "database", Status: "available", Message: "Database connection successful"},
				"speech_recognition": {
					Name:    "speech_recognition",
					Status:  "unavailable",
					Message: "Speech recognition service is not configured",
				},
			},
		})

	handler := NewMonitorHandler(mockServices.MonitorService, "Medical Transcription API", "1.0.0", "")
	router.GET("/api/monitor/status", handler.Status)

	req := httptest.NewRequest("GET", "/api/monitor/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])

	services := body["services"].(map[string]interface{})
	database := services["database"].(map[string]interface{})
	assert.Equal(t, "available", database["status"])
	recognition := services["speech_recognition"].(map[string]interface{})
	assert.Equal(t, "unavailable", recognition["status"])
}
