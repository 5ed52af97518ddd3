package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medscribe/internal/api/middleware"
	"medscribe/internal/api/v1/services"
)

// MediaHandler streams stored audio artifacts.
type MediaHandler struct {
	service services.MediaService
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(service services.MediaService) *MediaHandler {
	return &MediaHandler{
		service: service,
	}
}

// ServeUpload handles GET /api/audio/:filename
//
// @Summary Stream an uploaded recording
// @Description Streams a stored audio upload with its audio content type
// @Tags audio
// @Produce audio/mpeg
// @Security BearerAuth
// @Param filename path string true "Stored file name"
// @Success 200 {file} binary "Audio stream"
// @Failure 400 {object} errors.APIError "Unsupported file format"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Audio file not found"
// @Router /audio/{filename} [get]
func (h *MediaHandler) ServeUpload(c *gin.Context) {
	rc, contentType, err := h.service.OpenUploadedAudio(c.Request.Context(), c.Param("filename"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

// ServeSpeech handles GET /api/tts/:filename
//
// @Summary Stream a synthesized audio artifact
// @Description Streams speech generated by the text to speech endpoint
// @Tags audio
// @Produce audio/mpeg
// @Param filename path string true "Artifact file name"
// @Success 200 {file} binary "Audio stream"
// @Failure 400 {object} errors.APIError "Unsupported file format"
// @Failure 404 {object} errors.APIError "Audio file not found"
// @Router /tts/{filename} [get]
func (h *MediaHandler) ServeSpeech(c *gin.Context) {
	rc, contentType, err := h.service.OpenSynthesizedAudio(c.Request.Context(), c.Param("filename"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
