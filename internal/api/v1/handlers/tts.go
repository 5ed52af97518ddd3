package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medscribe/internal/api/middleware"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/api/v1/services"
)

// SpeechHandler handles text to speech endpoints.
type SpeechHandler struct {
	service services.SpeechService
}

// NewSpeechHandler creates a new speech handler.
func NewSpeechHandler(service services.SpeechService) *SpeechHandler {
	return &SpeechHandler{
		service: service,
	}
}

// Synthesize handles POST /api/ai/tts
//
// @Summary Convert text to speech
// @Description Renders the given text as an audio artifact and returns its playback URL
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param speech body dto.SynthesizeRequest true "Text, optional voice and language"
// @Success 201 {object} dto.SynthesizeResponse "Artifact name and playback URL"
// @Failure 400 {object} errors.APIError "Empty or oversized text"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 429 {object} errors.APIError "Rate limit exceeded"
// @Failure 502 {object} errors.APIError "Speech synthesis provider failed"
// @Failure 503 {object} errors.APIError "Speech synthesis service not available"
// @Router /ai/tts [post]
func (h *SpeechHandler) Synthesize(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req dto.SynthesizeRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Synthesize(c.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
