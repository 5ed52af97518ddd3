package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"medscribe/internal/api/errors"
	"medscribe/internal/api/middleware"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/api/v1/services"
)

// TranslationHandler handles translation and glossary endpoints.
type TranslationHandler struct {
	service services.TranslationService
}

// NewTranslationHandler creates a new translation handler.
func NewTranslationHandler(service services.TranslationService) *TranslationHandler {
	return &TranslationHandler{
		service: service,
	}
}

// Create handles POST /api/ai/translations
//
// @Summary Translate a transcription or raw text
// @Description Translates either an owned transcription referenced by transcription_id or the given text field. Direct text creates a holder transcription so the result stays linked to a source.
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param translation body dto.CreateTranslationRequest true "Translation request"
// @Success 201 {object} dto.TranslationResponse "Completed translation"
// @Failure 400 {object} errors.APIError "Invalid input, unknown language or empty source"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Transcription not found or does not belong to current user"
// @Failure 429 {object} errors.APIError "Rate limit exceeded"
// @Failure 502 {object} errors.APIError "Translation provider failed"
// @Failure 503 {object} errors.APIError "Translation service not available"
// @Router /ai/translations [post]
func (h *TranslationHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req dto.CreateTranslationRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		if stderrors.Is(err, dto.ErrInvalidTranscriptionID) {
			middleware.HandleError(c, errors.NewBadRequestError("Invalid transcription ID format").
				WithCode(errors.CodeInvalidID))
			return
		}
		middleware.HandleError(c, errors.NewBadRequestError("No input data provided or invalid JSON format").
			WithCode(errors.CodeInvalidData))
		return
	}
	if err := req.Validate(); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Get handles GET /api/ai/translations/:id
//
// @Summary Get translation by ID
// @Description Retrieves a single translation whose source transcription is owned by the current user
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Param id path int true "Translation ID" minimum(1)
// @Success 200 {object} dto.TranslationResponse "Translation details"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Translation not found"
// @Router /ai/translations/{id} [get]
func (h *TranslationHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := pathID(c, "Translation")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Glossary handles GET /api/ai/medical-glossary/:source/:target
//
// @Summary Get the medical glossary for a language pair
// @Description Returns the static glossary of medical terms for the given source and target languages
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Param source path string true "Source language code" Enums(en,es,fr)
// @Param target path string true "Target language code" Enums(en,es,fr)
// @Success 200 {object} map[string]string "Term to translation mapping"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Medical glossary not available for language pair"
// @Router /ai/medical-glossary/{source}/{target} [get]
func (h *TranslationHandler) Glossary(c *gin.Context) {
	glossary, err := h.service.Glossary(c.Param("source"), c.Param("target"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, glossary)
}

// QualityCheck handles GET /api/ai/translations/:id/quality-check
//
// @Summary Check translation quality
// @Description Scores an owned translation for fluency, accuracy and medical terminology
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Param id path int true "Translation ID" minimum(1)
// @Success 200 {object} dto.QualityCheckResponse "Quality metrics"
// @Failure 400 {object} errors.APIError "Translation has no content to check"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Translation not found"
// @Failure 503 {object} errors.APIError "AI quality check service not available"
// @Router /ai/translations/{id}/quality-check [get]
func (h *TranslationHandler) QualityCheck(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := pathID(c, "Translation")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.QualityCheck(c.Request.Context(), user.ID, id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
