package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"medscribe/internal/api/errors"
	"medscribe/internal/api/middleware"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/api/v1/services"
)

// noSpeechMessage is returned with the 422 upload outcome when recognition
// finds nothing to transcribe.
const noSpeechMessage = "No speech was detected in the uploaded audio file. " +
	"Please check that the file contains clear speech audio."

// TranscriptionHandler handles transcription lifecycle endpoints.
type TranscriptionHandler struct {
	service services.TranscriptionService
}

// NewTranscriptionHandler creates a new transcription handler.
func NewTranscriptionHandler(service services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{
		service: service,
	}
}

// pathID parses the id path parameter. Non-numeric ids behave like rows
// that do not exist, so they produce the standard not found error.
func pathID(c *gin.Context, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewNotFoundError(resource)
	}
	return uint(id), nil
}

// bindBody binds a JSON body that must contain at least one field. Empty,
// absent and malformed bodies all produce the same missing data error.
func bindBody(c *gin.Context, req any) error {
	var raw map[string]any
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil || len(raw) == 0 {
		return errors.NewBadRequestError("No data provided").
			WithCode(errors.CodeMissingData)
	}
	return middleware.ValidateRequest(c, req)
}

// List handles GET /api/transcriptions
//
// @Summary List transcriptions
// @Description Returns all transcriptions owned by the current user, newest first
// @Tags transcriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TranscriptionResponse "Transcriptions owned by the caller"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Router /transcriptions [get]
func (h *TranscriptionHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	response, err := h.service.List(c.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Create handles POST /api/transcriptions
//
// @Summary Create a transcription
// @Description Creates an empty pending transcription. Audio is attached later through the upload endpoint.
// @Tags transcriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transcription body dto.CreateTranscriptionRequest true "Title and language, both optional"
// @Success 201 {object} dto.TranscriptionResponse "Transcription created"
// @Failure 400 {object} errors.APIError "No data provided"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Router /transcriptions [post]
func (h *TranscriptionHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req dto.CreateTranscriptionRequest
	if err := bindBody(c, &req); err != nil {
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

// Get handles GET /api/transcriptions/:id
//
// @Summary Get transcription by ID
// @Description Retrieves a single transcription owned by the current user
// @Tags transcriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transcription ID" minimum(1)
// @Success 200 {object} dto.TranscriptionResponse "Transcription details"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Transcription not found"
// @Router /transcriptions/{id} [get]
func (h *TranscriptionHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := pathID(c, "Transcription")
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

// Update handles PUT /api/transcriptions/:id
//
// @Summary Update a transcription
// @Description Updates title, content or status of an owned transcription. Omitted fields keep their value.
// @Tags transcriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transcription ID" minimum(1)
// @Param transcription body dto.UpdateTranscriptionRequest true "Fields to update"
// @Success 200 {object} dto.TranscriptionResponse "Updated transcription"
// @Failure 400 {object} errors.APIError "No data provided"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Transcription not found"
// @Router /transcriptions/{id} [put]
func (h *TranscriptionHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := pathID(c, "Transcription")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.UpdateTranscriptionRequest
	if err := bindBody(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Update(c.Request.Context(), user.ID, id, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /api/transcriptions/:id
//
// @Summary Delete a transcription
// @Description Soft deletes an owned transcription together with its translations
// @Tags transcriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transcription ID" minimum(1)
// @Success 200 {object} dto.MessageResponse "Transcription deleted successfully"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Transcription not found"
// @Router /transcriptions/{id} [delete]
func (h *TranscriptionHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := pathID(c, "Transcription")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), user.ID, id); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Transcription deleted successfully"})
}

// Upload handles POST /api/ai/transcriptions/:id/upload
//
// @Summary Upload audio and transcribe it
// @Description Uploads an audio file into an existing transcription and runs speech recognition. Pass analyze=true to attach a medical coding analysis to the response.
// @Tags transcriptions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transcription ID" minimum(1)
// @Param audio_file formData file true "Audio file"
// @Param analyze query bool false "Run medical coding analysis after transcription" default(false)
// @Success 200 {object} dto.TranscriptionResponse "Completed transcription"
// @Failure 400 {object} errors.APIError "Missing file, unsupported format or oversized upload"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Transcription not found"
// @Failure 422 {object} dto.NoSpeechResponse "No speech detected in the audio"
// @Failure 502 {object} errors.APIError "Speech recognition provider failed"
// @Failure 503 {object} errors.APIError "Transcription service not configured"
// @Router /ai/transcriptions/{id}/upload [post]
func (h *TranscriptionHandler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := pathID(c, "Transcription")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	header, err := c.FormFile("audio_file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("No audio file provided").
			WithCode(errors.CodeMissingFile))
		return
	}
	if header.Filename == "" {
		middleware.HandleError(c, errors.NewBadRequestError("No selected file").
			WithCode(errors.CodeEmptyFilename))
		return
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	upload := services.UploadedAudio{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   file,
	}
	withAnalysis := strings.EqualFold(c.DefaultQuery("analyze", "false"), "true")

	result, err := h.service.UploadAndTranscribe(c.Request.Context(), user.ID, id, upload, withAnalysis)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if result.NoSpeech {
		c.JSON(http.StatusUnprocessableEntity, dto.NoSpeechResponse{
			Message:       noSpeechMessage,
			Code:          errors.CodeNoSpeechDetected,
			Transcription: result.Transcription,
		})
		return
	}
	if result.Analysis != nil {
		c.JSON(http.StatusOK, dto.TranscriptionWithAnalysisResponse{
			Transcription: result.Transcription,
			Analysis:      result.Analysis,
		})
		return
	}

	c.JSON(http.StatusOK, result.Transcription)
}

// Analyze handles GET /api/ai/transcriptions/:id/analysis
//
// @Summary Analyze a transcription
// @Description Extracts medical codes and structured findings from the transcription content
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transcription ID" minimum(1)
// @Success 200 {object} dto.AnalysisResponse "Medical coding analysis"
// @Failure 400 {object} errors.APIError "Transcription has no content to analyze"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Transcription not found"
// @Failure 502 {object} errors.APIError "Analysis provider failed"
// @Failure 503 {object} errors.APIError "AI analysis service not available"
// @Router /ai/transcriptions/{id}/analysis [get]
func (h *TranscriptionHandler) Analyze(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := pathID(c, "Transcription")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Analyze(c.Request.Context(), user.ID, id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Summarize handles GET /api/ai/transcriptions/:id/summarize
//
// @Summary Summarize a transcription
// @Description Produces a concise AI generated summary of the transcription content
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transcription ID" minimum(1)
// @Success 200 {object} dto.SummaryResponse "Summary text"
// @Failure 400 {object} errors.APIError "Transcription has no content to summarize"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Failure 404 {object} errors.APIError "Transcription not found"
// @Failure 502 {object} errors.APIError "Summarization provider failed"
// @Failure 503 {object} errors.APIError "AI summarization service not available"
// @Router /ai/transcriptions/{id}/summarize [get]
func (h *TranscriptionHandler) Summarize(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := pathID(c, "Transcription")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Summarize(c.Request.Context(), user.ID, id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
