package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"medscribe/internal/api/middleware"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/api/v1/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handles spreadsheet export endpoints.
type ExportHandler struct {
	service services.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{
		service: service,
	}
}

// Export handles GET /api/export
//
// @Summary Export transcriptions as a spreadsheet
// @Description Downloads the caller's transcriptions as an xlsx workbook, optionally filtered by status and language
// @Tags transcriptions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending,processing,completed,failed,no_speech_detected)
// @Param language query string false "Filter by language code"
// @Success 200 {file} binary "Workbook download"
// @Failure 400 {object} errors.APIError "Invalid query parameters"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Router /export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var query dto.ExportQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	// The workbook is buffered so export failures can still produce a clean
	// error response instead of a truncated download.
	var buf bytes.Buffer
	if err := h.service.ExportTranscriptions(c.Request.Context(), user.ID, query, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transcriptions.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
