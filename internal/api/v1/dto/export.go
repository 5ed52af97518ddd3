package dto

// ExportQuery selects which of the caller's transcriptions to export.
type ExportQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending processing completed failed no_speech_detected"`
	Language string `form:"language" binding:"omitempty,min=2,max=10"`
}
