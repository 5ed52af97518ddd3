package model

import (
	"time"

	"gorm.io/gorm"
)

// Transcription status values. A row is created pending, moves to
// processing when an upload arrives, and ends in exactly one of the
// terminal states.
const (
	StatusPending          = "pending"
	StatusProcessing       = "processing"
	StatusCompleted        = "completed"
	StatusFailed           = "failed"
	StatusNoSpeechDetected = "no_speech_detected"
)

// Transcription is one audio submission and its recognized text.
type Transcription struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	FilePath  string         `gorm:"size:500" json:"file_path,omitempty"`
	Language  string         `gorm:"size:10;default:en" json:"language"`
	Status    string         `gorm:"size:32;default:pending" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Translations []Translation `gorm:"foreignKey:TranscriptionID;constraint:OnDelete:CASCADE" json:"-"`
}
