package model

import "time"

// Translation is the translated text of one transcription (or of raw text
// submitted directly, in which case a holder transcription owns it).
type Translation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TranscriptionID uint      `gorm:"not null;index" json:"transcription_id"`
	Content         string    `gorm:"type:text" json:"content"`
	SourceLanguage  string    `gorm:"size:10" json:"source_language"`
	TargetLanguage  string    `gorm:"size:10;not null" json:"target_language"`
	Status          string    `gorm:"size:32;default:completed" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
