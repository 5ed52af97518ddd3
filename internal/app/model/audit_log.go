package model

import "time"

// AuditLog records one access to a protected resource. Rows are append-only
// and kept for the configured retention window (six years by default).
type AuditLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index" json:"user_id"`
	ResourceType string    `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   uint      `json:"resource_id"`
	Action       string    `gorm:"size:50;not null" json:"action"`
	IPAddress    string    `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent    string    `gorm:"size:255" json:"user_agent,omitempty"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
