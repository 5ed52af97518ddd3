package model

import "time"

// User represents a registered account. The password is only ever stored as
// a bcrypt hash; serialization to API responses happens in the DTO layer and
// never includes HashedPassword.
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email             string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	HashedPassword    string     `gorm:"size:128;not null" json:"-"`
	IsActive          bool       `gorm:"default:true" json:"is_active"`
	LoginAttempts     int        `gorm:"default:0" json:"-"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	PasswordChangedAt *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Transcriptions []Transcription `gorm:"foreignKey:UserID" json:"-"`
}
