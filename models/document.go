package models

import (
	"time"

	"gorm.io/gorm"
)

// Document is the metadata row for an uploaded resume or cover letter.
// The file itself is an opaque blob on disk, addressed by StoragePath;
// contents are never parsed.
type Document struct {
	ID          string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind        string         `gorm:"size:50;not null;default:'resume';check:kind IN ('resume', 'cover_letter', 'other')" json:"kind"`
	FileName    string         `gorm:"size:255;not null" json:"file_name"`
	ContentType string         `gorm:"size:100" json:"content_type,omitempty"`
	SizeBytes   int64          `json:"size_bytes"`
	StoragePath string         `gorm:"size:500;not null" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
