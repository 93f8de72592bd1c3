package models

import (
	"time"

	"gorm.io/gorm"
)

// Discussion is a peer-support community thread. LikesCount is denormalized
// and must only be changed through the counter store.
type Discussion struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Title      string         `gorm:"not null" json:"title"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	Category   string         `gorm:"size:50;default:'general'" json:"category"` // general, interviews, offers, resumes
	LikesCount int            `gorm:"default:0" json:"likes_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Challenge is a shared community challenge (e.g. "5 applications this week")
type Challenge struct {
	ID                string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID            string         `gorm:"type:uuid;not null;index" json:"user_id"` // Creator
	Title             string         `gorm:"not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description,omitempty"`
	StartsAt          time.Time      `gorm:"not null" json:"starts_at"`
	EndsAt            time.Time      `gorm:"not null" json:"ends_at"`
	ParticipantsCount int            `gorm:"default:0" json:"participants_count"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Referral is a community referral offer: a member offers to refer peers at
// their company, and interested peers register against it.
type Referral struct {
	ID              string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          string         `gorm:"type:uuid;not null;index" json:"user_id"` // Offering member
	Company         string         `gorm:"size:255;not null" json:"company"`
	RoleHint        string         `gorm:"size:255" json:"role_hint,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
	Open            bool           `gorm:"default:true" json:"open"`
	RegisteredCount int            `gorm:"default:0" json:"registered_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
