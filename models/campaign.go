package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign groups networking outreach toward a target (companies, roles, events)
type Campaign struct {
	ID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	TargetRole    string         `gorm:"size:255" json:"target_role,omitempty"`
	Channel       string         `gorm:"size:50;default:'email'" json:"channel"` // email, linkedin, referral, event
	Status        string         `gorm:"not null;default:'active';check:status IN ('active', 'paused', 'completed')" json:"status"`
	OutreachCount int            `gorm:"default:0" json:"outreach_count"` // Denormalized; incremented by the counter store
	ResponseCount int            `gorm:"default:0" json:"response_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Outreaches []Outreach `gorm:"foreignKey:CampaignID" json:"outreaches,omitempty"`
}

// Outreach is a single contact attempt within a campaign
type Outreach struct {
	ID           string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CampaignID   string         `gorm:"type:uuid;not null;index" json:"campaign_id"`
	UserID       string         `gorm:"type:uuid;not null;index" json:"user_id"`
	ContactName  string         `gorm:"size:255;not null" json:"contact_name"`
	ContactEmail string         `gorm:"size:255" json:"contact_email,omitempty"`
	Company      string         `gorm:"size:255" json:"company,omitempty"`
	Message      string         `gorm:"type:text" json:"message,omitempty"`
	Status       string         `gorm:"size:50;not null;default:'drafted';check:status IN ('drafted', 'sent', 'responded', 'declined')" json:"status"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	RespondedAt  *time.Time     `json:"responded_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Campaign Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
}

// Connection is a professional contact in the user's network
type Connection struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     string         `gorm:"size:255" json:"email,omitempty"`
	Company   string         `gorm:"size:255" json:"company,omitempty"`
	Title     string         `gorm:"size:255" json:"title,omitempty"`
	Relation  string         `gorm:"size:50;default:'peer'" json:"relation"` // peer, recruiter, mentor, referral_source
	Notes     string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Goal is a user-defined target (e.g. applications per week). Target values
// arrive as free text and are coerced to numbers, malformed input becomes 0.
type Goal struct {
	ID           string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string         `gorm:"not null" json:"title"`
	Metric       string         `gorm:"size:50;default:'applications'" json:"metric"` // applications, outreaches, interviews, practice_sessions
	TargetValue  int            `gorm:"default:0" json:"target_value"`
	CurrentValue int            `gorm:"default:0" json:"current_value"`
	Deadline     *time.Time     `json:"deadline,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
