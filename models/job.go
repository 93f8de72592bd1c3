package models

import (
	"time"

	"gorm.io/gorm"
)

// Job represents a position the user is pursuing
type Job struct {
	ID          string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string         `gorm:"not null" json:"title"`
	Company     string         `gorm:"not null" json:"company"`
	Location    string         `gorm:"size:255" json:"location,omitempty"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	URL         string         `gorm:"size:500" json:"url,omitempty"`
	SalaryRange string         `gorm:"size:100" json:"salary_range,omitempty"`
	Status      string         `gorm:"not null;default:'saved';check:status IN ('saved', 'applied', 'interviewing', 'offer', 'rejected', 'withdrawn')" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User         User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Interviews   []Interview        `gorm:"foreignKey:JobID" json:"interviews,omitempty"`
	MatchAnalyses []JobMatchAnalysis `gorm:"foreignKey:JobID" json:"match_analyses,omitempty"`
	Research     []CompanyResearch  `gorm:"foreignKey:JobID" json:"research,omitempty"`
}

// JobMatchAnalysis is an AI-generated snapshot comparing the user's profile
// against a job. A new analysis inserts a new row; the most recent wins.
type JobMatchAnalysis struct {
	ID             string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	JobID          string         `gorm:"type:uuid;not null;index" json:"job_id"`
	UserID         string         `gorm:"type:uuid;not null;index" json:"user_id"`
	MatchScore     float64        `gorm:"type:decimal(5,2);not null" json:"match_score"` // 0.00 to 100.00
	MatchingSkills StringList     `gorm:"type:jsonb" json:"matching_skills"`
	MissingSkills  StringList     `gorm:"type:jsonb" json:"missing_skills"`
	Summary        string         `gorm:"type:text" json:"summary,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Job Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

// CompanyResearch is an AI-generated research brief for a job's company
type CompanyResearch struct {
	ID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	JobID         string         `gorm:"type:uuid;not null;index" json:"job_id"`
	UserID        string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Summary       string         `gorm:"type:text;not null" json:"summary"`
	TalkingPoints StringList     `gorm:"type:jsonb" json:"talking_points"`
	Questions     StringList     `gorm:"type:jsonb" json:"questions"` // Questions worth asking the interviewer
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Job Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}
