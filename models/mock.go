package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PerformanceSummary holds the grading output computed when a mock interview
// session is completed. Stored as a jsonb column on the session.
type PerformanceSummary struct {
	CompletionRate    float64  `json:"completion_rate"`
	AvgResponseLength float64  `json:"avg_response_length"`
	QualityRate       float64  `json:"quality_rate"`
	StarSituation     float64  `json:"star_situation"`
	StarTask          float64  `json:"star_task"`
	StarAction        float64  `json:"star_action"`
	StarResult        float64  `json:"star_result"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
}

func (s PerformanceSummary) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *PerformanceSummary) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// MockInterviewSession is a practice interview generated for a job. Questions
// accumulate responses as the user progresses; at completion the grader
// computes the performance summary and overall score.
type MockInterviewSession struct {
	ID                 string              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID             string              `gorm:"type:uuid;not null;index" json:"user_id"`
	JobID              string              `gorm:"type:uuid;not null;index" json:"job_id"`
	Focus              string              `gorm:"size:50;default:'behavioral'" json:"focus"` // behavioral, technical, mixed
	Status             string              `gorm:"not null;default:'in_progress';check:status IN ('in_progress', 'completed')" json:"status"`
	PerformanceSummary *PerformanceSummary `gorm:"type:jsonb" json:"performance_summary,omitempty"`
	OverallScore       *int                `json:"overall_score,omitempty"` // 0 to 100, set at completion
	CompletedAt        *time.Time          `json:"completed_at,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	DeletedAt          gorm.DeletedAt      `gorm:"index" json:"-"`

	// Relationships
	User      User                   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Job       Job                    `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Questions []MockInterviewQuestion `gorm:"foreignKey:SessionID" json:"questions,omitempty"`
}

// MockInterviewQuestion is a single generated question within a session
type MockInterviewQuestion struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID string         `gorm:"type:uuid;not null;index" json:"session_id"`
	Order     int            `gorm:"column:question_order;not null" json:"order"`
	Question  string         `gorm:"type:text;not null" json:"question"`
	Response  string         `gorm:"type:text" json:"response"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Session MockInterviewSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}
