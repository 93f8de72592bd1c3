package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PreparationTask is a single checklist item on an interview
type PreparationTask struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// PreparationTasks is stored as a jsonb column
type PreparationTasks []PreparationTask

func (t PreparationTasks) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *PreparationTasks) Scan(value interface{}) error {
	return scanJSON(value, t)
}

// CompletionRate returns the fraction of completed tasks in [0,1].
// An empty checklist reports 0.
func (t PreparationTasks) CompletionRate() float64 {
	if len(t) == 0 {
		return 0
	}
	done := 0
	for _, task := range t {
		if task.Completed {
			done++
		}
	}
	return float64(done) / float64(len(t))
}

// Interview represents a scheduled interview for a job
type Interview struct {
	ID               string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           string           `gorm:"type:uuid;not null;index" json:"user_id"`
	JobID            string           `gorm:"type:uuid;not null;index" json:"job_id"`
	ScheduledAt      time.Time        `gorm:"not null" json:"scheduled_at"`
	DurationMinutes  int              `gorm:"default:60" json:"duration_minutes"`
	InterviewType    string           `gorm:"size:50;default:'video'" json:"interview_type"` // phone, video, onsite, technical, behavioral
	Location         string           `gorm:"size:500" json:"location,omitempty"`            // Address or meeting link
	InterviewerName  string           `gorm:"size:255" json:"interviewer_name,omitempty"`
	InterviewerEmail string           `gorm:"size:255" json:"interviewer_email,omitempty"`
	InterviewerRole  string           `gorm:"size:255" json:"interviewer_role,omitempty"`
	PreparationTasks PreparationTasks `gorm:"type:jsonb" json:"preparation_tasks"`
	Status           string           `gorm:"not null;default:'scheduled';check:status IN ('scheduled', 'completed', 'cancelled')" json:"status"`
	Outcome          string           `gorm:"size:50" json:"outcome,omitempty"` // pending, passed, rejected, no_decision
	Notes            string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	User        User                         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Job         Job                          `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Predictions []InterviewSuccessPrediction `gorm:"foreignKey:InterviewID" json:"predictions,omitempty"`
	FollowUps   []FollowUp                   `gorm:"foreignKey:InterviewID" json:"follow_ups,omitempty"`
}

// InterviewSuccessPrediction is a point-in-time computed snapshot estimating
// interview outcome probability. Recalculation creates a new row rather than
// mutating an existing one; multiple rows may exist per interview and the most
// recent wins by created_at.
type InterviewSuccessPrediction struct {
	ID                   string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InterviewID          string         `gorm:"type:uuid;not null;index" json:"interview_id"`
	UserID               string         `gorm:"type:uuid;not null;index" json:"user_id"`
	OverallProbability   float64        `gorm:"type:decimal(5,2);not null" json:"overall_probability"` // 0.00 to 100.00
	RoleMatchScore       float64        `gorm:"type:decimal(5,2);not null" json:"role_match_score"`
	PreparationScore     float64        `gorm:"type:decimal(5,2);not null" json:"preparation_score"`
	CompanyResearchScore float64        `gorm:"type:decimal(5,2);not null" json:"company_research_score"`
	PracticeScore        float64        `gorm:"type:decimal(5,2);not null" json:"practice_score"`
	ConfidenceLevel      string         `gorm:"size:20;not null" json:"confidence_level"` // low, medium, high
	StrengthAreas        StringList     `gorm:"type:jsonb" json:"strength_areas"`
	WeaknessAreas        StringList     `gorm:"type:jsonb" json:"weakness_areas"`
	PrioritizedActions   StringList     `gorm:"type:jsonb" json:"prioritized_actions"`
	PredictedOutcome     string         `gorm:"size:50" json:"predicted_outcome"`
	Trigger              string         `gorm:"size:20;default:'manual'" json:"trigger"` // manual or auto
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Interview Interview `gorm:"foreignKey:InterviewID" json:"interview,omitempty"`
}

// FollowUp is a tracked outbound message associated with an interview.
// It records what was sent and whether a response came back; nothing is
// sent automatically.
type FollowUp struct {
	ID               string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InterviewID      string         `gorm:"type:uuid;not null;index" json:"interview_id"`
	UserID           string         `gorm:"type:uuid;not null;index" json:"user_id"`
	FollowUpType     string         `gorm:"size:50;not null;default:'thank_you'" json:"follow_up_type"` // thank_you, status_check, additional_info
	Subject          string         `gorm:"size:500" json:"subject"`
	Content          string         `gorm:"type:text" json:"content"`
	SentAt           *time.Time     `json:"sent_at,omitempty"`
	ResponseReceived bool           `gorm:"default:false" json:"response_received"`
	ResponseDate     *time.Time     `json:"response_date,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Interview Interview `gorm:"foreignKey:InterviewID" json:"interview,omitempty"`
}
