package repository

import (
	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/realtime"
	"gorm.io/gorm"
)

type GORMRepository struct {
	db   *gorm.DB
	feed *realtime.Hub
}

func NewGORMRepository(db *gorm.DB, feed *realtime.Hub) *GORMRepository {
	return &GORMRepository{db: db, feed: feed}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.PermanentToken{},
		&models.Job{},
		&models.JobMatchAnalysis{},
		&models.CompanyResearch{},
		&models.Interview{},
		&models.InterviewSuccessPrediction{},
		&models.FollowUp{},
		&models.MockInterviewSession{},
		&models.MockInterviewQuestion{},
		&models.Campaign{},
		&models.Outreach{},
		&models.Connection{},
		&models.Goal{},
		&models.Discussion{},
		&models.Challenge{},
		&models.Referral{},
		&models.Document{},
	)
}

// publish pushes a change-feed event after a successful write. The feed is
// optional so repository tests can run without a hub.
func (r *GORMRepository) publish(table, action, recordID, userID, jobID string) {
	if r.feed == nil {
		return
	}
	r.feed.Publish(realtime.Event{
		Table:    table,
		Action:   action,
		RecordID: recordID,
		UserID:   userID,
		JobID:    jobID,
	})
}
