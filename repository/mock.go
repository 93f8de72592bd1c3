package repository

import (
	"context"
	"log/slog"

	"github.com/careerloop/backend/models"
	"gorm.io/gorm"
)

// Mock interview operations
func (r *GORMRepository) CreateMockSession(ctx context.Context, session *models.MockInterviewSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		slog.Error("Failed to create mock session", "error", err)
		return err
	}
	slog.Info("Mock session created", "session_id", session.ID, "job_id", session.JobID, "focus", session.Focus)
	r.publish("mock_interview_sessions", "create", session.ID, session.UserID, session.JobID)
	return nil
}

func (r *GORMRepository) GetMockSessions(ctx context.Context, userID string) ([]models.MockInterviewSession, error) {
	var sessions []models.MockInterviewSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Preload("Job").Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		slog.Error("Failed to get mock sessions", "error", err, "user_id", userID)
		return nil, err
	}
	return sessions, nil
}

func (r *GORMRepository) GetMockSessionWithQuestions(ctx context.Context, sessionID string, userID string) (*models.MockInterviewSession, error) {
	var session models.MockInterviewSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_order")
		}).
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get mock session with questions", "error", err, "session_id", sessionID, "user_id", userID)
		return nil, err
	}
	return &session, nil
}

func (r *GORMRepository) GetCompletedMockSessionsByJob(ctx context.Context, jobID string) ([]models.MockInterviewSession, error) {
	var sessions []models.MockInterviewSession
	err := r.db.WithContext(ctx).Where("job_id = ? AND status = ?", jobID, "completed").Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		slog.Error("Failed to get completed mock sessions for job", "error", err, "job_id", jobID)
		return nil, err
	}
	return sessions, nil
}

func (r *GORMRepository) UpdateMockSession(ctx context.Context, session *models.MockInterviewSession) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		slog.Error("Failed to update mock session", "error", err, "session_id", session.ID)
		return err
	}
	r.publish("mock_interview_sessions", "update", session.ID, session.UserID, session.JobID)
	return nil
}

func (r *GORMRepository) CreateMockQuestions(ctx context.Context, questions []models.MockInterviewQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&questions).Error; err != nil {
		slog.Error("Failed to create mock questions", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetMockQuestion(ctx context.Context, questionID string) (*models.MockInterviewQuestion, error) {
	var question models.MockInterviewQuestion
	err := r.db.WithContext(ctx).Where("id = ?", questionID).First(&question).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get mock question", "error", err, "question_id", questionID)
		return nil, err
	}
	return &question, nil
}

// UpdateMockQuestionResponse records the user's answer to one question and
// reports the change on the feed keyed to the session's job.
func (r *GORMRepository) UpdateMockQuestionResponse(ctx context.Context, question *models.MockInterviewQuestion, userID, jobID string) error {
	if err := r.db.WithContext(ctx).Save(question).Error; err != nil {
		slog.Error("Failed to update mock question response", "error", err, "question_id", question.ID)
		return err
	}
	r.publish("mock_interview_questions", "update", question.ID, userID, jobID)
	return nil
}

func (r *GORMRepository) DeleteMockSession(ctx context.Context, sessionID string, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", sessionID, userID).Delete(&models.MockInterviewSession{}).Error; err != nil {
		slog.Error("Failed to delete mock session", "error", err, "session_id", sessionID)
		return err
	}
	r.publish("mock_interview_sessions", "delete", sessionID, userID, "")
	return nil
}
