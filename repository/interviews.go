package repository

import (
	"context"
	"log/slog"

	"github.com/careerloop/backend/models"
	"gorm.io/gorm"
)

// Interview operations
func (r *GORMRepository) CreateInterview(ctx context.Context, interview *models.Interview) error {
	if err := r.db.WithContext(ctx).Create(interview).Error; err != nil {
		slog.Error("Failed to create interview", "error", err)
		return err
	}
	slog.Info("Interview created", "interview_id", interview.ID, "job_id", interview.JobID)
	r.publish("interviews", "create", interview.ID, interview.UserID, interview.JobID)
	return nil
}

func (r *GORMRepository) GetInterviews(ctx context.Context, userID string) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Preload("Job").Order("scheduled_at").Find(&interviews).Error
	if err != nil {
		slog.Error("Failed to get interviews", "error", err, "user_id", userID)
		return nil, err
	}
	return interviews, nil
}

func (r *GORMRepository) GetInterviewByID(ctx context.Context, interviewID string, userID string) (*models.Interview, error) {
	var interview models.Interview
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", interviewID, userID).Preload("Job").First(&interview).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview by ID", "error", err, "interview_id", interviewID, "user_id", userID)
		return nil, err
	}
	return &interview, nil
}

// GetInterview gets an interview by ID without user check; used by the
// prediction watcher, which reacts to feed events rather than requests.
func (r *GORMRepository) GetInterview(ctx context.Context, interviewID string) (*models.Interview, error) {
	var interview models.Interview
	err := r.db.WithContext(ctx).Where("id = ?", interviewID).First(&interview).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview", "error", err, "interview_id", interviewID)
		return nil, err
	}
	return &interview, nil
}

func (r *GORMRepository) GetScheduledInterviewsByJob(ctx context.Context, jobID string) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.WithContext(ctx).Where("job_id = ? AND status = ?", jobID, "scheduled").Find(&interviews).Error
	if err != nil {
		slog.Error("Failed to get scheduled interviews for job", "error", err, "job_id", jobID)
		return nil, err
	}
	return interviews, nil
}

func (r *GORMRepository) UpdateInterview(ctx context.Context, interview *models.Interview) error {
	if err := r.db.WithContext(ctx).Save(interview).Error; err != nil {
		slog.Error("Failed to update interview", "error", err, "interview_id", interview.ID)
		return err
	}
	r.publish("interviews", "update", interview.ID, interview.UserID, interview.JobID)
	return nil
}

func (r *GORMRepository) DeleteInterview(ctx context.Context, interviewID string, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", interviewID, userID).Delete(&models.Interview{}).Error; err != nil {
		slog.Error("Failed to delete interview", "error", err, "interview_id", interviewID)
		return err
	}
	r.publish("interviews", "delete", interviewID, userID, "")
	return nil
}

// Prediction operations. Predictions are append-only snapshots; the newest
// row per interview is the current one.
func (r *GORMRepository) CreatePrediction(ctx context.Context, prediction *models.InterviewSuccessPrediction) error {
	if err := r.db.WithContext(ctx).Create(prediction).Error; err != nil {
		slog.Error("Failed to create prediction", "error", err)
		return err
	}
	slog.Info("Prediction created", "prediction_id", prediction.ID, "interview_id", prediction.InterviewID, "trigger", prediction.Trigger)
	r.publish("interview_success_predictions", "create", prediction.ID, prediction.UserID, "")
	return nil
}

func (r *GORMRepository) GetLatestPrediction(ctx context.Context, interviewID string) (*models.InterviewSuccessPrediction, error) {
	var prediction models.InterviewSuccessPrediction
	err := r.db.WithContext(ctx).Where("interview_id = ?", interviewID).Order("created_at DESC").First(&prediction).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get latest prediction", "error", err, "interview_id", interviewID)
		return nil, err
	}
	return &prediction, nil
}

func (r *GORMRepository) GetPredictionHistory(ctx context.Context, interviewID string, userID string) ([]models.InterviewSuccessPrediction, error) {
	var predictions []models.InterviewSuccessPrediction
	err := r.db.WithContext(ctx).Where("interview_id = ? AND user_id = ?", interviewID, userID).Order("created_at DESC").Find(&predictions).Error
	if err != nil {
		slog.Error("Failed to get prediction history", "error", err, "interview_id", interviewID)
		return nil, err
	}
	return predictions, nil
}
