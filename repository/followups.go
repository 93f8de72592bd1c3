package repository

import (
	"context"
	"log/slog"

	"github.com/careerloop/backend/models"
	"gorm.io/gorm"
)

// Follow-up operations
func (r *GORMRepository) CreateFollowUp(ctx context.Context, followUp *models.FollowUp) error {
	if err := r.db.WithContext(ctx).Create(followUp).Error; err != nil {
		slog.Error("Failed to create follow-up", "error", err)
		return err
	}
	slog.Info("Follow-up created", "follow_up_id", followUp.ID, "interview_id", followUp.InterviewID, "type", followUp.FollowUpType)
	r.publish("follow_ups", "create", followUp.ID, followUp.UserID, "")
	return nil
}

func (r *GORMRepository) GetFollowUps(ctx context.Context, interviewID string, userID string) ([]models.FollowUp, error) {
	var followUps []models.FollowUp
	err := r.db.WithContext(ctx).Where("interview_id = ? AND user_id = ?", interviewID, userID).Order("created_at DESC").Find(&followUps).Error
	if err != nil {
		slog.Error("Failed to get follow-ups", "error", err, "interview_id", interviewID)
		return nil, err
	}
	return followUps, nil
}

func (r *GORMRepository) GetFollowUpByID(ctx context.Context, followUpID string, userID string) (*models.FollowUp, error) {
	var followUp models.FollowUp
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", followUpID, userID).First(&followUp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get follow-up by ID", "error", err, "follow_up_id", followUpID)
		return nil, err
	}
	return &followUp, nil
}

func (r *GORMRepository) UpdateFollowUp(ctx context.Context, followUp *models.FollowUp) error {
	if err := r.db.WithContext(ctx).Save(followUp).Error; err != nil {
		slog.Error("Failed to update follow-up", "error", err, "follow_up_id", followUp.ID)
		return err
	}
	r.publish("follow_ups", "update", followUp.ID, followUp.UserID, "")
	return nil
}

func (r *GORMRepository) DeleteFollowUp(ctx context.Context, followUpID string, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", followUpID, userID).Delete(&models.FollowUp{}).Error; err != nil {
		slog.Error("Failed to delete follow-up", "error", err, "follow_up_id", followUpID)
		return err
	}
	r.publish("follow_ups", "delete", followUpID, userID, "")
	return nil
}
