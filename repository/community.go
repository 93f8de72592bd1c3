package repository

import (
	"context"
	"log/slog"

	"github.com/careerloop/backend/models"
	"gorm.io/gorm"
)

// Discussion operations. Likes are not written here; the counter store owns
// the likes_count column.
func (r *GORMRepository) CreateDiscussion(ctx context.Context, discussion *models.Discussion) error {
	if err := r.db.WithContext(ctx).Create(discussion).Error; err != nil {
		slog.Error("Failed to create discussion", "error", err)
		return err
	}
	slog.Info("Discussion created", "discussion_id", discussion.ID, "category", discussion.Category)
	r.publish("discussions", "create", discussion.ID, discussion.UserID, "")
	return nil
}

func (r *GORMRepository) GetDiscussions(ctx context.Context, category string) ([]models.Discussion, error) {
	var discussions []models.Discussion
	query := r.db.WithContext(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("created_at DESC").Limit(100).Find(&discussions).Error; err != nil {
		slog.Error("Failed to get discussions", "error", err, "category", category)
		return nil, err
	}
	return discussions, nil
}

func (r *GORMRepository) GetDiscussionByID(ctx context.Context, discussionID string) (*models.Discussion, error) {
	var discussion models.Discussion
	err := r.db.WithContext(ctx).Where("id = ?", discussionID).First(&discussion).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get discussion by ID", "error", err, "discussion_id", discussionID)
		return nil, err
	}
	return &discussion, nil
}

func (r *GORMRepository) DeleteDiscussion(ctx context.Context, discussionID string, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", discussionID, userID).Delete(&models.Discussion{}).Error; err != nil {
		slog.Error("Failed to delete discussion", "error", err, "discussion_id", discussionID)
		return err
	}
	r.publish("discussions", "delete", discussionID, userID, "")
	return nil
}

// Challenge operations
func (r *GORMRepository) CreateChallenge(ctx context.Context, challenge *models.Challenge) error {
	if err := r.db.WithContext(ctx).Create(challenge).Error; err != nil {
		slog.Error("Failed to create challenge", "error", err)
		return err
	}
	slog.Info("Challenge created", "challenge_id", challenge.ID, "title", challenge.Title)
	r.publish("challenges", "create", challenge.ID, challenge.UserID, "")
	return nil
}

func (r *GORMRepository) GetChallenges(ctx context.Context) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := r.db.WithContext(ctx).Order("starts_at DESC").Limit(100).Find(&challenges).Error
	if err != nil {
		slog.Error("Failed to get challenges", "error", err)
		return nil, err
	}
	return challenges, nil
}

func (r *GORMRepository) GetChallengeByID(ctx context.Context, challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.WithContext(ctx).Where("id = ?", challengeID).First(&challenge).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get challenge by ID", "error", err, "challenge_id", challengeID)
		return nil, err
	}
	return &challenge, nil
}

// Referral operations
func (r *GORMRepository) CreateReferral(ctx context.Context, referral *models.Referral) error {
	if err := r.db.WithContext(ctx).Create(referral).Error; err != nil {
		slog.Error("Failed to create referral", "error", err)
		return err
	}
	slog.Info("Referral created", "referral_id", referral.ID, "company", referral.Company)
	r.publish("referrals", "create", referral.ID, referral.UserID, "")
	return nil
}

func (r *GORMRepository) GetOpenReferrals(ctx context.Context) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).Where("open = ?", true).Order("created_at DESC").Limit(100).Find(&referrals).Error
	if err != nil {
		slog.Error("Failed to get open referrals", "error", err)
		return nil, err
	}
	return referrals, nil
}

func (r *GORMRepository) GetReferralByID(ctx context.Context, referralID string) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.WithContext(ctx).Where("id = ?", referralID).First(&referral).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get referral by ID", "error", err, "referral_id", referralID)
		return nil, err
	}
	return &referral, nil
}

func (r *GORMRepository) UpdateReferral(ctx context.Context, referral *models.Referral) error {
	if err := r.db.WithContext(ctx).Save(referral).Error; err != nil {
		slog.Error("Failed to update referral", "error", err, "referral_id", referral.ID)
		return err
	}
	r.publish("referrals", "update", referral.ID, referral.UserID, "")
	return nil
}
