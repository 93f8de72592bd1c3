package repository

import (
	"context"
	"log/slog"

	"github.com/careerloop/backend/models"
	"gorm.io/gorm"
)

// Campaign operations
func (r *GORMRepository) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	if err := r.db.WithContext(ctx).Create(campaign).Error; err != nil {
		slog.Error("Failed to create campaign", "error", err)
		return err
	}
	slog.Info("Campaign created", "campaign_id", campaign.ID, "name", campaign.Name)
	r.publish("campaigns", "create", campaign.ID, campaign.UserID, "")
	return nil
}

func (r *GORMRepository) GetCampaigns(ctx context.Context, userID string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&campaigns).Error
	if err != nil {
		slog.Error("Failed to get campaigns", "error", err, "user_id", userID)
		return nil, err
	}
	return campaigns, nil
}

func (r *GORMRepository) GetCampaignByID(ctx context.Context, campaignID string, userID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", campaignID, userID).Preload("Outreaches").First(&campaign).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get campaign by ID", "error", err, "campaign_id", campaignID)
		return nil, err
	}
	return &campaign, nil
}

func (r *GORMRepository) UpdateCampaign(ctx context.Context, campaign *models.Campaign) error {
	if err := r.db.WithContext(ctx).Save(campaign).Error; err != nil {
		slog.Error("Failed to update campaign", "error", err, "campaign_id", campaign.ID)
		return err
	}
	r.publish("campaigns", "update", campaign.ID, campaign.UserID, "")
	return nil
}

func (r *GORMRepository) DeleteCampaign(ctx context.Context, campaignID string, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", campaignID, userID).Delete(&models.Campaign{}).Error; err != nil {
		slog.Error("Failed to delete campaign", "error", err, "campaign_id", campaignID)
		return err
	}
	r.publish("campaigns", "delete", campaignID, userID, "")
	return nil
}

// Outreach operations
func (r *GORMRepository) CreateOutreach(ctx context.Context, outreach *models.Outreach) error {
	if err := r.db.WithContext(ctx).Create(outreach).Error; err != nil {
		slog.Error("Failed to create outreach", "error", err)
		return err
	}
	slog.Info("Outreach created", "outreach_id", outreach.ID, "campaign_id", outreach.CampaignID)
	r.publish("outreaches", "create", outreach.ID, outreach.UserID, "")
	return nil
}

func (r *GORMRepository) GetOutreaches(ctx context.Context, campaignID string, userID string) ([]models.Outreach, error) {
	var outreaches []models.Outreach
	err := r.db.WithContext(ctx).Where("campaign_id = ? AND user_id = ?", campaignID, userID).Order("created_at DESC").Find(&outreaches).Error
	if err != nil {
		slog.Error("Failed to get outreaches", "error", err, "campaign_id", campaignID)
		return nil, err
	}
	return outreaches, nil
}

func (r *GORMRepository) GetOutreachByID(ctx context.Context, outreachID string, userID string) (*models.Outreach, error) {
	var outreach models.Outreach
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", outreachID, userID).First(&outreach).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get outreach by ID", "error", err, "outreach_id", outreachID)
		return nil, err
	}
	return &outreach, nil
}

func (r *GORMRepository) UpdateOutreach(ctx context.Context, outreach *models.Outreach) error {
	if err := r.db.WithContext(ctx).Save(outreach).Error; err != nil {
		slog.Error("Failed to update outreach", "error", err, "outreach_id", outreach.ID)
		return err
	}
	r.publish("outreaches", "update", outreach.ID, outreach.UserID, "")
	return nil
}

// Connection operations
func (r *GORMRepository) CreateConnection(ctx context.Context, connection *models.Connection) error {
	if err := r.db.WithContext(ctx).Create(connection).Error; err != nil {
		slog.Error("Failed to create connection", "error", err)
		return err
	}
	r.publish("connections", "create", connection.ID, connection.UserID, "")
	return nil
}

func (r *GORMRepository) GetConnections(ctx context.Context, userID string) ([]models.Connection, error) {
	var connections []models.Connection
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&connections).Error
	if err != nil {
		slog.Error("Failed to get connections", "error", err, "user_id", userID)
		return nil, err
	}
	return connections, nil
}

func (r *GORMRepository) DeleteConnection(ctx context.Context, connectionID string, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", connectionID, userID).Delete(&models.Connection{}).Error; err != nil {
		slog.Error("Failed to delete connection", "error", err, "connection_id", connectionID)
		return err
	}
	return nil
}

// Goal operations
func (r *GORMRepository) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		slog.Error("Failed to create goal", "error", err)
		return err
	}
	r.publish("goals", "create", goal.ID, goal.UserID, "")
	return nil
}

func (r *GORMRepository) GetGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error
	if err != nil {
		slog.Error("Failed to get goals", "error", err, "user_id", userID)
		return nil, err
	}
	return goals, nil
}

func (r *GORMRepository) GetGoalByID(ctx context.Context, goalID string, userID string) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get goal by ID", "error", err, "goal_id", goalID)
		return nil, err
	}
	return &goal, nil
}

func (r *GORMRepository) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	if err := r.db.WithContext(ctx).Save(goal).Error; err != nil {
		slog.Error("Failed to update goal", "error", err, "goal_id", goal.ID)
		return err
	}
	r.publish("goals", "update", goal.ID, goal.UserID, "")
	return nil
}

func (r *GORMRepository) DeleteGoal(ctx context.Context, goalID string, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.Goal{}).Error; err != nil {
		slog.Error("Failed to delete goal", "error", err, "goal_id", goalID)
		return err
	}
	return nil
}
