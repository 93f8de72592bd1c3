package repository

import (
	"context"
	"log/slog"

	"github.com/careerloop/backend/models"
	"gorm.io/gorm"
)

// Job operations
func (r *GORMRepository) CreateJob(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		slog.Error("Failed to create job", "error", err)
		return err
	}
	slog.Info("Job created", "job_id", job.ID, "company", job.Company, "title", job.Title)
	r.publish("jobs", "create", job.ID, job.UserID, job.ID)
	return nil
}

func (r *GORMRepository) GetJobs(ctx context.Context, userID string, status string) ([]models.Job, error) {
	var jobs []models.Job
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		slog.Error("Failed to get jobs", "error", err, "user_id", userID)
		return nil, err
	}
	return jobs, nil
}

func (r *GORMRepository) GetJobByID(ctx context.Context, jobID string, userID string) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", jobID, userID).First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get job by ID", "error", err, "job_id", jobID, "user_id", userID)
		return nil, err
	}
	return &job, nil
}

func (r *GORMRepository) UpdateJob(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		slog.Error("Failed to update job", "error", err, "job_id", job.ID)
		return err
	}
	r.publish("jobs", "update", job.ID, job.UserID, job.ID)
	return nil
}

func (r *GORMRepository) DeleteJob(ctx context.Context, jobID string, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", jobID, userID).Delete(&models.Job{}).Error; err != nil {
		slog.Error("Failed to delete job", "error", err, "job_id", jobID)
		return err
	}
	r.publish("jobs", "delete", jobID, userID, jobID)
	return nil
}

// Match analysis operations
func (r *GORMRepository) CreateJobMatchAnalysis(ctx context.Context, analysis *models.JobMatchAnalysis) error {
	if err := r.db.WithContext(ctx).Create(analysis).Error; err != nil {
		slog.Error("Failed to create job match analysis", "error", err)
		return err
	}
	slog.Info("Job match analysis created", "analysis_id", analysis.ID, "job_id", analysis.JobID)
	r.publish("job_match_analyses", "create", analysis.ID, analysis.UserID, analysis.JobID)
	return nil
}

func (r *GORMRepository) GetLatestJobMatchAnalysis(ctx context.Context, jobID string) (*models.JobMatchAnalysis, error) {
	var analysis models.JobMatchAnalysis
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("created_at DESC").First(&analysis).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get job match analysis", "error", err, "job_id", jobID)
		return nil, err
	}
	return &analysis, nil
}

// Company research operations
func (r *GORMRepository) CreateCompanyResearch(ctx context.Context, research *models.CompanyResearch) error {
	if err := r.db.WithContext(ctx).Create(research).Error; err != nil {
		slog.Error("Failed to create company research", "error", err)
		return err
	}
	slog.Info("Company research created", "research_id", research.ID, "job_id", research.JobID)
	r.publish("company_research", "create", research.ID, research.UserID, research.JobID)
	return nil
}

func (r *GORMRepository) GetCompanyResearch(ctx context.Context, jobID string) (*models.CompanyResearch, error) {
	var research models.CompanyResearch
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("created_at DESC").First(&research).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get company research", "error", err, "job_id", jobID)
		return nil, err
	}
	return &research, nil
}
