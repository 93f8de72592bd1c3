package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type JobEndpoints struct {
	repo     *repository.GORMRepository
	validate *validator.Validate
}

func NewJobEndpoints(repo *repository.GORMRepository) *JobEndpoints {
	return &JobEndpoints{
		repo:     repo,
		validate: validator.New(),
	}
}

type CreateJobRequest struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url" validate:"omitempty,url"`
	SalaryRange string `json:"salary_range"`
	Status      string `json:"status" validate:"omitempty,oneof=saved applied interviewing offer rejected withdrawn"`
}

type CreateMatchAnalysisRequest struct {
	MatchScore     float64  `json:"match_score" validate:"min=0,max=100"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
	Summary        string   `json:"summary"`
}

type CreateResearchRequest struct {
	Summary       string   `json:"summary" validate:"required"`
	TalkingPoints []string `json:"talking_points"`
	Questions     []string `json:"questions"`
}

func (e *JobEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Post("/", e.CreateJobHandler)
		r.Get("/", e.GetJobsHandler)
		r.Get("/{id}", e.GetJobHandler)
		r.Put("/{id}", e.UpdateJobHandler)
		r.Delete("/{id}", e.DeleteJobHandler)

		r.Post("/{id}/match-analysis", e.CreateMatchAnalysisHandler)
		r.Get("/{id}/match-analysis", e.GetMatchAnalysisHandler)
		r.Post("/{id}/research", e.CreateResearchHandler)
		r.Get("/{id}/research", e.GetResearchHandler)
	})
}

func (e *JobEndpoints) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Title and company are required", http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = "saved"
	}

	job := &models.Job{
		UserID:      user.ID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		URL:         req.URL,
		SalaryRange: req.SalaryRange,
		Status:      status,
	}

	if err := e.repo.CreateJob(r.Context(), job); err != nil {
		http.Error(w, "Failed to create job", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

func (e *JobEndpoints) GetJobsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	jobs, err := e.repo.GetJobs(r.Context(), user.ID, r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "Failed to get jobs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

func (e *JobEndpoints) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	job, err := e.repo.GetJobByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

func (e *JobEndpoints) UpdateJobHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	job, err := e.repo.GetJobByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Title and company are required", http.StatusBadRequest)
		return
	}

	job.Title = req.Title
	job.Company = req.Company
	job.Location = req.Location
	job.Description = req.Description
	job.URL = req.URL
	job.SalaryRange = req.SalaryRange
	if req.Status != "" {
		job.Status = req.Status
	}

	if err := e.repo.UpdateJob(r.Context(), job); err != nil {
		http.Error(w, "Failed to update job", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

func (e *JobEndpoints) DeleteJobHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	jobID := chi.URLParam(r, "id")
	if err := e.repo.DeleteJob(r.Context(), jobID, user.ID); err != nil {
		http.Error(w, "Failed to delete job", http.StatusInternalServerError)
		return
	}

	slog.Info("Job deleted", "job_id", jobID, "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (e *JobEndpoints) CreateMatchAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	job, err := e.repo.GetJobByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	var req CreateMatchAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Match score must be between 0 and 100", http.StatusBadRequest)
		return
	}

	analysis := &models.JobMatchAnalysis{
		JobID:          job.ID,
		UserID:         user.ID,
		MatchScore:     req.MatchScore,
		MatchingSkills: req.MatchingSkills,
		MissingSkills:  req.MissingSkills,
		Summary:        req.Summary,
	}

	if err := e.repo.CreateJobMatchAnalysis(r.Context(), analysis); err != nil {
		http.Error(w, "Failed to create match analysis", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(analysis)
}

func (e *JobEndpoints) GetMatchAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	job, err := e.repo.GetJobByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	analysis, err := e.repo.GetLatestJobMatchAnalysis(r.Context(), job.ID)
	if err != nil {
		http.Error(w, "Failed to get match analysis", http.StatusInternalServerError)
		return
	}
	if analysis == nil {
		http.Error(w, "No match analysis yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analysis)
}

func (e *JobEndpoints) CreateResearchHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	job, err := e.repo.GetJobByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	var req CreateResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Summary is required", http.StatusBadRequest)
		return
	}

	research := &models.CompanyResearch{
		JobID:         job.ID,
		UserID:        user.ID,
		Summary:       req.Summary,
		TalkingPoints: req.TalkingPoints,
		Questions:     req.Questions,
	}

	if err := e.repo.CreateCompanyResearch(r.Context(), research); err != nil {
		http.Error(w, "Failed to create research", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(research)
}

func (e *JobEndpoints) GetResearchHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	job, err := e.repo.GetJobByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	research, err := e.repo.GetCompanyResearch(r.Context(), job.ID)
	if err != nil {
		http.Error(w, "Failed to get research", http.StatusInternalServerError)
		return
	}
	if research == nil {
		http.Error(w, "No research yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(research)
}
