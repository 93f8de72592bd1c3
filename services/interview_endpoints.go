package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type InterviewEndpoints struct {
	repo        *repository.GORMRepository
	predictions *PredictionService
	validate    *validator.Validate
}

func NewInterviewEndpoints(repo *repository.GORMRepository, predictions *PredictionService) *InterviewEndpoints {
	return &InterviewEndpoints{
		repo:        repo,
		predictions: predictions,
		validate:    validator.New(),
	}
}

type CreateInterviewRequest struct {
	JobID            string    `json:"job_id" validate:"required,uuid"`
	ScheduledAt      time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes  int       `json:"duration_minutes" validate:"omitempty,min=5,max=480"`
	InterviewType    string    `json:"interview_type"`
	Location         string    `json:"location"`
	InterviewerName  string    `json:"interviewer_name"`
	InterviewerEmail string    `json:"interviewer_email" validate:"omitempty,email"`
	InterviewerRole  string    `json:"interviewer_role"`
	PreparationTasks []string  `json:"preparation_tasks"`
	Notes            string    `json:"notes"`
}

type UpdateInterviewStatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=scheduled completed cancelled"`
	Outcome string `json:"outcome" validate:"omitempty,oneof=pending passed rejected no_decision"`
	Notes   string `json:"notes"`
}

type ToggleTaskRequest struct {
	TaskIndex int  `json:"task_index" validate:"min=0"`
	Completed bool `json:"completed"`
}

func (e *InterviewEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Post("/", e.CreateInterviewHandler)
		r.Get("/", e.GetInterviewsHandler)
		r.Get("/{id}", e.GetInterviewHandler)
		r.Put("/{id}/status", e.UpdateStatusHandler)
		r.Put("/{id}/tasks", e.ToggleTaskHandler)
		r.Delete("/{id}", e.DeleteInterviewHandler)

		r.Get("/{id}/prediction", e.GetPredictionHandler)
		r.Get("/{id}/prediction/history", e.GetPredictionHistoryHandler)
		r.Post("/{id}/prediction", e.RecalculatePredictionHandler)
	})
}

func (e *InterviewEndpoints) CreateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Job ID and scheduled time are required", http.StatusBadRequest)
		return
	}

	job, err := e.repo.GetJobByID(r.Context(), req.JobID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	tasks := make(models.PreparationTasks, 0, len(req.PreparationTasks))
	for _, task := range req.PreparationTasks {
		tasks = append(tasks, models.PreparationTask{Task: task})
	}

	interviewType := req.InterviewType
	if interviewType == "" {
		interviewType = "video"
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}

	interview := &models.Interview{
		UserID:           user.ID,
		JobID:            job.ID,
		ScheduledAt:      req.ScheduledAt,
		DurationMinutes:  duration,
		InterviewType:    interviewType,
		Location:         req.Location,
		InterviewerName:  req.InterviewerName,
		InterviewerEmail: req.InterviewerEmail,
		InterviewerRole:  req.InterviewerRole,
		PreparationTasks: tasks,
		Status:           "scheduled",
		Notes:            req.Notes,
	}

	if err := e.repo.CreateInterview(r.Context(), interview); err != nil {
		http.Error(w, "Failed to create interview", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(interview)
}

func (e *InterviewEndpoints) GetInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	interviews, err := e.repo.GetInterviews(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get interviews", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"interviews": interviews,
		"count":      len(interviews),
	})
}

func (e *InterviewEndpoints) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	interview, err := e.repo.GetInterviewByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(interview)
}

func (e *InterviewEndpoints) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	interview, err := e.repo.GetInterviewByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	var req UpdateInterviewStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Invalid status or outcome", http.StatusBadRequest)
		return
	}

	interview.Status = req.Status
	if req.Outcome != "" {
		interview.Outcome = req.Outcome
	}
	if req.Notes != "" {
		interview.Notes = req.Notes
	}

	if err := e.repo.UpdateInterview(r.Context(), interview); err != nil {
		http.Error(w, "Failed to update interview", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(interview)
}

// ToggleTaskHandler flips one preparation checklist item. The whole checklist
// is written back as a single jsonb value.
func (e *InterviewEndpoints) ToggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	interview, err := e.repo.GetInterviewByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	var req ToggleTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TaskIndex < 0 || req.TaskIndex >= len(interview.PreparationTasks) {
		http.Error(w, "Task index out of range", http.StatusBadRequest)
		return
	}

	interview.PreparationTasks[req.TaskIndex].Completed = req.Completed

	if err := e.repo.UpdateInterview(r.Context(), interview); err != nil {
		http.Error(w, "Failed to update interview", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"preparation_tasks": interview.PreparationTasks,
		"completion_rate":   interview.PreparationTasks.CompletionRate(),
	})
}

func (e *InterviewEndpoints) DeleteInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	interviewID := chi.URLParam(r, "id")
	if err := e.repo.DeleteInterview(r.Context(), interviewID, user.ID); err != nil {
		http.Error(w, "Failed to delete interview", http.StatusInternalServerError)
		return
	}

	slog.Info("Interview deleted", "interview_id", interviewID, "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (e *InterviewEndpoints) GetPredictionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	interview, err := e.repo.GetInterviewByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	prediction, err := e.repo.GetLatestPrediction(r.Context(), interview.ID)
	if err != nil {
		http.Error(w, "Failed to get prediction", http.StatusInternalServerError)
		return
	}
	if prediction == nil {
		http.Error(w, "No prediction yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prediction)
}

func (e *InterviewEndpoints) GetPredictionHistoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	predictions, err := e.repo.GetPredictionHistory(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get prediction history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"predictions": predictions,
		"count":       len(predictions),
	})
}

// RecalculatePredictionHandler runs a manual recalculation. Unlike the
// automatic path, failures surface to the caller.
func (e *InterviewEndpoints) RecalculatePredictionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	if e.predictions == nil {
		http.Error(w, "AI features are not configured", http.StatusServiceUnavailable)
		return
	}

	interview, err := e.repo.GetInterviewByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	prediction, err := e.predictions.Recalculate(r.Context(), interview.ID, "manual")
	if err != nil {
		slog.Error("Manual prediction recalculation failed", "error", err, "interview_id", interview.ID)
		http.Error(w, "Failed to recalculate prediction", http.StatusInternalServerError)
		return
	}
	if prediction == nil {
		http.Error(w, "Recalculation already in progress", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(prediction)
}
