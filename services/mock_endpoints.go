package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/repository"
	"github.com/careerloop/backend/scoring"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const defaultQuestionCount = 8

type MockEndpoints struct {
	repo          *repository.GORMRepository
	geminiService *GeminiService
	validate      *validator.Validate
}

func NewMockEndpoints(repo *repository.GORMRepository, geminiService *GeminiService) *MockEndpoints {
	return &MockEndpoints{
		repo:          repo,
		geminiService: geminiService,
		validate:      validator.New(),
	}
}

type StartMockSessionRequest struct {
	JobID         string `json:"job_id" validate:"required,uuid"`
	Focus         string `json:"focus" validate:"omitempty,oneof=behavioral technical mixed"`
	QuestionCount int    `json:"question_count" validate:"omitempty,min=1,max=20"`
}

type RecordResponseRequest struct {
	Response string `json:"response"`
}

func (e *MockEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/mock-sessions", func(r chi.Router) {
		r.Post("/", e.StartSessionHandler)
		r.Get("/", e.GetSessionsHandler)
		r.Get("/{id}", e.GetSessionHandler)
		r.Put("/{id}/questions/{questionID}", e.RecordResponseHandler)
		r.Post("/{id}/complete", e.CompleteSessionHandler)
		r.Delete("/{id}", e.DeleteSessionHandler)
	})
}

// StartSessionHandler creates a session and generates its questions from the
// job posting.
func (e *MockEndpoints) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	if e.geminiService == nil {
		http.Error(w, "AI features are not configured", http.StatusServiceUnavailable)
		return
	}

	var req StartMockSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
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

	focus := req.Focus
	if focus == "" {
		focus = "behavioral"
	}
	count := req.QuestionCount
	if count == 0 {
		count = defaultQuestionCount
	}

	questions, err := e.geminiService.GenerateMockQuestions(r.Context(), job, focus, count)
	if err != nil {
		slog.Error("Failed to generate mock questions", "error", err, "job_id", job.ID)
		http.Error(w, "Failed to generate questions", http.StatusBadGateway)
		return
	}

	session := &models.MockInterviewSession{
		UserID: user.ID,
		JobID:  job.ID,
		Focus:  focus,
		Status: "in_progress",
	}
	if err := e.repo.CreateMockSession(r.Context(), session); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	questionRows := make([]models.MockInterviewQuestion, 0, len(questions))
	for i, question := range questions {
		questionRows = append(questionRows, models.MockInterviewQuestion{
			SessionID: session.ID,
			Order:     i + 1,
			Question:  question,
		})
	}
	if err := e.repo.CreateMockQuestions(r.Context(), questionRows); err != nil {
		http.Error(w, "Failed to store questions", http.StatusInternalServerError)
		return
	}
	session.Questions = questionRows

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

func (e *MockEndpoints) GetSessionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessions, err := e.repo.GetMockSessions(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (e *MockEndpoints) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	session, err := e.repo.GetMockSessionWithQuestions(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

func (e *MockEndpoints) RecordResponseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	session, err := e.repo.GetMockSessionWithQuestions(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if session.Status != "in_progress" {
		http.Error(w, "Session already completed", http.StatusConflict)
		return
	}

	questionID := chi.URLParam(r, "questionID")
	var question *models.MockInterviewQuestion
	for i := range session.Questions {
		if session.Questions[i].ID == questionID {
			question = &session.Questions[i]
			break
		}
	}
	if question == nil {
		http.Error(w, "Question not found in session", http.StatusNotFound)
		return
	}

	var req RecordResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	question.Response = req.Response
	if err := e.repo.UpdateMockQuestionResponse(r.Context(), question, user.ID, session.JobID); err != nil {
		http.Error(w, "Failed to record response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(question)
}

// CompleteSessionHandler grades the session and freezes its results.
// Completing twice is rejected; grades are immutable once computed.
func (e *MockEndpoints) CompleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	session, err := e.repo.GetMockSessionWithQuestions(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if session.Status != "in_progress" {
		http.Error(w, "Session already completed", http.StatusConflict)
		return
	}

	responses := make([]scoring.Response, 0, len(session.Questions))
	for _, question := range session.Questions {
		responses = append(responses, scoring.Response{
			Question: question.Question,
			Answer:   question.Response,
		})
	}

	grade := scoring.GradeSession(responses)

	now := time.Now()
	session.Status = "completed"
	session.CompletedAt = &now
	session.OverallScore = &grade.OverallScore
	session.PerformanceSummary = &models.PerformanceSummary{
		CompletionRate:    grade.CompletionRate,
		AvgResponseLength: grade.AvgResponseLength,
		QualityRate:       grade.QualityRate,
		StarSituation:     grade.Star.Situation,
		StarTask:          grade.Star.Task,
		StarAction:        grade.Star.Action,
		StarResult:        grade.Star.Result,
		Strengths:         grade.Strengths,
		Improvements:      grade.Improvements,
	}

	if err := e.repo.UpdateMockSession(r.Context(), session); err != nil {
		http.Error(w, "Failed to complete session", http.StatusInternalServerError)
		return
	}

	slog.Info("Mock session completed", "session_id", session.ID, "score", grade.OverallScore)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

func (e *MockEndpoints) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if err := e.repo.DeleteMockSession(r.Context(), sessionID, user.ID); err != nil {
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	slog.Info("Mock session deleted", "session_id", sessionID, "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}
