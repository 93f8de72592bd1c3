package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/repository"
	"github.com/careerloop/backend/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type FollowUpEndpoints struct {
	repo          *repository.GORMRepository
	geminiService *GeminiService
	validate      *validator.Validate
}

func NewFollowUpEndpoints(repo *repository.GORMRepository, geminiService *GeminiService) *FollowUpEndpoints {
	return &FollowUpEndpoints{
		repo:          repo,
		geminiService: geminiService,
		validate:      validator.New(),
	}
}

type GenerateFollowUpRequest struct {
	FollowUpType string `json:"follow_up_type" validate:"omitempty,oneof=thank_you status_check additional_info"`
}

type FinalizeFollowUpRequest struct {
	Values map[string]string `json:"values"`
	Polish bool              `json:"polish"`
}

type MarkSentRequest struct {
	ResponseReceived bool       `json:"response_received"`
	ResponseDate     *time.Time `json:"response_date"`
}

func (e *FollowUpEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interviews/{interviewID}/follow-ups", func(r chi.Router) {
		r.Post("/", e.GenerateHandler)
		r.Get("/", e.ListHandler)
	})
	r.Route("/follow-ups", func(r chi.Router) {
		r.Post("/{id}/finalize", e.FinalizeHandler)
		r.Post("/{id}/sent", e.MarkSentHandler)
		r.Delete("/{id}", e.DeleteHandler)
	})
}

// GenerateHandler drafts a follow-up with the AI relay and stores it. The
// draft keeps bracket tokens for missing details; finalize fills them.
func (e *FollowUpEndpoints) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	if e.geminiService == nil {
		http.Error(w, "AI features are not configured", http.StatusServiceUnavailable)
		return
	}

	interview, err := e.repo.GetInterviewByID(r.Context(), chi.URLParam(r, "interviewID"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	var req GenerateFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	followUpType := req.FollowUpType
	if followUpType == "" {
		followUpType = "thank_you"
	}

	job, err := e.repo.GetJobByID(r.Context(), interview.JobID, user.ID)
	if err != nil || job == nil {
		http.Error(w, "Failed to get job for interview", http.StatusInternalServerError)
		return
	}

	draft, err := e.geminiService.GenerateFollowUpDraft(r.Context(), interview, job, followUpType)
	if err != nil {
		slog.Error("Failed to generate follow-up draft", "error", err, "interview_id", interview.ID)
		http.Error(w, "Failed to generate draft", http.StatusBadGateway)
		return
	}

	// Known details fill in immediately; anything else stays a visible token
	draft.FullMessage = templates.Fill(draft.FullMessage, map[string]string{
		"INTERVIEWER_NAME": interview.InterviewerName,
		"COMPANY_NAME":     job.Company,
		"ROLE_TITLE":       job.Title,
		"CANDIDATE_NAME":   user.FullName,
	})

	followUp := &models.FollowUp{
		InterviewID:  interview.ID,
		UserID:       user.ID,
		FollowUpType: followUpType,
		Subject:      draft.Subject,
		Content:      draft.FullMessage,
	}
	if err := e.repo.CreateFollowUp(r.Context(), followUp); err != nil {
		http.Error(w, "Failed to store follow-up", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"follow_up":      followUp,
		"pending_tokens": templates.Tokens(followUp.Content),
	})
}

func (e *FollowUpEndpoints) ListHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	followUps, err := e.repo.GetFollowUps(r.Context(), chi.URLParam(r, "interviewID"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get follow-ups", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"follow_ups": followUps,
		"count":      len(followUps),
	})
}

// FinalizeHandler fills the draft's remaining tokens and optionally polishes
// the result. A polish failure is not fatal; the filled text stands.
func (e *FollowUpEndpoints) FinalizeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	followUp, err := e.repo.GetFollowUpByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get follow-up", http.StatusInternalServerError)
		return
	}
	if followUp == nil {
		http.Error(w, "Follow-up not found", http.StatusNotFound)
		return
	}
	if followUp.SentAt != nil {
		http.Error(w, "Follow-up already sent", http.StatusConflict)
		return
	}

	var req FinalizeFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	content := templates.Fill(followUp.Content, req.Values)

	if req.Polish {
		polished, err := e.geminiService.Polish(r.Context(), content)
		if err != nil {
			slog.Warn("Polish failed, keeping filled draft", "error", err, "follow_up_id", followUp.ID)
		} else {
			content = polished
		}
	}

	followUp.Content = content
	if err := e.repo.UpdateFollowUp(r.Context(), followUp); err != nil {
		http.Error(w, "Failed to update follow-up", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"follow_up":      followUp,
		"pending_tokens": templates.Tokens(followUp.Content),
	})
}

func (e *FollowUpEndpoints) MarkSentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	followUp, err := e.repo.GetFollowUpByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get follow-up", http.StatusInternalServerError)
		return
	}
	if followUp == nil {
		http.Error(w, "Follow-up not found", http.StatusNotFound)
		return
	}

	var req MarkSentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if followUp.SentAt == nil {
		now := time.Now()
		followUp.SentAt = &now
	}
	followUp.ResponseReceived = req.ResponseReceived
	if req.ResponseDate != nil {
		followUp.ResponseDate = req.ResponseDate
	}

	if err := e.repo.UpdateFollowUp(r.Context(), followUp); err != nil {
		http.Error(w, "Failed to update follow-up", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(followUp)
}

func (e *FollowUpEndpoints) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	if err := e.repo.DeleteFollowUp(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		http.Error(w, "Failed to delete follow-up", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
