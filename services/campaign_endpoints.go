package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type CampaignEndpoints struct {
	repo     *repository.GORMRepository
	counters *repository.CounterStore
	validate *validator.Validate
}

func NewCampaignEndpoints(repo *repository.GORMRepository, counters *repository.CounterStore) *CampaignEndpoints {
	return &CampaignEndpoints{
		repo:     repo,
		counters: counters,
		validate: validator.New(),
	}
}

type CreateCampaignRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	TargetRole  string `json:"target_role"`
	Channel     string `json:"channel" validate:"omitempty,oneof=email linkedin referral event"`
}

type UpdateCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetRole  string `json:"target_role"`
	Status      string `json:"status" validate:"omitempty,oneof=active paused completed"`
}

type CreateOutreachRequest struct {
	ContactName  string `json:"contact_name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Company      string `json:"company"`
	Message      string `json:"message"`
}

type OutreachStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=drafted sent responded declined"`
}

type CreateConnectionRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Company  string `json:"company"`
	Title    string `json:"title"`
	Relation string `json:"relation" validate:"omitempty,oneof=peer recruiter mentor referral_source"`
	Notes    string `json:"notes"`
}

// CreateGoalRequest accepts target_value as free text; non-numeric input is
// coerced to 0 rather than rejected.
type CreateGoalRequest struct {
	Title       string     `json:"title" validate:"required"`
	Metric      string     `json:"metric" validate:"omitempty,oneof=applications outreaches interviews practice_sessions"`
	TargetValue string     `json:"target_value"`
	Deadline    *time.Time `json:"deadline"`
}

type GoalProgressRequest struct {
	CurrentValue int `json:"current_value" validate:"min=0"`
}

func (e *CampaignEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", e.CreateCampaignHandler)
		r.Get("/", e.GetCampaignsHandler)
		r.Get("/{id}", e.GetCampaignHandler)
		r.Put("/{id}", e.UpdateCampaignHandler)
		r.Delete("/{id}", e.DeleteCampaignHandler)

		r.Post("/{id}/outreaches", e.CreateOutreachHandler)
		r.Get("/{id}/outreaches", e.GetOutreachesHandler)
	})
	r.Route("/outreaches", func(r chi.Router) {
		r.Put("/{id}/status", e.UpdateOutreachStatusHandler)
	})
	r.Route("/connections", func(r chi.Router) {
		r.Post("/", e.CreateConnectionHandler)
		r.Get("/", e.GetConnectionsHandler)
		r.Delete("/{id}", e.DeleteConnectionHandler)
	})
	r.Route("/goals", func(r chi.Router) {
		r.Post("/", e.CreateGoalHandler)
		r.Get("/", e.GetGoalsHandler)
		r.Put("/{id}/progress", e.UpdateGoalProgressHandler)
		r.Delete("/{id}", e.DeleteGoalHandler)
	})
}

func (e *CampaignEndpoints) CreateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	channel := req.Channel
	if channel == "" {
		channel = "email"
	}

	campaign := &models.Campaign{
		UserID:      user.ID,
		Name:        req.Name,
		Description: req.Description,
		TargetRole:  req.TargetRole,
		Channel:     channel,
		Status:      "active",
	}
	if err := e.repo.CreateCampaign(r.Context(), campaign); err != nil {
		http.Error(w, "Failed to create campaign", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(campaign)
}

func (e *CampaignEndpoints) GetCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	campaigns, err := e.repo.GetCampaigns(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get campaigns", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"campaigns": campaigns,
		"count":     len(campaigns),
	})
}

func (e *CampaignEndpoints) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	campaign, err := e.repo.GetCampaignByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get campaign", http.StatusInternalServerError)
		return
	}
	if campaign == nil {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaign)
}

func (e *CampaignEndpoints) UpdateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Invalid campaign status", http.StatusBadRequest)
		return
	}

	campaign, err := e.repo.GetCampaignByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get campaign", http.StatusInternalServerError)
		return
	}
	if campaign == nil {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}

	if req.Name != "" {
		campaign.Name = req.Name
	}
	if req.Description != "" {
		campaign.Description = req.Description
	}
	if req.TargetRole != "" {
		campaign.TargetRole = req.TargetRole
	}
	if req.Status != "" {
		campaign.Status = req.Status
	}

	if err := e.repo.UpdateCampaign(r.Context(), campaign); err != nil {
		http.Error(w, "Failed to update campaign", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaign)
}

func (e *CampaignEndpoints) DeleteCampaignHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	if err := e.repo.DeleteCampaign(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		http.Error(w, "Failed to delete campaign", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateOutreachHandler stores the outreach and bumps the campaign's
// denormalized outreach_count through the counter store.
func (e *CampaignEndpoints) CreateOutreachHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	campaign, err := e.repo.GetCampaignByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get campaign", http.StatusInternalServerError)
		return
	}
	if campaign == nil {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}

	var req CreateOutreachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Contact name is required", http.StatusBadRequest)
		return
	}

	outreach := &models.Outreach{
		CampaignID:   campaign.ID,
		UserID:       user.ID,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		Company:      req.Company,
		Message:      req.Message,
		Status:       "drafted",
	}
	if err := e.repo.CreateOutreach(r.Context(), outreach); err != nil {
		http.Error(w, "Failed to create outreach", http.StatusInternalServerError)
		return
	}

	if _, err := e.counters.Increment(r.Context(), "campaigns", "outreach_count", campaign.ID, 1); err != nil {
		slog.Error("Failed to increment outreach count", "error", err, "campaign_id", campaign.ID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(outreach)
}

func (e *CampaignEndpoints) GetOutreachesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	outreaches, err := e.repo.GetOutreaches(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get outreaches", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"outreaches": outreaches,
		"count":      len(outreaches),
	})
}

func (e *CampaignEndpoints) UpdateOutreachStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	outreach, err := e.repo.GetOutreachByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get outreach", http.StatusInternalServerError)
		return
	}
	if outreach == nil {
		http.Error(w, "Outreach not found", http.StatusNotFound)
		return
	}

	var req OutreachStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	previousStatus := outreach.Status
	outreach.Status = req.Status
	now := time.Now()
	switch req.Status {
	case "sent":
		if outreach.SentAt == nil {
			outreach.SentAt = &now
		}
	case "responded":
		if outreach.RespondedAt == nil {
			outreach.RespondedAt = &now
		}
	}

	if err := e.repo.UpdateOutreach(r.Context(), outreach); err != nil {
		http.Error(w, "Failed to update outreach", http.StatusInternalServerError)
		return
	}

	// First transition into responded bumps the campaign's response count
	if req.Status == "responded" && previousStatus != "responded" {
		if _, err := e.counters.Increment(r.Context(), "campaigns", "response_count", outreach.CampaignID, 1); err != nil {
			slog.Error("Failed to increment response count", "error", err, "campaign_id", outreach.CampaignID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(outreach)
}

func (e *CampaignEndpoints) CreateConnectionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	relation := req.Relation
	if relation == "" {
		relation = "peer"
	}

	connection := &models.Connection{
		UserID:   user.ID,
		Name:     req.Name,
		Email:    req.Email,
		Company:  req.Company,
		Title:    req.Title,
		Relation: relation,
		Notes:    req.Notes,
	}
	if err := e.repo.CreateConnection(r.Context(), connection); err != nil {
		http.Error(w, "Failed to create connection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(connection)
}

func (e *CampaignEndpoints) GetConnectionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	connections, err := e.repo.GetConnections(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get connections", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"connections": connections,
		"count":       len(connections),
	})
}

func (e *CampaignEndpoints) DeleteConnectionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	if err := e.repo.DeleteConnection(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		http.Error(w, "Failed to delete connection", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (e *CampaignEndpoints) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	metric := req.Metric
	if metric == "" {
		metric = "applications"
	}

	targetValue, err := strconv.Atoi(strings.TrimSpace(req.TargetValue))
	if err != nil || targetValue < 0 {
		targetValue = 0
	}

	goal := &models.Goal{
		UserID:      user.ID,
		Title:       req.Title,
		Metric:      metric,
		TargetValue: targetValue,
		Deadline:    req.Deadline,
	}
	if err := e.repo.CreateGoal(r.Context(), goal); err != nil {
		http.Error(w, "Failed to create goal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(goal)
}

func (e *CampaignEndpoints) GetGoalsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	goals, err := e.repo.GetGoals(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get goals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"goals": goals,
		"count": len(goals),
	})
}

func (e *CampaignEndpoints) UpdateGoalProgressHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	goal, err := e.repo.GetGoalByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get goal", http.StatusInternalServerError)
		return
	}
	if goal == nil {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}

	var req GoalProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Current value must be non-negative", http.StatusBadRequest)
		return
	}

	goal.CurrentValue = req.CurrentValue
	if err := e.repo.UpdateGoal(r.Context(), goal); err != nil {
		http.Error(w, "Failed to update goal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goal)
}

func (e *CampaignEndpoints) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	if err := e.repo.DeleteGoal(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		http.Error(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
