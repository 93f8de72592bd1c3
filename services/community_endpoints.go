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

type CommunityEndpoints struct {
	repo          *repository.GORMRepository
	counters      *repository.CounterStore
	geminiService *GeminiService
	validate      *validator.Validate
}

func NewCommunityEndpoints(repo *repository.GORMRepository, counters *repository.CounterStore, geminiService *GeminiService) *CommunityEndpoints {
	return &CommunityEndpoints{
		repo:          repo,
		counters:      counters,
		geminiService: geminiService,
		validate:      validator.New(),
	}
}

type CreateDiscussionRequest struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Category string `json:"category" validate:"omitempty,oneof=general interviews offers resumes"`
}

type CreateChallengeRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

type CreateReferralRequest struct {
	Company  string `json:"company" validate:"required"`
	RoleHint string `json:"role_hint"`
	Notes    string `json:"notes"`
}

func (e *CommunityEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/community", func(r chi.Router) {
		r.Route("/discussions", func(r chi.Router) {
			r.Post("/", e.CreateDiscussionHandler)
			r.Get("/", e.GetDiscussionsHandler)
			r.Get("/{id}", e.GetDiscussionHandler)
			r.Post("/{id}/like", e.LikeDiscussionHandler)
			r.Delete("/{id}", e.DeleteDiscussionHandler)
		})
		r.Route("/challenges", func(r chi.Router) {
			r.Post("/", e.CreateChallengeHandler)
			r.Get("/", e.GetChallengesHandler)
			r.Post("/{id}/join", e.JoinChallengeHandler)
		})
		r.Route("/referrals", func(r chi.Router) {
			r.Post("/", e.CreateReferralHandler)
			r.Get("/", e.GetReferralsHandler)
			r.Post("/{id}/register", e.RegisterForReferralHandler)
			r.Post("/{id}/request-message", e.ReferralRequestMessageHandler)
			r.Post("/{id}/close", e.CloseReferralHandler)
		})
	})
}

func (e *CommunityEndpoints) CreateDiscussionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateDiscussionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Title and body are required", http.StatusBadRequest)
		return
	}

	category := req.Category
	if category == "" {
		category = "general"
	}

	discussion := &models.Discussion{
		UserID:   user.ID,
		Title:    req.Title,
		Body:     req.Body,
		Category: category,
	}
	if err := e.repo.CreateDiscussion(r.Context(), discussion); err != nil {
		http.Error(w, "Failed to create discussion", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(discussion)
}

func (e *CommunityEndpoints) GetDiscussionsHandler(w http.ResponseWriter, r *http.Request) {
	discussions, err := e.repo.GetDiscussions(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, "Failed to get discussions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"discussions": discussions,
		"count":       len(discussions),
	})
}

func (e *CommunityEndpoints) GetDiscussionHandler(w http.ResponseWriter, r *http.Request) {
	discussion, err := e.repo.GetDiscussionByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to get discussion", http.StatusInternalServerError)
		return
	}
	if discussion == nil {
		http.Error(w, "Discussion not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(discussion)
}

// LikeDiscussionHandler bumps likes_count atomically via the counter store
func (e *CommunityEndpoints) LikeDiscussionHandler(w http.ResponseWriter, r *http.Request) {
	discussionID := chi.URLParam(r, "id")

	likes, err := e.counters.Increment(r.Context(), "discussions", "likes_count", discussionID, 1)
	if err != nil {
		http.Error(w, "Failed to like discussion", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"likes_count": likes,
	})
}

func (e *CommunityEndpoints) DeleteDiscussionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	if err := e.repo.DeleteDiscussion(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		http.Error(w, "Failed to delete discussion", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (e *CommunityEndpoints) CreateChallengeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Title and a valid date range are required", http.StatusBadRequest)
		return
	}

	challenge := &models.Challenge{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := e.repo.CreateChallenge(r.Context(), challenge); err != nil {
		http.Error(w, "Failed to create challenge", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(challenge)
}

func (e *CommunityEndpoints) GetChallengesHandler(w http.ResponseWriter, r *http.Request) {
	challenges, err := e.repo.GetChallenges(r.Context())
	if err != nil {
		http.Error(w, "Failed to get challenges", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"challenges": challenges,
		"count":      len(challenges),
	})
}

func (e *CommunityEndpoints) JoinChallengeHandler(w http.ResponseWriter, r *http.Request) {
	challengeID := chi.URLParam(r, "id")

	challenge, err := e.repo.GetChallengeByID(r.Context(), challengeID)
	if err != nil {
		http.Error(w, "Failed to get challenge", http.StatusInternalServerError)
		return
	}
	if challenge == nil {
		http.Error(w, "Challenge not found", http.StatusNotFound)
		return
	}
	if time.Now().After(challenge.EndsAt) {
		http.Error(w, "Challenge has ended", http.StatusConflict)
		return
	}

	participants, err := e.counters.Increment(r.Context(), "challenges", "participants_count", challengeID, 1)
	if err != nil {
		http.Error(w, "Failed to join challenge", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"participants_count": participants,
	})
}

func (e *CommunityEndpoints) CreateReferralHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.validate.Struct(req); err != nil {
		http.Error(w, "Company is required", http.StatusBadRequest)
		return
	}

	referral := &models.Referral{
		UserID:   user.ID,
		Company:  req.Company,
		RoleHint: req.RoleHint,
		Notes:    req.Notes,
		Open:     true,
	}
	if err := e.repo.CreateReferral(r.Context(), referral); err != nil {
		http.Error(w, "Failed to create referral", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(referral)
}

func (e *CommunityEndpoints) GetReferralsHandler(w http.ResponseWriter, r *http.Request) {
	referrals, err := e.repo.GetOpenReferrals(r.Context())
	if err != nil {
		http.Error(w, "Failed to get referrals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"referrals": referrals,
		"count":     len(referrals),
	})
}

func (e *CommunityEndpoints) RegisterForReferralHandler(w http.ResponseWriter, r *http.Request) {
	referralID := chi.URLParam(r, "id")

	referral, err := e.repo.GetReferralByID(r.Context(), referralID)
	if err != nil {
		http.Error(w, "Failed to get referral", http.StatusInternalServerError)
		return
	}
	if referral == nil {
		http.Error(w, "Referral not found", http.StatusNotFound)
		return
	}
	if !referral.Open {
		http.Error(w, "Referral is closed", http.StatusConflict)
		return
	}

	registered, err := e.counters.Increment(r.Context(), "referrals", "registered_count", referralID, 1)
	if err != nil {
		http.Error(w, "Failed to register for referral", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"registered_count": registered,
	})
}

// ReferralRequestMessageHandler drafts a request message to the offering
// member; nothing is sent, the caller copies the draft out.
func (e *CommunityEndpoints) ReferralRequestMessageHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	if e.geminiService == nil {
		http.Error(w, "AI features are not configured", http.StatusServiceUnavailable)
		return
	}

	referral, err := e.repo.GetReferralByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to get referral", http.StatusInternalServerError)
		return
	}
	if referral == nil {
		http.Error(w, "Referral not found", http.StatusNotFound)
		return
	}

	message, err := e.geminiService.GenerateReferralMessage(r.Context(), referral, user)
	if err != nil {
		slog.Error("Failed to generate referral message", "error", err, "referral_id", referral.ID)
		http.Error(w, "Failed to generate message", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(message)
}

func (e *CommunityEndpoints) CloseReferralHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	referral, err := e.repo.GetReferralByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to get referral", http.StatusInternalServerError)
		return
	}
	if referral == nil {
		http.Error(w, "Referral not found", http.StatusNotFound)
		return
	}
	if referral.UserID != user.ID {
		http.Error(w, "Only the offering member can close a referral", http.StatusForbidden)
		return
	}

	referral.Open = false
	if err := e.repo.UpdateReferral(r.Context(), referral); err != nil {
		http.Error(w, "Failed to close referral", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(referral)
}
