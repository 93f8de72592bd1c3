package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/careerloop/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// When no Gemini API key is configured the endpoints are still registered so
// the non-AI operations keep working; the AI operations must answer 503, not
// panic through a nil service.
func TestAIHandlersUnavailableWithoutClient(t *testing.T) {
	user := &models.User{ID: "5b2c1d9e-0000-4000-8000-000000000001", Email: "test@example.com"}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		path    string
		body    string
	}{
		{
			name:    "start mock session",
			handler: NewMockEndpoints(nil, nil).StartSessionHandler,
			method:  http.MethodPost,
			path:    "/mock-sessions",
			body:    `{"job_id":"5b2c1d9e-0000-4000-8000-000000000002"}`,
		},
		{
			name:    "generate follow-up",
			handler: NewFollowUpEndpoints(nil, nil).GenerateHandler,
			method:  http.MethodPost,
			path:    "/interviews/abc/follow-ups",
			body:    `{}`,
		},
		{
			name:    "referral request message",
			handler: NewCommunityEndpoints(nil, nil, nil).ReferralRequestMessageHandler,
			method:  http.MethodPost,
			path:    "/community/referrals/abc/request-message",
			body:    `{}`,
		},
		{
			name:    "recalculate prediction",
			handler: NewInterviewEndpoints(nil, nil).RecalculatePredictionHandler,
			method:  http.MethodPost,
			path:    "/interviews/abc/prediction",
			body:    `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), "user", user))
			rec := httptest.NewRecorder()

			tt.handler(rec, req)

			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

// A nil relay must fail with an error, never dereference itself. The finalize
// path relies on this to fall back to the unpolished draft.
func TestNilGeminiServiceReturnsErrors(t *testing.T) {
	var g *GeminiService
	ctx := context.Background()
	job := &models.Job{Title: "Engineer", Company: "Acme"}

	_, err := g.GenerateMockQuestions(ctx, job, "behavioral", 8)
	require.Error(t, err)

	_, err = g.GeneratePredictionBreakdown(ctx, PredictionInput{Job: job, Interview: &models.Interview{}})
	require.Error(t, err)

	_, err = g.GenerateFollowUpDraft(ctx, &models.Interview{}, job, "thank_you")
	require.Error(t, err)

	_, err = g.GenerateReferralMessage(ctx, &models.Referral{Company: "Acme"}, &models.User{})
	require.Error(t, err)

	_, err = g.Polish(ctx, "hello")
	require.Error(t, err)
}
