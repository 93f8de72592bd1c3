package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/scoring"

	"google.golang.org/genai"
)

const ModelName = "gemini-2.5-flash"

// GeminiService is the AI relay. Every generation that feeds application
// logic uses a typed response schema and JSON output, so downstream code
// never parses free text. Scores are still clamped at the boundary because
// the schema constrains shape, not arithmetic.
type GeminiService struct {
	genaiClient *genai.Client
}

// PredictionInput carries the signals gathered for one interview. Nil fields
// mean the signal source had no data yet.
type PredictionInput struct {
	Job            *models.Job
	Interview      *models.Interview
	MatchAnalysis  *models.JobMatchAnalysis
	Research       *models.CompanyResearch
	MockSessions   []models.MockInterviewSession
	PrepCompletion float64
}

// FollowUpDraft is the typed contract for generated follow-up messages.
type FollowUpDraft struct {
	Subject     string `json:"subject"`
	Greeting    string `json:"greeting"`
	Body        string `json:"body"`
	Closing     string `json:"closing"`
	FullMessage string `json:"full_message"`
}

// ReferralMessage is the typed contract for referral request drafts.
type ReferralMessage struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type mockQuestionSet struct {
	Questions []string `json:"questions"`
}

func NewGeminiService(apiKey string) *GeminiService {
	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		slog.Error("Failed to create genai client", "error", err)
		return nil
	}

	return &GeminiService{genaiClient: genaiClient}
}

// GeneratePredictionBreakdown asks the model for the four sub-scores and
// narrative arrays that feed the local aggregation. The overall probability
// is never requested from the model.
func (g *GeminiService) GeneratePredictionBreakdown(ctx context.Context, input PredictionInput) (*scoring.Breakdown, error) {
	if g == nil || g.genaiClient == nil {
		return nil, fmt.Errorf("genai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := buildPredictionPrompt(input)

	scoreSchema := &genai.Schema{Type: genai.TypeNumber, Minimum: genai.Ptr(0.0), Maximum: genai.Ptr(100.0)}
	stringArray := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are an experienced career coach assessing a candidate's readiness for an upcoming interview. Score each dimension from 0 to 100 based only on the evidence provided.",
			genai.RoleUser,
		),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"role_match_score":       scoreSchema,
				"preparation_score":      scoreSchema,
				"company_research_score": scoreSchema,
				"practice_score":         scoreSchema,
				"strength_areas":         stringArray,
				"weakness_areas":         stringArray,
				"prioritized_actions":    stringArray,
			},
			Required: []string{
				"role_match_score", "preparation_score", "company_research_score",
				"practice_score", "strength_areas", "weakness_areas", "prioritized_actions",
			},
		},
	}

	result, err := g.genaiClient.Models.GenerateContent(ctx, ModelName, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate prediction breakdown: %w", err)
	}

	var breakdown scoring.Breakdown
	if err := json.Unmarshal([]byte(result.Text()), &breakdown); err != nil {
		return nil, fmt.Errorf("failed to parse prediction breakdown: %w", err)
	}

	breakdown.RoleMatchScore = scoring.Clamp(breakdown.RoleMatchScore)
	breakdown.PreparationScore = scoring.Clamp(breakdown.PreparationScore)
	breakdown.CompanyResearchScore = scoring.Clamp(breakdown.CompanyResearchScore)
	breakdown.PracticeScore = scoring.Clamp(breakdown.PracticeScore)

	slog.Info("Prediction breakdown generated",
		"role_match", breakdown.RoleMatchScore,
		"preparation", breakdown.PreparationScore,
		"research", breakdown.CompanyResearchScore,
		"practice", breakdown.PracticeScore)

	return &breakdown, nil
}

// GenerateMockQuestions generates interview questions tailored to the job.
// Returns exactly count questions, trimming or erroring when the model
// drifts from the requested count.
func (g *GeminiService) GenerateMockQuestions(ctx context.Context, job *models.Job, focus string, count int) ([]string, error) {
	if g == nil || g.genaiClient == nil {
		return nil, fmt.Errorf("genai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(`Generate %d %s interview questions for this position.

Role: %s at %s
Description: %s

Questions should be realistic for this role and varied in difficulty.`,
		count, focus, job.Title, job.Company, job.Description)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are a hiring manager writing interview questions.",
			genai.RoleUser,
		),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"questions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"questions"},
		},
	}

	result, err := g.genaiClient.Models.GenerateContent(ctx, ModelName, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mock questions: %w", err)
	}

	var set mockQuestionSet
	if err := json.Unmarshal([]byte(result.Text()), &set); err != nil {
		return nil, fmt.Errorf("failed to parse mock questions: %w", err)
	}
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	if len(set.Questions) > count {
		set.Questions = set.Questions[:count]
	}

	return set.Questions, nil
}

// GenerateFollowUpDraft drafts a follow-up message for a completed interview.
// The draft uses bracket tokens (e.g. [INTERVIEWER_NAME]) for details the
// model was not given, which the templates package later fills.
func (g *GeminiService) GenerateFollowUpDraft(ctx context.Context, interview *models.Interview, job *models.Job, followUpType string) (*FollowUpDraft, error) {
	if g == nil || g.genaiClient == nil {
		return nil, fmt.Errorf("genai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(`Draft a %s follow-up email for an interview.

Role: %s at %s
Interview type: %s
Interviewer: %s (%s)

Use bracket placeholders like [INTERVIEWER_NAME] and [COMPANY_NAME] for any
detail you are unsure about. Keep the tone warm and professional, under 200
words. full_message must contain the assembled greeting, body and closing.`,
		followUpType, job.Title, job.Company, interview.InterviewType,
		interview.InterviewerName, interview.InterviewerRole)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You write concise, professional post-interview follow-up emails.",
			genai.RoleUser,
		),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"subject":      {Type: genai.TypeString},
				"greeting":     {Type: genai.TypeString},
				"body":         {Type: genai.TypeString},
				"closing":      {Type: genai.TypeString},
				"full_message": {Type: genai.TypeString},
			},
			Required: []string{"subject", "greeting", "body", "closing", "full_message"},
		},
	}

	result, err := g.genaiClient.Models.GenerateContent(ctx, ModelName, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate follow-up draft: %w", err)
	}

	var draft FollowUpDraft
	if err := json.Unmarshal([]byte(result.Text()), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse follow-up draft: %w", err)
	}
	if strings.TrimSpace(draft.FullMessage) == "" {
		draft.FullMessage = strings.TrimSpace(draft.Greeting + "\n\n" + draft.Body + "\n\n" + draft.Closing)
	}

	return &draft, nil
}

// GenerateReferralMessage drafts a referral request to a community member.
func (g *GeminiService) GenerateReferralMessage(ctx context.Context, referral *models.Referral, requester *models.User) (*ReferralMessage, error) {
	if g == nil || g.genaiClient == nil {
		return nil, fmt.Errorf("genai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(`Draft a short, polite referral request message.

Requester: %s (%s)
Target company: %s
Role hint: %s

Use bracket placeholders like [CONTACT_NAME] where the contact's details are
unknown. Keep it under 120 words.`,
		requester.FullName, requester.Headline, referral.Company, referral.RoleHint)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You help job seekers write respectful referral request messages.",
			genai.RoleUser,
		),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"subject": {Type: genai.TypeString},
				"message": {Type: genai.TypeString},
			},
			Required: []string{"subject", "message"},
		},
	}

	result, err := g.genaiClient.Models.GenerateContent(ctx, ModelName, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate referral message: %w", err)
	}

	var message ReferralMessage
	if err := json.Unmarshal([]byte(result.Text()), &message); err != nil {
		return nil, fmt.Errorf("failed to parse referral message: %w", err)
	}

	return &message, nil
}

// Polish rewrites a finalized message for tone and flow without changing its
// meaning. Callers fall back to the unpolished text when this fails.
func (g *GeminiService) Polish(ctx context.Context, text string) (string, error) {
	if g == nil || g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(`Polish the following message for tone and flow. Keep
the same meaning, structure and approximate length. Do not add placeholders
or new claims. Return only the polished message.

%s`, text)

	result, err := g.genaiClient.Models.GenerateContent(ctx, ModelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to polish message: %w", err)
	}

	polished := strings.TrimSpace(result.Text())
	if polished == "" {
		return "", fmt.Errorf("model returned empty polish result")
	}

	return polished, nil
}

func buildPredictionPrompt(input PredictionInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Upcoming interview: %s at %s (%s)\n",
		input.Job.Title, input.Job.Company, input.Interview.InterviewType)
	fmt.Fprintf(&b, "Scheduled: %s\n\n", input.Interview.ScheduledAt.Format(time.RFC1123))

	if input.MatchAnalysis != nil {
		fmt.Fprintf(&b, "Role match analysis: score %.1f/100\n", input.MatchAnalysis.MatchScore)
		fmt.Fprintf(&b, "Matching skills: %s\n", strings.Join(input.MatchAnalysis.MatchingSkills, ", "))
		fmt.Fprintf(&b, "Missing skills: %s\n\n", strings.Join(input.MatchAnalysis.MissingSkills, ", "))
	} else {
		b.WriteString("Role match analysis: not available\n\n")
	}

	fmt.Fprintf(&b, "Preparation checklist completion: %.0f%%\n\n", input.PrepCompletion*100)

	if input.Research != nil {
		fmt.Fprintf(&b, "Company research summary: %s\n\n", input.Research.Summary)
	} else {
		b.WriteString("Company research: not done\n\n")
	}

	if len(input.MockSessions) > 0 {
		b.WriteString("Completed practice sessions:\n")
		for _, session := range input.MockSessions {
			if session.OverallScore != nil {
				fmt.Fprintf(&b, "- focus %s, score %d/100\n", session.Focus, *session.OverallScore)
			}
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Practice sessions: none completed\n\n")
	}

	b.WriteString("Score the candidate's readiness on each dimension and list strengths, weaknesses and prioritized actions.")
	return b.String()
}
