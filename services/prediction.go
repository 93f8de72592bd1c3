package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/realtime"
	"github.com/careerloop/backend/repository"
	"github.com/careerloop/backend/scoring"
)

// watchedTables are the change-feed tables whose writes invalidate a
// prediction. Interview events recalculate that interview directly; the
// job-keyed tables fan out to the job's scheduled interviews.
var watchedTables = []string{
	"interviews",
	"job_match_analyses",
	"company_research",
	"mock_interview_sessions",
	"mock_interview_questions",
}

// PredictionService recalculates interview success predictions. It watches
// the change feed for relevant writes and recalculates automatically, and
// serves explicit recalculation requests from the API. A per-interview
// in-flight flag keeps a burst of feed events from stacking duplicate
// recalculations for the same interview.
type PredictionService struct {
	repo   *repository.GORMRepository
	gemini *GeminiService
	feed   *realtime.Hub

	cancels  []func()
	inFlight map[string]bool
	mu       sync.Mutex
}

func NewPredictionService(repo *repository.GORMRepository, gemini *GeminiService, feed *realtime.Hub) *PredictionService {
	return &PredictionService{
		repo:     repo,
		gemini:   gemini,
		feed:     feed,
		inFlight: make(map[string]bool),
	}
}

// Start subscribes to the watched tables. Stop releases every subscription.
func (s *PredictionService) Start() {
	for _, table := range watchedTables {
		cancel := s.feed.Subscribe(table, s.handleEvent)
		s.cancels = append(s.cancels, cancel)
	}
	slog.Info("Prediction watcher started", "tables", len(watchedTables))
}

func (s *PredictionService) Stop() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	slog.Info("Prediction watcher stopped")
}

func (s *PredictionService) handleEvent(event realtime.Event) {
	// Prediction rows themselves also land on the feed; nothing here
	// subscribes to them, but deletes of watched rows carry no signal worth
	// recalculating over except interview deletes, which remove the target.
	if event.Table == "interviews" {
		if event.Action == "delete" {
			return
		}
		go s.recalculateAuto(event.RecordID)
		return
	}

	if event.JobID == "" {
		return
	}

	// Fan out to the job's scheduled interviews
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		interviews, err := s.repo.GetScheduledInterviewsByJob(ctx, event.JobID)
		if err != nil {
			slog.Error("Failed to fan out prediction recalculation", "error", err, "job_id", event.JobID)
			return
		}
		for _, interview := range interviews {
			s.recalculateAuto(interview.ID)
		}
	}()
}

// recalculateAuto runs a feed-triggered recalculation. Failures are logged
// and dropped; the next write to any watched table retries naturally.
func (s *PredictionService) recalculateAuto(interviewID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := s.Recalculate(ctx, interviewID, "auto"); err != nil {
		slog.Error("Automatic prediction recalculation failed", "error", err, "interview_id", interviewID)
	}
}

// Recalculate computes and stores a fresh prediction snapshot for an
// interview. Returns the stored snapshot, or nil without error when a
// recalculation for the same interview is already in flight.
func (s *PredictionService) Recalculate(ctx context.Context, interviewID string, trigger string) (*models.InterviewSuccessPrediction, error) {
	s.mu.Lock()
	if s.inFlight[interviewID] {
		s.mu.Unlock()
		slog.Info("Prediction recalculation already in flight, skipping", "interview_id", interviewID, "trigger", trigger)
		return nil, nil
	}
	s.inFlight[interviewID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, interviewID)
		s.mu.Unlock()
	}()

	interview, err := s.repo.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	if interview == nil {
		return nil, fmt.Errorf("interview not found")
	}

	job, err := s.repo.GetJobByID(ctx, interview.JobID, interview.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("job not found for interview")
	}

	input, signalsAvailable, err := s.gatherSignals(ctx, interview, job)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.gemini.GeneratePredictionBreakdown(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to generate breakdown: %w", err)
	}

	result := scoring.Aggregate(*breakdown, signalsAvailable)

	prediction := &models.InterviewSuccessPrediction{
		InterviewID:          interview.ID,
		UserID:               interview.UserID,
		OverallProbability:   result.OverallProbability,
		RoleMatchScore:       breakdown.RoleMatchScore,
		PreparationScore:     breakdown.PreparationScore,
		CompanyResearchScore: breakdown.CompanyResearchScore,
		PracticeScore:        breakdown.PracticeScore,
		ConfidenceLevel:      result.ConfidenceLevel,
		StrengthAreas:        breakdown.StrengthAreas,
		WeaknessAreas:        breakdown.WeaknessAreas,
		PrioritizedActions:   breakdown.PrioritizedActions,
		PredictedOutcome:     result.PredictedOutcome,
		Trigger:              trigger,
	}

	if err := s.repo.CreatePrediction(ctx, prediction); err != nil {
		return nil, fmt.Errorf("failed to store prediction: %w", err)
	}

	slog.Info("Prediction recalculated",
		"interview_id", interview.ID,
		"probability", result.OverallProbability,
		"confidence", result.ConfidenceLevel,
		"trigger", trigger)

	return prediction, nil
}

// gatherSignals loads every signal source for the interview and counts how
// many had data, which drives the confidence level.
func (s *PredictionService) gatherSignals(ctx context.Context, interview *models.Interview, job *models.Job) (PredictionInput, int, error) {
	input := PredictionInput{
		Job:            job,
		Interview:      interview,
		PrepCompletion: interview.PreparationTasks.CompletionRate(),
	}

	signalsAvailable := 0
	if len(interview.PreparationTasks) > 0 {
		signalsAvailable++
	}

	matchAnalysis, err := s.repo.GetLatestJobMatchAnalysis(ctx, job.ID)
	if err != nil {
		return input, 0, fmt.Errorf("failed to load match analysis: %w", err)
	}
	if matchAnalysis != nil {
		input.MatchAnalysis = matchAnalysis
		signalsAvailable++
	}

	research, err := s.repo.GetCompanyResearch(ctx, job.ID)
	if err != nil {
		return input, 0, fmt.Errorf("failed to load company research: %w", err)
	}
	if research != nil {
		input.Research = research
		signalsAvailable++
	}

	sessions, err := s.repo.GetCompletedMockSessionsByJob(ctx, job.ID)
	if err != nil {
		return input, 0, fmt.Errorf("failed to load mock sessions: %w", err)
	}
	if len(sessions) > 0 {
		input.MockSessions = sessions
		signalsAvailable++

		// Answered questions are a separate signal from sessions existing
		for _, session := range sessions {
			if session.PerformanceSummary != nil && session.PerformanceSummary.CompletionRate > 0 {
				signalsAvailable++
				break
			}
		}
	}

	return input, signalsAvailable, nil
}
