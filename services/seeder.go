package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/repository"
	"golang.org/x/crypto/bcrypt"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the database with initial data (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []models.User{
		{
			Email:    "test@example.com",
			Password: string(hashedPassword),
			FullName: "Test User",
			Headline: "Software Engineer",
			Role:     "user",
		},
		{
			Email:    "demo@example.com",
			Password: string(hashedPassword),
			FullName: "Demo User",
			Headline: "Product Manager",
			Role:     "user",
		},
	}

	for _, user := range users {
		if err := s.seedUser(ctx, user); err != nil {
			slog.Error("Failed to seed user", "email", user.Email, "error", err)
		}
	}

	testUser, err := s.repo.GetUserByEmail(ctx, "test@example.com")
	if err != nil {
		return fmt.Errorf("failed to get test user: %w", err)
	}
	if testUser == nil {
		return fmt.Errorf("test user not found")
	}

	// Existing jobs for the test user mean seeding already ran
	existingJobs, err := s.repo.GetJobs(ctx, testUser.ID, "")
	if err != nil {
		return fmt.Errorf("failed to check existing jobs: %w", err)
	}
	if len(existingJobs) > 0 {
		slog.Info("Database seeding already completed, skipping")
		return nil
	}

	jobs := []models.Job{
		{
			UserID:      testUser.ID,
			Title:       "Senior Backend Engineer",
			Company:     "Northwind Systems",
			Location:    "Remote",
			Description: "Design and operate distributed services in Go.",
			SalaryRange: "$150k - $180k",
			Status:      "interviewing",
		},
		{
			UserID:      testUser.ID,
			Title:       "Platform Engineer",
			Company:     "Fabrikam Cloud",
			Location:    "Seattle, WA",
			Description: "Build internal developer platform tooling.",
			SalaryRange: "$140k - $170k",
			Status:      "applied",
		},
		{
			UserID:  testUser.ID,
			Title:   "Staff Engineer",
			Company: "Contoso Labs",
			Status:  "saved",
		},
	}

	for i := range jobs {
		if err := s.repo.CreateJob(ctx, &jobs[i]); err != nil {
			slog.Error("Failed to seed job", "title", jobs[i].Title, "error", err)
		}
	}

	interview := models.Interview{
		UserID:          testUser.ID,
		JobID:           jobs[0].ID,
		ScheduledAt:     time.Now().Add(72 * time.Hour),
		DurationMinutes: 60,
		InterviewType:   "technical",
		InterviewerName: "Priya Raman",
		InterviewerRole: "Engineering Manager",
		PreparationTasks: models.PreparationTasks{
			{Task: "Review the job description", Completed: true},
			{Task: "Research the company", Completed: false},
			{Task: "Prepare STAR stories", Completed: false},
		},
		Status: "scheduled",
	}
	if err := s.repo.CreateInterview(ctx, &interview); err != nil {
		slog.Error("Failed to seed interview", "error", err)
	}

	campaign := models.Campaign{
		UserID:      testUser.ID,
		Name:        "Backend roles outreach",
		Description: "Warm intros to hiring managers at infrastructure companies.",
		TargetRole:  "Senior Backend Engineer",
		Channel:     "linkedin",
		Status:      "active",
	}
	if err := s.repo.CreateCampaign(ctx, &campaign); err != nil {
		slog.Error("Failed to seed campaign", "error", err)
	}

	discussion := models.Discussion{
		UserID:   testUser.ID,
		Title:    "How do you prepare for system design rounds?",
		Body:     "Sharing my approach and looking for what worked for others.",
		Category: "interviews",
	}
	if err := s.repo.CreateDiscussion(ctx, &discussion); err != nil {
		slog.Error("Failed to seed discussion", "error", err)
	}

	challenge := models.Challenge{
		UserID:      testUser.ID,
		Title:       "30 applications in 30 days",
		Description: "Apply to one role every day for a month.",
		StartsAt:    time.Now(),
		EndsAt:      time.Now().Add(30 * 24 * time.Hour),
	}
	if err := s.repo.CreateChallenge(ctx, &challenge); err != nil {
		slog.Error("Failed to seed challenge", "error", err)
	}

	slog.Info("Database seeding completed successfully")
	return nil
}

// seedUser seeds a single user (idempotent)
func (s *DatabaseSeeder) seedUser(ctx context.Context, user models.User) error {
	existingUser, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking user %s: %w", user.Email, err)
	}

	if existingUser != nil {
		slog.Info("User already exists, skipping", "email", user.Email)
		return nil
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}

	slog.Info("Created user", "email", user.Email)
	return nil
}
