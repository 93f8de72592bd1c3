package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - User, RefreshToken, PermanentToken from user.go
// - Job, JobMatchAnalysis, CompanyResearch from job.go
// - Interview, InterviewSuccessPrediction, FollowUp from interview.go
// - MockInterviewSession, MockInterviewQuestion from mock.go
// - Campaign, Outreach, Connection, Goal from campaign.go
// - Discussion, Challenge, Referral from community.go
// - Document from document.go

// Database schema overview:
// 1. users - Managed by cookie-based authentication
// 2. jobs - Positions the user is pursuing; parent of analyses and interviews
// 3. job_match_analyses / company_research - AI-generated snapshots per job
// 4. interviews - Scheduled interviews with a preparation checklist and outcome
// 5. interview_success_predictions - Point-in-time computed snapshots; each
//    recalculation inserts a new row, most recent wins by created_at
// 6. mock_interview_sessions / mock_interview_questions - Practice sessions
//    graded at completion
// 7. follow_ups - Tracked outbound messages tied to an interview
// 8. campaigns / outreaches / connections / goals - Networking records
// 9. discussions / challenges / referrals - Community rows with denormalized
//    counters incremented atomically by the counter store
// 10. documents - Resume/cover-letter blobs stored on disk, metadata here
