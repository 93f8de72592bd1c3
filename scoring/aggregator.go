package scoring

import "math"

// Sub-score weights for the overall success probability. Fixed constants.
const (
	weightRoleMatch       = 0.35
	weightPreparation     = 0.25
	weightCompanyResearch = 0.20
	weightPractice        = 0.20
)

// Number of watched signal sources feeding a prediction: job-match analysis,
// company research, mock sessions, question responses, preparation tasks.
const signalSourceCount = 5

// Breakdown carries the four sub-scores and narrative arrays returned by the
// AI relay. Only the combination arithmetic below is local logic.
type Breakdown struct {
	RoleMatchScore       float64  `json:"role_match_score"`
	PreparationScore     float64  `json:"preparation_score"`
	CompanyResearchScore float64  `json:"company_research_score"`
	PracticeScore        float64  `json:"practice_score"`
	StrengthAreas        []string `json:"strength_areas"`
	WeaknessAreas        []string `json:"weakness_areas"`
	PrioritizedActions   []string `json:"prioritized_actions"`
}

// Prediction is the locally combined result persisted as a snapshot row
type Prediction struct {
	OverallProbability float64
	ConfidenceLevel    string
	PredictedOutcome   string
}

// Aggregate combines the four sub-scores into an overall probability with
// fixed weights. Sub-scores are clamped to [0,100] before weighting.
// signalsAvailable is how many of the five watched sources had data and
// drives the confidence label.
func Aggregate(b Breakdown, signalsAvailable int) Prediction {
	overall := weightRoleMatch*clamp(b.RoleMatchScore) +
		weightPreparation*clamp(b.PreparationScore) +
		weightCompanyResearch*clamp(b.CompanyResearchScore) +
		weightPractice*clamp(b.PracticeScore)
	overall = math.Round(overall*100) / 100

	return Prediction{
		OverallProbability: overall,
		ConfidenceLevel:    confidenceLevel(signalsAvailable),
		PredictedOutcome:   predictedOutcome(overall),
	}
}

// Clamp normalizes an AI-provided sub-score into [0,100]; the relay's output
// schema requests that range but the boundary is validated here regardless.
func Clamp(score float64) float64 {
	return clamp(score)
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func confidenceLevel(signalsAvailable int) string {
	switch {
	case signalsAvailable >= 4:
		return "high"
	case signalsAvailable >= 2:
		return "medium"
	default:
		return "low"
	}
}

func predictedOutcome(overall float64) string {
	switch {
	case overall >= 70:
		return "likely_success"
	case overall >= 40:
		return "uncertain"
	default:
		return "at_risk"
	}
}
