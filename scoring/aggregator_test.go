package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateWeights(t *testing.T) {
	tests := []struct {
		name     string
		in       Breakdown
		expected float64
	}{
		{
			name:     "all zero",
			in:       Breakdown{},
			expected: 0,
		},
		{
			name: "all 100",
			in: Breakdown{
				RoleMatchScore:       100,
				PreparationScore:     100,
				CompanyResearchScore: 100,
				PracticeScore:        100,
			},
			expected: 100,
		},
		{
			name: "mixed scores",
			in: Breakdown{
				RoleMatchScore:       80,
				PreparationScore:     60,
				CompanyResearchScore: 40,
				PracticeScore:        20,
			},
			// 0.35*80 + 0.25*60 + 0.20*40 + 0.20*20 = 28 + 15 + 8 + 4
			expected: 55,
		},
		{
			name: "rounded to two decimals",
			in: Breakdown{
				RoleMatchScore:       33.333,
				PreparationScore:     33.333,
				CompanyResearchScore: 33.333,
				PracticeScore:        33.333,
			},
			expected: 33.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.in, 5)
			assert.Equal(t, tt.expected, got.OverallProbability)
		})
	}
}

func TestAggregateClampsOutOfRangeScores(t *testing.T) {
	got := Aggregate(Breakdown{
		RoleMatchScore:       150,
		PreparationScore:     -30,
		CompanyResearchScore: 100,
		PracticeScore:        100,
	}, 5)

	// 0.35*100 + 0.25*0 + 0.20*100 + 0.20*100 = 75
	assert.Equal(t, 75.0, got.OverallProbability)
	assert.LessOrEqual(t, got.OverallProbability, 100.0)
	assert.GreaterOrEqual(t, got.OverallProbability, 0.0)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5))
	assert.Equal(t, 100.0, Clamp(250))
	assert.Equal(t, 42.5, Clamp(42.5))
}

func TestConfidenceLevels(t *testing.T) {
	tests := []struct {
		signals  int
		expected string
	}{
		{0, "low"},
		{1, "low"},
		{2, "medium"},
		{3, "medium"},
		{4, "high"},
		{5, "high"},
	}

	for _, tt := range tests {
		got := Aggregate(Breakdown{}, tt.signals)
		assert.Equal(t, tt.expected, got.ConfidenceLevel, "signals=%d", tt.signals)
	}
}

func TestPredictedOutcomeThresholds(t *testing.T) {
	tests := []struct {
		name     string
		in       Breakdown
		expected string
	}{
		{"70 is likely_success", uniform(70), "likely_success"},
		{"just under 70 is uncertain", uniform(69.99), "uncertain"},
		{"40 is uncertain", uniform(40), "uncertain"},
		{"just under 40 is at_risk", uniform(39.99), "at_risk"},
		{"zero is at_risk", uniform(0), "at_risk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.in, 5)
			assert.Equal(t, tt.expected, got.PredictedOutcome)
		})
	}
}

// uniform sets all four sub-scores to the same value, so the weighted
// overall equals that value.
func uniform(score float64) Breakdown {
	return Breakdown{
		RoleMatchScore:       score,
		PreparationScore:     score,
		CompanyResearchScore: score,
		PracticeScore:        score,
	}
}
