// Package scoring holds the pure grading and aggregation logic: the
// mock-interview grader and the interview success-score aggregator. Both are
// stateless functions over already-fetched data; persistence and AI calls live
// in the service layer.
package scoring

import (
	"math"
	"strings"
)

// Grading weights. Fixed constants, not configurable.
const (
	weightQuality    = 0.50
	weightCompletion = 0.15
	weightLength     = 0.15
	weightStar       = 0.20

	// Word counts at or above this qualify a response for the quality set.
	qualityWordThreshold = 20

	// Average response length is scored against this target word count.
	targetAvgWords = 80
)

// lowEffortPhrases disqualify a response from the quality set when the
// response equals or contains any of them (case-insensitive).
var lowEffortPhrases = []string{
	"idk",
	"i don't know",
	"dont know",
	"no idea",
	"unsure",
	"?",
}

// starKeywords maps each STAR category to the substrings that mark it as
// present in a response (case-insensitive).
var starKeywords = map[string][]string{
	"situation": {"situation", "when", "while", "during", "faced", "at the time", "context"},
	"task":      {"task", "responsible", "goal", "objective", "needed to", "assigned", "my role"},
	"action":    {"action", "implemented", "developed", "created", "led", "organized", "designed", "built"},
	"result":    {"result", "increased", "decreased", "improved", "reduced", "achieved", "outcome", "%"},
}

// Response is one question/answer pair from a mock interview session
type Response struct {
	Question string
	Answer   string
}

// StarScores holds the per-category STAR adherence percentages
type StarScores struct {
	Situation float64 `json:"situation"`
	Task      float64 `json:"task"`
	Action    float64 `json:"action"`
	Result    float64 `json:"result"`
}

// Mean returns the average of the four category percentages
func (s StarScores) Mean() float64 {
	return (s.Situation + s.Task + s.Action + s.Result) / 4
}

// SessionGrade is the full grading output for a completed session
type SessionGrade struct {
	CompletionRate    float64 // Percentage of answered questions
	AvgResponseLength float64 // Mean whitespace-token count across all responses
	QualityRate       float64 // Percentage of responses in the quality set
	Star              StarScores
	OverallScore      int
	Strengths         []string
	Improvements      []string
}

// GradeSession grades a completed mock interview session purely from the
// response text. Zero questions produce zero rates, never NaN. The result is
// deterministic for a fixed input.
func GradeSession(responses []Response) SessionGrade {
	grade := SessionGrade{}
	total := len(responses)
	if total == 0 {
		grade.Improvements = append(grade.Improvements, "Start a practice session and answer a few questions to get feedback")
		return grade
	}

	answered := 0
	quality := 0
	totalWords := 0
	starHits := map[string]int{}

	for _, r := range responses {
		text := strings.TrimSpace(r.Answer)
		words := len(strings.Fields(text))
		totalWords += words

		if text != "" {
			answered++
		}
		if words >= qualityWordThreshold && !isLowEffort(text) {
			quality++
		}

		lower := strings.ToLower(text)
		for category, keywords := range starKeywords {
			if containsAny(lower, keywords) {
				starHits[category]++
			}
		}
	}

	grade.CompletionRate = percent(answered, total)
	grade.QualityRate = percent(quality, total)
	grade.AvgResponseLength = float64(totalWords) / float64(total)
	grade.Star = StarScores{
		Situation: percent(starHits["situation"], total),
		Task:      percent(starHits["task"], total),
		Action:    percent(starHits["action"], total),
		Result:    percent(starHits["result"], total),
	}

	lengthScore := math.Min(grade.AvgResponseLength/targetAvgWords, 1) * 100
	overall := weightQuality*grade.QualityRate +
		weightCompletion*grade.CompletionRate +
		weightLength*lengthScore +
		weightStar*grade.Star.Mean()
	grade.OverallScore = int(math.Round(overall))

	grade.Strengths, grade.Improvements = narrativeFeedback(grade)
	return grade
}

func isLowEffort(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range lowEffortPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// narrativeFeedback derives strengths and improvement suggestions from the
// computed metrics via fixed threshold rules.
func narrativeFeedback(g SessionGrade) (strengths, improvements []string) {
	if g.CompletionRate == 100 {
		strengths = append(strengths, "Completed all questions")
	} else {
		improvements = append(improvements, "Answer every question, even with a short response")
	}

	if g.QualityRate >= 70 {
		strengths = append(strengths, "Responses were detailed and substantive")
	} else if g.QualityRate < 50 {
		improvements = append(improvements, "Expand answers with concrete details and specific examples")
	}

	if g.Star.Mean() >= 60 {
		strengths = append(strengths, "Good use of structured storytelling across answers")
	} else if g.Star.Mean() < 50 {
		improvements = append(improvements, "Structure answers around Situation, Task, Action and Result")
	}

	if g.AvgResponseLength >= targetAvgWords {
		strengths = append(strengths, "Answers had strong depth and length")
	} else if g.AvgResponseLength < 40 {
		improvements = append(improvements, "Aim for fuller answers; most hiring managers expect a minute or two per response")
	}

	return strengths, improvements
}
