package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// starAnswer hits all four STAR categories and, padded, clears the quality
// word threshold: 24 words, none from the low-effort list.
const starAnswer = "When I was responsible for leading this project, I implemented a new process that increased efficiency by 30% and improved our overall delivery speed"

func TestGradeSessionDeterministic(t *testing.T) {
	responses := []Response{
		{Question: "Tell me about yourself", Answer: starAnswer},
		{Question: "Describe a conflict", Answer: "I talked it through with my teammate"},
		{Question: "Why this company", Answer: ""},
	}

	first := GradeSession(responses)
	for i := 0; i < 10; i++ {
		again := GradeSession(responses)
		assert.Equal(t, first, again, "grading must be deterministic across repeated calls")
	}
}

func TestGradeSessionZeroQuestions(t *testing.T) {
	grade := GradeSession(nil)

	assert.Equal(t, 0.0, grade.CompletionRate)
	assert.Equal(t, 0.0, grade.QualityRate)
	assert.Equal(t, 0.0, grade.AvgResponseLength)
	assert.Equal(t, 0, grade.OverallScore)
	assert.NotEmpty(t, grade.Improvements)
}

func TestQualityWordBoundary(t *testing.T) {
	tests := []struct {
		name    string
		words   int
		quality bool
	}{
		{"19 words is below the boundary", 19, false},
		{"20 words is counted as quality", 20, true},
		{"21 words is counted as quality", 21, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := strings.TrimSpace(strings.Repeat("word ", tt.words))
			require.Len(t, strings.Fields(answer), tt.words)

			grade := GradeSession([]Response{{Question: "q", Answer: answer}})
			if tt.quality {
				assert.Equal(t, 100.0, grade.QualityRate)
			} else {
				assert.Equal(t, 0.0, grade.QualityRate)
			}
		})
	}
}

func TestLowEffortPhrasesCaseInsensitive(t *testing.T) {
	// Long enough to pass the word threshold, so only the stoplist excludes it
	padding := strings.Repeat("detail ", 20)

	tests := []struct {
		name   string
		answer string
	}{
		{"mixed case phrase", "I Don't Know " + padding},
		{"upper case idk", "IDK " + padding},
		{"embedded phrase", padding + " honestly no idea about that " + padding},
		{"question mark", padding + " maybe?"},
		{"unsure", padding + " I am Unsure here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grade := GradeSession([]Response{{Question: "q", Answer: tt.answer}})
			assert.Equal(t, 0.0, grade.QualityRate, "stoplist phrases must exclude a response from the quality set")
		})
	}
}

func TestStarScoringReferenceSentence(t *testing.T) {
	sentence := "When I was responsible for leading this project, I implemented a new process that increased efficiency by 30%"

	grade := GradeSession([]Response{{Question: "q", Answer: sentence}})

	assert.Equal(t, 100.0, grade.Star.Situation)
	assert.Equal(t, 100.0, grade.Star.Task)
	assert.Equal(t, 100.0, grade.Star.Action)
	assert.Equal(t, 100.0, grade.Star.Result)
}

func TestGradeSessionEndToEnd(t *testing.T) {
	// 8 questions, 6 answered with the 24-word STAR answer, 2 unanswered.
	require.Len(t, strings.Fields(starAnswer), 24)

	responses := make([]Response, 0, 8)
	for i := 0; i < 6; i++ {
		responses = append(responses, Response{Question: "q", Answer: starAnswer})
	}
	responses = append(responses, Response{Question: "q7"}, Response{Question: "q8"})

	grade := GradeSession(responses)

	assert.Equal(t, 75.0, grade.CompletionRate)
	assert.Equal(t, 75.0, grade.QualityRate)
	assert.Equal(t, 18.0, grade.AvgResponseLength) // 6*24 words over 8 responses

	// Each STAR category hits on 6 of 8 responses
	assert.Equal(t, 75.0, grade.Star.Situation)
	assert.Equal(t, 75.0, grade.Star.Mean())

	// 0.50*75 + 0.15*75 + 0.15*min(18/80,1)*100 + 0.20*75
	// = 37.5 + 11.25 + 3.375 + 15 = 67.125 -> 67
	assert.Equal(t, 67, grade.OverallScore)
}

func TestNarrativeFeedbackRules(t *testing.T) {
	t.Run("full completion reports a strength", func(t *testing.T) {
		grade := GradeSession([]Response{{Question: "q", Answer: starAnswer}})
		assert.Contains(t, grade.Strengths, "Completed all questions")
	})

	t.Run("missed questions report an improvement", func(t *testing.T) {
		grade := GradeSession([]Response{
			{Question: "q1", Answer: starAnswer},
			{Question: "q2", Answer: ""},
		})
		assert.NotContains(t, grade.Strengths, "Completed all questions")
		assert.Contains(t, grade.Improvements, "Answer every question, even with a short response")
	})

	t.Run("low quality rate reports an improvement", func(t *testing.T) {
		grade := GradeSession([]Response{
			{Question: "q1", Answer: "too short"},
			{Question: "q2", Answer: "also short"},
		})
		assert.Contains(t, grade.Improvements, "Expand answers with concrete details and specific examples")
	})
}
