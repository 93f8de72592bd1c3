package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		values   map[string]string
		expected string
	}{
		{
			name:     "single token",
			text:     "Thank you for your time at [COMPANY_NAME].",
			values:   map[string]string{"COMPANY_NAME": "Acme"},
			expected: "Thank you for your time at Acme.",
		},
		{
			name:     "every occurrence of a repeated token",
			text:     "[NAME] spoke with [NAME] about [ROLE].",
			values:   map[string]string{"NAME": "Jordan", "ROLE": "staff engineer"},
			expected: "Jordan spoke with Jordan about staff engineer.",
		},
		{
			name:     "missing token keeps literal form",
			text:     "Dear [INTERVIEWER_NAME], thanks for meeting.",
			values:   map[string]string{},
			expected: "Dear [INTERVIEWER_NAME], thanks for meeting.",
		},
		{
			name:     "blank value keeps literal form",
			text:     "Dear [INTERVIEWER_NAME],",
			values:   map[string]string{"INTERVIEWER_NAME": "   "},
			expected: "Dear [INTERVIEWER_NAME],",
		},
		{
			name:     "lower case brackets are not tokens",
			text:     "an [example] stays as is",
			values:   map[string]string{"example": "value"},
			expected: "an [example] stays as is",
		},
		{
			name:     "mixed case brackets stay literal even with a value",
			text:     "Hello [Name], welcome aboard.",
			values:   map[string]string{"Name": "Jordan"},
			expected: "Hello [Name], welcome aboard.",
		},
		{
			name:     "no tokens at all",
			text:     "plain text",
			values:   map[string]string{"ANY": "thing"},
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fill(tt.text, tt.values))
		})
	}
}

func TestTokens(t *testing.T) {
	text := "Hi [NAME], about the [ROLE] role at [COMPANY_NAME]. Best, [NAME]"
	assert.Equal(t, []string{"NAME", "ROLE", "COMPANY_NAME"}, Tokens(text))
	assert.Nil(t, Tokens("no placeholders here"))
}
