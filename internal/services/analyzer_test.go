package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-analyzer/internal/models"
)

func TestParseJSONResponse_MarkdownWrapped(t *testing.T) {
	response := "Here is the analysis:\n```json\n{\"profession\": \"Software Engineer\", \"relevance_score\": 75, \"skills\": {\"Go\": 80}}\n```\nLet me know if you need more."

	var result models.AnalysisResult
	require.NoError(t, parseJSONResponse(response, &result))

	assert.Equal(t, "Software Engineer", result.Profession)
	assert.Equal(t, 75.0, result.RelevanceScore)
	assert.Equal(t, map[string]float64{"Go": 80}, result.Skills)
}

func TestParseJSONResponse_Invalid(t *testing.T) {
	var result models.AnalysisResult
	err := parseJSONResponse("the model refused to answer", &result)
	require.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare object",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "object with surrounding prose",
			input:    "Sure! {\"a\": 1} Hope that helps.",
			expected: `{"a": 1}`,
		},
		{
			name:     "array",
			input:    "```json\n[1, 2, 3]\n```",
			expected: "[1, 2, 3]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSON(tt.input))
		})
	}
}

func TestNormalizeResult(t *testing.T) {
	result := &models.AnalysisResult{RelevanceScore: 140}
	normalizeResult(result)

	assert.Equal(t, models.Unrecognized, result.Profession)
	assert.Equal(t, models.Unrecognized, result.ExperienceLevel)
	assert.Equal(t, 100.0, result.RelevanceScore)

	negative := &models.AnalysisResult{
		Profession:      "Software Engineer",
		ExperienceLevel: "Senior",
		RelevanceScore:  -5,
	}
	normalizeResult(negative)

	assert.Equal(t, "Software Engineer", negative.Profession)
	assert.Equal(t, 0.0, negative.RelevanceScore)
}

func TestFormatTaxonomyContext(t *testing.T) {
	assert.Equal(t, "(no reference taxonomy available)", FormatTaxonomyContext(nil))

	hits := []TaxonomyHit{
		{EntryType: "skill_taxonomy", Text: "Go, Python, Rust"},
		{EntryType: "skill_taxonomy", Text: "Go, Python, Rust"},
		{EntryType: "job_description", Text: "Backend engineer role"},
		{EntryType: "skill_taxonomy", Text: "   "},
	}

	formatted := FormatTaxonomyContext(hits)
	assert.Equal(t, "[skill_taxonomy]\nGo, Python, Rust\n\n[job_description]\nBackend engineer role", formatted)
}
