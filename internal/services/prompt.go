package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the prompt for extracting structured
// attributes from a résumé.
func (pb *PromptBuilder) BuildAnalysisPrompt(cvText, taxonomyContext string) string {
	return fmt.Sprintf(`You are an expert HR analyst extracting structured information from a résumé.

REFERENCE SKILL TAXONOMY:
%s

RÉSUMÉ TEXT:
%s

Extract the candidate's profile from the résumé. Skill scores rate demonstrated proficiency from 0 to 100. Dates use ISO format (YYYY-MM-DD); when only month or year is known, use YYYY-MM or YYYY.

Return your response in the following JSON format:
{
  "profession": "<primary profession, e.g. 'Software Engineer'>",
  "experience_level": "<Junior|Mid-Level|Senior|Lead>",
  "skills": {"<skill name>": <0-100>, ...},
  "experience": [
    {"title": "<job title>", "company": "<company>", "start_date": "<date>", "end_date": "<date>"}
  ],
  "recommendations": ["<suggestion to improve the résumé>", ...]
}

Use the exact skill names from the reference taxonomy where they apply. If the profession or experience level cannot be determined, use "unrecognized".`,
		taxonomyContext, cvText)
}

// BuildMatchingPrompt creates the prompt for analyzing a résumé against
// a job description.
func (pb *PromptBuilder) BuildMatchingPrompt(cvText, jobDescription, taxonomyContext string) string {
	return fmt.Sprintf(`You are an expert HR analyst matching a résumé against a job description.

JOB DESCRIPTION:
%s

REFERENCE SKILL TAXONOMY:
%s

RÉSUMÉ TEXT:
%s

Extract the candidate's profile and rate how well it fits the job description. The relevance score is a number from 0 to 100 measuring overall fit. Missing skills are skills the job requires that the résumé does not demonstrate, scored by importance from 0 to 100. Dates use ISO format (YYYY-MM-DD).

Return your response in the following JSON format:
{
  "profession": "<primary profession>",
  "experience_level": "<Junior|Mid-Level|Senior|Lead>",
  "relevance_score": <0-100>,
  "skills": {"<skill name>": <0-100>, ...},
  "experience": [
    {"title": "<job title>", "company": "<company>", "start_date": "<date>", "end_date": "<date>"}
  ],
  "missing_skills": {"<skill name>": <importance 0-100>, ...},
  "recommendations": ["<concrete suggestion to close a gap>", ...]
}

Be objective. Justify scores only through what the résumé actually demonstrates. If the profession or experience level cannot be determined, use "unrecognized".`,
		jobDescription, taxonomyContext, cvText)
}

// FormatTaxonomyContext renders retrieved taxonomy entries as a prompt
// section, deduplicated by entry text.
func FormatTaxonomyContext(hits []TaxonomyHit) string {
	if len(hits) == 0 {
		return "(no reference taxonomy available)"
	}

	seen := make(map[string]bool)
	var b strings.Builder

	for _, hit := range hits {
		text := strings.TrimSpace(hit.Text)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("[%s]\n%s", hit.EntryType, text))
	}

	if b.Len() == 0 {
		return "(no reference taxonomy available)"
	}

	return b.String()
}
