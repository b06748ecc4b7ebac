package models

import (
	"time"
)

// Unrecognized is the sentinel used when the analyzer cannot determine a
// profession or experience level from the document text.
const Unrecognized = "unrecognized"

// DaysPerYear approximates a year including leap years.
const DaysPerYear = 365.25

// dateLayouts accepted for experience entry dates, tried in order.
var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

type ExperienceEntry struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Duration returns the length of the entry in years, counting
// (end - start) in days divided by 365.25. It returns 0 when either
// date is missing or cannot be parsed.
func (e ExperienceEntry) Duration() float64 {
	start, ok := parseDate(e.StartDate)
	if !ok {
		return 0
	}
	end, ok := parseDate(e.EndDate)
	if !ok {
		return 0
	}
	days := end.Sub(start).Hours() / 24
	if days < 0 {
		return 0
	}
	return days / DaysPerYear
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AnalysisResult is the structured output of analyzing one document
// against an optional job description. Filename is attached by the
// caller after analysis, never by the analyzer itself.
type AnalysisResult struct {
	Filename        string             `json:"filename,omitempty"`
	Profession      string             `json:"profession"`
	ExperienceLevel string             `json:"experience_level"`
	RelevanceScore  float64            `json:"relevance_score"`
	Skills          map[string]float64 `json:"skills"`
	Experience      []ExperienceEntry  `json:"experience"`
	MissingSkills   map[string]float64 `json:"missing_skills,omitempty"`
	Recommendations []string           `json:"recommendations"`
}

// TotalExperienceYears sums the duration of every experience entry.
func (r *AnalysisResult) TotalExperienceYears() float64 {
	var total float64
	for _, exp := range r.Experience {
		total += exp.Duration()
	}
	return total
}

// OverviewRow is the tabular projection of one AnalysisResult used for
// the candidate overview table and its exports.
type OverviewRow struct {
	Rank            int     `json:"rank,omitempty"`
	Filename        string  `json:"filename"`
	Profession      string  `json:"profession"`
	ExperienceLevel string  `json:"experience_level"`
	RelevanceScore  float64 `json:"relevance_score"`
	SkillCount      int     `json:"skill_count"`
	ExperienceYears float64 `json:"experience_years"`
}

// NewOverviewRow projects a successful analysis result into a row.
func NewOverviewRow(result *AnalysisResult) OverviewRow {
	return OverviewRow{
		Filename:        result.Filename,
		Profession:      result.Profession,
		ExperienceLevel: result.ExperienceLevel,
		RelevanceScore:  result.RelevanceScore,
		SkillCount:      len(result.Skills),
		ExperienceYears: result.TotalExperienceYears(),
	}
}

// BatchDocument is one uploaded document queued for batch analysis.
type BatchDocument struct {
	Filename string
	Data     []byte
}

// BatchFailure records one document that could not be analyzed.
type BatchFailure struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// BatchReport holds everything produced by one batch run. It lives only
// for the duration of the request and is never persisted.
type BatchReport struct {
	Results       []*AnalysisResult `json:"results"`
	Failures      []BatchFailure    `json:"failures,omitempty"`
	Overview      []OverviewRow     `json:"overview"`
	Ranking       []OverviewRow     `json:"ranking,omitempty"`
	TopCandidates []OverviewRow     `json:"top_candidates,omitempty"`
}
