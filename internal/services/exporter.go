package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/cv-analyzer/internal/models"
)

var overviewHeader = []string{
	"filename",
	"profession",
	"experience_level",
	"relevance_score",
	"skill_count",
	"experience_years",
}

// ExportService assembles downloadable artifacts from analysis results.
// All artifacts are produced fully in memory; no export file persists
// past the request.
type ExportService interface {
	ResultJSON(result *models.AnalysisResult) ([]byte, error)
	ResultsJSON(results []*models.AnalysisResult) ([]byte, error)
	ResultCSV(result *models.AnalysisResult) ([]byte, error)
	ResultExcel(result *models.AnalysisResult) ([]byte, error)
	OverviewCSV(rows []models.OverviewRow) ([]byte, error)
	BatchExcel(rows []models.OverviewRow, results []*models.AnalysisResult) ([]byte, error)
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

// ResultJSON implements ExportService.
func (e *exportService) ResultJSON(result *models.AnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return data, nil
}

// ResultsJSON implements ExportService. The dump carries the raw result
// sequence verbatim, including the filename injected by the batch
// orchestrator, and round-trips through json.Unmarshal.
func (e *exportService) ResultsJSON(results []*models.AnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal results: %w", err)
	}
	return data, nil
}

// ResultCSV implements ExportService. One result is flattened into
// field/value records, with one record per skill, experience entry and
// recommendation.
func (e *exportService) ResultCSV(result *models.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"field", "value"},
		{"filename", result.Filename},
		{"profession", result.Profession},
		{"experience_level", result.ExperienceLevel},
		{"relevance_score", formatFloat(result.RelevanceScore)},
		{"experience_years", formatFloat(result.TotalExperienceYears())},
	}

	for _, skill := range sortedKeys(result.Skills) {
		records = append(records, []string{"skill:" + skill, formatFloat(result.Skills[skill])})
	}
	for _, skill := range sortedKeys(result.MissingSkills) {
		records = append(records, []string{"missing_skill:" + skill, formatFloat(result.MissingSkills[skill])})
	}
	for _, exp := range result.Experience {
		value := fmt.Sprintf("%s @ %s (%s - %s)", exp.Title, exp.Company, exp.StartDate, exp.EndDate)
		records = append(records, []string{"experience", value})
	}
	for _, rec := range result.Recommendations {
		records = append(records, []string{"recommendation", rec})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// ResultExcel implements ExportService.
func (e *exportService) ResultExcel(result *models.AnalysisResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Analysis"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	summaryRows := [][]interface{}{
		{"field", "value"},
		{"filename", result.Filename},
		{"profession", result.Profession},
		{"experience_level", result.ExperienceLevel},
		{"relevance_score", result.RelevanceScore},
		{"experience_years", result.TotalExperienceYears()},
	}
	if err := writeSheet(f, summary, summaryRows); err != nil {
		return nil, err
	}

	if len(result.Skills) > 0 {
		if err := addSkillSheet(f, "Skills", result.Skills); err != nil {
			return nil, err
		}
	}

	if len(result.Experience) > 0 {
		if err := addExperienceSheet(f, "Experience", result.Experience); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// OverviewCSV implements ExportService.
func (e *exportService) OverviewCSV(rows []models.OverviewRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{overviewHeader}
	for _, row := range rows {
		records = append(records, []string{
			row.Filename,
			row.Profession,
			row.ExperienceLevel,
			formatFloat(row.RelevanceScore),
			strconv.Itoa(row.SkillCount),
			formatFloat(row.ExperienceYears),
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// BatchExcel implements ExportService. The workbook holds an "Overview"
// sheet with the candidate table, then per candidate (in result order,
// 1-based index) a Candidate_<i>_Skills sheet when the result has
// skills and a Candidate_<i>_Experience sheet when it has experience.
func (e *exportService) BatchExcel(rows []models.OverviewRow, results []*models.AnalysisResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const overview = "Overview"
	if err := f.SetSheetName("Sheet1", overview); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	overviewRows := [][]interface{}{
		{"filename", "profession", "experience_level", "relevance_score", "skill_count", "experience_years"},
	}
	for _, row := range rows {
		overviewRows = append(overviewRows, []interface{}{
			row.Filename,
			row.Profession,
			row.ExperienceLevel,
			row.RelevanceScore,
			row.SkillCount,
			row.ExperienceYears,
		})
	}
	if err := writeSheet(f, overview, overviewRows); err != nil {
		return nil, err
	}

	for i, result := range results {
		if len(result.Skills) > 0 {
			name := fmt.Sprintf("Candidate_%d_Skills", i+1)
			if err := addSkillSheet(f, name, result.Skills); err != nil {
				return nil, err
			}
		}

		if len(result.Experience) > 0 {
			name := fmt.Sprintf("Candidate_%d_Experience", i+1)
			if err := addExperienceSheet(f, name, result.Experience); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func addSkillSheet(f *excelize.File, name string, skills map[string]float64) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	rows := [][]interface{}{{"skill", "score"}}
	// Map order is randomized, sort for deterministic artifacts
	for _, skill := range sortedKeys(skills) {
		rows = append(rows, []interface{}{skill, skills[skill]})
	}

	return writeSheet(f, name, rows)
}

func addExperienceSheet(f *excelize.File, name string, experience []models.ExperienceEntry) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	rows := [][]interface{}{{"title", "company", "start_date", "end_date", "duration_years"}}
	for _, exp := range experience {
		rows = append(rows, []interface{}{exp.Title, exp.Company, exp.StartDate, exp.EndDate, exp.Duration()})
	}

	return writeSheet(f, name, rows)
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
