package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"alfredoptarigan/cv-analyzer/internal/models"
)

// AnalysisError is the fault returned when a document cannot be
// analyzed. It carries a human-readable message and the source path so
// callers can report the failure per document.
type AnalysisError struct {
	Path string
	Msg  string
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// CVAnalyzerService extracts structured attributes from a résumé file
// and optionally rates it against a job description.
type CVAnalyzerService interface {
	AnalyzeFile(ctx context.Context, path string, jobDescription string) (*models.AnalysisResult, error)
	ExtractText(path string) (string, error)
	ExportResults(result *models.AnalysisResult, format string) ([]byte, error)
}

type cvAnalyzerService struct {
	extractor     TextExtractorService
	geminiService GeminiService
	qdrantService QdrantService
	exporter      ExportService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewCVAnalyzerService(
	extractor TextExtractorService,
	geminiService GeminiService,
	qdrantService QdrantService,
	exporter ExportService,
	maxRetries int,
) CVAnalyzerService {
	return &cvAnalyzerService{
		extractor:     extractor,
		geminiService: geminiService,
		qdrantService: qdrantService,
		exporter:      exporter,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// AnalyzeFile implements CVAnalyzerService.
func (a *cvAnalyzerService) AnalyzeFile(ctx context.Context, path string, jobDescription string) (*models.AnalysisResult, error) {
	cvText, err := a.extractor.ExtractText(path)
	if err != nil {
		return nil, &AnalysisError{Path: path, Msg: "failed to extract text", Err: err}
	}
	cvText = CleanText(cvText)

	taxonomyContext, err := a.retrieveContext(ctx, cvText)
	if err != nil {
		log.Printf("⚠️  Warning: failed to retrieve taxonomy context: %v\n", err)
		taxonomyContext = ""
	}

	var prompt string
	if jobDescription != "" {
		prompt = a.promptBuilder.BuildMatchingPrompt(cvText, jobDescription, taxonomyContext)
	} else {
		prompt = a.promptBuilder.BuildAnalysisPrompt(cvText, taxonomyContext)
	}

	response, err := a.geminiService.GenerateTextWithRetry(ctx, prompt, 0.3, a.maxRetries)
	if err != nil {
		return nil, &AnalysisError{Path: path, Msg: "failed to generate analysis", Err: err}
	}

	var result models.AnalysisResult
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, &AnalysisError{Path: path, Msg: "failed to parse analysis response", Err: err}
	}

	normalizeResult(&result)
	return &result, nil
}

// ExtractText implements CVAnalyzerService. Used for standalone
// job-description ingestion.
func (a *cvAnalyzerService) ExtractText(path string) (string, error) {
	text, err := a.extractor.ExtractText(path)
	if err != nil {
		return "", &AnalysisError{Path: path, Msg: "failed to extract text", Err: err}
	}
	return CleanText(text), nil
}

// ExportResults implements CVAnalyzerService.
func (a *cvAnalyzerService) ExportResults(result *models.AnalysisResult, format string) ([]byte, error) {
	switch format {
	case "csv":
		return a.exporter.ResultCSV(result)
	case "excel":
		return a.exporter.ResultExcel(result)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func (a *cvAnalyzerService) retrieveContext(ctx context.Context, queryText string) (string, error) {
	embedding, err := a.geminiService.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	var allHits []TaxonomyHit
	for _, entryType := range []string{"skill_taxonomy", "job_description"} {
		hits, err := a.qdrantService.SearchSimilar(ctx, embedding, entryType, 3)
		if err != nil {
			log.Printf("⚠️  Failed to search for %s: %v\n", entryType, err)
			continue
		}
		allHits = append(allHits, hits...)
	}

	return FormatTaxonomyContext(allHits), nil
}

// normalizeResult fills sentinels for missing fields and clamps the
// relevance score into [0, 100].
func normalizeResult(result *models.AnalysisResult) {
	if strings.TrimSpace(result.Profession) == "" {
		result.Profession = models.Unrecognized
	}
	if strings.TrimSpace(result.ExperienceLevel) == "" {
		result.ExperienceLevel = models.Unrecognized
	}
	if result.RelevanceScore < 0 {
		result.RelevanceScore = 0
	}
	if result.RelevanceScore > 100 {
		result.RelevanceScore = 100
	}
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object or array boundaries
	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
