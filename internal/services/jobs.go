package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/cv-analyzer/internal/models"
	"alfredoptarigan/cv-analyzer/internal/repositories"
)

// JobService executes one queued single-document analysis and persists
// its outcome.
type JobService interface {
	ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error
}

type jobService struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	analyzer     CVAnalyzerService
	storage      StorageService
	debugger     DebuggerService
}

func NewJobService(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	analyzer CVAnalyzerService,
	storage StorageService,
	debugger DebuggerService,
) JobService {
	return &jobService{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		analyzer:     analyzer,
		storage:      storage,
		debugger:     debugger,
	}
}

// ProcessAnalysis implements JobService.
func (j *jobService) ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	if err := j.analysisRepo.UpdateStatus(analysisID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting analysis for job ID: %s\n", analysisID)

	analysis, err := j.analysisRepo.FindByID(analysisID)
	if err != nil {
		j.analysisRepo.UpdateError(analysisID, err.Error())
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	doc, err := j.docRepo.FindByID(analysis.DocumentID)
	if err != nil {
		j.analysisRepo.UpdateError(analysisID, fmt.Sprintf("document not found: %v", err))
		return fmt.Errorf("failed to get document: %w", err)
	}

	start := time.Now()

	result, err := j.analyzer.AnalyzeFile(ctx, doc.FilePath, analysis.JobDescription)
	if err != nil {
		j.debugger.LogError(err, "cv_analysis")
		j.analysisRepo.UpdateError(analysisID, err.Error())
		return fmt.Errorf("failed to analyze document: %w", err)
	}

	metricName := "analysis_duration"
	if analysis.JobDescription != "" {
		metricName = "match_duration"
	}
	j.debugger.LogPerformanceMetric(metricName, time.Since(start).Seconds())

	result.Filename = doc.OriginalFileName

	payload, err := json.Marshal(result)
	if err != nil {
		j.analysisRepo.UpdateError(analysisID, err.Error())
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := j.analysisRepo.UpdateResult(analysisID, string(payload)); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	// The stored upload is only needed until its result is persisted.
	if err := j.storage.DeleteFile(doc.Filename); err != nil {
		log.Printf("⚠️ Failed to delete stored upload %s: %v\n", doc.Filename, err)
	}
	if err := j.docRepo.Delete(doc.ID); err != nil {
		log.Printf("⚠️ Failed to delete document record %s: %v\n", doc.ID, err)
	}

	log.Printf("✅ Analysis completed successfully for job ID: %s\n", analysisID)
	return nil
}
