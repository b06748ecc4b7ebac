package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"alfredoptarigan/cv-analyzer/internal/models"
)

// topCandidateLimit bounds the highlighted subset of the ranking.
const topCandidateLimit = 3

// ProgressFunc reports batch progress as 1-of-N steps. It is called
// once per document before its analysis starts and reaches (N, N) on
// the last document.
type ProgressFunc func(current, total int, filename string)

// BatchService drives the analyzer over an ordered list of uploaded
// documents, collects per-document results tagged with their original
// filenames, and aggregates them into an overview and optional ranking.
// A document that fails analysis is reported and skipped; it never
// aborts the batch.
type BatchService interface {
	Run(ctx context.Context, docs []models.BatchDocument, jobDescription string, progress ProgressFunc) (*models.BatchReport, error)
}

type batchService struct {
	analyzer CVAnalyzerService
	storage  StorageService
	debugger DebuggerService
}

func NewBatchService(
	analyzer CVAnalyzerService,
	storage StorageService,
	debugger DebuggerService,
) BatchService {
	return &batchService{
		analyzer: analyzer,
		storage:  storage,
		debugger: debugger,
	}
}

// Run implements BatchService. Documents are analyzed strictly one at a
// time in input order, so the result sequence matches the relative
// order of the non-failing inputs. Every temporary file staged for the
// batch is removed exactly once, on all exit paths.
func (b *batchService) Run(ctx context.Context, docs []models.BatchDocument, jobDescription string, progress ProgressFunc) (*models.BatchReport, error) {
	type stagedDoc struct {
		path     string
		filename string
	}

	var tempPaths []string
	defer func() {
		for _, path := range tempPaths {
			b.storage.RemoveTemp(path)
		}
	}()

	// Stage every document before analyzing; a staging fault is a
	// batch-level failure, not a per-document one.
	staged := make([]stagedDoc, 0, len(docs))
	for _, doc := range docs {
		path, err := b.storage.SaveTemp(doc.Data, doc.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to stage %s: %w", doc.Filename, err)
		}
		tempPaths = append(tempPaths, path)
		staged = append(staged, stagedDoc{path: path, filename: doc.Filename})
	}

	report := &models.BatchReport{}
	start := time.Now()

	for i, doc := range staged {
		if progress != nil {
			progress(i+1, len(staged), doc.filename)
		}
		log.Printf("🔄 Analyzing %s (%d/%d)\n", doc.filename, i+1, len(staged))

		result, err := b.analyzer.AnalyzeFile(ctx, doc.path, jobDescription)
		if err != nil {
			log.Printf("❌ Failed to analyze %s: %v\n", doc.filename, err)
			b.debugger.LogError(err, "batch_analysis_"+doc.filename)
			report.Failures = append(report.Failures, models.BatchFailure{
				Filename: doc.filename,
				Message:  err.Error(),
			})
			continue
		}

		// The filename belongs to the orchestrator, not the analyzer
		result.Filename = doc.filename
		report.Results = append(report.Results, result)
	}

	b.debugger.LogPerformanceMetric("batch_analysis_duration", time.Since(start).Seconds())
	log.Printf("✅ Batch analysis of %d files completed (%d failed)\n", len(report.Results), len(report.Failures))

	report.Overview = buildOverview(report.Results)
	if jobDescription != "" {
		report.Ranking = rankCandidates(report.Overview)
		report.TopCandidates = topCandidates(report.Ranking)
	}

	return report, nil
}

func buildOverview(results []*models.AnalysisResult) []models.OverviewRow {
	rows := make([]models.OverviewRow, 0, len(results))
	for _, result := range results {
		rows = append(rows, models.NewOverviewRow(result))
	}
	return rows
}

// rankCandidates sorts overview rows descending by relevance score and
// assigns 1-based ranks. The sort is stable, so rows with equal scores
// keep their input relative order.
func rankCandidates(overview []models.OverviewRow) []models.OverviewRow {
	ranking := make([]models.OverviewRow, len(overview))
	copy(ranking, overview)

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].RelevanceScore > ranking[j].RelevanceScore
	})

	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	return ranking
}

func topCandidates(ranking []models.OverviewRow) []models.OverviewRow {
	n := min(topCandidateLimit, len(ranking))
	top := make([]models.OverviewRow, n)
	copy(top, ranking[:n])
	return top
}
