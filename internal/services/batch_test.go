package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-analyzer/internal/models"
)

// scriptedAnalyzer reads the staged file back and interprets its
// content: a body starting with "ERR" fails, anything else is decoded
// as an AnalysisResult. It also records every path it was handed so
// tests can check cleanup.
type scriptedAnalyzer struct {
	seenPaths []string
}

func (s *scriptedAnalyzer) AnalyzeFile(ctx context.Context, path string, jobDescription string) (*models.AnalysisResult, error) {
	s.seenPaths = append(s.seenPaths, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AnalysisError{Path: path, Msg: "failed to extract text", Err: err}
	}

	if strings.HasPrefix(string(data), "ERR") {
		return nil, &AnalysisError{Path: path, Msg: "failed to extract text"}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &AnalysisError{Path: path, Msg: "failed to parse analysis response", Err: err}
	}
	return &result, nil
}

func (s *scriptedAnalyzer) ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}

func (s *scriptedAnalyzer) ExportResults(result *models.AnalysisResult, format string) ([]byte, error) {
	return nil, fmt.Errorf("not supported in tests")
}

func resultDoc(t *testing.T, filename string, score float64) models.BatchDocument {
	t.Helper()
	data, err := json.Marshal(&models.AnalysisResult{
		Profession:     "Software Engineer",
		RelevanceScore: score,
		Skills:         map[string]float64{"Go": 80},
	})
	require.NoError(t, err)
	return models.BatchDocument{Filename: filename, Data: data}
}

func failingDoc(filename string) models.BatchDocument {
	return models.BatchDocument{Filename: filename, Data: []byte("ERR broken document")}
}

func newBatchFixture() (BatchService, *scriptedAnalyzer, DebuggerService) {
	analyzer := &scriptedAnalyzer{}
	debugger := NewDebuggerService()
	batch := NewBatchService(analyzer, NewStorageService(os.TempDir()), debugger)
	return batch, analyzer, debugger
}

func TestBatchRun_FailureIsolation(t *testing.T) {
	batch, _, debugger := newBatchFixture()

	docs := []models.BatchDocument{
		resultDoc(t, "alice.pdf", 40),
		failingDoc("bob.docx"),
		resultDoc(t, "carol.pdf", 70),
	}

	report, err := batch.Run(context.Background(), docs, "", nil)
	require.NoError(t, err)

	// One failing document does not abort the batch and the surviving
	// results keep input order
	require.Len(t, report.Results, 2)
	assert.Equal(t, "alice.pdf", report.Results[0].Filename)
	assert.Equal(t, "carol.pdf", report.Results[1].Filename)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "bob.docx", report.Failures[0].Filename)
	assert.NotEmpty(t, report.Failures[0].Message)

	require.Len(t, report.Overview, 2)
	assert.Equal(t, "alice.pdf", report.Overview[0].Filename)

	errorEntries := debugger.GetErrorSummary()
	require.Len(t, errorEntries, 1)
	assert.Equal(t, "batch_analysis_bob.docx", errorEntries[0].Context)
}

func TestBatchRun_TempFilesRemoved(t *testing.T) {
	batch, analyzer, _ := newBatchFixture()

	docs := []models.BatchDocument{
		resultDoc(t, "alice.pdf", 50),
		failingDoc("bob.pdf"),
	}

	_, err := batch.Run(context.Background(), docs, "", nil)
	require.NoError(t, err)

	require.Len(t, analyzer.seenPaths, 2)
	for _, path := range analyzer.seenPaths {
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "temp file %s should be removed", path)
	}
}

func TestBatchRun_TempFileSuffixMatchesOriginal(t *testing.T) {
	batch, analyzer, _ := newBatchFixture()

	docs := []models.BatchDocument{
		resultDoc(t, "alice.PDF", 50),
		resultDoc(t, "bob.docx", 60),
	}

	_, err := batch.Run(context.Background(), docs, "", nil)
	require.NoError(t, err)

	require.Len(t, analyzer.seenPaths, 2)
	assert.True(t, strings.HasSuffix(analyzer.seenPaths[0], ".pdf"))
	assert.True(t, strings.HasSuffix(analyzer.seenPaths[1], ".docx"))
}

func TestBatchRun_RankingOrderAndTopCandidates(t *testing.T) {
	batch, _, _ := newBatchFixture()

	docs := []models.BatchDocument{
		resultDoc(t, "low.pdf", 40),
		resultDoc(t, "high.pdf", 90),
		resultDoc(t, "mid.pdf", 70),
	}

	report, err := batch.Run(context.Background(), docs, "golang backend role", nil)
	require.NoError(t, err)

	require.Len(t, report.Ranking, 3)
	assert.Equal(t, []float64{90, 70, 40}, []float64{
		report.Ranking[0].RelevanceScore,
		report.Ranking[1].RelevanceScore,
		report.Ranking[2].RelevanceScore,
	})
	assert.Equal(t, 1, report.Ranking[0].Rank)
	assert.Equal(t, 2, report.Ranking[1].Rank)
	assert.Equal(t, 3, report.Ranking[2].Rank)

	// Overview keeps input order even when a ranking exists
	assert.Equal(t, "low.pdf", report.Overview[0].Filename)

	require.Len(t, report.TopCandidates, 3)
	assert.Equal(t, "high.pdf", report.TopCandidates[0].Filename)
}

func TestBatchRun_RankingIsStable(t *testing.T) {
	batch, _, _ := newBatchFixture()

	docs := []models.BatchDocument{
		resultDoc(t, "first.pdf", 50),
		resultDoc(t, "second.pdf", 50),
		resultDoc(t, "third.pdf", 50),
	}

	report, err := batch.Run(context.Background(), docs, "any role", nil)
	require.NoError(t, err)

	require.Len(t, report.Ranking, 3)
	assert.Equal(t, "first.pdf", report.Ranking[0].Filename)
	assert.Equal(t, "second.pdf", report.Ranking[1].Filename)
	assert.Equal(t, "third.pdf", report.Ranking[2].Filename)
}

func TestBatchRun_TopCandidatesNeverExceedResultCount(t *testing.T) {
	batch, _, _ := newBatchFixture()

	docs := []models.BatchDocument{
		resultDoc(t, "a.pdf", 10),
		resultDoc(t, "b.pdf", 20),
	}

	report, err := batch.Run(context.Background(), docs, "any role", nil)
	require.NoError(t, err)

	assert.Len(t, report.TopCandidates, 2)
}

func TestBatchRun_NoRankingWithoutJobDescription(t *testing.T) {
	batch, _, _ := newBatchFixture()

	report, err := batch.Run(context.Background(), []models.BatchDocument{
		resultDoc(t, "a.pdf", 10),
	}, "", nil)
	require.NoError(t, err)

	assert.Nil(t, report.Ranking)
	assert.Nil(t, report.TopCandidates)
}

func TestBatchRun_RecordsDurationMetric(t *testing.T) {
	batch, _, debugger := newBatchFixture()

	_, err := batch.Run(context.Background(), []models.BatchDocument{
		resultDoc(t, "a.pdf", 10),
	}, "", nil)
	require.NoError(t, err)

	metrics := debugger.GetPerformanceMetrics()
	require.Len(t, metrics, 1)
	assert.Equal(t, "batch_analysis_duration", metrics[0].Metric)
	assert.GreaterOrEqual(t, metrics[0].Value, 0.0)
}

func TestBatchRun_ProgressReachesFinalStep(t *testing.T) {
	batch, _, _ := newBatchFixture()

	type step struct {
		current, total int
		filename       string
	}
	var steps []step

	docs := []models.BatchDocument{
		resultDoc(t, "a.pdf", 10),
		failingDoc("b.pdf"),
		resultDoc(t, "c.pdf", 30),
	}

	_, err := batch.Run(context.Background(), docs, "", func(current, total int, filename string) {
		steps = append(steps, step{current, total, filename})
	})
	require.NoError(t, err)

	require.Len(t, steps, 3)
	assert.Equal(t, step{1, 3, "a.pdf"}, steps[0])
	assert.Equal(t, step{3, 3, "c.pdf"}, steps[2])
}

func TestBatchRun_EmptyBatch(t *testing.T) {
	batch, _, _ := newBatchFixture()

	report, err := batch.Run(context.Background(), nil, "", nil)
	require.NoError(t, err)

	assert.Empty(t, report.Results)
	assert.Empty(t, report.Failures)
	assert.Empty(t, report.Overview)
}
