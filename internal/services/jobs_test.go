package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-analyzer/internal/models"
)

// memoryAnalysisRepo and memoryDocumentRepo back job tests without a
// database.
type memoryAnalysisRepo struct {
	analysis *models.Analysis
	status   models.AnalysisStatus
	result   string
	errorMsg string
}

func (m *memoryAnalysisRepo) Create(analysis *models.Analysis) error {
	m.analysis = analysis
	return nil
}

func (m *memoryAnalysisRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	if m.analysis == nil || m.analysis.ID != id {
		return nil, assert.AnError
	}
	return m.analysis, nil
}

func (m *memoryAnalysisRepo) UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error {
	m.status = status
	return nil
}

func (m *memoryAnalysisRepo) UpdateResult(id uuid.UUID, resultJSON string) error {
	m.result = resultJSON
	m.status = models.StatusCompleted
	return nil
}

func (m *memoryAnalysisRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	m.errorMsg = errorMsg
	m.status = models.StatusFailed
	return nil
}

func (m *memoryAnalysisRepo) FindPendingJobs(limit int) ([]models.Analysis, error) {
	return nil, nil
}

type memoryDocumentRepo struct {
	doc     *models.Document
	deleted bool
}

func (m *memoryDocumentRepo) Create(document *models.Document) error {
	m.doc = document
	return nil
}

func (m *memoryDocumentRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	if m.doc == nil || m.doc.ID != id {
		return nil, assert.AnError
	}
	return m.doc, nil
}

func (m *memoryDocumentRepo) Delete(id uuid.UUID) error {
	m.deleted = true
	return nil
}

func newJobFixture(t *testing.T, content []byte) (JobService, *memoryAnalysisRepo, *memoryDocumentRepo, string, uuid.UUID) {
	t.Helper()

	uploadDir := t.TempDir()
	storedName := "cv_" + uuid.New().String() + ".pdf"
	storedPath := filepath.Join(uploadDir, storedName)
	require.NoError(t, os.WriteFile(storedPath, content, 0644))

	docRepo := &memoryDocumentRepo{doc: &models.Document{
		ID:               uuid.New(),
		Filename:         storedName,
		OriginalFileName: "alice.pdf",
		FilePath:         storedPath,
	}}
	analysisRepo := &memoryAnalysisRepo{analysis: &models.Analysis{
		ID:         uuid.New(),
		DocumentID: docRepo.doc.ID,
		Status:     models.StatusQueued,
	}}

	job := NewJobService(
		analysisRepo,
		docRepo,
		&scriptedAnalyzer{},
		NewStorageService(uploadDir),
		NewDebuggerService(),
	)
	return job, analysisRepo, docRepo, storedPath, analysisRepo.analysis.ID
}

func TestProcessAnalysis_DeletesUploadAfterCompletion(t *testing.T) {
	data, err := json.Marshal(&models.AnalysisResult{
		Profession:     "Data Scientist",
		RelevanceScore: 80,
	})
	require.NoError(t, err)

	job, analysisRepo, docRepo, storedPath, analysisID := newJobFixture(t, data)

	require.NoError(t, job.ProcessAnalysis(context.Background(), analysisID))

	assert.Equal(t, models.StatusCompleted, analysisRepo.status)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(analysisRepo.result), &result))
	assert.Equal(t, "alice.pdf", result.Filename)

	_, statErr := os.Stat(storedPath)
	assert.True(t, os.IsNotExist(statErr), "stored upload should be removed once the result is persisted")
	assert.True(t, docRepo.deleted, "document record should be removed once the result is persisted")
}

func TestProcessAnalysis_KeepsUploadOnFailure(t *testing.T) {
	job, analysisRepo, docRepo, storedPath, analysisID := newJobFixture(t, []byte("ERR broken document"))

	require.Error(t, job.ProcessAnalysis(context.Background(), analysisID))

	assert.Equal(t, models.StatusFailed, analysisRepo.status)
	assert.NotEmpty(t, analysisRepo.errorMsg)

	_, statErr := os.Stat(storedPath)
	assert.NoError(t, statErr, "failed analyses keep the upload for inspection")
	assert.False(t, docRepo.deleted)
}
