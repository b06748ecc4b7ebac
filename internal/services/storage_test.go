package services

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTempKeepsExtension(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	path, err := storage.SaveTemp([]byte("%PDF-1.4 fake"), "Lebenslauf Müller.PDF")
	require.NoError(t, err)
	defer storage.RemoveTemp(path)

	assert.True(t, strings.HasSuffix(path, ".pdf"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestSaveTempUniquePaths(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	first, err := storage.SaveTemp([]byte("a"), "cv.pdf")
	require.NoError(t, err)
	defer storage.RemoveTemp(first)

	second, err := storage.SaveTemp([]byte("b"), "cv.pdf")
	require.NoError(t, err)
	defer storage.RemoveTemp(second)

	assert.NotEqual(t, first, second)
}

func TestRemoveTempIsIdempotent(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	path, err := storage.SaveTemp([]byte("data"), "cv.docx")
	require.NoError(t, err)

	storage.RemoveTemp(path)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Removing again must be a no-op
	storage.RemoveTemp(path)
	storage.RemoveTemp("")
}
