package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextFromTxt(t *testing.T) {
	extractor := NewTextExtractorService()

	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\nSoftware Engineer"), 0644))

	text, err := extractor.ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSoftware Engineer", text)
}

func TestExtractTextUppercaseExtension(t *testing.T) {
	extractor := NewTextExtractorService()

	path := filepath.Join(t.TempDir(), "cv.TXT")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	text, err := extractor.ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "content", text)
}

func TestExtractTextUnsupportedExtension(t *testing.T) {
	extractor := NewTextExtractorService()

	path := filepath.Join(t.TempDir(), "cv.odt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	_, err := extractor.ExtractText(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

func TestExtractTextMissingFile(t *testing.T) {
	extractor := NewTextExtractorService()

	_, err := extractor.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestSupportedExtensions(t *testing.T) {
	extractor := NewTextExtractorService()
	assert.Equal(t, []string{".pdf", ".docx", ".txt"}, extractor.SupportedExtensions())
}

func TestCleanText(t *testing.T) {
	input := "  Jane Doe  \n\n\n   Software Engineer\n\n"
	assert.Equal(t, "Jane Doe\nSoftware Engineer", CleanText(input))
}
