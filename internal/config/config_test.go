package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "cv_analyzer", cfg.Database.DBName)
	assert.Equal(t, "cv_analyzer_taxonomy", cfg.Qdrant.Collection)
	assert.Equal(t, "./uploads", cfg.Storage.UploadPath)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
	assert.Equal(t, 3, cfg.Worker.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.Worker.RetryInitialDelay)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("WORKER_CONCURRENCY", "5")
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("RETRY_INITIAL_DELAY", "500ms")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Worker.Concurrency)
	assert.Equal(t, int64(1024), cfg.Storage.MaxFileSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Worker.RetryInitialDelay)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := Load()
	dsn := cfg.GetDatabaseDSN()

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=cv_analyzer")
	assert.Contains(t, dsn, "sslmode=disable")
}
