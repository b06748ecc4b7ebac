package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// Analysis is the persisted record of one asynchronous single-document
// analysis job. The structured result is stored as a JSON payload so the
// result endpoint can replay it without re-running the analyzer.
type Analysis struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID     uuid.UUID      `gorm:"type:uuid;not null" json:"document_id"`
	JobDescription string         `gorm:"type:text" json:"job_description,omitempty"`
	Status         AnalysisStatus `gorm:"not null;default:'queued'" json:"status"`
	ResultJSON     *string        `gorm:"type:text" json:"-"`
	ErrorMessage   *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
