package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}

type AnalyzeRequest struct {
	DocumentID     string `json:"document_id" validate:"required,uuid"`
	JobDescription string `json:"job_description,omitempty"`
}

type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Result       *AnalysisResult `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

type MatchResponse struct {
	Result          *AnalysisResult    `json:"result"`
	MatchScore      float64            `json:"match_score"`
	MissingSkills   map[string]float64 `json:"missing_skills,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
}
