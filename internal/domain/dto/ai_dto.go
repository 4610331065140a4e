package dto

type AnalyzeJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ScoreJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	JobID       *int64 `json:"jobId,omitempty"`
}
