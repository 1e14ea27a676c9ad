package models

// AnalyzeRequest represents the JSON request payload for the analyze endpoint.
// ResumeData is base64-encoded in transit; the same endpoint also accepts a
// multipart upload which is converted into this shape by the handler.
type AnalyzeRequest struct {
	ResumeID   string     `json:"resume_id,omitempty"`
	ResumeData []byte     `json:"resume_data" validate:"required"`
	MimeType   string     `json:"mime_type" validate:"required"`
	Job        JobPosting `json:"job" validate:"required"`
}

// EnhanceRequest represents the request payload for starting an enhancement
// job for a previously completed analysis.
type EnhanceRequest struct {
	ResumeID string `json:"resume_id" validate:"required"`
	JobID    string `json:"job_id" validate:"required"`
	ReportID string `json:"report_id" validate:"required"`
	// Force starts a fresh attempt even when a completed job already exists
	// for the (resume_id, job_id) pair.
	Force bool `json:"force,omitempty"`
}
