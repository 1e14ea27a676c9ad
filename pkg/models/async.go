package models

import (
	"time"
)

// JobStatus represents the lifecycle state of an enhancement job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// EnhanceJobResponse represents the immediate response from the enhance
// endpoint: a handle the caller polls for completion.
type EnhanceJobResponse struct {
	JobID     string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// EnhanceJobStatusResponse represents the response for job status queries.
// ResultArtifactRef is only set once the job has completed; failed jobs carry
// an error code from the enhancement error taxonomy.
type EnhanceJobStatusResponse struct {
	JobID             string     `json:"job_id"`
	ReportID          string     `json:"report_id,omitempty"`
	Status            JobStatus  `json:"status"`
	ResultArtifactRef string     `json:"result_artifact_ref,omitempty"`
	Error             string     `json:"error,omitempty"`
	ErrorCode         string     `json:"error_code,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	ProcessingTime    string     `json:"processing_time,omitempty"`
}

// EnhanceJobListResponse represents the response for listing jobs
type EnhanceJobListResponse struct {
	Success bool                       `json:"success"`
	Jobs    []EnhanceJobStatusResponse `json:"jobs"`
	Count   int                        `json:"count"`
}

// AsyncErrorResponse represents an error response for async operations
type AsyncErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	JobID     string    `json:"job_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateEnhanceJobResponse creates the accepted-for-processing response
func CreateEnhanceJobResponse(jobID string, status JobStatus, message string) *EnhanceJobResponse {
	return &EnhanceJobResponse{
		JobID:     jobID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// CreateAsyncErrorResponse creates an error response for async operations
func CreateAsyncErrorResponse(errorCode, message string, jobID ...string) *AsyncErrorResponse {
	response := &AsyncErrorResponse{
		Error:     errorCode,
		Message:   message,
		Timestamp: time.Now(),
	}

	if len(jobID) > 0 && jobID[0] != "" {
		response.JobID = jobID[0]
	}

	return response
}

// IsTerminal checks if the job has reached a terminal state
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// IsActive checks if the job is pending or running
func (s JobStatus) IsActive() bool {
	return s == JobStatusPending || s == JobStatusRunning
}
