package background

import (
	"context"
	"sync"
	"time"

	"resumatch/pkg/models"
)

// IdempotencyKey identifies the resume/job pair an enhancement belongs to.
// At most one non-failed job exists per key at a time.
type IdempotencyKey struct {
	ResumeID string
	JobID    string
}

// JobRecord is the persisted state of one enhancement job attempt.
type JobRecord struct {
	ID                string           `json:"id"`
	ReportID          string           `json:"report_id"`
	Key               IdempotencyKey   `json:"-"`
	Status            models.JobStatus `json:"status"`
	ResultArtifactRef string           `json:"result_artifact_ref,omitempty"`
	Error             string           `json:"error,omitempty"`
	ErrorCode         string           `json:"error_code,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	CompletedAt       *time.Time       `json:"completed_at,omitempty"`
	ProcessingTime    *time.Duration   `json:"processing_time,omitempty"`
}

// JobStore defines the interface for storing and retrieving job records
type JobStore interface {
	// Store stores a job record
	Store(ctx context.Context, record *JobRecord) error

	// Get retrieves a job record by id
	Get(ctx context.Context, jobID string) (*JobRecord, error)

	// Update updates a job record
	Update(ctx context.Context, record *JobRecord) error

	// Delete removes a job record
	Delete(ctx context.Context, jobID string) error

	// Cleanup removes terminal job records older than maxAge and reports
	// which ones were removed
	Cleanup(ctx context.Context, maxAge time.Duration) ([]*JobRecord, error)

	// List returns all job records (for monitoring)
	List(ctx context.Context) ([]*JobRecord, error)
}

// InMemoryJobStore implements JobStore using in-memory storage
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*JobRecord
}

// NewInMemoryJobStore creates a new in-memory job store
func NewInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs: make(map[string]*JobRecord),
	}
}

// Store stores a job record. Records are copied in so callers can keep
// mutating their own instance without racing readers.
func (s *InMemoryJobStore) Store(ctx context.Context, record *JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[record.ID] = copyRecord(record)
	return nil
}

// Get retrieves a job record by id
func (s *InMemoryJobStore) Get(ctx context.Context, jobID string) (*JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.jobs[jobID]
	if !exists {
		return nil, ErrJobNotFound
	}

	return copyRecord(record), nil
}

// Update updates a job record. Terminal records are frozen: once a job is
// Completed or Failed no later write may change its outcome.
func (s *InMemoryJobStore) Update(ctx context.Context, record *JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.jobs[record.ID]
	if !exists {
		return ErrJobNotFound
	}
	if existing.Status.IsTerminal() {
		return ErrJobTerminal
	}

	s.jobs[record.ID] = copyRecord(record)
	return nil
}

func copyRecord(record *JobRecord) *JobRecord {
	cp := *record
	return &cp
}

// Delete removes a job record
func (s *InMemoryJobStore) Delete(ctx context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[jobID]; !exists {
		return ErrJobNotFound
	}

	delete(s.jobs, jobID)
	return nil
}

// Cleanup removes terminal job records older than maxAge. Active jobs are
// never removed regardless of age.
func (s *InMemoryJobStore) Cleanup(ctx context.Context, maxAge time.Duration) ([]*JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)

	var removed []*JobRecord
	for jobID, record := range s.jobs {
		if record.Status.IsTerminal() && record.CreatedAt.Before(cutoff) {
			removed = append(removed, record)
			delete(s.jobs, jobID)
		}
	}

	return removed, nil
}

// List returns all job records (for monitoring)
func (s *InMemoryJobStore) List(ctx context.Context) ([]*JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*JobRecord, 0, len(s.jobs))
	for _, record := range s.jobs {
		records = append(records, copyRecord(record))
	}

	return records, nil
}

// Common errors
var (
	ErrJobNotFound = NewJobError("job not found")
	ErrJobTerminal = NewJobError("job already finished")
	ErrQueueFull   = NewJobError("job queue is full")
)

// JobError represents a background job error
type JobError struct {
	Message string
	Code    string
}

func NewJobError(message string) *JobError {
	return &JobError{
		Message: message,
		Code:    "JOB_ERROR",
	}
}

func (e *JobError) Error() string {
	return e.Message
}
