package analyzer

import (
	"sync"
	"time"

	"resumatch/internal/keywords"
	"resumatch/pkg/models"
)

// Analysis is the retained record of one analyze call: the immutable report
// plus the sectionized resume and keyword model the enhancement pipeline
// consumes later.
type Analysis struct {
	Report  models.Report
	Resume  *models.ResumeDocument
	Posting models.JobPosting
	Model   *keywords.Model
}

// Store keeps analysis records in memory, keyed by report id. Reports are
// immutable once stored.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Analysis
}

// NewStore creates an empty analysis store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*Analysis),
	}
}

// Put stores an analysis record.
func (s *Store) Put(analysis *Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[analysis.Report.ID] = analysis
}

// Get retrieves an analysis record by report id.
func (s *Store) Get(reportID string) (*Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analysis, ok := s.records[reportID]
	return analysis, ok
}

// Cleanup removes records older than maxAge.
func (s *Store) Cleanup(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, analysis := range s.records {
		if analysis.Report.CreatedAt.Before(cutoff) {
			delete(s.records, id)
		}
	}
}
