package analyzer

import (
	"context"
	"strings"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/extract"
	"resumatch/internal/keywords"
	"resumatch/internal/logging"
	"resumatch/internal/scoring"
	"resumatch/internal/sections"
	"resumatch/internal/suggest"
	"resumatch/pkg/models"
	"resumatch/pkg/utils"
)

// MinDescriptionChars is the minimum length of a job description; anything
// shorter is rejected as invalid input rather than scored.
const MinDescriptionChars = 20

// Coordinator orchestrates extraction, sectionizing, keyword modeling,
// scoring and suggestion generation into the analyze operation. It holds no
// per-request mutable state beyond the write-once keyword cache and the
// analysis record store, so concurrent analyze calls are safe.
type Coordinator struct {
	extractor   *extract.Extractor
	sectionizer *sections.Sectionizer
	cache       *keywords.Cache
	engine      *scoring.Engine
	generator   *suggest.Generator
	store       *Store
	logger      logging.Logger
}

// New creates a Coordinator. redisClient may be nil when the cross-process
// keyword cache is disabled.
func New(cfg *config.Config, redisClient *utils.RedisClient) *Coordinator {
	return &Coordinator{
		extractor:   extract.New(cfg),
		sectionizer: sections.New(),
		cache:       keywords.NewCache(cfg, redisClient),
		engine:      scoring.NewEngine(cfg),
		generator:   suggest.New(cfg),
		store:       NewStore(),
		logger:      logging.GetGlobalLogger(),
	}
}

// Store exposes the analysis record store to the enhancement pipeline.
func (c *Coordinator) Store() *Store {
	return c.store
}

// Analyze runs the full scoring pipeline. It is synchronous and pure given
// its inputs: repeated calls with identical bytes, MIME type and posting
// yield identical scores and suggestions (ids and timestamps differ).
func (c *Coordinator) Analyze(ctx context.Context, resumeID string, resumeBytes []byte, mimeType string, posting models.JobPosting) (*models.Report, error) {
	if len(strings.TrimSpace(posting.Description)) < MinDescriptionChars {
		return nil, utils.NewInvalidInputError("job description must be at least 20 characters")
	}

	if resumeID == "" {
		resumeID = utils.GenerateRequestID()
	}
	if posting.ID == "" {
		posting.ID = utils.ContentHash(posting.Title + "\n" + posting.Description)[:16]
	}

	doc, err := c.extractor.Extract(resumeBytes, mimeType)
	if err != nil {
		return nil, err
	}
	doc.ID = resumeID
	doc.Sections = c.sectionizer.Sectionize(doc.ExtractedText)

	model := c.cache.Get(ctx, posting)

	breakdown, signals, err := c.engine.Score(doc, model)
	if err != nil {
		c.logger.Error("Score engine precondition failed", map[string]interface{}{
			"resume_id": resumeID,
			"job_id":    posting.ID,
			"error":     err.Error(),
		})
		return nil, err
	}

	suggestions := c.generator.Suggest(model, signals)

	if doc.Confidence == 0 {
		// Unreadable resume: formatting stays as computed, the keyword and
		// content scores floor at zero, and the suggestion set collapses to
		// the single high-priority read-failure hint.
		breakdown.KeywordScore = 0
		breakdown.ContentScore = 0
		breakdown.ATSScore = c.engine.Combine(breakdown)
		suggestions = models.SuggestionSet{
			Keywords:   []string{},
			Formatting: []string{suggest.DegradedExtractionSuggestion},
			Content:    []string{},
		}
	}

	report := models.Report{
		ID:             utils.GenerateReportID(),
		ResumeID:       resumeID,
		JobID:          posting.ID,
		ScoreBreakdown: breakdown,
		Suggestions:    suggestions,
		CreatedAt:      time.Now(),
	}

	c.store.Put(&Analysis{
		Report:  report,
		Resume:  doc,
		Posting: posting,
		Model:   model,
	})

	c.logger.Info("Analysis completed", map[string]interface{}{
		"report_id":   report.ID,
		"resume_id":   resumeID,
		"job_id":      posting.ID,
		"ats_score":   breakdown.ATSScore,
		"confidence":  doc.Confidence,
		"suggestions": len(suggestions.Keywords) + len(suggestions.Formatting) + len(suggestions.Content),
	})

	return &report, nil
}
