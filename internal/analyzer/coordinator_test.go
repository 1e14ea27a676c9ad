package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/config"
	"resumatch/internal/suggest"
	"resumatch/pkg/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Extractor.MinTextChars = 50
	cfg.Scoring.KeywordWeight = 0.5
	cfg.Scoring.FormattingWeight = 0.25
	cfg.Scoring.ContentWeight = 0.25
	cfg.Scoring.MaxKeywordSuggestions = 10
	cfg.Scoring.MaxContentSuggestions = 10
	cfg.Scoring.TitleTermBonus = 2.0
	return cfg
}

const testResume = `Jane Doe
jane@example.com | (555) 123-4567

Summary
Backend engineer focused on cloud infrastructure.

Experience
Senior Engineer - Acme Corp - 2019 - 2022
- Led migration of Python services to AWS
- Reduced deploy times by 40%

Skills
Go, Python, AWS`

var testPosting = models.JobPosting{
	Title:       "Python Engineer",
	Company:     "Acme Corp",
	Description: "We are looking for a Python engineer with AWS and Docker experience.",
}

func TestAnalyze_ProducesReport(t *testing.T) {
	c := New(testConfig(), nil)

	report, err := c.Analyze(context.Background(), "res-1", []byte(testResume), "text/plain", testPosting)
	require.NoError(t, err)

	assert.Equal(t, "res-1", report.ResumeID)
	assert.NotEmpty(t, report.JobID)
	assert.NotEmpty(t, report.ID)

	// Docker is the only job term absent from the resume.
	assert.Equal(t, []string{"Docker"}, report.Suggestions.Keywords)
	assert.Equal(t, 75, report.KeywordScore)
	assert.Equal(t, 100, report.FormattingScore)

	// Scores stay in range and the combined score reflects the weights.
	for _, s := range []int{report.ATSScore, report.KeywordScore,
		report.FormattingScore, report.ContentScore} {
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	c := New(testConfig(), nil)

	first, err := c.Analyze(context.Background(), "res-1", []byte(testResume), "text/plain", testPosting)
	require.NoError(t, err)
	second, err := c.Analyze(context.Background(), "res-1", []byte(testResume), "text/plain", testPosting)
	require.NoError(t, err)

	assert.Equal(t, first.ScoreBreakdown, second.ScoreBreakdown)
	assert.Equal(t, first.Suggestions, second.Suggestions)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAnalyze_RejectsShortDescription(t *testing.T) {
	c := New(testConfig(), nil)

	_, err := c.Analyze(context.Background(), "", []byte(testResume), "text/plain",
		models.JobPosting{Description: "too short"})
	assert.Error(t, err)
}

func TestAnalyze_RejectsUnsupportedMime(t *testing.T) {
	c := New(testConfig(), nil)

	_, err := c.Analyze(context.Background(), "", []byte(testResume), "image/png", testPosting)
	assert.Error(t, err)
}

func TestAnalyze_DegradedExtraction(t *testing.T) {
	c := New(testConfig(), nil)

	report, err := c.Analyze(context.Background(), "res-2", []byte("tiny"), "text/plain", testPosting)
	require.NoError(t, err)

	assert.Equal(t, 0, report.KeywordScore)
	assert.Equal(t, 0, report.ContentScore)
	assert.Equal(t, []string{suggest.DegradedExtractionSuggestion}, report.Suggestions.Formatting)
	assert.Empty(t, report.Suggestions.Keywords)
	assert.Empty(t, report.Suggestions.Content)
}

func TestAnalyze_DefaultsIdentifiers(t *testing.T) {
	c := New(testConfig(), nil)

	report, err := c.Analyze(context.Background(), "", []byte(testResume), "text/plain", testPosting)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ResumeID)
	assert.Len(t, report.JobID, 16)
}

func TestAnalyze_StoresAnalysisRecord(t *testing.T) {
	c := New(testConfig(), nil)

	report, err := c.Analyze(context.Background(), "res-3", []byte(testResume), "text/plain", testPosting)
	require.NoError(t, err)

	analysis, ok := c.Store().Get(report.ID)
	require.True(t, ok)
	assert.Equal(t, report.ID, analysis.Report.ID)
	assert.Equal(t, "res-3", analysis.Resume.ID)
	assert.NotNil(t, analysis.Model)
}
