package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/config"
	"resumatch/internal/keywords"
	"resumatch/internal/sections"
	"resumatch/pkg/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scoring.KeywordWeight = 0.5
	cfg.Scoring.FormattingWeight = 0.25
	cfg.Scoring.ContentWeight = 0.25
	cfg.Scoring.TitleTermBonus = 2.0
	return cfg
}

func docFromText(text string) *models.ResumeDocument {
	return &models.ResumeDocument{
		ExtractedText: text,
		Confidence:    1.0,
		Sections:      sections.New().Sectionize(text),
	}
}

func buildModel(t *testing.T, title, description string) *keywords.Model {
	t.Helper()
	return keywords.NewBuilder(testConfig()).Build(models.JobPosting{
		Title:       title,
		Description: description,
	})
}

const strongResume = `Jane Doe
jane@example.com | (555) 123-4567

Summary
Backend engineer focused on cloud infrastructure.

Experience
Senior Engineer - Acme Corp - 2019 - 2022
- Led migration of Python services to AWS
- Reduced deploy times by 40%

Education
BS Computer Science, State University, 2012 - 2016

Skills
Go, Python, AWS, Docker`

func TestScore_StrongResumeFullCoverage(t *testing.T) {
	engine := NewEngine(testConfig())
	model := buildModel(t, "Python Engineer",
		"We are looking for a Python engineer with AWS and Docker experience.")

	breakdown, signals, err := engine.Score(docFromText(strongResume), model)
	require.NoError(t, err)

	assert.Equal(t, 100, breakdown.KeywordScore)
	assert.Equal(t, 100, breakdown.FormattingScore)
	assert.Equal(t, 100, breakdown.ContentScore)
	assert.Equal(t, 100, breakdown.ATSScore)
	assert.Empty(t, signals.MissingTerms)
	assert.Empty(t, signals.Deductions)
}

func TestScore_MissingKeywordLowersCoverage(t *testing.T) {
	engine := NewEngine(testConfig())
	model := buildModel(t, "Python Engineer",
		"We are looking for a Python engineer with AWS and Docker experience.")

	resume := strings.ReplaceAll(strongResume, "Go, Python, AWS, Docker", "Go, Python, AWS")
	resume = strings.ReplaceAll(resume, "- Led migration of Python services to AWS",
		"- Led migration of Python services to AWS cloud")

	breakdown, signals, err := engine.Score(docFromText(resume), model)
	require.NoError(t, err)

	// python carries the doubled title weight; docker is the only miss:
	// covered 3 of 4 total weight.
	assert.Equal(t, 75, breakdown.KeywordScore)
	require.Len(t, signals.MissingTerms, 1)
	assert.Equal(t, "docker", signals.MissingTerms[0].Stem)
	assert.Equal(t, "Docker", signals.MissingTerms[0].Display)
}

func TestScore_EmptyModelScoresFull(t *testing.T) {
	engine := NewEngine(testConfig())
	model := buildModel(t, "", "   ")

	breakdown, signals, err := engine.Score(docFromText(strongResume), model)
	require.NoError(t, err)
	assert.Equal(t, 100, breakdown.KeywordScore)
	assert.Empty(t, signals.MissingTerms)
}

func TestScore_NilModelFails(t *testing.T) {
	engine := NewEngine(testConfig())
	_, _, err := engine.Score(docFromText(strongResume), nil)
	assert.Error(t, err)
}

func TestScore_HeadinglessResume(t *testing.T) {
	engine := NewEngine(testConfig())
	model := buildModel(t, "", "Python and AWS work.")

	doc := docFromText("I have worked with Python and AWS for a decade doing many things.")
	breakdown, signals, err := engine.Score(doc, model)
	require.NoError(t, err)

	// No headings, no contact, no skills section: 100-25-15-10.
	assert.Equal(t, 50, breakdown.FormattingScore)

	codes := make([]string, 0, len(signals.Deductions))
	for _, d := range signals.Deductions {
		codes = append(codes, d.Code)
	}
	assert.ElementsMatch(t, []string{DeductNoHeadings, DeductMissingContact, DeductMissingSkills}, codes)

	// No experience bullets, but the summary bonus applies.
	assert.Equal(t, 5, breakdown.ContentScore)
}

func TestScore_DenseBlockDeduction(t *testing.T) {
	engine := NewEngine(testConfig())
	model := buildModel(t, "", "Python.")

	doc := docFromText("python " + strings.Repeat("words and more words ", 100))
	breakdown, signals, err := engine.Score(doc, model)
	require.NoError(t, err)

	assert.Equal(t, 40, breakdown.FormattingScore)
	var sawDense bool
	for _, d := range signals.Deductions {
		if d.Code == DeductDenseBlock {
			sawDense = true
		}
	}
	assert.True(t, sawDense)
}

func TestScore_UndatedEntriesCapped(t *testing.T) {
	engine := NewEngine(testConfig())
	model := buildModel(t, "", "Python.")

	resume := `jane@example.com

Experience
Engineer at Acme
- built python tooling

Engineer at Initech
- shipped features

Engineer at Globex
- maintained services

Engineer at Hooli
- wrote code

Skills
Python`

	breakdown, signals, err := engine.Score(docFromText(resume), model)
	require.NoError(t, err)

	var dates *Deduction
	for i := range signals.Deductions {
		if signals.Deductions[i].Code == DeductEntryMissingDates {
			dates = &signals.Deductions[i]
		}
	}
	require.NotNil(t, dates)
	assert.Equal(t, 4, dates.Count)
	// Four undated entries would be 40, capped at 30.
	assert.Equal(t, 30, dates.Penalty)
	assert.Equal(t, 70, breakdown.FormattingScore)
}

func TestScore_ContentIssuesReported(t *testing.T) {
	engine := NewEngine(testConfig())
	model := buildModel(t, "", "Python.")

	resume := `jane@example.com

Experience
Engineer - Acme - 2019 - 2022
- Responsible for maintaining python systems
- Various other duties

Skills
Python`

	breakdown, signals, err := engine.Score(docFromText(resume), model)
	require.NoError(t, err)

	assert.Equal(t, 0, breakdown.ContentScore)
	assert.Equal(t, 2, signals.TotalBullets)
	require.Len(t, signals.EntryIssues, 1)
	assert.True(t, signals.EntryIssues[0].MissingQuantifier)
	assert.True(t, signals.EntryIssues[0].MissingVerb)
	assert.Contains(t, signals.EntryIssues[0].Excerpt, "Acme")
}

func TestCombine_WeightedAverage(t *testing.T) {
	engine := NewEngine(testConfig())

	got := engine.Combine(models.ScoreBreakdown{
		KeywordScore:    80,
		FormattingScore: 60,
		ContentScore:    40,
	})
	assert.Equal(t, 65, got)
}

func TestCombine_NonDefaultWeights(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.KeywordWeight = 1
	cfg.Scoring.FormattingWeight = 1
	cfg.Scoring.ContentWeight = 1
	engine := NewEngine(cfg)

	got := engine.Combine(models.ScoreBreakdown{
		KeywordScore:    90,
		FormattingScore: 30,
		ContentScore:    30,
	})
	assert.Equal(t, 50, got)
}

func TestScore_Deterministic(t *testing.T) {
	engine := NewEngine(testConfig())
	model := buildModel(t, "Python Engineer",
		"Python, AWS, Docker, Kubernetes and Terraform experience required.")

	doc := docFromText(strongResume)
	first, firstSignals, err := engine.Score(doc, model)
	require.NoError(t, err)
	second, secondSignals, err := engine.Score(doc, model)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSignals.MissingTerms, secondSignals.MissingTerms)
}
