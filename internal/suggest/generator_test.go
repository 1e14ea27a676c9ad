package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/config"
	"resumatch/internal/scoring"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scoring.MaxKeywordSuggestions = 3
	cfg.Scoring.MaxContentSuggestions = 2
	return cfg
}

func TestSuggest_EmptySignals(t *testing.T) {
	gen := New(testConfig())

	set := gen.Suggest(nil, &scoring.Signals{})

	// Lists are present but empty; consumers rely on non-null arrays.
	require.NotNil(t, set.Keywords)
	require.NotNil(t, set.Formatting)
	require.NotNil(t, set.Content)
	assert.Empty(t, set.Keywords)
	assert.Empty(t, set.Formatting)
	assert.Empty(t, set.Content)
}

func TestSuggest_MissingTermsUseDisplayForm(t *testing.T) {
	gen := New(testConfig())

	set := gen.Suggest(nil, &scoring.Signals{
		MissingTerms: []scoring.MissingTerm{
			{Stem: "docker", Display: "Docker", Weight: 2},
			{Stem: "kubernet", Display: "Kubernetes", Weight: 1},
		},
	})

	assert.Equal(t, []string{"Docker", "Kubernetes"}, set.Keywords)
}

func TestSuggest_KeywordCapApplies(t *testing.T) {
	gen := New(testConfig())

	terms := []scoring.MissingTerm{
		{Stem: "a", Display: "A", Weight: 5},
		{Stem: "b", Display: "B", Weight: 4},
		{Stem: "c", Display: "C", Weight: 3},
		{Stem: "d", Display: "D", Weight: 2},
	}
	set := gen.Suggest(nil, &scoring.Signals{MissingTerms: terms})

	assert.Equal(t, []string{"A", "B", "C"}, set.Keywords)
}

func TestSuggest_FormattingOrderedByPenalty(t *testing.T) {
	gen := New(testConfig())

	set := gen.Suggest(nil, &scoring.Signals{
		Deductions: []scoring.Deduction{
			{Code: scoring.DeductMissingSkills, Penalty: 10},
			{Code: scoring.DeductNoHeadings, Penalty: 25},
			{Code: scoring.DeductMissingContact, Penalty: 15},
		},
	})

	require.Len(t, set.Formatting, 3)
	assert.Contains(t, set.Formatting[0], "headings")
	assert.Contains(t, set.Formatting[1], "contact")
	assert.Contains(t, set.Formatting[2], "skills")
}

func TestSuggest_ContentIssues(t *testing.T) {
	gen := New(testConfig())

	set := gen.Suggest(nil, &scoring.Signals{
		EntryIssues: []scoring.EntryIssue{
			{Excerpt: "Engineer - Acme - 2019", MissingQuantifier: true, MissingVerb: true},
			{Excerpt: "Engineer - Initech - 2016", MissingQuantifier: true},
		},
	})

	// Capped at two content suggestions; both come from the first entry.
	require.Len(t, set.Content, 2)
	assert.Contains(t, set.Content[0], "Quantify")
	assert.Contains(t, set.Content[0], "Acme")
	assert.Contains(t, set.Content[1], "action verb")
}

func TestSuggest_FallsBackToStemWithoutDisplay(t *testing.T) {
	gen := New(testConfig())

	set := gen.Suggest(nil, &scoring.Signals{
		MissingTerms: []scoring.MissingTerm{{Stem: "terraform", Weight: 1}},
	})

	assert.Equal(t, []string{"terraform"}, set.Keywords)
}
