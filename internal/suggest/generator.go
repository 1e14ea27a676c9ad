package suggest

import (
	"fmt"
	"sort"

	"resumatch/internal/config"
	"resumatch/internal/keywords"
	"resumatch/internal/scoring"
	"resumatch/pkg/models"
)

// DegradedExtractionSuggestion is the single high-priority suggestion
// surfaced when the resume text could not be read at all.
const DegradedExtractionSuggestion = "Resume text could not be read. Avoid scanned images and export your resume with selectable text."

// deductionMessages maps each formatting deduction code to its suggestion.
// One suggestion per triggered deduction: the list is empty at a perfect
// formatting score, and resolving any entry raises it.
var deductionMessages = map[string]string{
	scoring.DeductMissingContact:    "Add a contact section with your email and phone number",
	scoring.DeductMissingSkills:     "Add a skills section listing your core technologies",
	scoring.DeductNoHeadings:        "Use standard section headings (Summary, Experience, Education, Skills)",
	scoring.DeductDenseBlock:        "Break the dense text block into separate sections with headings",
	scoring.DeductEntryMissingDates: "Add date ranges to your experience entries",
}

// Generator derives categorized suggestions from the scoring signals. It is
// a read-only view over the scoring computation, never an independent
// judgment, so suggestions and scores cannot drift apart.
type Generator struct {
	maxKeyword int
	maxContent int
}

// New creates a Generator with the configured suggestion caps.
func New(cfg *config.Config) *Generator {
	return &Generator{
		maxKeyword: cfg.Scoring.MaxKeywordSuggestions,
		maxContent: cfg.Scoring.MaxContentSuggestions,
	}
}

// Suggest builds the suggestion set for a scored resume. Lists are ordered by
// descending impact on the corresponding sub-score.
func (g *Generator) Suggest(model *keywords.Model, signals *scoring.Signals) models.SuggestionSet {
	set := models.SuggestionSet{
		Keywords:   []string{},
		Formatting: []string{},
		Content:    []string{},
	}
	if signals == nil {
		return set
	}

	// Missing terms arrive sorted by descending job weight.
	for i, term := range signals.MissingTerms {
		if i >= g.maxKeyword {
			break
		}
		display := term.Display
		if display == "" {
			display = term.Stem
		}
		set.Keywords = append(set.Keywords, display)
	}

	// Larger penalties first: resolving them moves the score the most.
	deductions := make([]scoring.Deduction, len(signals.Deductions))
	copy(deductions, signals.Deductions)
	sort.SliceStable(deductions, func(i, j int) bool {
		return deductions[i].Penalty > deductions[j].Penalty
	})
	for _, d := range deductions {
		if msg, ok := deductionMessages[d.Code]; ok {
			set.Formatting = append(set.Formatting, msg)
		}
	}

	for _, issue := range signals.EntryIssues {
		if len(set.Content) >= g.maxContent {
			break
		}
		if issue.MissingQuantifier {
			set.Content = append(set.Content, fmt.Sprintf("Quantify the impact of %q", issue.Excerpt))
		}
		if len(set.Content) >= g.maxContent {
			break
		}
		if issue.MissingVerb {
			set.Content = append(set.Content, fmt.Sprintf("Start the bullets under %q with a strong action verb", issue.Excerpt))
		}
	}

	return set
}
