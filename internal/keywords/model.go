package keywords

import (
	"regexp"
	"strings"

	"resumatch/internal/config"
	"resumatch/pkg/models"
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9+#.]*`)

// tokenize splits text on non-alphanumeric boundaries while keeping
// compound tech tokens ("c++", "c#", "node.js") intact. Trailing dots are
// sentence punctuation, not part of the token.
func tokenize(text string) []string {
	tokens := tokenPattern.FindAllString(text, -1)
	for i, t := range tokens {
		tokens[i] = strings.TrimRight(t, ".")
	}
	return tokens
}

// Model is the weighted keyword set extracted from a job posting. Weights is
// a mapping from stemmed term to weight; order is irrelevant to scoring, only
// magnitude matters. Display keeps the first surface form seen for each stem
// so suggestions can show "Docker" rather than its stem.
type Model struct {
	Weights map[string]float64 `json:"weights"`
	Display map[string]string  `json:"display"`
}

// IsEmpty reports whether the model has no weighted terms.
func (m *Model) IsEmpty() bool {
	return m == nil || len(m.Weights) == 0
}

// TotalWeight returns the sum of all term weights.
func (m *Model) TotalWeight() float64 {
	var total float64
	for _, w := range m.Weights {
		total += w
	}
	return total
}

// Builder extracts keyword models from job postings. Building is
// deterministic: identical title and description always yield an identical
// weight mapping.
type Builder struct {
	titleBonus float64
}

// NewBuilder creates a Builder with the configured title-term bonus.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{titleBonus: cfg.Scoring.TitleTermBonus}
}

// Build tokenizes the posting's description on non-alphanumeric boundaries,
// lowercases, drops stop words, stems and weights each surviving term by
// frequency. Terms also present in the title get the bonus multiplier; title
// terms absent from the description enter the model with one bonus-weighted
// occurrence.
func (b *Builder) Build(posting models.JobPosting) *Model {
	description := CleanDescription(posting.Description)

	model := &Model{
		Weights: make(map[string]float64),
		Display: make(map[string]string),
	}

	for _, token := range tokenize(description) {
		lower := strings.ToLower(token)
		if !isTerm(lower) {
			continue
		}
		stem := Stem(lower)
		model.Weights[stem]++
		if _, seen := model.Display[stem]; !seen {
			model.Display[stem] = token
		}
	}

	for _, token := range tokenize(posting.Title) {
		lower := strings.ToLower(token)
		if !isTerm(lower) {
			continue
		}
		stem := Stem(lower)
		if w, ok := model.Weights[stem]; ok {
			model.Weights[stem] = w * b.titleBonus
		} else {
			model.Weights[stem] = b.titleBonus
		}
		if _, seen := model.Display[stem]; !seen {
			model.Display[stem] = token
		}
	}

	return model
}

// TermCounts tokenizes arbitrary text with the same pipeline as Build and
// returns a stemmed term to count mapping. Used on the resume side so both
// sides collapse to identical stems.
func TermCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, token := range tokenize(text) {
		lower := strings.ToLower(token)
		if !isTerm(lower) {
			continue
		}
		counts[Stem(lower)]++
	}
	return counts
}

// isTerm filters out stop words, bare numbers and one-character noise.
func isTerm(lower string) bool {
	if len(lower) < 2 {
		return false
	}
	if isStopword(lower) {
		return false
	}
	allDigits := true
	for _, r := range lower {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	return !allDigits
}
