package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"resumatch/internal/config"
	"resumatch/internal/keywords"
	"resumatch/internal/sections"
	"resumatch/pkg/models"
	"resumatch/pkg/utils"
)

// Formatting deduction codes. Each triggered deduction maps to exactly one
// formatting suggestion, so the suggestion list is empty at a perfect score.
const (
	DeductMissingContact    = "missing_contact"
	DeductMissingSkills     = "missing_skills"
	DeductNoHeadings        = "no_headings"
	DeductDenseBlock        = "dense_block"
	DeductEntryMissingDates = "entry_missing_dates"
)

// Formatting rubric penalties
const (
	penaltyMissingContact = 15
	penaltyMissingSkills  = 10
	penaltyNoHeadings     = 25
	penaltyDenseBlock     = 10
	penaltyEntryDates     = 10
	penaltyEntryDatesCap  = 30
	denseBlockMinChars    = 1500
	summaryContentBonus   = 5
)

var (
	// quantifierPattern matches numbers adjacent to a unit, percent or
	// currency token: "40%", "$2M", "3x", "120ms", "500 users".
	quantifierPattern = regexp.MustCompile(`(?i)(?:[$€£]\s*\d[\d,.]*|\b\d[\d,.]*\s*(?:%|percent|k\b|m\b|x\b|ms\b|users?|customers?|clients?|requests?|hours?|days?|weeks?|months?|years?|million|billion|dollars?))`)

	bulletPrefixPattern = regexp.MustCompile(`^\s*(?:[-*•·‣▪]|\d+[.)])\s*`)
)

// MissingTerm is a job-side term absent from the resume, carrying its display
// form for suggestions.
type MissingTerm struct {
	Stem    string
	Display string
	Weight  float64
}

// Deduction is one triggered formatting rubric item.
type Deduction struct {
	Code    string
	Penalty int
	Count   int // non-zero for per-entry deductions
}

// EntryIssue describes a deficient experience entry.
type EntryIssue struct {
	Excerpt           string
	MissingQuantifier bool
	MissingVerb       bool
}

// Signals are the intermediate scoring signals. The suggestion generator is
// a read-only view over these, which guarantees that resolving a suggestion
// moves the corresponding sub-score.
type Signals struct {
	MissingTerms    []MissingTerm
	Deductions      []Deduction
	EntryIssues     []EntryIssue
	TotalBullets    int
	QuantifiedLines int
	StrongVerbLines int
}

// Weights combines the three sub-scores into the overall ATS score. The
// defaults (0.5 / 0.25 / 0.25) are the compatibility contract; they are
// configurable but not independently measured.
type Weights struct {
	Keyword    float64
	Formatting float64
	Content    float64
}

// Engine computes the four sub-scores for a sectionized resume against a job
// keyword model. It is stateless and safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine creates an Engine with the configured score weights.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		weights: Weights{
			Keyword:    cfg.Scoring.KeywordWeight,
			Formatting: cfg.Scoring.FormattingWeight,
			Content:    cfg.Scoring.ContentWeight,
		},
	}
}

// Score computes the breakdown for the resume. It never fails on malformed
// resume content; the worst case is a zero score. A nil keyword model is a
// programming error.
func (e *Engine) Score(doc *models.ResumeDocument, model *keywords.Model) (models.ScoreBreakdown, *Signals, error) {
	if model == nil {
		return models.ScoreBreakdown{}, nil, utils.NewPreconditionFailedError("keyword model is nil")
	}

	signals := &Signals{}

	keywordScore := e.scoreKeywords(doc, model, signals)
	formattingScore := e.scoreFormatting(doc, signals)
	contentScore := e.scoreContent(doc, signals)

	breakdown := models.ScoreBreakdown{
		KeywordScore:    keywordScore,
		FormattingScore: formattingScore,
		ContentScore:    contentScore,
	}
	breakdown.ATSScore = e.Combine(breakdown)

	return breakdown, signals, nil
}

// Combine computes the weighted overall score from the three sub-scores.
func (e *Engine) Combine(b models.ScoreBreakdown) int {
	sum := e.weights.Keyword + e.weights.Formatting + e.weights.Content
	combined := (e.weights.Keyword*float64(b.KeywordScore) +
		e.weights.Formatting*float64(b.FormattingScore) +
		e.weights.Content*float64(b.ContentScore)) / sum
	return clampScore(int(math.Round(combined)))
}

// scoreKeywords computes the fraction of job-weighted importance that appears
// anywhere in the resume at least once, scaled to [0,100]. An empty model
// scores 100: nothing to match against is never a penalty.
func (e *Engine) scoreKeywords(doc *models.ResumeDocument, model *keywords.Model, signals *Signals) int {
	if model.IsEmpty() {
		return 100
	}

	var resumeText strings.Builder
	for _, sec := range doc.Sections {
		resumeText.WriteString(sec.Text)
		resumeText.WriteString("\n")
	}
	counts := keywords.TermCounts(resumeText.String())

	total := model.TotalWeight()
	var covered float64
	for stem, weight := range model.Weights {
		if counts[stem] > 0 {
			covered += weight
		} else {
			signals.MissingTerms = append(signals.MissingTerms, MissingTerm{
				Stem:    stem,
				Display: model.Display[stem],
				Weight:  weight,
			})
		}
	}

	// Deterministic ordering: weight descending, then stem for ties.
	sort.Slice(signals.MissingTerms, func(i, j int) bool {
		if signals.MissingTerms[i].Weight != signals.MissingTerms[j].Weight {
			return signals.MissingTerms[i].Weight > signals.MissingTerms[j].Weight
		}
		return signals.MissingTerms[i].Stem < signals.MissingTerms[j].Stem
	})

	return clampScore(int(math.Round(covered / total * 100)))
}

// scoreFormatting applies the deduction rubric, starting at 100 and flooring
// at 0.
func (e *Engine) scoreFormatting(doc *models.ResumeDocument, signals *Signals) int {
	score := 100

	byKind := make(map[models.SectionKind]*models.Section)
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		if _, ok := byKind[sec.Kind]; !ok {
			byKind[sec.Kind] = sec
		}
	}

	deduct := func(code string, penalty, count int) {
		signals.Deductions = append(signals.Deductions, Deduction{Code: code, Penalty: penalty, Count: count})
		score -= penalty
	}

	noHeadings := len(doc.Sections) == 0 ||
		(len(doc.Sections) == 1 && doc.Sections[0].Kind == models.SectionSummary && len(doc.Sections[0].Entries) == 0)

	if noHeadings {
		deduct(DeductNoHeadings, penaltyNoHeadings, 0)
	}

	if byKind[models.SectionContact] == nil {
		deduct(DeductMissingContact, penaltyMissingContact, 0)
	}
	if byKind[models.SectionSkills] == nil {
		deduct(DeductMissingSkills, penaltyMissingSkills, 0)
	}

	if len(doc.Sections) == 1 && len(doc.Sections[0].Entries) == 0 &&
		len(doc.Sections[0].Text) > denseBlockMinChars {
		deduct(DeductDenseBlock, penaltyDenseBlock, 0)
	}

	if exp := byKind[models.SectionExperience]; exp != nil {
		undated := 0
		for _, entry := range exp.Entries {
			if !sections.HasDateRange(entry) {
				undated++
			}
		}
		if undated > 0 {
			penalty := undated * penaltyEntryDates
			if penalty > penaltyEntryDatesCap {
				penalty = penaltyEntryDatesCap
			}
			deduct(DeductEntryMissingDates, penalty, undated)
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

// scoreContent counts quantified-achievement markers and strong action verbs
// across bullet-like lines in experience entries.
func (e *Engine) scoreContent(doc *models.ResumeDocument, signals *Signals) int {
	var summaryPresent bool

	for _, sec := range doc.Sections {
		if sec.Kind == models.SectionSummary && strings.TrimSpace(sec.Text) != "" {
			summaryPresent = true
		}
		if sec.Kind != models.SectionExperience {
			continue
		}

		for _, entry := range sec.Entries {
			entryQuantified := false
			entryVerbed := false

			for _, line := range bulletLines(entry) {
				signals.TotalBullets++
				if quantifierPattern.MatchString(line) {
					signals.QuantifiedLines++
					entryQuantified = true
				}
				if startsWithStrongVerb(line) {
					signals.StrongVerbLines++
					entryVerbed = true
				}
			}

			if !entryQuantified || !entryVerbed {
				signals.EntryIssues = append(signals.EntryIssues, EntryIssue{
					Excerpt:           entryExcerpt(entry),
					MissingQuantifier: !entryQuantified,
					MissingVerb:       !entryVerbed,
				})
			}
		}
	}

	denominator := signals.TotalBullets
	if denominator < 1 {
		denominator = 1
	}
	score := 100 * (signals.QuantifiedLines + signals.StrongVerbLines) / denominator

	if summaryPresent {
		score += summaryContentBonus
	}

	return clampScore(score)
}

// bulletLines returns the achievement-bearing lines of an entry: bulleted
// lines when present, otherwise every non-empty line past the entry header.
func bulletLines(entry string) []string {
	lines := strings.Split(entry, "\n")

	var bulleted []string
	for _, line := range lines {
		if bulletPrefixPattern.MatchString(line) && strings.TrimSpace(bulletPrefixPattern.ReplaceAllString(line, "")) != "" {
			bulleted = append(bulleted, bulletPrefixPattern.ReplaceAllString(line, ""))
		}
	}
	if len(bulleted) > 0 {
		return bulleted
	}

	var plain []string
	for i, line := range lines {
		if i == 0 {
			continue // entry header line
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			plain = append(plain, trimmed)
		}
	}
	return plain
}

func startsWithStrongVerb(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(strings.Trim(fields[0], ".,;:"))
	return isStrongVerb(first)
}

// entryExcerpt returns the first line of an entry for use in suggestions.
func entryExcerpt(entry string) string {
	line := entry
	if idx := strings.IndexByte(entry, '\n'); idx >= 0 {
		line = entry[:idx]
	}
	line = strings.TrimSpace(line)
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
