package sections

import (
	"regexp"
	"strings"

	"resumatch/pkg/models"
)

// headingPatterns maps canonical section kinds to the heading variants seen
// in real resumes. Matching is case-insensitive and tolerant of surrounding
// punctuation and decoration.
var headingPatterns = map[models.SectionKind][]string{
	models.SectionSummary: {
		"summary", "professional summary", "profile", "professional profile",
		"objective", "career objective", "about", "about me",
	},
	models.SectionExperience: {
		"experience", "work experience", "professional experience",
		"employment", "employment history", "work history", "career history",
	},
	models.SectionEducation: {
		"education", "academic background", "academics", "qualifications",
		"education & training",
	},
	models.SectionSkills: {
		"skills", "technical skills", "core competencies", "key skills",
		"skills & abilities", "technologies", "tech stack",
	},
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)

	// dateRangePattern matches "2019 - 2022", "Jan 2020 – Present",
	// "March 2018 to June 2021" and similar shapes.
	dateRangePattern = regexp.MustCompile(`(?i)\b(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?(?:19|20)\d{2}\s*(?:[-–—]|to)\s*(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?(?:(?:19|20)\d{2}|present|current|now)\b`)

	// entryHeaderPattern matches "Title — Organization — Date range" shaped
	// lines that open a new sub-entry inside experience/education blocks.
	entryHeaderPattern = regexp.MustCompile(`(?i)^.{2,80}\s+(?:[-–—|]|at)\s+.{2,80}\s+(?:[-–—|(]|,)\s*.*(?:19|20)\d{2}`)

	headingDecoration = " \t:#*=_-–—•·|"
)

// Sectionizer segments normalized resume text into semantic sections.
type Sectionizer struct{}

// New creates a Sectionizer.
func New() *Sectionizer {
	return &Sectionizer{}
}

// Sectionize scans the text top to bottom, splitting it at recognized section
// headings. Text before the first heading becomes a contact section when it
// contains an email- or phone-like token, otherwise a summary. When no
// headings are found at all, the whole text becomes one summary section.
func (s *Sectionizer) Sectionize(text string) []models.Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(text, "\n")

	type block struct {
		kind  models.SectionKind
		lines []string
	}

	var blocks []*block
	current := &block{kind: ""}

	for _, line := range lines {
		if kind, ok := detectHeading(line); ok {
			blocks = append(blocks, current)
			current = &block{kind: kind}
			continue
		}
		current.lines = append(current.lines, line)
	}
	blocks = append(blocks, current)

	// The leading block has no heading; classify it by content.
	sawHeading := len(blocks) > 1
	var sections []models.Section
	merged := make(map[models.SectionKind]int)

	for _, b := range blocks {
		body := strings.TrimSpace(strings.Join(b.lines, "\n"))
		kind := b.kind

		if kind == "" {
			if body == "" {
				continue
			}
			if !sawHeading {
				// Degenerate case: headingless resume.
				return []models.Section{{
					Kind:     models.SectionSummary,
					Text:     body,
					Position: 0,
				}}
			}
			if emailPattern.MatchString(body) || phonePattern.MatchString(body) {
				kind = models.SectionContact
			} else {
				kind = models.SectionSummary
			}
		}

		// Duplicate headings are retained by concatenating their bodies
		// under the first occurrence, preserving original order.
		if idx, ok := merged[kind]; ok {
			if body != "" {
				sections[idx].Text = strings.TrimSpace(sections[idx].Text + "\n\n" + body)
				sections[idx].Entries = splitEntries(sections[idx].Text, kind)
			}
			continue
		}

		sec := models.Section{
			Kind:     kind,
			Text:     body,
			Position: len(sections),
			Entries:  splitEntries(body, kind),
		}
		merged[kind] = len(sections)
		sections = append(sections, sec)
	}

	return sections
}

// detectHeading reports whether a line is a recognized section heading.
func detectHeading(line string) (models.SectionKind, bool) {
	trimmed := strings.Trim(line, headingDecoration)
	if trimmed == "" || len(trimmed) > 40 {
		return "", false
	}
	normalized := strings.ToLower(trimmed)

	for kind, patterns := range headingPatterns {
		for _, p := range patterns {
			if normalized == p {
				return kind, true
			}
		}
	}
	return "", false
}

// splitEntries splits experience and education bodies into sub-entries on
// blank-line boundaries or on title-organization-daterange shaped lines. Each
// entry keeps its raw text; further structuring is traded away for
// robustness. Other section kinds are not split.
func splitEntries(body string, kind models.SectionKind) []string {
	if kind != models.SectionExperience && kind != models.SectionEducation {
		return nil
	}
	if body == "" {
		return nil
	}

	var entries []string
	var current []string

	flush := func() {
		entry := strings.TrimSpace(strings.Join(current, "\n"))
		if entry != "" {
			entries = append(entries, entry)
		}
		current = nil
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if len(current) > 0 && entryHeaderPattern.MatchString(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return entries
}

// HasDateRange reports whether the text contains a date-range-shaped
// substring. Used by the formatting rubric for experience entries.
func HasDateRange(text string) bool {
	return dateRangePattern.MatchString(text)
}

// HasContactToken reports whether the text contains an email- or phone-like
// token.
func HasContactToken(text string) bool {
	return emailPattern.MatchString(text) || phonePattern.MatchString(text)
}
