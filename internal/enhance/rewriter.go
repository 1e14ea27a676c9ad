package enhance

import (
	"context"
	"strings"

	"resumatch/internal/analyzer"
	"resumatch/internal/logging"
	"resumatch/pkg/models"
	"resumatch/pkg/utils"
)

// sectionHeadings are the canonical headings emitted into rewritten resumes.
var sectionHeadings = map[models.SectionKind]string{
	models.SectionContact:    "Contact",
	models.SectionSummary:    "Summary",
	models.SectionExperience: "Experience",
	models.SectionEducation:  "Education",
	models.SectionSkills:     "Skills",
}

// Rewriter produces an enhanced resume text from a completed analysis. The
// rewrite is deterministic and best-effort: mechanically resolvable
// suggestions (missing headings, missing keyword terms) are applied as
// textual transforms; everything else becomes a structural TODO marker for
// the candidate.
type Rewriter struct {
	logger logging.Logger
}

// NewRewriter creates a Rewriter.
func NewRewriter() *Rewriter {
	return &Rewriter{logger: logging.GetGlobalLogger()}
}

// Rewrite builds the enhanced document for the analysis. An analysis whose
// extraction produced no readable text cannot be rewritten and fails with an
// extraction-degraded error.
func (r *Rewriter) Rewrite(ctx context.Context, analysis *analyzer.Analysis) ([]byte, error) {
	resume := analysis.Resume
	if resume == nil || resume.Confidence == 0 {
		return nil, &utils.CustomError{
			Code:      422,
			ErrorCode: utils.CodeExtractionDegraded,
			Message:   "Enhancement failed",
			Detail:    "resume text could not be extracted",
		}
	}

	report := analysis.Report
	var b strings.Builder

	present := make(map[models.SectionKind]bool)
	for _, sec := range resume.Sections {
		present[sec.Kind] = true
	}

	// A missing contact block cannot be fabricated; leave a marker at the
	// top where it belongs.
	if !present[models.SectionContact] {
		b.WriteString(sectionHeadings[models.SectionContact])
		b.WriteString("\n[TODO: add your email and phone number]\n\n")
	}

	for _, sec := range resume.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b.WriteString(sectionHeadings[sec.Kind])
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(sec.Text))
		b.WriteString("\n")

		if sec.Kind == models.SectionSkills && len(report.Suggestions.Keywords) > 0 {
			b.WriteString(missingKeywordLine(report.Suggestions.Keywords))
			b.WriteString("\n")
		}

		if sec.Kind == models.SectionExperience {
			for _, suggestion := range report.Suggestions.Content {
				b.WriteString("[TODO: ")
				b.WriteString(suggestion)
				b.WriteString("]\n")
			}
		}

		b.WriteString("\n")
	}

	// Appending a skills line with the top missing terms is the one keyword
	// gap that is mechanically closable.
	if !present[models.SectionSkills] {
		b.WriteString(sectionHeadings[models.SectionSkills])
		b.WriteString("\n")
		if len(report.Suggestions.Keywords) > 0 {
			b.WriteString(missingKeywordLine(report.Suggestions.Keywords))
			b.WriteString("\n")
		} else {
			b.WriteString("[TODO: list your core skills]\n")
		}
		b.WriteString("\n")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Info("Resume rewrite completed", map[string]interface{}{
		"report_id":      report.ID,
		"resume_id":      report.ResumeID,
		"missing_terms":  len(report.Suggestions.Keywords),
		"content_gaps":   len(report.Suggestions.Content),
		"rewritten_size": b.Len(),
	})

	return []byte(strings.TrimSpace(b.String()) + "\n"), nil
}

func missingKeywordLine(terms []string) string {
	return strings.Join(terms, ", ")
}
