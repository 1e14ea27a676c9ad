package models

import "time"

// SourceFormat identifies the original format of an uploaded resume
type SourceFormat string

const (
	FormatPDF  SourceFormat = "pdf"
	FormatDOCX SourceFormat = "docx"
	FormatText SourceFormat = "text"
)

// SectionKind identifies the semantic kind of a resume section
type SectionKind string

const (
	SectionContact    SectionKind = "contact"
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
)

// Section represents one semantic section of a resume, in document order
type Section struct {
	Kind     SectionKind `json:"kind"`
	Text     string      `json:"text"`
	Position int         `json:"position"`
	Entries  []string    `json:"entries,omitempty"` // sub-entries for experience/education
}

// ResumeDocument is the normalized form of an uploaded resume. It is
// immutable once extraction has completed.
type ResumeDocument struct {
	ID            string       `json:"id"`
	SourceFormat  SourceFormat `json:"source_format"`
	ExtractedText string       `json:"extracted_text"`
	Confidence    float64      `json:"extraction_confidence"` // 0..1
	Sections      []Section    `json:"sections"`
}

// JobPosting represents the job side of an analysis. Title and Company are
// optional; Description is the raw posting text and may contain HTML.
type JobPosting struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description" validate:"required,min=20"`
}

// ScoreBreakdown holds the four sub-scores of an analysis. ATSScore is always
// the weighted combination of the other three and is never set independently.
type ScoreBreakdown struct {
	ATSScore        int `json:"ats_score"`
	KeywordScore    int `json:"keyword_score"`
	FormattingScore int `json:"formatting_score"`
	ContentScore    int `json:"content_score"`
}

// SuggestionSet groups suggestions by the sub-score they would improve.
// Each list is ordered by descending impact.
type SuggestionSet struct {
	Keywords   []string `json:"keywords"`
	Formatting []string `json:"formatting"`
	Content    []string `json:"content"`
}

// Report is the immutable result of one analyze call. The (ResumeID, JobID)
// pair is not unique across reports; re-analysis creates a new report.
// ScoreBreakdown is embedded so the four score fields serialize flat next
// to the suggestions, which is the shape consumers read.
type Report struct {
	ID       string `json:"id"`
	ResumeID string `json:"resume_id"`
	JobID    string `json:"job_id"`
	ScoreBreakdown
	Suggestions SuggestionSet `json:"suggestions"`
	CreatedAt   time.Time     `json:"created_at"`
}
