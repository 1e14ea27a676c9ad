package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resumatch/internal/config"
	"resumatch/internal/logging"
	"resumatch/pkg/models"
	"resumatch/pkg/utils"
)

// Supported MIME types for resume uploads
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// Extractor turns raw resume bytes into normalized plain text. Unreadable
// documents (empty text layer, parse failures) are returned with zero
// confidence rather than as errors so downstream stages can surface a
// "could not read resume" suggestion instead of crashing.
type Extractor struct {
	minTextChars int
	logger       logging.Logger
}

// New creates an Extractor using the configured minimum text threshold.
func New(cfg *config.Config) *Extractor {
	return &Extractor{
		minTextChars: cfg.Extractor.MinTextChars,
		logger:       logging.GetGlobalLogger(),
	}
}

// Extract produces a ResumeDocument from raw bytes and the declared MIME
// type. Only an unrecognized MIME type is an error.
func (e *Extractor) Extract(data []byte, declaredMime string) (*models.ResumeDocument, error) {
	var (
		text   string
		format models.SourceFormat
		err    error
	)

	switch normalizeMime(declaredMime) {
	case MimePDF:
		format = models.FormatPDF
		text, err = extractPDFText(data)
	case MimeDOCX:
		format = models.FormatDOCX
		text, err = extractDocxText(data)
	case MimeText:
		format = models.FormatText
		text = string(data)
	default:
		return nil, utils.NewUnsupportedFormatError("mime type: " + declaredMime)
	}

	doc := &models.ResumeDocument{
		SourceFormat: format,
	}

	if err != nil {
		e.logger.Warn("Resume extraction degraded", map[string]interface{}{
			"format": string(format),
			"error":  err.Error(),
		})
		doc.Confidence = 0
		return doc, nil
	}

	text = normalizeText(text)
	if len(text) < e.minTextChars {
		doc.ExtractedText = text
		doc.Confidence = 0
		return doc, nil
	}

	doc.ExtractedText = text
	doc.Confidence = 1.0
	return doc, nil
}

// extractPDFText reads the text layer page by page in document order. No OCR.
func extractPDFText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

// extractDocxText concatenates the document's text runs in order.
func extractDocxText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocxTags(doc.Editable().GetContent()), nil
}

// stripDocxTags removes the OOXML markup the docx library leaves in the
// editable content, keeping paragraph boundaries as newlines.
func stripDocxTags(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	var b strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeText canonicalizes line endings and trims trailing whitespace so
// sectionizing and scoring see the same text regardless of source format.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// normalizeMime lowers the declared type and drops any parameters
// (e.g. "; charset=utf-8").
func normalizeMime(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}
