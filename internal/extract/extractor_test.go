package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/config"
	"resumatch/pkg/models"
)

func testExtractor() *Extractor {
	cfg := &config.Config{}
	cfg.Extractor.MinTextChars = 50
	return New(cfg)
}

func TestExtract_PlainText(t *testing.T) {
	e := testExtractor()

	text := "Jane Doe\r\njane@example.com\r\n\r\nExperience\r\nSenior Engineer - Acme - 2019 - 2022"
	doc, err := e.Extract([]byte(text), "text/plain; charset=utf-8")
	require.NoError(t, err)

	assert.Equal(t, models.FormatText, doc.SourceFormat)
	assert.Equal(t, 1.0, doc.Confidence)
	// Line endings are canonicalized.
	assert.NotContains(t, doc.ExtractedText, "\r")
	assert.Contains(t, doc.ExtractedText, "Senior Engineer")
}

func TestExtract_UnsupportedMime(t *testing.T) {
	e := testExtractor()

	_, err := e.Extract([]byte("data"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image/png")
}

func TestExtract_ShortTextZeroConfidence(t *testing.T) {
	e := testExtractor()

	doc, err := e.Extract([]byte("too short"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, 0.0, doc.Confidence)
}

func TestExtract_CorruptPDFZeroConfidence(t *testing.T) {
	e := testExtractor()

	doc, err := e.Extract([]byte("definitely not a pdf file at all"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, models.FormatPDF, doc.SourceFormat)
	assert.Equal(t, 0.0, doc.Confidence)
}

func TestExtract_CorruptDocxZeroConfidence(t *testing.T) {
	e := testExtractor()

	doc, err := e.Extract([]byte("not a zip archive"),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.NoError(t, err)
	assert.Equal(t, models.FormatDOCX, doc.SourceFormat)
	assert.Equal(t, 0.0, doc.Confidence)
}

func TestNormalizeText(t *testing.T) {
	in := "line one  \r\nline two\t\r\rline three\x00\n\n"
	got := normalizeText(in)
	assert.Equal(t, "line one\nline two\n\nline three", got)
}

func TestNormalizeMime(t *testing.T) {
	assert.Equal(t, "application/pdf", normalizeMime("Application/PDF"))
	assert.Equal(t, "text/plain", normalizeMime(" text/plain ; charset=utf-8"))
}

func TestStripDocxTags(t *testing.T) {
	in := "<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Engineer</w:t></w:r></w:p>"
	got := stripDocxTags(in)
	assert.Equal(t, "Jane Doe\nEngineer", strings.TrimSpace(got))
}
