package keywords

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tags whose content is markup plumbing, never posting text.
var strippedTags = []string{
	"script", "style", "noscript", "iframe", "svg", "head",
	"nav", "header", "footer", "form", "button",
}

var (
	htmlTagHint        = regexp.MustCompile(`(?i)<\s*(p|div|br|li|ul|ol|span|h[1-6]|strong|em|b|i)[\s>/]`)
	whitespaceCollapse = regexp.MustCompile(`[ \t]+`)
	blankLineCollapse  = regexp.MustCompile(`\n{3,}`)
)

// CleanDescription converts a job description that was pasted as HTML into
// plain text so the keyword model sees the same terms as a plain-text paste.
// Non-HTML input passes through untouched, which keeps building deterministic
// for identical raw descriptions.
func CleanDescription(description string) string {
	if !htmlTagHint.MatchString(description) {
		return description
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return description
	}

	for _, tag := range strippedTags {
		doc.Find(tag).Remove()
	}

	// Preserve block boundaries as newlines so headings and list items do
	// not run together into false compound tokens.
	doc.Find("p, div, li, br, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	text := doc.Text()
	text = whitespaceCollapse.ReplaceAllString(text, " ")
	text = blankLineCollapse.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
