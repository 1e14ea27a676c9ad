package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/pkg/models"
)

const fullResume = `Jane Doe
jane@example.com | (555) 123-4567

Summary
Backend engineer with a focus on distributed systems.

Experience
Senior Engineer - Acme Corp - 2019 - 2022
- Led migration to Kubernetes
- Reduced costs by 40%

Engineer - Initech - 2016 - 2019
- Built payment APIs

Education
BS Computer Science, State University, 2012 - 2016

Skills
Go, Python, AWS, Docker`

func TestSectionize_FullResume(t *testing.T) {
	secs := New().Sectionize(fullResume)
	require.Len(t, secs, 5)

	kinds := make([]models.SectionKind, 0, len(secs))
	for _, s := range secs {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []models.SectionKind{
		models.SectionContact,
		models.SectionSummary,
		models.SectionExperience,
		models.SectionEducation,
		models.SectionSkills,
	}, kinds)

	// Positions follow document order.
	for i, s := range secs {
		assert.Equal(t, i, s.Position)
	}
}

func TestSectionize_ExperienceEntries(t *testing.T) {
	secs := New().Sectionize(fullResume)

	var exp *models.Section
	for i := range secs {
		if secs[i].Kind == models.SectionExperience {
			exp = &secs[i]
		}
	}
	require.NotNil(t, exp)
	require.Len(t, exp.Entries, 2)
	assert.Contains(t, exp.Entries[0], "Acme Corp")
	assert.Contains(t, exp.Entries[1], "Initech")
}

func TestSectionize_LeadingBlockWithoutContactToken(t *testing.T) {
	text := "Seasoned platform engineer.\n\nSkills\nGo, Terraform"

	secs := New().Sectionize(text)
	require.Len(t, secs, 2)
	assert.Equal(t, models.SectionSummary, secs[0].Kind)
	assert.Equal(t, models.SectionSkills, secs[1].Kind)
}

func TestSectionize_HeadinglessText(t *testing.T) {
	text := "Just a wall of text about my career with no structure at all."

	secs := New().Sectionize(text)
	require.Len(t, secs, 1)
	assert.Equal(t, models.SectionSummary, secs[0].Kind)
	assert.Empty(t, secs[0].Entries)
}

func TestSectionize_DuplicateHeadingsMerge(t *testing.T) {
	text := `Experience
Engineer - Acme - 2019 - 2021
- Did things

Skills
Go

Experience
Intern - Initech - 2018 - 2019
- Did other things`

	secs := New().Sectionize(text)
	require.Len(t, secs, 2)
	assert.Equal(t, models.SectionExperience, secs[0].Kind)
	assert.Contains(t, secs[0].Text, "Acme")
	assert.Contains(t, secs[0].Text, "Initech")
	assert.Len(t, secs[0].Entries, 2)
}

func TestSectionize_EmptyInput(t *testing.T) {
	assert.Nil(t, New().Sectionize("   \n  "))
}

func TestDetectHeading_Variants(t *testing.T) {
	cases := map[string]models.SectionKind{
		"EXPERIENCE":           models.SectionExperience,
		"Work Experience":      models.SectionExperience,
		"## Skills:":           models.SectionSkills,
		"Technical Skills":     models.SectionSkills,
		"Education":            models.SectionEducation,
		"Professional Summary": models.SectionSummary,
	}
	for line, want := range cases {
		kind, ok := detectHeading(line)
		require.True(t, ok, "expected %q to be a heading", line)
		assert.Equal(t, want, kind)
	}

	// Sentences that merely mention a heading word are not headings.
	_, ok := detectHeading("My experience includes ten years of writing Go services in production")
	assert.False(t, ok)
}

func TestHasDateRange(t *testing.T) {
	assert.True(t, HasDateRange("Jan 2020 - Present"))
	assert.True(t, HasDateRange("2016 to 2019"))
	assert.True(t, HasDateRange("March 2018 – June 2021"))
	assert.False(t, HasDateRange("Senior Engineer at Acme"))
}

func TestHasContactToken(t *testing.T) {
	assert.True(t, HasContactToken("reach me at jane@example.com"))
	assert.True(t, HasContactToken("call +1 (555) 123-4567"))
	assert.False(t, HasContactToken("no contact details here"))
}
