package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/types"
)

const sourceText = `Jane Doe
jane@example.com | 555-123-4567
linkedin.com/in/janedoe

Seasoned backend engineer building distributed payment systems at global scale.

EXPERIENCE
Senior Engineer
Acme Corp
Jan 2020 - Present

EDUCATION
BSc Computer Science
State University

SKILLS
Go, PostgreSQL, Kubernetes

LANGUAGES
English (Native)

CERTIFICATIONS
Certified Kubernetes Administrator

HOBBIES
Chess, trail running`

type stubNarrator string

func (s stubNarrator) NarrativeSummary(string) string { return string(s) }

func TestFilterKeepsGroundedItems(t *testing.T) {
	r := types.NewParsedResume()
	r.Contact.Email = "jane@example.com"
	r.Experiences = []types.Experience{{ID: 1, JobTitle: "Senior Engineer", Company: "Acme Corp"}}
	r.Education = []types.Education{{ID: 1, School: "State University", Degree: "BSc Computer Science"}}
	r.Skills = []types.Skill{{ID: 1, Name: "go"}, {ID: 2, Name: "PostgreSQL"}}
	r.Languages = []types.Language{{ID: 1, Name: "English", Proficiency: "Native"}}
	r.Certifications = []types.Title{{ID: 1, Title: "certified kubernetes administrator"}}
	r.Websites = []types.Website{{ID: 1, Label: "LinkedIn", URL: "https://linkedin.com/in/janedoe"}}
	r.Hobbies = []string{"Chess"}
	r.Summary = "Seasoned backend engineer building distributed payment systems at global scale."

	dropped := New(nil, nil, Options{}, nil).Apply(&r, sourceText)

	// "go" is too short for a skill name
	assert.Equal(t, map[string]int{"skills": 1}, dropped)
	assert.Equal(t, "jane@example.com", r.Contact.Email)
	assert.Len(t, r.Experiences, 1)
	assert.Len(t, r.Education, 1)
	assert.Equal(t, []types.Skill{{ID: 2, Name: "PostgreSQL"}}, r.Skills)
	assert.Len(t, r.Languages, 1)
	assert.Len(t, r.Certifications, 1)
	assert.Len(t, r.Websites, 1)
	assert.Equal(t, []string{"Chess"}, r.Hobbies)
	assert.NotEmpty(t, r.Summary)
}

func TestFilterDropsFabricatedItems(t *testing.T) {
	r := types.NewParsedResume()
	r.Contact.Email = "not-an-email"
	r.Experiences = []types.Experience{
		{ID: 1, JobTitle: "Senior Engineer", Company: "Acme Corp"},
		{ID: 2, JobTitle: "CTO", Company: "Invented Inc"},
	}
	r.Education = []types.Education{{ID: 1, School: "Harvard", Degree: "PhD"}}
	r.Languages = []types.Language{{ID: 1, Name: "Klingon"}, {ID: 2, Name: "French"}}
	r.Certifications = []types.Title{{ID: 1, Title: "PMP"}}
	r.Awards = []types.Title{{ID: 1, Title: "Nobel Prize"}}
	r.Websites = []types.Website{
		{ID: 1, Label: "GitHub", URL: "https://github.com/janedoe"},
		{ID: 2, Label: "Website", URL: "not a url"},
	}
	r.References = []types.Reference{{ID: 1, Name: "John Roe"}}
	r.Hobbies = []string{"Chess", "Skydiving"}

	dropped := New(nil, nil, Options{}, nil).Apply(&r, sourceText)

	assert.Equal(t, map[string]int{
		"contact":        1,
		"experiences":    1,
		"education":      1,
		"languages":      1,
		"certifications": 1,
		"awards":         1,
		"websites":       2,
		"references":     1,
		"hobbies":        1,
	}, dropped)

	assert.Empty(t, r.Contact.Email)
	require.Len(t, r.Experiences, 1)
	assert.Equal(t, "Acme Corp", r.Experiences[0].Company)
	assert.Empty(t, r.Education)
	// closed-list languages survive without textual evidence
	assert.Equal(t, []types.Language{{ID: 2, Name: "French"}}, r.Languages)
	assert.Empty(t, r.Websites)
	assert.Equal(t, []string{"Chess"}, r.Hobbies)
}

func TestFilterGroundsContactFields(t *testing.T) {
	tests := []struct {
		name    string
		contact types.Contact
		want    types.Contact
		dropped int
	}{
		{
			name: "grounded contact is kept",
			contact: types.Contact{
				FirstName: "Jane", LastName: "doe", Email: "JANE@example.com", Phone: "(555) 123 4567",
			},
			want: types.Contact{
				FirstName: "Jane", LastName: "doe", Email: "JANE@example.com", Phone: "(555) 123 4567",
			},
		},
		{
			name:    "country code prefix still matches",
			contact: types.Contact{Phone: "+1 555 123 4567"},
			want:    types.Contact{Phone: "+1 555 123 4567"},
		},
		{
			name: "invented fields are cleared",
			contact: types.Contact{
				FirstName: "Zed", LastName: "Doe", DesiredJobTitle: "Astronaut",
				Email: "zed@atlantis.io", Phone: "+1 999 888 7777",
				Country: "Atlantis", City: "Poseidonia", Address: "1 Coral Way", PostCode: "00000",
			},
			want:    types.Contact{LastName: "Doe"},
			dropped: 8,
		},
		{
			name:    "phone digits must come from one run",
			contact: types.Contact{Phone: "2020555123"},
			want:    types.Contact{},
			dropped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := types.NewParsedResume()
			r.Contact = tt.contact
			dropped := New(nil, nil, Options{}, nil).Apply(&r, sourceText)
			assert.Equal(t, tt.want, r.Contact)
			assert.Equal(t, tt.dropped, dropped["contact"])
		})
	}
}

func TestFilterDropsPhoneShapedSkill(t *testing.T) {
	r := types.NewParsedResume()
	r.Skills = []types.Skill{{ID: 1, Name: "555-123-4567"}, {ID: 2, Name: "Kubernetes"}}

	dropped := New(nil, nil, Options{}, nil).Apply(&r, sourceText)

	assert.Equal(t, []types.Skill{{ID: 2, Name: "Kubernetes"}}, r.Skills)
	assert.Equal(t, 1, dropped["skills"])
}

func TestFilterSummaryGrounding(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    string
	}{
		{
			name:    "contained summary is kept",
			summary: "backend engineer building distributed payment systems",
			want:    "backend engineer building distributed payment systems",
		},
		{
			name:    "similar summary is replaced by the paragraph",
			summary: "engineer backend seasoned building payment distributed systems",
			want:    "Seasoned backend engineer building distributed payment systems at global scale.",
		},
		{
			name:    "dissimilar summary is cleared",
			summary: "Creative designer focused on brand identity",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := types.NewParsedResume()
			r.Summary = tt.summary
			New(nil, nil, Options{SummarySimilarity: 0.6}, nil).Apply(&r, sourceText)
			assert.Equal(t, tt.want, r.Summary)
		})
	}
}

func TestFilterEmptySummaryUsesNarrator(t *testing.T) {
	r := types.NewParsedResume()
	dropped := New(nil, stubNarrator("narrative paragraph"), Options{}, nil).Apply(&r, sourceText)
	assert.Equal(t, "narrative paragraph", r.Summary)
	assert.Empty(t, dropped)
}

func TestFilterSimilarityThresholdFromOptions(t *testing.T) {
	r := types.NewParsedResume()
	r.Summary = "engineer backend seasoned building payment distributed systems"
	New(nil, nil, Options{SummarySimilarity: 0.9}, nil).Apply(&r, sourceText)
	assert.Empty(t, r.Summary)
}
