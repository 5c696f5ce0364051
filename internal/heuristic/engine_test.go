package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/types"
)

func newTestEngine() *Engine {
	return New(nil, nil, Options{})
}

func TestParseHeadedExperience(t *testing.T) {
	text := "John Smith\njohn@example.com\n555-123-4567\n\nEXPERIENCE\nSoftware Engineer\nAcme Corp\nJan 2020 - Present\nBuilt internal tools."

	r, det := newTestEngine().Parse(text)

	assert.Equal(t, "john@example.com", r.Contact.Email)
	assert.Equal(t, "555-123-4567", r.Contact.Phone)
	assert.Equal(t, "John", r.Contact.FirstName)
	assert.Equal(t, "Smith", r.Contact.LastName)

	require.Len(t, r.Experiences, 1)
	exp := r.Experiences[0]
	assert.Equal(t, "Software Engineer", exp.JobTitle)
	assert.Equal(t, "Acme Corp", exp.Company)
	assert.Equal(t, "Jan 2020", exp.StartDate)
	assert.Equal(t, "Present", exp.EndDate)
	assert.Equal(t, "Built internal tools.", exp.Description)

	require.NotNil(t, det.Section(KindExperience))
	assert.Equal(t, SourceHeading, det.Section(KindExperience).Source)
	require.NotNil(t, det.Section(KindContact))
	assert.Equal(t, SourceContent, det.Section(KindContact).Source)
}

func TestParseSkillProficiency(t *testing.T) {
	r, _ := newTestEngine().Parse("SKILLS\nReact (Advanced), Node.js - Expert, Python 80%")

	assert.Equal(t, []types.Skill{
		{Name: "React", Level: "Advanced"},
		{Name: "Node.js", Level: "Expert"},
		{Name: "Python", Level: "Advanced"},
	}, r.Skills)
}

func TestParseSkillsRejectsNonSkills(t *testing.T) {
	r, _ := newTestEngine().Parse("Technical Skills: Kubernetes, Acme Corp, 555-123-4567, Go, Terraform")

	var names []string
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, names)
}

func TestPlaceholderLinesIgnored(t *testing.T) {
	text := "SUMMARY\nLorem ipsum dolor sit amet\nUse this section to describe yourself"

	r, det := newTestEngine().Parse(text)

	assert.Empty(t, r.Summary)
	require.NotNil(t, det.Section(KindSummary))
	assert.Empty(t, nonEmpty(det.Section(KindSummary).Lines))
}

func TestReclassifyJobTitleOutOfEducation(t *testing.T) {
	text := "EDUCATION\nSenior Software Engineer\nStanford University\n2015 - 2019"

	r, det := newTestEngine().Parse(text)

	require.NotNil(t, det.Section(KindExperience))
	assert.Equal(t, SourceReclassified, det.Section(KindExperience).Source)
	assert.Equal(t, []string{"Senior Software Engineer"}, det.Section(KindExperience).Lines)

	require.Len(t, r.Experiences, 1)
	assert.Equal(t, "Senior Software Engineer", r.Experiences[0].JobTitle)

	require.Len(t, r.Education, 1)
	assert.Equal(t, "Stanford University", r.Education[0].School)
	assert.Equal(t, "2015", r.Education[0].StartDate)
	assert.Equal(t, "2019", r.Education[0].EndDate)
}

func TestResolveSectionAliases(t *testing.T) {
	t.Run("empty config uses fallback", func(t *testing.T) {
		for _, cfg := range []map[string][]string{nil, {}} {
			resolved := ResolveSectionAliases(cfg)
			for _, k := range Kinds() {
				assert.NotEmpty(t, resolved[k], k.String())
			}
			assert.Contains(t, resolved[KindExperience], "work experience")
		}
	})

	t.Run("configured kinds replace, others keep fallback", func(t *testing.T) {
		cfg := map[string][]string{
			"skills":  {"Toolbox", "  STACK  "},
			"bogus":   {"whatever"},
			"hobbies": {},
		}
		resolved := ResolveSectionAliases(cfg)
		assert.Equal(t, []string{"toolbox", "stack"}, resolved[KindSkills])
		assert.Contains(t, resolved[KindHobbies], "interests")
		assert.Contains(t, resolved[KindEducation], "education")
		assert.Equal(t, []string{"Toolbox", "  STACK  "}, cfg["skills"])
	})

	t.Run("configured alias drives detection", func(t *testing.T) {
		e := New(nil, map[string][]string{"skills": {"Toolbox"}}, Options{})
		r, det := e.Parse("Toolbox:\nKubernetes, Terraform, Docker")
		require.NotNil(t, det.Section(KindSkills))
		assert.Len(t, r.Skills, 3)

		aliases := e.Aliases(KindSkills)
		assert.Equal(t, []string{"toolbox"}, aliases)
		aliases[0] = "changed"
		assert.Equal(t, []string{"toolbox"}, e.Aliases(KindSkills))
	})
}

func TestHeadingCandidate(t *testing.T) {
	tests := []struct {
		line   string
		label  string
		inline string
		ok     bool
	}{
		{"EXPERIENCE", "EXPERIENCE", "", true},
		{"## Work Experience", "Work Experience", "", true},
		{"**Skills:** Go, Rust", "Skills", "Go, Rust", true},
		{"2. Education", "Education", "", true},
		{"Built internal tools for the platform team and more", "", "", false},
		{"john@example.com", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			label, inline, ok := headingCandidate(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.label, label)
				assert.Equal(t, tt.inline, inline)
			}
		})
	}
}

func TestExtractWebsites(t *testing.T) {
	text := "Portfolio: https://jane.dev, github.com/janedoe\nSee www.linkedin.com/in/jane-doe/ and https://github.com/janedoe"

	sites := extractWebsites(text)

	assert.Equal(t, []types.Website{
		{Label: "Website", URL: "https://jane.dev"},
		{Label: "GitHub", URL: "https://github.com/janedoe"},
		{Label: "LinkedIn", URL: "https://www.linkedin.com/in/jane-doe/"},
	}, sites)
}

func TestExtractLanguages(t *testing.T) {
	langs := newTestEngine().extractLanguages([]string{
		"English (Native), Spanish - intermediate",
		"• french: basic",
		"English",
	})

	assert.Equal(t, []types.Language{
		{Name: "English", Proficiency: "Native"},
		{Name: "Spanish", Proficiency: "Intermediate"},
		{Name: "French", Proficiency: "Basic"},
	}, langs)
}

func TestExtractReferences(t *testing.T) {
	e := newTestEngine()

	t.Run("available on request", func(t *testing.T) {
		assert.Empty(t, e.extractReferences([]string{"Available upon request"}))
	})

	t.Run("grouped block", func(t *testing.T) {
		refs := e.extractReferences([]string{
			"Mary Johnson",
			"Engineering Manager, Globex",
			"mary@globex.com",
			"",
			"Peter Brown",
			"peter@initech.com",
		})
		assert.Equal(t, []types.Reference{
			{Name: "Mary Johnson", Relationship: "Engineering Manager, Globex", ContactInfo: "mary@globex.com"},
			{Name: "Peter Brown", ContactInfo: "peter@initech.com"},
		}, refs)
	})

	t.Run("inline entries", func(t *testing.T) {
		refs := e.extractReferences([]string{"Mary Johnson - Manager; Peter Brown - Mentor, peter@initech.com"})
		require.Len(t, refs, 2)
		assert.Equal(t, "Manager", refs[0].Relationship)
		assert.Equal(t, "peter@initech.com", refs[1].ContactInfo)
	})
}

func TestNarrativeSummaryFromParagraph(t *testing.T) {
	para := "Experienced backend engineer with eight years building distributed payment systems and leading small platform teams."
	text := "Jane Doe\njane@example.com\n\n" + para + "\n\nSKILLS\nGo, Kafka, PostgreSQL"

	r, _ := newTestEngine().Parse(text)

	assert.Equal(t, para, r.Summary)
}

func TestDetectionDebug(t *testing.T) {
	_, det := newTestEngine().Parse("John Smith\njohn@example.com\n\nSKILLS\nDocker, Kubernetes, Terraform")

	debug := det.Debug()
	require.Len(t, debug, 2)
	assert.Equal(t, "contact", debug[0].Name)
	assert.Equal(t, SourceContent, debug[0].Source)
	assert.Equal(t, "skills", debug[1].Name)
	assert.Equal(t, []string{"Docker, Kubernetes, Terraform"}, debug[1].Lines)
}

func TestUnheadedBlocksAfterHeading(t *testing.T) {
	text := "John Smith\njohn@example.com\n\nEXPERIENCE\nSoftware Engineer\nAcme Corp\nJan 2020 - Present\nBuilt internal tools.\n\n" +
		"Python, Kubernetes, PostgreSQL, Terraform\n\nStanford University\nB.S. Computer Science\n2012 - 2016"

	r, det := newTestEngine().Parse(text)

	require.Len(t, r.Experiences, 1)
	assert.Equal(t, "Built internal tools.", r.Experiences[0].Description)

	require.NotNil(t, det.Section(KindSkills))
	assert.Equal(t, SourceContent, det.Section(KindSkills).Source)
	var names []string
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Python", "Kubernetes", "PostgreSQL", "Terraform"}, names)

	require.Len(t, r.Education, 1)
	assert.Equal(t, "Stanford University", r.Education[0].School)
	assert.Contains(t, r.Education[0].Degree, "B.S.")
	assert.Equal(t, "2012", r.Education[0].StartDate)
	assert.Equal(t, "2016", r.Education[0].EndDate)
}

func TestHeadedSectionKeepsItsOwnBlocks(t *testing.T) {
	text := "EXPERIENCE\nSoftware Engineer\nAcme Corp\n2020 - Present\n\nData Engineer\nGlobex Inc\n2018 - 2020\n\nEDUCATION\nMIT"

	r, det := newTestEngine().Parse(text)

	require.Len(t, r.Experiences, 2)
	assert.Equal(t, "Data Engineer", r.Experiences[1].JobTitle)
	assert.Equal(t, SourceHeading, det.Section(KindExperience).Source)
	assert.Nil(t, det.Section(KindSkills))
}

func TestContactItemLeavesSkillList(t *testing.T) {
	r, det := newTestEngine().Parse("SKILLS\nTools: Docker, Kubernetes, jane@example.com, Terraform")

	assert.Equal(t, "jane@example.com", r.Contact.Email)
	require.NotNil(t, det.Section(KindSkills))
	assert.Equal(t, []string{"Tools: Docker, Kubernetes, Terraform"}, nonEmpty(det.Section(KindSkills).Lines))
	assert.Len(t, r.Skills, 3)
}

func TestSplitClaimed(t *testing.T) {
	isDigits := func(s string) bool { return findPhone(s) != "" }

	claimed, rest, ok := splitClaimed("Stack: Go, 555-123-4567, Rust, Zig", isDigits)
	require.True(t, ok)
	assert.Equal(t, []string{"555-123-4567"}, claimed)
	assert.Equal(t, "Stack: Go, Rust, Zig", rest)

	_, _, ok = splitClaimed("Jane Doe | 555-123-4567", isDigits)
	assert.False(t, ok, "a single leftover item moves with the line")
}

func TestCascadeSplit(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"Go, Rust, Zig", []string{"Go", "Rust", "Zig"}},
		{"Docker & Kubernetes, Terraform", []string{"Docker", "Kubernetes", "Terraform"}},
		{"HTML and CSS", []string{"HTML", "CSS"}},
		{"C + Assembly; Python", []string{"C", "Assembly", "Python"}},
		{"React (Advanced and certified), Vue", []string{"React (Advanced and certified)", "Vue"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, cascadeSplit(tt.line))
		})
	}
}

func TestFindNameStages(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		first string
		last  string
	}{
		{
			name:  "name-shaped first line",
			lines: []string{"Jane Doe", "jane@example.com"},
			first: "Jane", last: "Doe",
		},
		{
			name:  "known first name inside a line",
			lines: []string{"Resume prepared for Michael Brown in 2024", "mb@example.com"},
			first: "Michael", last: "Brown",
		},
		{
			name:  "text before the email",
			lines: []string{"Xavi Quintero-Lopez <xavi@example.com>"},
			first: "Xavi", last: "Quintero-Lopez",
		},
		{
			name: "line after a contact sub-heading",
			lines: []string{
				"Confidential", "Page 1", "Updated 2024", "Draft", "v2",
				"CONTACT INFO:", "Zoltan Kovacs Nagy",
			},
			first: "Zoltan", last: "Kovacs Nagy",
		},
		{
			name:  "nothing name-like",
			lines: []string{"Senior Software Engineer", "Acme Corp"},
		},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, _ := e.findName(tt.lines)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestFindPhone(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"555-123-4567", "555-123-4567"},
		{"Call 555.123.4567 anytime", "555.123.4567"},
		{"+44 20 7946 0958", "+44 20 7946 0958"},
		{"Graduated 12.05.2019", ""},
		{"Date of birth: 1990-05-12", ""},
		{"Started 03/07/2021", ""},
		{"2015 - 2019", ""},
		{"Room 1234", ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, findPhone(tt.line))
		})
	}
}

func TestDayDatesAreNotPhones(t *testing.T) {
	r, _ := newTestEngine().Parse("Jane Doe\njane@example.com\n\nEDUCATION\nStanford University\nGraduated 12.05.2019")

	assert.Empty(t, r.Contact.Phone)
}

func TestFindLocation(t *testing.T) {
	tests := []struct {
		line string
		want types.Contact
	}{
		{"Springfield, IL 62704", types.Contact{City: "Springfield", PostCode: "62704"}},
		{"Location: Toronto, Canada", types.Contact{City: "Toronto", Country: "Canada"}},
		{"42 Elm Street, Boston, MA 02108", types.Contact{Address: "42 Elm Street", City: "Boston", PostCode: "02108"}},
		{"jane@example.com | 555-123-4567", types.Contact{}},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var c types.Contact
			e.findLocation([]string{tt.line}, &c)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestTitleAndHobbySections(t *testing.T) {
	text := "CERTIFICATIONS\nAWS Certified Solutions Architect\n• Certified Kubernetes Administrator\n\n" +
		"AWARDS\nEmployee of the Year 2021\n\nHOBBIES\nChess, hiking, photography, chess"

	r, _ := newTestEngine().Parse(text)

	assert.Equal(t, []types.Title{
		{Title: "AWS Certified Solutions Architect"},
		{Title: "Certified Kubernetes Administrator"},
	}, r.Certifications)
	assert.Equal(t, []types.Title{{Title: "Employee of the Year 2021"}}, r.Awards)
	assert.Equal(t, []string{"Chess", "hiking", "photography"}, r.Hobbies)
}
