package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeywordMatching(t *testing.T) {
	lex := Default()

	tests := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"job title keyword", lex.HasJobTitleKeyword, "Senior Software Engineer", true},
		{"job title inside word", lex.HasJobTitleKeyword, "Engineering", false},
		{"degree with dots", lex.HasDegreeKeyword, "B.S. Computer Science", true},
		{"degree word", lex.HasDegreeKeyword, "Bachelor of Arts", true},
		{"institution", lex.HasInstitutionKeyword, "Stanford University", true},
		{"company suffix", lex.HasCompanySuffix, "Acme Corp", true},
		{"company suffix with dot", lex.HasCompanySuffix, "Globex Inc.", true},
		{"plain skill", lex.HasCompanySuffix, "Distributed Systems", false},
		{"placeholder", lex.IsPlaceholder, "Lorem ipsum dolor sit amet", true},
		{"placeholder mixed case", lex.IsPlaceholder, "Use This Section to describe", true},
		{"real line", lex.IsPlaceholder, "Built internal tools.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestNameShapes(t *testing.T) {
	lex := Default()

	assert.True(t, lex.MatchName("John Smith"))
	assert.True(t, lex.MatchName("Mary J. Watson"))
	assert.True(t, lex.MatchName("JOHN SMITH"))
	assert.True(t, lex.MatchName("Anne-Marie O'Neil"))
	assert.False(t, lex.MatchName("john@example.com"))
	assert.False(t, lex.MatchName("Experience"))

	assert.True(t, lex.IsCommonFirstName("John"))
	assert.False(t, lex.IsCommonFirstName("Acme"))
}

func TestCanonicalLookups(t *testing.T) {
	lex := Default()

	lang, ok := lex.CanonicalLanguage(" spanish ")
	require.True(t, ok)
	assert.Equal(t, "Spanish", lang)

	_, ok = lex.CanonicalLanguage("Klingon")
	assert.False(t, ok)

	assert.Equal(t, "Germany", lex.FindCountry("Berlin, Germany"))
	assert.Equal(t, "", lex.FindCountry("Springfield"))
}

func TestNewWithOverrides(t *testing.T) {
	lex, err := New(Options{
		CommonLanguages:  []string{"Esperanto"},
		JobTitleKeywords: []string{"wizard"},
		FieldAliases: map[string]map[string]string{
			"skills": {"Tech-Name": "name"},
		},
	})
	require.NoError(t, err)

	_, ok := lex.CanonicalLanguage("English")
	assert.False(t, ok, "configured list replaces the default")
	_, ok = lex.CanonicalLanguage("esperanto")
	assert.True(t, ok)

	assert.True(t, lex.HasJobTitleKeyword("Chief Wizard"))
	assert.False(t, lex.HasJobTitleKeyword("Software Engineer"))

	canonical, ok := lex.FieldAlias("skills", "tech_name")
	require.True(t, ok)
	assert.Equal(t, "name", canonical)

	canonical, ok = lex.FieldAlias("skills", "proficiency")
	require.True(t, ok, "defaults survive overrides")
	assert.Equal(t, "level", canonical)
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(Options{NamePatterns: []string{"("}})
	assert.Error(t, err)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "jobtitle", NormalizeKey("Job_Title"))
	assert.Equal(t, "startdate", NormalizeKey("start-date"))
	assert.Equal(t, "emailaddress", NormalizeKey("e.mail address"))
}
