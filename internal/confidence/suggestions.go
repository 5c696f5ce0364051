package confidence

import "resumeparser/internal/types"

// ManualEntrySuggestion is the only suggestion given when parsing fails outright
const ManualEntrySuggestion = "Automatic parsing failed; please enter your résumé details manually."

var missingSectionHints = map[string]string{
	SectionContact:        "Add your name, email address and phone number.",
	SectionExperience:     "Add a work experience section with job titles, companies and dates.",
	SectionEducation:      "Add an education section with your school and degree.",
	SectionSkills:         "List your key skills in a dedicated skills section.",
	SectionSummary:        "Add a short professional summary at the top of your résumé.",
	SectionLanguages:      "List the languages you speak and your proficiency.",
	SectionCertifications: "List any professional certifications you hold.",
	SectionAwards:         "Mention awards or honors you have received.",
	SectionWebsites:       "Add links to your LinkedIn profile, portfolio or GitHub.",
	SectionReferences:     "Add references or state that they are available on request.",
	SectionHobbies:        "Optionally add hobbies or interests.",
}

const (
	bandLow      = "Low confidence: many details could not be extracted, please review every field."
	bandModerate = "Moderate confidence: please review the extracted details for accuracy."
	bandHigh     = "High confidence: the résumé was parsed successfully."
)

func suggestions(report types.ConfidenceReport) []string {
	var out []string
	for _, name := range report.MissingSections {
		out = append(out, missingSectionHints[name])
	}

	m := report.QualityMetrics
	for _, check := range []struct {
		value float64
		hint  string
	}{
		{m.Completeness, "Many sections are missing; use clear section headings such as Experience, Education and Skills."},
		{m.FieldCoverage, "Several fields are empty; include dates, locations and descriptions for each entry."},
		{m.Structure, "Use a standard résumé layout and make sure start dates precede end dates."},
		{m.Accuracy, "Check that your email address, phone number and dates are written in a standard format."},
		{m.DataQuality, "Describe your responsibilities for each role and add proficiency levels to skills."},
	} {
		if check.value < 0.5 {
			out = append(out, check.hint)
		}
	}

	switch {
	case report.OverallScore < 50:
		out = append(out, bandLow)
	case report.OverallScore < 80:
		out = append(out, bandModerate)
	default:
		out = append(out, bandHigh)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
