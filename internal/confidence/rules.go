package confidence

// Section names as reported in the confidence report
const (
	SectionContact        = "contact"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionSummary        = "summary"
	SectionLanguages      = "languages"
	SectionCertifications = "certifications"
	SectionAwards         = "awards"
	SectionWebsites       = "websites"
	SectionReferences     = "references"
	SectionHobbies        = "hobbies"
)

// sectionOrder fixes the order of sections_found, missing_sections and suggestions
var sectionOrder = []string{
	SectionContact, SectionExperience, SectionEducation, SectionSkills, SectionSummary,
	SectionLanguages, SectionCertifications, SectionAwards, SectionWebsites, SectionReferences,
	SectionHobbies,
}

// structuralSections must be present for a well-formed résumé
var structuralSections = []string{SectionContact, SectionExperience, SectionEducation, SectionSkills}

// SectionRule is the weight and the required and optional fields of one section
type SectionRule struct {
	Weight   float64
	Required []string
	Optional []string
}

// Rules maps section names to their rule
type Rules map[string]SectionRule

// DefaultRules returns the built-in weights and field lists
func DefaultRules() Rules {
	return Rules{
		SectionContact: {
			Weight:   0.25,
			Required: []string{"firstName", "lastName", "email"},
			Optional: []string{"phone", "desiredJobTitle", "city", "country", "address", "postCode"},
		},
		SectionExperience: {
			Weight:   0.25,
			Required: []string{"jobTitle", "company"},
			Optional: []string{"location", "startDate", "endDate", "description"},
		},
		SectionEducation: {
			Weight:   0.15,
			Required: []string{"school", "degree"},
			Optional: []string{"location", "startDate", "endDate", "description"},
		},
		SectionSkills:         {Weight: 0.15, Required: []string{"name"}, Optional: []string{"level"}},
		SectionSummary:        {Weight: 0.10},
		SectionLanguages:      {Weight: 0.02, Optional: []string{"name", "proficiency"}},
		SectionCertifications: {Weight: 0.02, Optional: []string{"title"}},
		SectionAwards:         {Weight: 0.02, Optional: []string{"title"}},
		SectionWebsites:       {Weight: 0.02, Optional: []string{"label", "url"}},
		SectionReferences:     {Weight: 0.02, Optional: []string{"name", "relationship", "contactInfo"}},
		SectionHobbies:        {Weight: 0.02},
	}
}

// Override lays o over the default rules. A zero weight or nil field list
// keeps the default; unknown section names are ignored.
func (r Rules) Override(name string, o SectionRule) {
	base, ok := r[name]
	if !ok {
		return
	}
	if o.Weight > 0 {
		base.Weight = o.Weight
	}
	if o.Required != nil {
		base.Required = o.Required
	}
	if o.Optional != nil {
		base.Optional = o.Optional
	}
	r[name] = base
}
