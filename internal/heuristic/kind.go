package heuristic

import "strings"

// Kind is the closed set of résumé sections
type Kind int

const (
	KindContact Kind = iota
	KindSummary
	KindExperience
	KindEducation
	KindSkills
	KindLanguages
	KindCertifications
	KindAwards
	KindWebsites
	KindReferences
	KindHobbies

	kindCount
)

var kindNames = [kindCount]string{
	KindContact:        "contact",
	KindSummary:        "summary",
	KindExperience:     "experience",
	KindEducation:      "education",
	KindSkills:         "skills",
	KindLanguages:      "languages",
	KindCertifications: "certifications",
	KindAwards:         "awards",
	KindWebsites:       "websites",
	KindReferences:     "references",
	KindHobbies:        "hobbies",
}

// Kinds returns every section kind in canonical order
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind resolves a section name, accepting the plural "experiences"
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "experiences" {
		return KindExperience, true
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}
