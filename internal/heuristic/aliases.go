package heuristic

import (
	"regexp"
	"strings"
)

// fallbackAliases is the heading dictionary used when none is configured
var fallbackAliases = map[Kind][]string{
	KindContact: {
		"contact", "contact information", "contact info", "contact details", "personal information",
		"personal details", "personal info", "personal data",
	},
	KindSummary: {
		"summary", "professional summary", "career summary", "profile", "professional profile",
		"about", "about me", "objective", "career objective", "overview", "personal statement",
	},
	KindExperience: {
		"experience", "work experience", "professional experience", "employment", "employment history",
		"work history", "career history", "relevant experience", "experiences", "positions held",
	},
	KindEducation: {
		"education", "academic background", "education and training", "academic qualifications",
		"qualifications", "academics", "education history",
	},
	KindSkills: {
		"skills", "technical skills", "core skills", "key skills", "competencies", "core competencies",
		"technologies", "tech stack", "expertise", "areas of expertise", "skills and abilities",
	},
	KindLanguages: {"languages", "language skills", "spoken languages", "language"},
	KindCertifications: {
		"certifications", "certificates", "licenses and certifications", "certifications and licenses",
		"licenses", "accreditations", "certification",
	},
	KindAwards: {"awards", "honors", "honours", "achievements", "awards and honors", "recognition"},
	KindWebsites: {
		"websites", "links", "online profiles", "social media", "profiles", "portfolio", "web presence",
	},
	KindReferences: {"references", "referees", "professional references"},
	KindHobbies:    {"hobbies", "interests", "hobbies and interests", "personal interests", "activities"},
}

// ResolveSectionAliases turns the configured section -> aliases dictionary into
// the alias table used for heading detection. An empty dictionary resolves to
// the built-in fallback; kinds the configuration leaves out keep their
// fallback aliases. Unknown section names are ignored. The input is not modified.
func ResolveSectionAliases(configured map[string][]string) map[Kind][]string {
	resolved := make(map[Kind][]string, kindCount)
	for k, aliases := range fallbackAliases {
		resolved[k] = normalizeAliases(aliases)
	}

	for name, aliases := range configured {
		k, ok := ParseKind(name)
		if !ok {
			continue
		}
		norm := normalizeAliases(aliases)
		if len(norm) == 0 {
			continue
		}
		resolved[k] = norm
	}
	return resolved
}

func normalizeAliases(aliases []string) []string {
	out := make([]string, 0, len(aliases))
	seen := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		n := normalizeHeading(a)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

var (
	headingNumberRe = regexp.MustCompile(`^(?:\d{1,2}|[IVXLC]{1,5}|[A-Za-z])[.)]\s+`)
	headingMarkRe   = regexp.MustCompile(`^(?:#{1,6}\s*|[•●▪◦‣►▶■□➢➤*-]\s+)`)
	headingWrapRe   = regexp.MustCompile(`^(\*\*|__|\*|_)(.+?)(\*\*|__|\*|_)$`)
	headingLabelRe  = regexp.MustCompile(`^[\p{L}][\p{L}'’ &/-]*$`)
)

// normalizeHeading lower-cases s, drops surrounding punctuation and folds '&' into "and"
func normalizeHeading(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, ":.-–— ")
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "/", " and ")
	return strings.Join(strings.Fields(s), " ")
}

// headingCandidate strips heading decoration from line and splits off inline
// content after a colon. ok is false when the label cannot be a heading.
func headingCandidate(line string) (label, inline string, ok bool) {
	s := strings.TrimSpace(line)
	if s == "" || len(s) > 120 {
		return "", "", false
	}
	s = headingMarkRe.ReplaceAllString(s, "")
	s = headingNumberRe.ReplaceAllString(s, "")
	if m := headingWrapRe.FindStringSubmatch(s); m != nil {
		s = m[2]
	}

	if i := strings.IndexAny(s, ":："); i >= 0 {
		label = s[:i]
		inline = strings.TrimSpace(strings.TrimLeft(s[i:], ":：*_"))
	} else {
		label = s
	}
	label = strings.Trim(strings.TrimSpace(label), "*_")
	label = strings.TrimSpace(label)

	if label == "" || len(label) > 40 || len(strings.Fields(label)) > 5 {
		return "", "", false
	}
	if !headingLabelRe.MatchString(label) {
		return "", "", false
	}
	return label, inline, true
}
