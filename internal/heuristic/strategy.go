package heuristic

import (
	"strings"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

type extractInput struct {
	lines []string // the section's lines, nil when the kind was not detected
	found bool
	det   *Detection
	text  string
}

// strategy bundles the per-kind behavior so no stage dispatches on section names
type strategy struct {
	// detect classifies an unlabeled line as belonging to this kind
	detect func(line string) bool
	// absorbs lets a content run continue over lines detect does not match
	absorbs bool
	// classify claims a misfiled line from one of sources
	classify func(line string) bool
	sources  []Kind
	extract  func(in extractInput, r *types.ParsedResume)
	// fallback runs extract over the full text when the kind was not detected
	fallback bool
}

func (e *Engine) buildStrategies() [kindCount]strategy {
	var s [kindCount]strategy

	s[KindContact] = strategy{
		detect:   e.isContactLine,
		classify: e.isContactLine,
		sources: []Kind{
			KindSummary, KindSkills, KindExperience, KindEducation, KindLanguages,
			KindHobbies, KindCertifications, KindAwards,
		},
		extract:  e.extractContact,
		fallback: true,
	}
	s[KindSummary] = strategy{
		detect:   e.isNarrativeLine,
		absorbs:  true,
		classify: e.isNarrativeLine,
		sources:  []Kind{KindContact, KindSkills},
		extract:  e.extractSummary,
		fallback: true,
	}
	s[KindExperience] = strategy{
		detect:   e.isExperienceLine,
		absorbs:  true,
		classify: e.isMisfiledExperience,
		sources:  []Kind{KindEducation},
		extract: func(in extractInput, r *types.ParsedResume) {
			r.Experiences = e.extractExperience(in.lines)
		},
	}
	s[KindEducation] = strategy{
		detect:  e.isEducationLine,
		absorbs: true,
		extract: func(in extractInput, r *types.ParsedResume) {
			r.Education = e.extractEducation(in.lines)
		},
	}
	s[KindSkills] = strategy{
		detect:   e.isSkillListLine,
		classify: e.isSkillListLine,
		sources:  []Kind{KindContact, KindSummary},
		extract:  e.extractSkills,
		fallback: true,
	}
	s[KindLanguages] = strategy{
		extract: func(in extractInput, r *types.ParsedResume) {
			r.Languages = e.extractLanguages(in.lines)
		},
	}
	s[KindCertifications] = strategy{
		extract: func(in extractInput, r *types.ParsedResume) {
			r.Certifications = extractTitles(in.lines)
		},
	}
	s[KindAwards] = strategy{
		extract: func(in extractInput, r *types.ParsedResume) {
			r.Awards = extractTitles(in.lines)
		},
	}
	s[KindWebsites] = strategy{
		extract: func(in extractInput, r *types.ParsedResume) {
			r.Websites = extractWebsites(in.text)
		},
		fallback: true,
	}
	s[KindReferences] = strategy{
		extract: func(in extractInput, r *types.ParsedResume) {
			r.References = e.extractReferences(in.lines)
		},
	}
	s[KindHobbies] = strategy{
		extract: func(in extractInput, r *types.ParsedResume) {
			r.Hobbies = extractHobbies(in.lines)
		},
	}
	return s
}

// isContactLine matches short lines carrying an email, phone, profile URL or street address
func (e *Engine) isContactLine(line string) bool {
	if wordCount(line) > 10 {
		return false
	}
	return hasContactInfo(line) || addressRe.MatchString(line)
}

// isExperienceLine matches job titles, company names and date ranges
func (e *Engine) isExperienceLine(line string) bool {
	s := normalize.StripBullet(line)
	if e.isContactLine(s) || e.lex.IsEducationTerm(s) {
		return false
	}
	if _, _, _, ok := peelDateRange(s); ok && wordCount(s) <= 12 {
		return true
	}
	return e.isJobTitleLine(s) || (e.lex.HasCompanySuffix(s) && wordCount(s) <= 6 && !isSentence(s))
}

// isMisfiledExperience claims job-title lines that landed in education
func (e *Engine) isMisfiledExperience(line string) bool {
	s := normalize.StripBullet(line)
	return e.isJobTitleLine(s) && !e.lex.IsEducationTerm(s)
}

func (e *Engine) isEducationLine(line string) bool {
	s := normalize.StripBullet(line)
	if e.isContactLine(s) || wordCount(s) > 15 {
		return false
	}
	return e.lex.IsEducationTerm(s)
}

// isNarrativeLine matches long sentences written in professional register
func (e *Engine) isNarrativeLine(line string) bool {
	s := strings.TrimSpace(line)
	if len(s) < 60 || wordCount(s) < 10 || hasContactInfo(s) || normalize.HasBullet(s) {
		return false
	}
	return e.lex.ProfessionalKeywordCount(s) > 0
}

// isSkillListLine matches a delimited list of short technical terms
func (e *Engine) isSkillListLine(line string) bool {
	s := normalize.StripBullet(line)
	if hasContactInfo(s) || isSentence(s) || e.isNarrativeLine(s) {
		return false
	}
	if _, rest, ok := splitLabel(s); ok {
		s = rest
	}
	parts := splitList(s)
	if len(parts) < 3 {
		return false
	}
	for _, p := range parts {
		if wordCount(p) > 4 || len(p) > 40 {
			return false
		}
	}
	return true
}

// isJobTitleLine matches short capitalized lines carrying a job-title keyword
func (e *Engine) isJobTitleLine(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || !startsUpper(s) || wordCount(s) > 10 || strings.HasSuffix(s, ".") {
		return false
	}
	if hasContactInfo(s) {
		return false
	}
	return e.lex.HasJobTitleKeyword(s)
}

// splitLabel splits "Label: rest" when the label is short
func splitLabel(s string) (label, rest string, ok bool) {
	i := strings.Index(s, ":")
	if i <= 0 || i > 30 {
		return "", s, false
	}
	label = strings.TrimSpace(s[:i])
	rest = strings.TrimSpace(s[i+1:])
	if rest == "" || wordCount(label) > 4 || strings.HasPrefix(rest, "//") {
		return "", s, false
	}
	return label, rest, true
}
