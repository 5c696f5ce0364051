package heuristic

import (
	"regexp"
	"strconv"
	"strings"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

var (
	parenLevelRe  = regexp.MustCompile(`^(.+?)\s*\(([^()]+)\)$`)
	suffixLevelRe = regexp.MustCompile(`^(.+?)\s*(?:\s[-–—]\s|:)\s*(.+)$`)
	percentRe     = regexp.MustCompile(`^(.+?)\s*[-:]?\s*(\d{1,3})\s*%$`)
	trailYearsRe  = regexp.MustCompile(`(?i)^(.+?)\s*[-:,]?\s+(\d{1,2})\+?\s*(?:years?|yrs?)$`)
	prefixLevelRe = regexp.MustCompile(`(?i)^(beginner|basic|intermediate|advanced|expert|proficient|skilled|master|novice|fluent)\s+(?:in\s+|with\s+|at\s+)?(.+)$`)
	levelPctRe    = regexp.MustCompile(`^(\d{1,3})\s*%$`)
	levelYearsRe  = regexp.MustCompile(`(?i)^(\d{1,2})\+?\s*(?:years?|yrs?)(?:\s+(?:of\s+)?experience)?$`)
	levelRatingRe = regexp.MustCompile(`^(\d)\s*/\s*(5|10)$`)
	skillsLabelRe = regexp.MustCompile(`(?i)^(?:technical\s+|key\s+|core\s+)?(?:skills|technologies|tools|tech stack|stack)\s*[:\-–]\s*(.+)$`)
)

func (e *Engine) extractSkills(in extractInput, r *types.ParsedResume) {
	lines := in.lines
	if !in.found {
		lines = labeledSkillLines(in.det.Lines)
	}
	r.Skills = e.parseSkills(lines)
}

// labeledSkillLines collects "Technologies: Go, Kafka" style lines from anywhere in the text
func labeledSkillLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		if m := skillsLabelRe.FindStringSubmatch(strings.TrimSpace(normalize.StripBullet(l))); m != nil {
			out = append(out, m[1])
		}
	}
	return out
}

func (e *Engine) parseSkills(lines []string) []types.Skill {
	var out []types.Skill
	seen := make(map[string]bool)
	for _, raw := range lines {
		line := normalize.StripBullet(raw)
		if line == "" {
			continue
		}
		if _, rest, ok := splitLabel(line); ok {
			if _, isLevel := levelFrom(rest); !isLevel || len(splitOutsideParens(rest)) > 1 {
				line = rest
			}
		}
		for _, tok := range cascadeSplit(line) {
			name, level := parseProficiency(tok)
			name = strings.TrimSpace(strings.Trim(name, ".,;:"))
			if !e.validSkill(name) {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, types.Skill{Name: name, Level: level})
		}
	}
	return out
}

// cascadeSplit splits on list delimiters, then each item on the first of
// " and ", " & " or " + " it contains
func cascadeSplit(line string) []string {
	var out []string
	for _, item := range splitOutsideParens(line) {
		out = append(out, splitConjunction(item)...)
	}
	return out
}

// splitConjunction leaves items with a parenthetical whole so a level such
// as "(Advanced and certified)" is not cut.
func splitConjunction(item string) []string {
	if strings.ContainsAny(item, "([") {
		return []string{item}
	}
	for _, sep := range []string{" and ", " & ", " + "} {
		if !strings.Contains(item, sep) {
			continue
		}
		var out []string
		for _, p := range strings.Split(item, sep) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return []string{item}
}

// splitOutsideParens splits on , ; | and bullets that are not inside parentheses
func splitOutsideParens(s string) []string {
	var out []string
	depth := 0
	var b strings.Builder
	flush := func() {
		if p := strings.TrimSpace(b.String()); p != "" {
			out = append(out, p)
		}
		b.Reset()
	}
	for _, r := range s {
		switch {
		case r == '(' || r == '[':
			depth++
		case (r == ')' || r == ']') && depth > 0:
			depth--
		case depth == 0 && strings.ContainsRune(",;|•·▪●", r):
			flush()
			continue
		}
		b.WriteRune(r)
	}
	flush()
	return out
}

// parseProficiency splits an embedded proficiency indicator off a skill token
func parseProficiency(tok string) (name, level string) {
	tok = strings.TrimSpace(tok)
	if m := parenLevelRe.FindStringSubmatch(tok); m != nil {
		if lvl, ok := levelFrom(m[2]); ok {
			return m[1], lvl
		}
		return tok, ""
	}
	if m := percentRe.FindStringSubmatch(tok); m != nil {
		pct, _ := strconv.Atoi(m[2])
		return m[1], normalize.LevelFromPercent(pct)
	}
	if m := trailYearsRe.FindStringSubmatch(tok); m != nil {
		years, _ := strconv.Atoi(m[2])
		return m[1], normalize.LevelFromYears(years)
	}
	if m := prefixLevelRe.FindStringSubmatch(tok); m != nil {
		lvl, _ := normalize.CanonicalSkillLevel(m[1])
		return m[2], lvl
	}
	if m := suffixLevelRe.FindStringSubmatch(tok); m != nil {
		if lvl, ok := levelFrom(m[2]); ok {
			return m[1], lvl
		}
	}
	return tok, ""
}

// levelFrom reads a level word, percentage, years of experience or n/5 rating
func levelFrom(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if lvl, ok := normalize.CanonicalSkillLevel(s); ok {
		return lvl, true
	}
	if m := levelPctRe.FindStringSubmatch(s); m != nil {
		pct, _ := strconv.Atoi(m[1])
		return normalize.LevelFromPercent(pct), true
	}
	if m := levelYearsRe.FindStringSubmatch(s); m != nil {
		years, _ := strconv.Atoi(m[1])
		return normalize.LevelFromYears(years), true
	}
	if m := levelRatingRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		if n <= d {
			return normalize.LevelFromPercent(n * 100 / d), true
		}
	}
	return "", false
}

// validSkill applies the skill shape filter and rejects company, school and person names
func (e *Engine) validSkill(name string) bool {
	if !normalize.ValidSkillName(name) || wordCount(name) > 5 {
		return false
	}
	if hasContactInfo(name) || isSentence(name) {
		return false
	}
	if e.lex.IsEducationTerm(name) || e.lex.HasCompanySuffix(name) {
		return false
	}
	if m := capitalPairRe.FindStringSubmatch(name); m != nil && m[0] == name && e.lex.IsCommonFirstName(m[1]) {
		return false
	}
	_, _, isHeading := e.matchHeading(name)
	return !isHeading
}
