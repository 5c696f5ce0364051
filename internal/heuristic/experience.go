package heuristic

import (
	"regexp"
	"strings"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

var (
	titleCompanySepRe = regexp.MustCompile(`\s+(?:at|@)\s+|\s+[|–—-]\s+|,\s+`)
	locationTailRe    = regexp.MustCompile(`^\p{Lu}[\p{L}.'-]*(?:\s+\p{Lu}[\p{L}.'-]*){0,2}(?:,\s*(?:[A-Z]{2}|\p{Lu}\p{Ll}+(?:\s+\p{Lu}\p{Ll}+)?))?$`)
)

// entryState is the line state machine shared by experience and education
type entryState struct {
	dated bool
	desc  []string
}

func (e *Engine) extractExperience(lines []string) []types.Experience {
	var out []types.Experience
	var cur *types.Experience
	var st entryState

	flush := func() {
		if cur == nil {
			return
		}
		cur.Description = strings.Join(st.desc, " ")
		if cur.JobTitle != "" || cur.Company != "" {
			out = append(out, *cur)
		}
		cur, st = nil, entryState{}
	}
	open := func() {
		flush()
		cur = &types.Experience{}
	}
	// a fresh entry can still take a title or company until it has description
	fresh := func() bool { return cur != nil && len(st.desc) == 0 }

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		bullet := normalize.HasBullet(line)
		clean := normalize.StripBullet(line)
		rest, start, end, dated := peelDateRange(clean)

		switch {
		case bullet:
			if cur != nil {
				st.desc = append(st.desc, clean)
			}

		case dated && rest == "":
			if cur == nil || st.dated {
				open()
			}
			cur.StartDate, cur.EndDate, st.dated = start, end, true

		case isSingleDate(clean):
			switch {
			case cur == nil:
			case cur.StartDate == "":
				cur.StartDate = normalize.Date(clean)
			case cur.EndDate == "":
				cur.EndDate = normalize.Date(clean)
			}

		case e.isJobTitleLine(rest):
			if !(fresh() && cur.JobTitle == "") {
				open()
			}
			title, company := e.splitTitleCompany(rest)
			cur.JobTitle = title
			if company != "" && cur.Company == "" {
				cur.Company, cur.Location = splitLocation(company)
			}
			if dated && !st.dated {
				cur.StartDate, cur.EndDate, st.dated = start, end, true
			}

		case fresh() && cur.Company == "" && !isSentence(rest) && wordCount(rest) <= 8:
			cur.Company, cur.Location = splitLocation(rest)
			if dated && !st.dated {
				cur.StartDate, cur.EndDate, st.dated = start, end, true
			}

		case e.isCompanyLine(rest):
			open()
			cur.Company, cur.Location = splitLocation(rest)
			if dated {
				cur.StartDate, cur.EndDate, st.dated = start, end, true
			}

		default:
			if cur != nil {
				st.desc = append(st.desc, clean)
			}
		}
	}
	flush()
	return out
}

// isCompanyLine matches a capitalized company name that opens a new entry
func (e *Engine) isCompanyLine(s string) bool {
	if isSentence(s) || wordCount(s) > 8 {
		return false
	}
	name, _ := splitLocation(s)
	return e.lex.HasCompanySuffix(name) && capitalizedRun(name, 1, 6)
}

// splitTitleCompany splits "Title at Company", "Title | Company" and "Title, Company"
func (e *Engine) splitTitleCompany(s string) (title, company string) {
	loc := titleCompanySepRe.FindStringIndex(s)
	if loc == nil {
		return s, ""
	}
	left, right := strings.TrimSpace(s[:loc[0]]), strings.TrimSpace(s[loc[1]:])
	if left == "" || right == "" {
		return s, ""
	}
	switch {
	case e.lex.HasJobTitleKeyword(left):
		return left, right
	case e.lex.HasJobTitleKeyword(right):
		return right, left
	}
	return s, ""
}

// splitLocation peels a trailing "City, ST" or "City" off a company line
func splitLocation(s string) (name, location string) {
	for _, sep := range []string{" | ", " - ", " – ", ", "} {
		i := strings.Index(s, sep)
		if i <= 0 {
			continue
		}
		head, tail := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):])
		if locationTailRe.MatchString(tail) && wordCount(tail) <= 4 {
			return head, tail
		}
	}
	return s, ""
}

func (e *Engine) extractEducation(lines []string) []types.Education {
	var out []types.Education
	var cur *types.Education
	var st entryState

	flush := func() {
		if cur == nil {
			return
		}
		cur.Description = strings.Join(st.desc, " ")
		if cur.School != "" || cur.Degree != "" {
			out = append(out, *cur)
		}
		cur, st = nil, entryState{}
	}
	open := func() {
		flush()
		cur = &types.Education{}
	}
	fresh := func() bool { return cur != nil && len(st.desc) == 0 }

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		clean := normalize.StripBullet(line)
		rest, start, end, dated := peelDateRange(clean)
		if !dated && !isSingleDate(rest) {
			if head, year, ok := peelTrailingYear(rest); ok {
				rest, end, dated = head, year, true
			}
		}
		setDates := func() {
			if dated && !st.dated {
				cur.StartDate, cur.EndDate, st.dated = start, end, true
			}
		}

		switch {
		case dated && rest == "":
			if cur == nil || st.dated {
				open()
			}
			setDates()

		case isSingleDate(clean):
			if cur != nil && cur.EndDate == "" {
				cur.EndDate = normalize.Date(clean)
			}

		case e.lex.HasDegreeKeyword(rest) && wordCount(rest) <= 15:
			if !(fresh() && cur.Degree == "") {
				open()
			}
			degree, school := e.splitDegreeSchool(rest)
			cur.Degree = degree
			if school != "" && cur.School == "" {
				cur.School, cur.Location = splitLocation(school)
			}
			setDates()

		case e.lex.HasInstitutionKeyword(rest) && wordCount(rest) <= 12:
			if !(fresh() && cur.School == "") {
				open()
			}
			cur.School, cur.Location = splitLocation(rest)
			setDates()

		default:
			if cur != nil {
				st.desc = append(st.desc, clean)
			}
		}
	}
	flush()
	return out
}

var trailingYearRe = regexp.MustCompile(`^(.*\S)[\s,(]+((?:19|20)\d{2})\)?$`)

// peelTrailingYear splits "Stanford University, 2019" into the text and the year
func peelTrailingYear(s string) (rest, year string, ok bool) {
	m := trailingYearRe.FindStringSubmatch(s)
	if m == nil {
		return s, "", false
	}
	return strings.TrimRight(m[1], " ,"), m[2], true
}

// splitDegreeSchool separates an inline institution from a degree line
func (e *Engine) splitDegreeSchool(s string) (degree, school string) {
	for _, loc := range titleCompanySepRe.FindAllStringIndex(s, -1) {
		left, right := strings.TrimSpace(s[:loc[0]]), strings.TrimSpace(s[loc[1]:])
		if left == "" || right == "" {
			continue
		}
		if e.lex.HasInstitutionKeyword(right) && !e.lex.HasInstitutionKeyword(left) {
			return left, right
		}
		if e.lex.HasInstitutionKeyword(left) && e.lex.HasDegreeKeyword(right) {
			return right, left
		}
	}
	return s, ""
}
