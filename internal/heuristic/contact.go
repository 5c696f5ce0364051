package heuristic

import (
	"regexp"
	"strings"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

var (
	capitalPairRe   = regexp.MustCompile(`\b(\p{Lu}\p{Ll}+)\s+(\p{Lu}\p{Ll}+)\b`)
	strictPairRe    = regexp.MustCompile(`^\p{Lu}\p{Ll}+\s+\p{Lu}\p{Ll}+$`)
	looseNameRe     = regexp.MustCompile(`^\p{Lu}[\p{L}'.-]*(?:\s+\p{Lu}[\p{L}'.-]*){1,3}$`)
	nameLabelRe     = regexp.MustCompile(`(?i)^(?:full\s+)?name\s*:\s*`)
	subHeadingRe    = regexp.MustCompile(`(?i)^(?:contact|personal|header)(?:\s+(?:info|information|details|data))?\s*:?$`)
	locationLabelRe = regexp.MustCompile(`(?i)^(?:location|city|address|based in|residence)\s*:\s*`)
	stateCodeRe     = regexp.MustCompile(`^[A-Z]{2}(?:\s+\d{5}(?:-\d{4})?)?$`)
	segmentSepRe    = regexp.MustCompile(`\s*[|•·]\s*`)

	postCodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z]\d[A-Z]\s?\d[A-Z]\d)\b`),
		regexp.MustCompile(`\b([A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2})\b`),
		regexp.MustCompile(`\b[A-Z]{2}\s+(\d{5}(?:-\d{4})?)\b`),
		regexp.MustCompile(`,\s*(\d{4,6})\b`),
	}
)

func (e *Engine) extractContact(in extractInput, r *types.ParsedResume) {
	d := in.det
	c := &r.Contact

	scope := append(append([]string(nil), in.lines...), d.Preamble...)
	all := e.linesOutside(d, KindReferences)

	c.Email = firstEmail(scope)
	if c.Email == "" {
		c.Email = firstEmail(all)
	}
	c.Phone = firstPhone(scope)
	if c.Phone == "" {
		c.Phone = firstPhone(all)
	}

	nameLine := ""
	c.FirstName, c.LastName, nameLine = e.findName(all)
	c.DesiredJobTitle = e.findDesiredTitle(d.Preamble, nameLine)
	e.findLocation(scope, c)
}

// linesOutside returns the non-empty lines of the text that do not belong to section k
func (e *Engine) linesOutside(d *Detection, k Kind) []string {
	exclude := make(map[string]bool)
	if sec := d.Sections[k]; sec != nil {
		for _, l := range sec.Lines {
			exclude[strings.TrimSpace(l)] = true
		}
	}
	var out []string
	for _, l := range d.Lines {
		l = strings.TrimSpace(l)
		if l == "" || exclude[l] {
			continue
		}
		out = append(out, l)
	}
	return out
}

func firstEmail(lines []string) string {
	for _, l := range lines {
		if m := emailRe.FindString(l); m != "" {
			return m
		}
	}
	return ""
}

func firstPhone(lines []string) string {
	for _, l := range lines {
		if p := findPhone(l); p != "" {
			return p
		}
	}
	return ""
}

// findName tries, in order: name-shaped lines near the top, a known first name
// followed by a capitalized word, the text just before the email, and the line
// after a contact sub-heading.
func (e *Engine) findName(lines []string) (first, last, line string) {
	// (a) first five non-empty lines against the configured name shapes
	for i, l := range lines {
		if i >= 5 {
			break
		}
		cand := nameLabelRe.ReplaceAllString(normalize.StripBullet(l), "")
		if e.isNameTerm(cand) {
			continue
		}
		if e.lex.MatchName(cand) {
			f, ln := splitName(cand)
			return f, ln, l
		}
	}

	// (b) capitalized word pairs anywhere
	for _, l := range lines {
		for _, m := range capitalPairRe.FindAllStringSubmatch(l, -1) {
			if e.lex.IsCommonFirstName(m[1]) && !e.isNameTerm(m[2]) && !e.isNameTerm(m[0]) {
				return m[1], m[2], l
			}
		}
	}
	for _, l := range lines {
		cand := normalize.StripBullet(l)
		if strictPairRe.MatchString(cand) && !e.isNameTerm(cand) {
			f, ln := splitName(cand)
			return f, ln, l
		}
	}

	// (c) immediately before the email
	for i, l := range lines {
		loc := emailRe.FindStringIndex(l)
		if loc == nil {
			continue
		}
		before := strings.Trim(strings.TrimSpace(l[:loc[0]]), "<(|,-–— ")
		if e.isLooseName(before) {
			f, ln := splitName(before)
			return f, ln, l
		}
		if i > 0 && e.isLooseName(lines[i-1]) {
			f, ln := splitName(lines[i-1])
			return f, ln, lines[i-1]
		}
		break
	}

	// (d) just after a contact sub-heading
	for i, l := range lines {
		if subHeadingRe.MatchString(strings.TrimSpace(l)) && i+1 < len(lines) {
			cand := nameLabelRe.ReplaceAllString(lines[i+1], "")
			if e.isLooseName(cand) {
				f, ln := splitName(cand)
				return f, ln, lines[i+1]
			}
		}
	}
	return "", "", ""
}

func (e *Engine) isLooseName(s string) bool {
	s = strings.TrimSpace(s)
	return looseNameRe.MatchString(s) && !e.isNameTerm(s)
}

// isNameTerm rejects candidates that are really titles, companies, schools or headings
func (e *Engine) isNameTerm(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || hasContactInfo(s) || isSingleDate(s) {
		return true
	}
	if e.lex.HasJobTitleKeyword(s) || e.lex.HasCompanySuffix(s) || e.lex.IsEducationTerm(s) {
		return true
	}
	if _, ok := e.lex.CanonicalCountry(s); ok {
		return true
	}
	if _, ok := e.lex.CanonicalLanguage(s); ok {
		return true
	}
	_, _, ok := e.matchHeading(s)
	return ok
}

func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if strings.ToUpper(full) == full {
		full = normalize.TitleCase(full)
	}
	words := strings.Fields(full)
	if len(words) == 0 {
		return "", ""
	}
	return words[0], strings.Join(words[1:], " ")
}

// findDesiredTitle looks for a job title in the header lines above the first section
func (e *Engine) findDesiredTitle(preamble []string, nameLine string) string {
	limit := min(len(preamble), 6)
	afterName := false
	for _, l := range preamble[:limit] {
		if l == nameLine {
			afterName = true
			continue
		}
		for _, seg := range segmentSepRe.Split(l, -1) {
			seg = strings.TrimSpace(seg)
			if seg == "" || hasContactInfo(seg) || addressRe.MatchString(seg) {
				continue
			}
			if _, _, ok := e.matchHeading(seg); ok {
				continue
			}
			if e.lex.HasJobTitleKeyword(seg) && wordCount(seg) <= 6 && !strings.HasSuffix(seg, ".") {
				return seg
			}
			if afterName && capitalizedRun(seg, 2, 4) && !e.lex.HasCompanySuffix(seg) &&
				!e.lex.IsEducationTerm(seg) && !strings.Contains(seg, ",") {
				return seg
			}
		}
		afterName = false
	}
	return ""
}

func capitalizedRun(s string, minWords, maxWords int) bool {
	words := strings.Fields(s)
	if len(words) < minWords || len(words) > maxWords {
		return false
	}
	for _, w := range words {
		if !startsUpper(w) || normalize.CountDigits(w) > 0 {
			return false
		}
	}
	return true
}

// findLocation fills post code, city, country and street address from the contact lines
func (e *Engine) findLocation(lines []string, c *types.Contact) {
	for _, l := range lines {
		for _, seg := range segmentSepRe.Split(l, -1) {
			seg = locationLabelRe.ReplaceAllString(strings.TrimSpace(seg), "")
			if seg == "" || emailRe.MatchString(seg) || urlRe.MatchString(seg) || hostRe.MatchString(seg) {
				continue
			}
			if findPhone(seg) != "" && !addressRe.MatchString(seg) {
				continue
			}
			if c.PostCode == "" {
				c.PostCode = findPostCode(seg)
			}
			if c.Address == "" {
				if m := addressRe.FindString(seg); m != "" {
					c.Address = strings.TrimSpace(m)
				}
			}
			if c.Country == "" {
				c.Country = e.lex.FindCountry(seg)
			}
			if c.City == "" {
				c.City = e.cityOf(seg)
			}
		}
	}
}

func findPostCode(seg string) string {
	for _, re := range postCodePatterns {
		if m := re.FindStringSubmatch(seg); m != nil {
			return m[1]
		}
	}
	return ""
}

// cityOf reads "City, ST", "City, Country" or "Street, City, ST 12345"
func (e *Engine) cityOf(seg string) string {
	parts := strings.Split(seg, ",")
	if len(parts) < 2 {
		return ""
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	tail := parts[len(parts)-1]
	_, isCountry := e.lex.CanonicalCountry(tail)
	if !isCountry && !stateCodeRe.MatchString(tail) {
		return ""
	}
	city := parts[len(parts)-2]
	if addressRe.MatchString(city) || normalize.CountDigits(city) > 0 || !capitalizedRun(city, 1, 3) {
		return ""
	}
	if _, ok := e.lex.CanonicalCountry(city); ok {
		return ""
	}
	return city
}
