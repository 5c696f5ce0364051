package heuristic

import (
	"regexp"
	"strings"
	"unicode"

	"resumeparser/internal/normalize"
)

const dateToken = `(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+(?:19|20)\d{2}` +
	`|\d{1,2}[/-](?:19|20)\d{2}|(?:19|20)\d{2}|present|current|now|ongoing|today)`

var (
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	dateRangeRe  = regexp.MustCompile(`(?i)\b(` + dateToken + `)\s*(?:–|—|-|\bto\b|\buntil\b)\s*(` + dateToken + `)\b`)
	singleDateRe = regexp.MustCompile(`(?i)^` + dateToken + `$`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+\d{1,3}[\s.\-]?\(?\d{1,4}\)?(?:[\s.\-]?\d{2,4}){2,4}`),
		regexp.MustCompile(`\(?\b\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`),
		regexp.MustCompile(`\b\d{2,4}[\s.\-]\d{2,4}[\s.\-]\d{2,4}(?:[\s.\-]\d{2,4})?\b`),
	}
	yearRangeRe = regexp.MustCompile(`^(?:19|20)\d{2}\s*[-–—/ ]\s*(?:19|20)\d{2}$`)

	addressRe         = regexp.MustCompile(`\b\d{1,6}\s+(?:[A-Z][A-Za-z0-9.'-]*\s+){0,5}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Way|Place|Pl|Terrace|Parkway|Pkwy|Square|Sq|Highway|Hwy)\b\.?`)
	allCapsRe         = regexp.MustCompile(`^[\p{Lu}\s&/'-]+:?$`)
	titleCaseHeaderRe = regexp.MustCompile(`^(?:\p{Lu}\p{Ll}+|\p{Lu}+)(?:\s+(?:\p{Lu}\p{Ll}+|\p{Lu}+|&|and|of|the))*:?$`)
	numberedHeaderRe  = regexp.MustCompile(`^(?:\d{1,2}|[IVX]{1,4})[.)]\s+\p{Lu}[\p{L} &]+$`)
	listDelimRe       = regexp.MustCompile(`\s*[,;|•·▪●]\s*`)
)

// findPhone returns the first phone-number candidate in s that survives validation
func findPhone(s string) string {
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(s, -1) {
			if validPhone(m) {
				return strings.TrimSpace(m)
			}
		}
	}
	return ""
}

// validPhone rejects date-shaped matches and short digit runs
func validPhone(s string) bool {
	s = strings.TrimSpace(s)
	digits := normalize.CountDigits(s)
	if digits < 7 || digits > 15 {
		return false
	}
	if yearRangeRe.MatchString(s) || normalize.IsDateShaped(s) || dateRangeRe.MatchString(s) {
		return false
	}
	return true
}

// peelDateRange removes a date range from line and returns what is left
func peelDateRange(line string) (rest, start, end string, ok bool) {
	loc := dateRangeRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return line, "", "", false
	}
	start = normalize.Date(line[loc[2]:loc[3]])
	end = normalize.Date(line[loc[4]:loc[5]])
	rest = line[:loc[0]] + " " + line[loc[1]:]
	rest = strings.Trim(strings.TrimSpace(rest), "|,;()[]–—- ")
	return rest, start, end, true
}

func isSingleDate(s string) bool {
	return singleDateRe.MatchString(strings.TrimSpace(s))
}

func hasContactInfo(line string) bool {
	return emailRe.MatchString(line) || findPhone(line) != "" || urlRe.MatchString(line) || hostRe.MatchString(line)
}

// isBoundary reports whether line looks like a section header of any kind,
// recognized or not.
func isBoundary(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || strings.ContainsAny(s, "@0123456789") {
		return numberedHeaderRe.MatchString(s)
	}
	words := len(strings.Fields(s))
	if words <= 5 && allCapsRe.MatchString(s) && strings.IndexFunc(s, unicode.IsLetter) >= 0 {
		return true
	}
	if words <= 4 && titleCaseHeaderRe.MatchString(s) {
		return true
	}
	return false
}

func isSentence(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasSuffix(s, ".") && len(strings.Fields(s)) >= 4
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r) || unicode.IsDigit(r)
	}
	return false
}

// splitList splits a delimited line and drops empty parts
func splitList(s string) []string {
	var out []string
	for _, p := range listDelimRe.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
