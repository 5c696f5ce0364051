package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

const Present = "Present"

var monthAbbrev = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var monthLookup = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

var presentWords = map[string]bool{
	"present": true, "current": true, "currently": true, "now": true, "ongoing": true,
	"active": true, "today": true, "to date": true,
}

var (
	yearRe      = regexp.MustCompile(`^(19|20)\d{2}$`)
	monthYearRe = regexp.MustCompile(`^([A-Za-z]+)\.?,?\s+((?:19|20)\d{2})$`)
	numericRe   = regexp.MustCompile(`^(\d{1,2})[/-]((?:19|20)\d{2})$`)
	dayDateRe   = regexp.MustCompile(`^(?:\d{1,2}[./-]\d{1,2}[./-](?:19|20)\d{2}|(?:19|20)\d{2}[./-]\d{1,2}[./-]\d{1,2})$`)
	rangeSepRe  = regexp.MustCompile(`\s*(?:–|—|-|\s(?i:to|until|till)\s)\s*`)
)

// Date canonicalizes a single date or a date range. Single dates become
// "Mon YYYY", "YYYY" or "Present"; ranges become "A - B". Anything not
// recognized is returned unchanged. Date(Date(s)) == Date(s).
func Date(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if d, ok := singleDate(s); ok {
		return d
	}
	if start, end, ok := SplitRange(s); ok {
		return start + " - " + end
	}
	return s
}

// SplitRange splits a date range into its normalized sides. Both sides must be
// recognizable dates.
func SplitRange(s string) (start, end string, ok bool) {
	s = strings.TrimSpace(s)
	for _, loc := range rangeSepRe.FindAllStringIndex(s, -1) {
		left, right := s[:loc[0]], s[loc[1]:]
		l, lok := singleDate(left)
		r, rok := singleDate(right)
		if lok && rok {
			return l, r, true
		}
	}
	return "", "", false
}

// IsCanonicalDate reports whether s is already in one of the canonical single-date forms
func IsCanonicalDate(s string) bool {
	if s == Present || yearRe.MatchString(s) {
		return true
	}
	m := monthYearRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	for _, abbr := range monthAbbrev {
		if m[1] == abbr {
			return true
		}
	}
	return false
}

// IsDateShaped reports whether s is a recognizable date or date range.
// Full day dates (12.05.2019, 1990-05-12) count even though Date leaves them as is.
func IsDateShaped(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if dayDateRe.MatchString(s) {
		return true
	}
	if _, ok := singleDate(s); ok {
		return true
	}
	_, _, ok := SplitRange(s)
	return ok
}

// Sortable returns year*100+month for a canonical date, with Present sorting last
// and bare years sorting as January.
func Sortable(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == Present {
		return 999999, true
	}
	if yearRe.MatchString(s) {
		y, _ := strconv.Atoi(s)
		return y * 100, true
	}
	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		month, ok := monthLookup[strings.ToLower(m[1])]
		if !ok {
			return 0, false
		}
		y, _ := strconv.Atoi(m[2])
		return y*100 + month, true
	}
	return 0, false
}

func singleDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if presentWords[strings.ToLower(s)] {
		return Present, true
	}
	if yearRe.MatchString(s) {
		return s, true
	}
	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthLookup[strings.ToLower(m[1])]; ok {
			return monthAbbrev[month-1] + " " + m[2], true
		}
		return "", false
	}
	if m := numericRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		if month >= 1 && month <= 12 {
			return monthAbbrev[month-1] + " " + m[2], true
		}
	}
	return "", false
}
