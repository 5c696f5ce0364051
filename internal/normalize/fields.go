package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Phone strips formatting, prefixes '+' to international numbers and groups
// 10-digit numbers as XXX-XXX-XXXX.
func Phone(s string) string {
	var b strings.Builder
	digits := 0
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if digits == 0 {
		return ""
	}
	hasPlus := strings.HasPrefix(out, "+")
	switch {
	case digits > 10 && !hasPlus:
		return "+" + out
	case digits == 10 && !hasPlus:
		return out[:3] + "-" + out[3:6] + "-" + out[6:]
	}
	return out
}

// Email lower-cases and trims an address
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var canonicalLevels = map[string]string{
	"beginner": "Beginner", "novice": "Beginner", "elementary": "Beginner", "entry": "Beginner",
	"entry level": "Beginner", "learning": "Beginner",
	"basic": "Basic", "basics": "Basic", "familiar": "Basic", "fundamental": "Basic", "limited": "Basic",
	"intermediate": "Intermediate", "moderate": "Intermediate", "working knowledge": "Intermediate",
	"competent": "Intermediate", "conversational": "Intermediate", "good": "Intermediate",
	"advanced": "Advanced", "strong": "Advanced", "very good": "Advanced", "upper intermediate": "Advanced",
	"expert": "Expert", "excellent": "Expert", "guru": "Expert",
	"proficient": "Proficient", "fluent": "Proficient", "professional": "Proficient", "native": "Proficient",
	"skilled": "Skilled", "experienced": "Skilled",
	"master": "Master", "mastery": "Master",
}

// CanonicalSkillLevel maps a level word or synonym onto the canonical vocabulary
func CanonicalSkillLevel(s string) (string, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(s), " "))
	key = strings.TrimSuffix(key, " level")
	c, ok := canonicalLevels[key]
	return c, ok
}

// SkillLevel returns the canonical level for s, or s in title case when unrecognized
func SkillLevel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if c, ok := CanonicalSkillLevel(s); ok {
		return c
	}
	return TitleCase(s)
}

// LevelFromPercent converts a self-rated percentage into a level
func LevelFromPercent(pct int) string {
	switch {
	case pct >= 90:
		return "Expert"
	case pct >= 75:
		return "Advanced"
	case pct >= 50:
		return "Intermediate"
	default:
		return "Beginner"
	}
}

// LevelFromYears converts years of experience into a level
func LevelFromYears(years int) string {
	switch {
	case years >= 8:
		return "Expert"
	case years >= 5:
		return "Advanced"
	case years >= 2:
		return "Intermediate"
	default:
		return "Beginner"
	}
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
// A Caser holds state, so one is built per call.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(s), " "))
}

var (
	letterRe     = regexp.MustCompile(`\p{L}`)
	phoneShapeRe = regexp.MustCompile(`^\+?[\d\s().\-]{7,}$`)
	emailRe      = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// IsPhoneShaped reports whether s consists of phone punctuation and 7-15 digits
func IsPhoneShaped(s string) bool {
	s = strings.TrimSpace(s)
	if !phoneShapeRe.MatchString(s) {
		return false
	}
	n := CountDigits(s)
	return n >= 7 && n <= 15
}

// IsEmailShaped is the RFC-lite address check used by extraction and scoring
func IsEmailShaped(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// ValidSkillName reports whether s has the shape of a skill name:
// 3-50 characters with at least one letter, and not a date or phone number.
func ValidSkillName(s string) bool {
	s = strings.TrimSpace(s)
	n := len([]rune(s))
	if n < 3 || n > 50 {
		return false
	}
	if !letterRe.MatchString(s) {
		return false
	}
	return !IsDateShaped(s) && !IsPhoneShaped(s)
}

// CountDigits counts ASCII digits in s
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
