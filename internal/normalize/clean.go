package normalize

import (
	"regexp"
	"strings"
)

var (
	leadingBulletRe  = regexp.MustCompile(`^(?:[•●▪◦‣∙·■□►▶➢➤✓✔❖◆◇○*>]+|[-–—]+\s|o\s)\s*`)
	embeddedBulletRe = regexp.MustCompile(`\s*[•●▪◦‣■□►▶➢➤❖◆◇]+\s*`)
	emojiRe          = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}\x{200D}\x{20E3}]`)
	spaceRunRe       = regexp.MustCompile(`\s+`)
)

const dangling = ",;:|-–—·"

// DeepClean strips bullet markers, emoji and dangling punctuation and collapses
// whitespace. DeepClean(DeepClean(s)) == DeepClean(s).
func DeepClean(s string) string {
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = emojiRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(leadingBulletRe.ReplaceAllString(strings.TrimSpace(s), ""))
	s = embeddedBulletRe.ReplaceAllString(s, " ")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(strings.Trim(s, dangling))
}

// StripBullet removes only a leading list marker from a line
func StripBullet(s string) string {
	return strings.TrimSpace(leadingBulletRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

// HasBullet reports whether line starts with a list marker
func HasBullet(s string) bool {
	return leadingBulletRe.MatchString(strings.TrimSpace(s))
}
