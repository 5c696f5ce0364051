package evidence

import (
	"strings"
	"unicode"

	"resumeparser/internal/textnorm"
)

// Jaccard is the token-set similarity of a and b in [0,1]. Tokens are
// lower-cased runs of letters and digits.
func Jaccard(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

// BestParagraph returns the blank-line separated paragraph of text most
// similar to candidate, with its score. Ties go to the earlier paragraph.
func BestParagraph(candidate, text string) (string, float64) {
	var best string
	var bestScore float64
	for _, p := range textnorm.Paragraphs(text) {
		if s := Jaccard(candidate, p); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best, bestScore
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[t] = struct{}{}
	}
	return set
}
