package heuristic

import (
	"regexp"
	"strings"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

var (
	langParenRe = regexp.MustCompile(`^(\p{L}[\p{L} ]*?)\s*\(([^()]+)\)$`)
	langSepRe   = regexp.MustCompile(`^(\p{L}[\p{L} ]*?)\s*(?:\s[-–—]\s|[-–—:])\s*(.+)$`)
	langNameRe  = regexp.MustCompile(`^\p{L}+(?:\s\p{L}+){0,2}$`)
)

func (e *Engine) extractLanguages(lines []string) []types.Language {
	var out []types.Language
	seen := make(map[string]bool)
	for _, raw := range lines {
		line := normalize.StripBullet(raw)
		for _, item := range splitOutsideParens(line) {
			name, prof := item, ""
			if m := langParenRe.FindStringSubmatch(item); m != nil {
				name, prof = m[1], m[2]
			} else if m := langSepRe.FindStringSubmatch(item); m != nil {
				name, prof = m[1], m[2]
			}
			name = strings.TrimSpace(name)
			if !langNameRe.MatchString(name) {
				continue
			}
			if canonical, ok := e.lex.CanonicalLanguage(name); ok {
				name = canonical
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			if prof = strings.TrimSpace(prof); prof != "" {
				prof = normalize.TitleCase(prof)
			}
			out = append(out, types.Language{Name: name, Proficiency: prof})
		}
	}
	return out
}

// extractTitles keeps each non-empty line of a certification or award section
func extractTitles(lines []string) []types.Title {
	var out []types.Title
	for _, raw := range lines {
		line := normalize.StripBullet(raw)
		if len([]rune(line)) < 3 || !letterRe.MatchString(line) {
			continue
		}
		out = append(out, types.Title{Title: line})
	}
	return out
}

func extractHobbies(lines []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range lines {
		for _, item := range splitList(normalize.StripBullet(raw)) {
			item = strings.Trim(item, ". ")
			if len([]rune(item)) < 2 || wordCount(item) > 6 || !letterRe.MatchString(item) {
				continue
			}
			if key := strings.ToLower(item); !seen[key] {
				seen[key] = true
				out = append(out, item)
			}
		}
	}
	return out
}

var letterRe = regexp.MustCompile(`\p{L}`)
