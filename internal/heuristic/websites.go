package heuristic

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"resumeparser/internal/types"
)

var (
	urlRe  = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>()"',;]+`)
	hostRe = regexp.MustCompile(`(?i)\b(?:(?:[a-z]{2,3}\.)?linkedin\.com/(?:in|pub|company)/[\w\-%.]+|(?:github|gitlab)\.com/[\w\-.]+|(?:twitter|x|instagram)\.com/[\w.]+)/?`)
)

// hostLabels maps hosts onto the closed label set; every other host is a "Website"
var hostLabels = map[string]string{
	"linkedin.com":  "LinkedIn",
	"github.com":    "GitHub",
	"github.io":     "GitHub",
	"twitter.com":   "Twitter",
	"x.com":         "Twitter",
	"instagram.com": "Instagram",
}

// extractWebsites collects every URL and bare profile link in text, in order of appearance
func extractWebsites(text string) []types.Website {
	type hit struct {
		pos int
		raw string
	}
	var hits []hit
	for _, re := range []*regexp.Regexp{urlRe, hostRe} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			// an email's domain is not a website
			if loc[0] > 0 && text[loc[0]-1] == '@' {
				continue
			}
			hits = append(hits, hit{pos: loc[0], raw: text[loc[0]:loc[1]]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var out []types.Website
	seen := make(map[string]bool)
	for _, h := range hits {
		raw := strings.TrimRight(h.raw, ".,;:!?)]}>'\"")
		if raw == "" {
			continue
		}
		key := StripScheme(raw)
		if key == "" || seen[key] || containedIn(key, seen) {
			continue
		}
		seen[key] = true
		link := raw
		if !strings.Contains(strings.ToLower(link), "://") {
			link = "https://" + link
		}
		out = append(out, types.Website{Label: WebsiteLabel(link), URL: link})
	}
	return out
}

// containedIn catches the bare host match that overlaps a full URL already taken
func containedIn(key string, seen map[string]bool) bool {
	for s := range seen {
		if strings.HasPrefix(s, key+"/") {
			return true
		}
	}
	return false
}

// StripScheme lower-cases a URL and removes its scheme, a leading "www." and any trailing slash
func StripScheme(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimRight(s, "/")
}

// WebsiteLabel names a link by its host: LinkedIn, GitHub, Twitter, Instagram or Website
func WebsiteLabel(link string) string {
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "Website"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for domain, label := range hostLabels {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return label
		}
	}
	return "Website"
}
