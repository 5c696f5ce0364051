package heuristic

import (
	"regexp"
	"strings"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

var (
	availableOnRequestRe = regexp.MustCompile(`(?i)\b(?:available|provided|furnished)\s+(?:up)?on\s+request\b|\bupon request\b`)
	refPartSepRe         = regexp.MustCompile(`\s+[-–—|]\s+|,\s+`)
)

// extractReferences groups reference lines into entries: a name line opens an
// entry, the following non-contact line is the relationship and contact lines
// accumulate into the contact info.
func (e *Engine) extractReferences(lines []string) []types.Reference {
	var out []types.Reference
	var cur *types.Reference
	flush := func() {
		if cur != nil && cur.Name != "" {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, raw := range lines {
		line := normalize.StripBullet(raw)
		if line == "" || availableOnRequestRe.MatchString(line) {
			continue
		}

		if parts := strings.Split(line, ";"); len(parts) > 1 && !hasContactInfo(parts[0]) {
			flush()
			for _, p := range parts {
				if ref, ok := e.parseInlineReference(p); ok {
					out = append(out, ref)
				}
			}
			continue
		}

		switch {
		case e.isLooseName(line):
			flush()
			cur = &types.Reference{Name: line}

		case hasContactInfo(line):
			if cur == nil {
				if ref, ok := e.parseInlineReference(line); ok {
					out = append(out, ref)
				}
				continue
			}
			cur.ContactInfo = joinNonEmpty("; ", cur.ContactInfo, line)

		default:
			if ref, ok := e.parseInlineReference(line); ok && ref.Name != "" && (ref.Relationship != "" || ref.ContactInfo != "") {
				flush()
				cur = &ref
				continue
			}
			if cur != nil {
				cur.Relationship = joinNonEmpty(", ", cur.Relationship, line)
			}
		}
	}
	flush()
	return out
}

// parseInlineReference reads "Name - Relationship, contact" from a single line
func (e *Engine) parseInlineReference(s string) (types.Reference, bool) {
	s = strings.TrimSpace(normalize.StripBullet(s))
	if s == "" {
		return types.Reference{}, false
	}
	var ref types.Reference
	var rel, contact []string
	for i, p := range splitKeepingContact(s) {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case i == 0 && e.isLooseName(p):
			ref.Name = p
		case hasContactInfo(p):
			contact = append(contact, p)
		case i == 0:
			return types.Reference{}, false
		default:
			rel = append(rel, p)
		}
	}
	if ref.Name == "" {
		return types.Reference{}, false
	}
	ref.Relationship = strings.Join(rel, ", ")
	ref.ContactInfo = strings.Join(contact, "; ")
	return ref, true
}

// splitKeepingContact splits a reference line on separators, leaving phone numbers intact
func splitKeepingContact(s string) []string {
	var out []string
	last := 0
	for _, loc := range refPartSepRe.FindAllStringIndex(s, -1) {
		left := s[last:loc[0]]
		// " - " inside a phone number such as "555 - 0100" is not a separator
		if findPhone(s[last:]) != "" && strings.TrimSpace(left) != "" && normalize.CountDigits(left) > 0 && normalize.CountDigits(s[loc[1]:]) > 0 {
			continue
		}
		out = append(out, left)
		last = loc[1]
	}
	return append(out, s[last:])
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
