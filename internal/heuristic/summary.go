package heuristic

import (
	"strings"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

// earlyLineWindow bounds how far into the text narrative sentences are searched for
const earlyLineWindow = 15

func (e *Engine) extractSummary(in extractInput, r *types.ParsedResume) {
	if in.found {
		r.Summary = strings.Join(nonEmpty(in.lines), " ")
		return
	}
	r.Summary = e.NarrativeSummary(in.text)
}

type paragraph struct {
	lines []string
	text  string
}

func splitParagraphs(text string) []paragraph {
	var out []paragraph
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, paragraph{lines: cur, text: strings.Join(cur, " ")})
			cur = nil
		}
	}
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			flush()
			continue
		}
		cur = append(cur, l)
	}
	flush()
	return out
}

// NarrativeSummary returns the first unlabeled narrative paragraph of text
// whose length falls within the configured bounds, or failing that a short run
// of early professional-sounding sentences.
func (e *Engine) NarrativeSummary(text string) string {
	for _, p := range splitParagraphs(text) {
		if e.isNarrativeParagraph(p) {
			return p.text
		}
	}

	var run []string
	seen := 0
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			if len(run) > 0 {
				break
			}
			continue
		}
		seen++
		if seen > earlyLineWindow {
			break
		}
		if e.isNarrativeLine(l) {
			run = append(run, l)
			if len(run) == 3 {
				break
			}
			continue
		}
		if len(run) > 0 {
			break
		}
	}
	return strings.Join(run, " ")
}

func (e *Engine) isNarrativeParagraph(p paragraph) bool {
	n := len([]rune(p.text))
	if n < e.opts.MinParagraphChars || n > e.opts.MaxParagraphChars {
		return false
	}
	if hasContactInfo(p.text) || addressRe.MatchString(p.text) || dateRangeRe.MatchString(p.text) {
		return false
	}
	first := p.lines[0]
	if _, _, ok := e.matchHeading(first); ok || isBoundary(first) {
		return false
	}
	bullets := 0
	for _, l := range p.lines {
		if normalize.HasBullet(l) {
			bullets++
		}
	}
	if bullets*2 >= len(p.lines) {
		return false
	}
	return !e.isSkillListLine(p.text)
}
