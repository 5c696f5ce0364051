package heuristic

import (
	"strings"

	"resumeparser/internal/lexicon"
	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

// Section sources reported in debug output
const (
	SourceHeading      = "heading"
	SourceContent      = "content"
	SourceReclassified = "reclassified"
)

// Options tunes the summary heuristics
type Options struct {
	MinParagraphChars int
	MaxParagraphChars int
}

// Section is a block of lines attributed to one section kind
type Section struct {
	Kind   Kind
	Source string
	Lines  []string
}

// Detection is the result of section detection over one text
type Detection struct {
	Sections [kindCount]*Section
	Preamble []string // lines before the first recognized heading
	Lines    []string // every line of the text, placeholders blanked
}

// Section returns the detected section of kind k, or nil
func (d *Detection) Section(k Kind) *Section {
	return d.Sections[k]
}

func (d *Detection) add(k Kind, source string, lines ...string) {
	if s := d.Sections[k]; s != nil {
		s.Lines = append(s.Lines, lines...)
		return
	}
	d.Sections[k] = &Section{Kind: k, Source: source, Lines: append([]string(nil), lines...)}
}

// Debug converts the detection into the serializable debug view
func (d *Detection) Debug() []types.DetectedSection {
	var out []types.DetectedSection
	for _, k := range Kinds() {
		s := d.Sections[k]
		if s == nil {
			continue
		}
		out = append(out, types.DetectedSection{Name: k.String(), Source: s.Source, Lines: nonEmpty(s.Lines)})
	}
	return out
}

// Engine runs heading detection, content classification, reclassification and
// field extraction. It holds only read-only tables and is safe for concurrent use.
type Engine struct {
	lex        *lexicon.Lexicon
	aliases    map[Kind][]string
	aliasIndex map[string]Kind
	strategies [kindCount]strategy
	opts       Options
}

// New builds an engine. configuredAliases is resolved once through
// ResolveSectionAliases; a nil lexicon means the built-in defaults.
func New(lex *lexicon.Lexicon, configuredAliases map[string][]string, opts Options) *Engine {
	if lex == nil {
		lex = lexicon.Default()
	}
	if opts.MinParagraphChars <= 0 {
		opts.MinParagraphChars = 80
	}
	if opts.MaxParagraphChars <= 0 {
		opts.MaxParagraphChars = 900
	}

	e := &Engine{
		lex:        lex,
		aliases:    ResolveSectionAliases(configuredAliases),
		aliasIndex: make(map[string]Kind),
		opts:       opts,
	}
	// walk kinds in order so an alias claimed by two kinds resolves deterministically
	for _, k := range Kinds() {
		for _, a := range e.aliases[k] {
			if _, taken := e.aliasIndex[a]; !taken {
				e.aliasIndex[a] = k
			}
		}
	}
	e.strategies = e.buildStrategies()
	return e
}

// Aliases returns the resolved heading aliases for k
func (e *Engine) Aliases(k Kind) []string {
	return append([]string(nil), e.aliases[k]...)
}

// Parse runs detection, reclassification and extraction over normalized text
func (e *Engine) Parse(text string) (types.ParsedResume, *Detection) {
	d := e.Detect(text)
	e.Reclassify(d)
	return e.Extract(d), d
}

// matchHeading reports the section kind announced by line, with any inline content
func (e *Engine) matchHeading(line string) (Kind, string, bool) {
	label, inline, ok := headingCandidate(line)
	if !ok {
		return 0, "", false
	}
	k, ok := e.aliasIndex[normalizeHeading(label)]
	if !ok {
		return 0, "", false
	}
	return k, inline, true
}

// contentOrder is the priority in which content predicates claim an unlabeled line
var contentOrder = []Kind{KindContact, KindEducation, KindExperience, KindSummary, KindSkills}

// Detect partitions text into sections, first by recognized headings and then,
// for kinds without a heading, by classifying the remaining lines.
func (e *Engine) Detect(text string) *Detection {
	lines := strings.Split(text, "\n")
	d := &Detection{Lines: lines}

	type heading struct {
		idx    int
		kind   Kind
		inline string
	}
	var headings []heading
	for i, line := range lines {
		if e.lex.IsPlaceholder(line) {
			lines[i] = ""
			continue
		}
		if k, inline, ok := e.matchHeading(line); ok {
			headings = append(headings, heading{idx: i, kind: k, inline: inline})
		}
	}

	firstHeading := len(lines)
	if len(headings) > 0 {
		firstHeading = headings[0].idx
	}
	var headed [kindCount]bool
	for _, h := range headings {
		headed[h.kind] = true
	}

	preamble := lines[:firstHeading]
	d.Preamble = nonEmpty(preamble)
	e.detectByContent(d, preamble, headed)

	for hi, h := range headings {
		end := len(lines)
		if hi+1 < len(headings) {
			end = headings[hi+1].idx
		}
		var content []string
		if h.inline != "" {
			content = append(content, h.inline)
		}
		content = append(content, e.detachBlocks(d, h.kind, lines[h.idx+1:end], headed)...)
		d.add(h.kind, SourceHeading, trimBlank(content)...)
	}
	return d
}

// detachableKinds may claim a block out of another kind's headed section
var detachableKinds = []Kind{KindEducation, KindExperience, KindSkills}

// detachBlocks hands blank-line separated blocks of a headed section to an
// unheaded kind when the block's first line belongs to that kind and not to
// host. The first block always stays. It returns the lines host keeps.
func (e *Engine) detachBlocks(d *Detection, host Kind, body []string, headed [kindCount]bool) []string {
	hostDetect := e.strategies[host].detect
	kept := make([]string, 0, len(body))
	seen, afterBlank := false, false
	for i := 0; i < len(body); {
		line := strings.TrimSpace(body[i])
		if line == "" {
			afterBlank = true
			kept = append(kept, body[i])
			i++
			continue
		}
		if seen && afterBlank && (hostDetect == nil || !hostDetect(line)) {
			if k, ok := e.detachableKind(line, host, headed); ok {
				n := e.contentRun(k, body[i:], headed)
				d.add(k, SourceContent, nonEmpty(body[i:i+n])...)
				i += n
				afterBlank = false
				continue
			}
		}
		seen, afterBlank = true, false
		kept = append(kept, body[i])
		i++
	}
	return kept
}

func (e *Engine) detachableKind(line string, host Kind, headed [kindCount]bool) (Kind, bool) {
	for _, k := range detachableKinds {
		if k == host || headed[k] {
			continue
		}
		if k != KindExperience && e.isJobTitleLine(normalize.StripBullet(line)) {
			continue
		}
		if e.strategies[k].detect(line) {
			return k, true
		}
	}
	return 0, false
}

// detectByContent absorbs runs of lines matching a kind's Detect predicate
// until a blank line or a header-shaped boundary.
func (e *Engine) detectByContent(d *Detection, lines []string, headed [kindCount]bool) {
	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}
		k, ok := e.classifyLine(line, headed)
		if !ok {
			i++
			continue
		}
		n := e.contentRun(k, lines[i:], headed)
		d.add(k, SourceContent, nonEmpty(lines[i:i+n])...)
		i += n
	}
}

// contentRun counts the lines, starting with lines[0], that a content run of
// kind k takes. Bare dates stay with an absorbing run.
func (e *Engine) contentRun(k Kind, lines []string, headed [kindCount]bool) int {
	st := e.strategies[k]
	j := 1
	for ; j < len(lines); j++ {
		next := strings.TrimSpace(lines[j])
		if next == "" {
			break
		}
		if st.detect(next) {
			continue
		}
		if isBoundary(next) || !st.absorbs {
			break
		}
		if isDateOnly(next) {
			continue
		}
		if other, ok := e.classifyLine(next, headed); ok && other != k {
			break
		}
	}
	return j
}

func isDateOnly(line string) bool {
	if isSingleDate(line) {
		return true
	}
	rest, _, _, ok := peelDateRange(line)
	return ok && rest == ""
}

func (e *Engine) classifyLine(line string, headed [kindCount]bool) (Kind, bool) {
	for _, k := range contentOrder {
		if headed[k] {
			continue
		}
		if st := e.strategies[k]; st.detect != nil && st.detect(line) {
			return k, true
		}
	}
	return 0, false
}

// Reclassify moves lines that were filed under the wrong section into the
// section whose Classify predicate claims them.
func (e *Engine) Reclassify(d *Detection) {
	for _, target := range reclassifyOrder {
		st := e.strategies[target]
		if st.classify == nil {
			continue
		}
		for _, src := range st.sources {
			sec := d.Sections[src]
			if sec == nil {
				continue
			}
			kept := sec.Lines[:0]
			var moved []string
			for _, line := range sec.Lines {
				if strings.TrimSpace(line) == "" || !st.classify(line) {
					kept = append(kept, line)
					continue
				}
				if listKinds[src] {
					if claimed, rest, ok := splitClaimed(line, st.classify); ok {
						moved = append(moved, claimed...)
						kept = append(kept, rest)
						continue
					}
				}
				moved = append(moved, strings.TrimSpace(line))
			}
			sec.Lines = kept
			if len(moved) > 0 {
				d.add(target, SourceReclassified, moved...)
			}
		}
	}
}

var reclassifyOrder = []Kind{KindContact, KindExperience, KindSummary, KindSkills}

// listKinds hold one item per delimited entry, so a misfiled item can leave
// without taking its neighbours along
var listKinds = map[Kind]bool{KindSkills: true, KindLanguages: true, KindHobbies: true}

// splitClaimed separates the list items of line that claim accepts from the
// rest, keeping any "Label:" prefix on the rest. It reports false unless at
// least two items stay behind.
func splitClaimed(line string, claim func(string) bool) (claimed []string, rest string, ok bool) {
	label, body, labeled := splitLabel(strings.TrimSpace(line))
	var kept []string
	for _, item := range splitOutsideParens(body) {
		if claim(item) {
			claimed = append(claimed, item)
		} else {
			kept = append(kept, item)
		}
	}
	if len(claimed) == 0 || len(kept) < 2 {
		return nil, "", false
	}
	rest = strings.Join(kept, ", ")
	if labeled {
		rest = label + ": " + rest
	}
	return claimed, rest, true
}

// Extract runs each kind's extractor over its section, falling back to the
// full text for kinds where that is meaningful.
func (e *Engine) Extract(d *Detection) types.ParsedResume {
	r := types.NewParsedResume()
	text := strings.Join(d.Lines, "\n")
	for _, k := range Kinds() {
		st := e.strategies[k]
		sec := d.Sections[k]
		if sec == nil && !st.fallback {
			continue
		}
		in := extractInput{det: d, text: text}
		if sec != nil {
			in.lines = sec.Lines
			in.found = true
		}
		st.extract(in, &r)
	}
	return r
}

func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func nonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
