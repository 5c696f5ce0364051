// Package confidence scores how completely and plausibly a record was extracted.
package confidence

import (
	"math"
	"strings"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

// Default bounds for a well-sized summary, in characters
const (
	DefaultMinSummaryChars = 80
	DefaultMaxSummaryChars = 900
)

// Options tunes the scorer. Zero values take the defaults.
type Options struct {
	Rules           Rules
	MinSummaryChars int
	MaxSummaryChars int
}

// Scorer computes confidence reports. It is immutable and safe for concurrent use.
type Scorer struct {
	rules    Rules
	minChars int
	maxChars int
}

// New creates a scorer
func New(opts Options) *Scorer {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	s := &Scorer{rules: rules, minChars: opts.MinSummaryChars, maxChars: opts.MaxSummaryChars}
	if s.minChars <= 0 {
		s.minChars = DefaultMinSummaryChars
	}
	if s.maxChars <= s.minChars {
		s.maxChars = DefaultMaxSummaryChars
	}
	return s
}

// Score builds the confidence report for r
func (s *Scorer) Score(r *types.ParsedResume) types.ConfidenceReport {
	report := types.ConfidenceReport{
		SectionsFound:   []string{},
		MissingSections: []string{},
		Suggestions:     []string{},
		SectionScores:   make(map[string]types.SectionScore, len(sectionOrder)),
	}
	if r == nil {
		empty := types.NewParsedResume()
		r = &empty
	}

	var weighted, weights float64
	var foundFields, totalFields int
	for _, name := range sectionOrder {
		sc := s.scoreSection(name, r)
		report.SectionScores[name] = sc
		if sc.Found {
			report.SectionsFound = append(report.SectionsFound, name)
		} else {
			report.MissingSections = append(report.MissingSections, name)
		}
		weighted += sc.Weight * sc.Score
		weights += sc.Weight
		foundFields += sc.FoundFields
		totalFields += sc.TotalFields
	}

	if weights > 0 {
		// a perfect section scores 200
		overall := math.Round(weighted / weights / 2)
		report.OverallScore = int(math.Max(0, math.Min(100, overall)))
	}

	report.QualityMetrics = types.QualityMetrics{
		Completeness:  ratio(len(report.SectionsFound), len(sectionOrder)),
		FieldCoverage: ratio(foundFields, totalFields),
		Structure:     structure(report.SectionScores, r),
		Accuracy:      accuracy(r),
		DataQuality:   dataQuality(r),
	}
	report.Suggestions = suggestions(report)
	return report
}

func (s *Scorer) scoreSection(name string, r *types.ParsedResume) types.SectionScore {
	rule := s.rules[name]
	items := sectionItems(name, r)
	sc := types.SectionScore{
		Found:         len(items) > 0,
		RequiredTotal: len(rule.Required),
		Weight:        rule.Weight,
	}

	fields := append(append([]string(nil), rule.Required...), rule.Optional...)
	sc.TotalFields = len(fields)
	if sc.TotalFields == 0 {
		// sections without fields count as one field, present when found
		sc.TotalFields = 1
		if sc.Found {
			sc.FoundFields = 1
		}
	}
	for _, f := range fields {
		if anyHas(items, f) {
			sc.FoundFields++
		}
	}
	for _, f := range rule.Required {
		if anyHas(items, f) {
			sc.FoundRequired++
		}
	}

	var required float64
	switch {
	case !sc.Found:
	case sc.RequiredTotal == 0:
		required = 1
	default:
		required = ratio(sc.FoundRequired, sc.RequiredTotal)
	}

	if sc.Found {
		sc.QualityScore = s.quality(name, r)
	}

	found := 0.0
	if sc.Found {
		found = 1
	}
	sc.Score = found*100 + required*50 + sc.QualityScore*50
	return sc
}

// quality is the per-section plausibility in [0,1]
func (s *Scorer) quality(name string, r *types.ParsedResume) float64 {
	switch name {
	case SectionContact:
		var checks, valid int
		if r.Contact.Email != "" {
			checks++
			if normalize.IsEmailShaped(r.Contact.Email) {
				valid++
			}
		}
		if r.Contact.Phone != "" {
			checks++
			if normalize.IsPhoneShaped(r.Contact.Phone) {
				valid++
			}
		}
		return ratio(valid, checks)

	case SectionExperience:
		var sum float64
		for _, e := range r.Experiences {
			sum += entryQuality(e.StartDate, e.EndDate, e.Description)
		}
		return sum / float64(len(r.Experiences))

	case SectionEducation:
		var sum float64
		for _, e := range r.Education {
			sum += entryQuality(e.StartDate, e.EndDate, e.Description)
		}
		return sum / float64(len(r.Education))

	case SectionSkills:
		valid := 0
		for _, sk := range r.Skills {
			if normalize.ValidSkillName(sk.Name) {
				valid++
			}
		}
		return ratio(valid, len(r.Skills))

	case SectionSummary:
		n := len([]rune(r.Summary))
		if n >= s.minChars && n <= s.maxChars {
			return 1
		}
		return 0.5
	}
	return 1
}

// entryQuality gives half credit for valid dates and half for a description
func entryQuality(start, end, description string) float64 {
	q := 0.0
	if validDate(start) && validDate(end) {
		q += 0.5
	}
	if strings.TrimSpace(description) != "" {
		q += 0.5
	}
	return q
}

// validDate accepts an empty date or one in canonical form
func validDate(s string) bool {
	return s == "" || normalize.IsCanonicalDate(s)
}

// structure weighs the presence of the structural sections against date ordering
func structure(scores map[string]types.SectionScore, r *types.ParsedResume) float64 {
	present := 0
	for _, name := range structuralSections {
		if scores[name].Found {
			present++
		}
	}
	if present == 0 {
		return 0
	}

	var pairs, ordered int
	check := func(start, end string) {
		a, okA := normalize.Sortable(start)
		b, okB := normalize.Sortable(end)
		if !okA || !okB {
			return
		}
		pairs++
		if a <= b {
			ordered++
		}
	}
	for _, e := range r.Experiences {
		check(e.StartDate, e.EndDate)
	}
	for _, e := range r.Education {
		check(e.StartDate, e.EndDate)
	}

	consistency := 1.0
	if pairs > 0 {
		consistency = ratio(ordered, pairs)
	}
	return 0.7*ratio(present, len(structuralSections)) + 0.3*consistency
}

// accuracy is the share of present emails, phones and dates that are well formed
func accuracy(r *types.ParsedResume) float64 {
	var checks, valid int
	try := func(v string, ok func(string) bool) {
		if v == "" {
			return
		}
		checks++
		if ok(v) {
			valid++
		}
	}
	try(r.Contact.Email, normalize.IsEmailShaped)
	try(r.Contact.Phone, normalize.IsPhoneShaped)
	for _, e := range r.Experiences {
		try(e.StartDate, normalize.IsCanonicalDate)
		try(e.EndDate, normalize.IsCanonicalDate)
	}
	for _, e := range r.Education {
		try(e.StartDate, normalize.IsCanonicalDate)
		try(e.EndDate, normalize.IsCanonicalDate)
	}
	return ratio(valid, checks)
}

// dataQuality is the share of entries carrying descriptions and skills carrying levels
func dataQuality(r *types.ParsedResume) float64 {
	var total, filled int
	for _, e := range r.Experiences {
		total++
		if e.Description != "" {
			filled++
		}
	}
	for _, e := range r.Education {
		total++
		if e.Description != "" {
			filled++
		}
	}
	for _, s := range r.Skills {
		total++
		if s.Level != "" {
			filled++
		}
	}
	return ratio(filled, total)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
