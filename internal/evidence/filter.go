// Package evidence drops structured items that the source text does not support.
package evidence

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"resumeparser/internal/errors"
	"resumeparser/internal/heuristic"
	"resumeparser/internal/lexicon"
	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

// DefaultSummarySimilarity is the Jaccard score a paragraph needs to replace an ungrounded summary
const DefaultSummarySimilarity = 0.6

// Narrator finds a narrative summary paragraph in text
type Narrator interface {
	NarrativeSummary(text string) string
}

// Options tunes the filter
type Options struct {
	SummarySimilarity float64
}

// Filter checks every item of a record against the cleaned source text.
// It holds no per-call state and is safe for concurrent use.
type Filter struct {
	lex      *lexicon.Lexicon
	narrator Narrator
	validate *validator.Validate
	opts     Options
	logger   *errors.Logger
}

// New creates a filter. narrator may be nil, in which case an empty summary stays empty.
func New(lex *lexicon.Lexicon, narrator Narrator, opts Options, logger *errors.Logger) *Filter {
	if lex == nil {
		lex = lexicon.Default()
	}
	if opts.SummarySimilarity <= 0 || opts.SummarySimilarity > 1 {
		opts.SummarySimilarity = DefaultSummarySimilarity
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &Filter{
		lex:      lex,
		narrator: narrator,
		validate: validator.New(),
		opts:     opts,
		logger:   logger,
	}
}

// Apply removes unsupported items from r in place and returns the number of
// items dropped per section. Sections with no drops are absent from the map.
func (f *Filter) Apply(r *types.ParsedResume, source string) map[string]int {
	src := newSource(source)
	dropped := make(map[string]int)
	count := func(section string, before, after int) {
		if before > after {
			dropped[section] += before - after
		}
	}

	if n := f.groundContact(&r.Contact, src); n > 0 {
		dropped["contact"] = n
	}

	n := len(r.Experiences)
	r.Experiences = keep(r.Experiences, func(e types.Experience) bool {
		return src.contains(e.JobTitle) || src.contains(e.Company)
	})
	count("experiences", n, len(r.Experiences))

	n = len(r.Education)
	r.Education = keep(r.Education, func(e types.Education) bool {
		return src.contains(e.School) || src.contains(e.Degree)
	})
	count("education", n, len(r.Education))

	n = len(r.Skills)
	r.Skills = keep(r.Skills, func(s types.Skill) bool {
		return normalize.ValidSkillName(s.Name) && src.contains(s.Name)
	})
	count("skills", n, len(r.Skills))

	n = len(r.Languages)
	r.Languages = keep(r.Languages, func(l types.Language) bool {
		if src.contains(l.Name) {
			return true
		}
		_, known := f.lex.CanonicalLanguage(l.Name)
		return known
	})
	count("languages", n, len(r.Languages))

	n = len(r.Certifications)
	r.Certifications = keep(r.Certifications, func(t types.Title) bool { return src.contains(t.Title) })
	count("certifications", n, len(r.Certifications))

	n = len(r.Awards)
	r.Awards = keep(r.Awards, func(t types.Title) bool { return src.contains(t.Title) })
	count("awards", n, len(r.Awards))

	n = len(r.Websites)
	r.Websites = keep(r.Websites, func(w types.Website) bool {
		return f.validURL(w.URL) && src.contains(heuristic.StripScheme(w.URL))
	})
	count("websites", n, len(r.Websites))

	n = len(r.References)
	r.References = keep(r.References, func(ref types.Reference) bool { return src.contains(ref.Name) })
	count("references", n, len(r.References))

	n = len(r.Hobbies)
	r.Hobbies = keep(r.Hobbies, src.contains)
	count("hobbies", n, len(r.Hobbies))

	before := r.Summary
	r.Summary = f.groundSummary(r.Summary, source, src)
	if before != "" && r.Summary == "" {
		dropped["summary"]++
	}

	if len(dropped) > 0 {
		f.logger.Debug("Evidence filter dropped items", "dropped", dropped)
	}
	return dropped
}

// groundContact clears contact fields the text does not contain and returns
// how many were cleared. The email must also validate, and the phone is
// matched by its digits so formatting differences do not count.
func (f *Filter) groundContact(c *types.Contact, src source) int {
	cleared := 0
	check := func(field *string, ok func(string) bool) {
		if *field != "" && !ok(*field) {
			*field = ""
			cleared++
		}
	}
	check(&c.Email, func(v string) bool { return f.validEmail(v) && src.contains(v) })
	check(&c.Phone, src.containsPhone)
	for _, field := range []*string{
		&c.FirstName, &c.LastName, &c.DesiredJobTitle, &c.Country, &c.City, &c.Address, &c.PostCode,
	} {
		check(field, src.contains)
	}
	return cleared
}

// groundSummary keeps a contained summary, swaps an ungrounded one for the
// most similar paragraph when it is close enough and otherwise clears it.
func (f *Filter) groundSummary(summary, raw string, src source) string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		if f.narrator == nil {
			return ""
		}
		return f.narrator.NarrativeSummary(raw)
	}
	if src.contains(summary) {
		return summary
	}

	best, score := BestParagraph(summary, raw)
	if best != "" && score >= f.opts.SummarySimilarity {
		return best
	}
	return ""
}

func (f *Filter) validEmail(s string) bool {
	return f.validate.Var(strings.TrimSpace(s), "required,email") == nil
}

func (f *Filter) validURL(s string) bool {
	return f.validate.Var(strings.TrimSpace(s), "required,url") == nil
}

func keep[T any](in []T, ok func(T) bool) []T {
	out := in[:0]
	for _, item := range in {
		if ok(item) {
			out = append(out, item)
		}
	}
	return out
}

var phoneRunRe = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{5,}\d`)

// source is the lower-cased, whitespace-collapsed text that items are matched
// against, plus the digit strings of its phone-like runs
type source struct {
	text      string
	digitRuns []string
}

func newSource(text string) source {
	s := source{text: fold(text)}
	for _, run := range phoneRunRe.FindAllString(text, -1) {
		s.digitRuns = append(s.digitRuns, digitsOf(run))
	}
	return s
}

// containsPhone reports whether the digits of phone occur in one phone-like run of the text
func (s source) containsPhone(phone string) bool {
	d := digitsOf(phone)
	if len(d) < 7 {
		return false
	}
	for _, run := range s.digitRuns {
		// a country code the text leaves out still matches
		if strings.Contains(run, d) || (len(run) >= 7 && strings.HasSuffix(d, run)) {
			return true
		}
	}
	return false
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// contains is a case-insensitive substring test. Empty needles are never contained.
func (s source) contains(needle string) bool {
	needle = fold(needle)
	return needle != "" && strings.Contains(s.text, needle)
}

func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
