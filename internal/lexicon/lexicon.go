package lexicon

import (
	"fmt"
	"regexp"
	"strings"
)

// Options carries the externally configured keyword lists. Empty lists fall
// back to the built-in defaults; non-empty lists replace them.
type Options struct {
	NamePatterns         []string
	CommonFirstNames     []string
	CommonLanguages      []string
	JobTitleKeywords     []string
	DegreeKeywords       []string
	InstitutionKeywords  []string
	PlaceholderPhrases   []string
	ProfessionalKeywords []string
	FieldAliases         map[string]map[string]string
}

// Lexicon is the single keyword and pattern table shared by every extraction
// stage. It is read-only after New and safe for concurrent use.
type Lexicon struct {
	namePatterns []*regexp.Regexp
	firstNames   map[string]struct{}
	languages    map[string]string // lower-case name -> canonical name

	jobTitleRe     *regexp.Regexp
	degreeRe       *regexp.Regexp
	institutionRe  *regexp.Regexp
	companyRe      *regexp.Regexp
	professionalRe *regexp.Regexp
	countryRe      *regexp.Regexp

	placeholders []string
	countries    map[string]string
	fieldAliases map[string]map[string]string
}

// Default returns a lexicon built from the built-in lists only
func Default() *Lexicon {
	lex, err := New(Options{})
	if err != nil {
		// built-in patterns always compile
		panic(err)
	}
	return lex
}

// New builds a lexicon from configured lists, substituting defaults for empty ones
func New(opts Options) (*Lexicon, error) {
	patterns := orDefault(opts.NamePatterns, defaultNamePatterns)
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid name pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	lex := &Lexicon{
		namePatterns:   compiled,
		firstNames:     toSet(orDefault(opts.CommonFirstNames, defaultFirstNames)),
		languages:      make(map[string]string),
		jobTitleRe:     keywordRegexp(orDefault(opts.JobTitleKeywords, defaultJobTitleKeywords)),
		degreeRe:       keywordRegexp(orDefault(opts.DegreeKeywords, defaultDegreeKeywords)),
		institutionRe:  keywordRegexp(orDefault(opts.InstitutionKeywords, defaultInstitutionKeywords)),
		companyRe:      keywordRegexp(defaultCompanySuffixes),
		professionalRe: keywordRegexp(orDefault(opts.ProfessionalKeywords, defaultProfessionalKeywords)),
		countryRe:      keywordRegexp(defaultCountries),
		countries:      make(map[string]string),
		fieldAliases:   mergeFieldAliases(defaultFieldAliases, opts.FieldAliases),
	}

	for _, name := range orDefault(opts.CommonLanguages, defaultLanguages) {
		lex.languages[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(name)
	}
	for _, c := range defaultCountries {
		lex.countries[strings.ToLower(c)] = c
	}
	for _, p := range orDefault(opts.PlaceholderPhrases, defaultPlaceholders) {
		lex.placeholders = append(lex.placeholders, strings.ToLower(p))
	}

	return lex, nil
}

// MatchName reports whether s matches one of the configured name shapes
func (l *Lexicon) MatchName(s string) bool {
	for _, re := range l.namePatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// IsCommonFirstName reports whether word is on the first-name list
func (l *Lexicon) IsCommonFirstName(word string) bool {
	_, ok := l.firstNames[strings.ToLower(word)]
	return ok
}

// CanonicalLanguage returns the canonical spelling of a language on the closed list
func (l *Lexicon) CanonicalLanguage(name string) (string, bool) {
	c, ok := l.languages[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// CanonicalCountry returns the canonical spelling of a country on the closed list
func (l *Lexicon) CanonicalCountry(name string) (string, bool) {
	c, ok := l.countries[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// FindCountry returns the first known country mentioned in s
func (l *Lexicon) FindCountry(s string) string {
	m := l.countryRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	c, _ := l.CanonicalCountry(m[1])
	return c
}

func (l *Lexicon) HasJobTitleKeyword(s string) bool    { return l.jobTitleRe.MatchString(s) }
func (l *Lexicon) HasDegreeKeyword(s string) bool      { return l.degreeRe.MatchString(s) }
func (l *Lexicon) HasInstitutionKeyword(s string) bool { return l.institutionRe.MatchString(s) }
func (l *Lexicon) HasCompanySuffix(s string) bool      { return l.companyRe.MatchString(s) }

// ProfessionalKeywordCount counts narrative keywords such as "experienced" or "proven"
func (l *Lexicon) ProfessionalKeywordCount(s string) int {
	return len(l.professionalRe.FindAllStringIndex(s, -1))
}

// IsEducationTerm reports whether s mentions a degree or an institution
func (l *Lexicon) IsEducationTerm(s string) bool {
	return l.HasDegreeKeyword(s) || l.HasInstitutionKeyword(s)
}

// IsPlaceholder reports whether line is template boilerplate
func (l *Lexicon) IsPlaceholder(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range l.placeholders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// FieldAlias maps an alternate field name in section to its canonical name.
// Keys are compared after lower-casing and removing separators.
func (l *Lexicon) FieldAlias(section, field string) (string, bool) {
	aliases, ok := l.fieldAliases[section]
	if !ok {
		return "", false
	}
	canonical, ok := aliases[NormalizeKey(field)]
	return canonical, ok
}

// NormalizeKey lower-cases k and strips '_', '-', '.' and spaces
func NormalizeKey(k string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(k) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func orDefault(configured, fallback []string) []string {
	if len(configured) == 0 {
		return fallback
	}
	return configured
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[strings.ToLower(strings.TrimSpace(it))] = struct{}{}
	}
	return set
}

// keywordRegexp builds a case-insensitive alternation bounded by non-alphanumerics.
// A plain \b does not work for keywords ending in punctuation such as "B.S.".
func keywordRegexp(keywords []string) *regexp.Regexp {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(k))
	}
	if len(quoted) == 0 {
		return regexp.MustCompile(`$^`)
	}
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}])`)
}

func mergeFieldAliases(base, overrides map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(base))
	for section, aliases := range base {
		m := make(map[string]string, len(aliases))
		for alias, canonical := range aliases {
			m[NormalizeKey(alias)] = canonical
		}
		out[section] = m
	}
	for section, aliases := range overrides {
		section = strings.ToLower(section)
		if out[section] == nil {
			out[section] = make(map[string]string, len(aliases))
		}
		for alias, canonical := range aliases {
			out[section][NormalizeKey(alias)] = canonical
		}
	}
	return out
}
