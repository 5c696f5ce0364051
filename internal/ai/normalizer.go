package ai

import (
	"sort"
	"strconv"
	"strings"

	"resumeparser/internal/heuristic"
	"resumeparser/internal/lexicon"
	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

// topLevelAliases maps normalized top-level keys onto canonical section names
var topLevelAliases = map[string]string{
	"contact": "contact", "contactinfo": "contact", "contactinformation": "contact",
	"personalinfo": "contact", "personalinformation": "contact", "personal": "contact",
	"personaldetails": "contact", "basics": "contact", "header": "contact",

	"experiences": "experiences", "experience": "experiences", "workexperience": "experiences",
	"workexperiences": "experiences", "work": "experiences", "employment": "experiences",
	"employmenthistory": "experiences", "workhistory": "experiences", "jobs": "experiences",
	"positions": "experiences", "professionalexperience": "experiences",

	"education": "education", "educations": "education", "schooling": "education",
	"academics": "education", "academicbackground": "education",

	"skills": "skills", "skill": "skills", "technicalskills": "skills", "competencies": "skills",
	"skillset": "skills",

	"languages": "languages", "language": "languages", "spokenlanguages": "languages",

	"certifications": "certifications", "certification": "certifications", "certs": "certifications",
	"certificates": "certifications", "licenses": "certifications",

	"awards": "awards", "award": "awards", "honors": "awards", "honours": "awards",
	"achievements": "awards",

	"websites": "websites", "website": "websites", "links": "websites", "urls": "websites",
	"profiles": "websites", "socialprofiles": "websites", "social": "websites",

	"references": "references", "reference": "references", "referees": "references",

	"hobbies": "hobbies", "interests": "hobbies", "hobbiesandinterests": "hobbies",

	"summary": "summary", "profile": "summary", "objective": "summary", "about": "summary",
	"professionalsummary": "summary", "careerobjective": "summary", "aboutme": "summary",
}

// canonicalFields lists the record fields of each section
var canonicalFields = map[string][]string{
	"contact":        {"firstName", "lastName", "desiredJobTitle", "phone", "email", "country", "city", "address", "postCode"},
	"experiences":    {"jobTitle", "company", "location", "startDate", "endDate", "description"},
	"education":      {"school", "location", "degree", "startDate", "endDate", "description"},
	"skills":         {"name", "level"},
	"languages":      {"name", "proficiency"},
	"certifications": {"title"},
	"awards":         {"title"},
	"websites":       {"label", "url"},
	"references":     {"name", "relationship", "contactInfo"},
}

// scalarField is the field a bare string item fills in each list section
var scalarField = map[string]string{
	"experiences":    "jobTitle",
	"education":      "school",
	"skills":         "name",
	"languages":      "name",
	"certifications": "title",
	"awards":         "title",
	"websites":       "url",
	"references":     "name",
}

// SchemaNormalizer maps loosely shaped model output onto the canonical record
type SchemaNormalizer struct {
	lex *lexicon.Lexicon
}

// NewSchemaNormalizer creates a normalizer using the lexicon's field aliases. A nil lexicon uses the defaults.
func NewSchemaNormalizer(lex *lexicon.Lexicon) *SchemaNormalizer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &SchemaNormalizer{lex: lex}
}

// NormalizeSchema normalizes with the default field aliases
func NormalizeSchema(m map[string]any) *types.ParsedResume {
	return NewSchemaNormalizer(nil).Normalize(m)
}

// Normalize aliases keys, coerces every item to a canonical record and numbers ids from 1
func (n *SchemaNormalizer) Normalize(m map[string]any) *types.ParsedResume {
	r := types.NewParsedResume()
	sections := make(map[string]any)
	stray := make(map[string]any)

	for _, k := range sortedKeys(m) {
		v := m[k]
		if canonical, ok := topLevelAliases[lexicon.NormalizeKey(k)]; ok {
			if prev, seen := sections[canonical]; !seen || isEmptyValue(prev) {
				sections[canonical] = v
			}
			continue
		}
		// contact fields sometimes arrive at the top level
		stray[k] = v
	}

	contact := n.record("contact", asObject(sections["contact"]))
	for field, val := range n.record("contact", stray) {
		if contact[field] == "" {
			contact[field] = val
		}
	}
	r.Contact = types.Contact{
		FirstName:       contact["firstName"],
		LastName:        contact["lastName"],
		DesiredJobTitle: contact["desiredJobTitle"],
		Phone:           contact["phone"],
		Email:           contact["email"],
		Country:         contact["country"],
		City:            contact["city"],
		Address:         contact["address"],
		PostCode:        contact["postCode"],
	}

	for _, f := range n.items("experiences", sections["experiences"]) {
		if f["jobTitle"] == "" && f["company"] == "" {
			continue
		}
		r.Experiences = append(r.Experiences, types.Experience{
			JobTitle: f["jobTitle"], Company: f["company"], Location: f["location"],
			StartDate: f["startDate"], EndDate: f["endDate"], Description: f["description"],
		})
	}

	for _, f := range n.items("education", sections["education"]) {
		if f["school"] == "" && f["degree"] == "" {
			continue
		}
		r.Education = append(r.Education, types.Education{
			School: f["school"], Location: f["location"], Degree: f["degree"],
			StartDate: f["startDate"], EndDate: f["endDate"], Description: f["description"],
		})
	}

	for _, f := range n.items("skills", flattenGroups(sections["skills"])) {
		if f["name"] != "" {
			r.Skills = append(r.Skills, types.Skill{Name: f["name"], Level: f["level"]})
		}
	}

	for _, f := range n.items("languages", sections["languages"]) {
		if f["name"] != "" {
			r.Languages = append(r.Languages, types.Language{Name: f["name"], Proficiency: f["proficiency"]})
		}
	}

	r.Certifications = n.titles("certifications", sections["certifications"])
	r.Awards = n.titles("awards", sections["awards"])

	for _, f := range n.items("websites", sections["websites"]) {
		if f["url"] != "" {
			r.Websites = append(r.Websites, types.Website{Label: heuristic.WebsiteLabel(f["url"]), URL: f["url"]})
		}
	}

	for _, f := range n.items("references", sections["references"]) {
		if f["name"] != "" {
			r.References = append(r.References, types.Reference{
				Name: f["name"], Relationship: f["relationship"], ContactInfo: f["contactInfo"],
			})
		}
	}

	for _, item := range asList(sections["hobbies"]) {
		if h := firstString(item); h != "" {
			r.Hobbies = append(r.Hobbies, h)
		}
	}

	r.Summary = strings.Join(strings.Fields(asString(sections["summary"])), " ")

	normalize.Renumber(&r)
	return &r
}

func (n *SchemaNormalizer) titles(section string, v any) []types.Title {
	out := []types.Title{}
	for _, f := range n.items(section, v) {
		if f["title"] != "" {
			out = append(out, types.Title{Title: f["title"]})
		}
	}
	return out
}

// items coerces every list item of a section to a field map
func (n *SchemaNormalizer) items(section string, v any) []map[string]string {
	var out []map[string]string
	for _, item := range asList(v) {
		switch t := item.(type) {
		case map[string]any:
			out = append(out, n.record(section, t))
		default:
			if s := asString(t); s != "" {
				out = append(out, map[string]string{scalarField[section]: s})
			}
		}
	}
	return out
}

// record maps the keys of obj onto the canonical fields of section. The first
// non-empty value wins when several keys alias the same field.
func (n *SchemaNormalizer) record(section string, obj map[string]any) map[string]string {
	out := make(map[string]string)
	for _, k := range sortedKeys(obj) {
		v := obj[k]
		key := lexicon.NormalizeKey(k)

		switch {
		case section == "contact" && (key == "name" || key == "fullname"):
			first, last := splitFullName(asString(v))
			setIfEmpty(out, "firstName", first)
			setIfEmpty(out, "lastName", last)
			continue
		case key == "dates" || key == "period" || key == "duration" || key == "daterange":
			if start, end, ok := normalize.SplitRange(asString(v)); ok {
				setIfEmpty(out, "startDate", start)
				setIfEmpty(out, "endDate", end)
			}
			continue
		case section == "contact" && key == "location":
			setIfEmpty(out, "city", asString(v))
			continue
		}

		if field, ok := n.field(section, k); ok {
			setIfEmpty(out, field, asString(v))
		}
	}
	return out
}

func (n *SchemaNormalizer) field(section, key string) (string, bool) {
	if canonical, ok := n.lex.FieldAlias(section, key); ok {
		return canonical, true
	}
	norm := lexicon.NormalizeKey(key)
	for _, f := range canonicalFields[section] {
		if lexicon.NormalizeKey(f) == norm {
			return f, true
		}
	}
	return "", false
}

func setIfEmpty(m map[string]string, k, v string) {
	if v != "" && m[k] == "" {
		m[k] = v
	}
}

func splitFullName(s string) (first, last string) {
	parts := strings.Fields(s)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// flattenGroups turns {"frameworks": [...], "languages": [...]} into one list.
// A map carrying a skill's own fields is kept as a single item.
func flattenGroups(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k := range m {
		switch lexicon.NormalizeKey(k) {
		case "name", "skill", "skillname", "title":
			return v
		}
	}
	var out []any
	for _, k := range sortedKeys(m) {
		out = append(out, asList(m[k])...)
	}
	return out
}

func asObject(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// asList accepts a list, a single object or a delimiter-joined string
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case string:
		var out []any
		for _, part := range strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return []any{t}
	}
}

// asString renders scalars as text and joins lists line by line
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		var parts []string
		for _, item := range t {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

// firstString reads a plain string item, or the name-like field of an object item
func firstString(v any) string {
	if m, ok := v.(map[string]any); ok {
		for _, k := range []string{"name", "title", "hobby", "interest"} {
			if s := asString(m[k]); s != "" {
				return s
			}
		}
		return ""
	}
	return asString(v)
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
