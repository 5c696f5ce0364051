package formatters

import (
	"fmt"
	"sort"
	"strings"

	"resumeparser/internal/types"
)

// ParseTextFormatter renders a parse result for a terminal
type ParseTextFormatter struct{}

func (ptf *ParseTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ParseResult)
	if !ok {
		return "", fmt.Errorf("expected ParseResult, got %T", data)
	}

	var output strings.Builder
	if result.SourceName != "" {
		fmt.Fprintf(&output, "Source: %s\n", result.SourceName)
	}
	if !result.Success {
		fmt.Fprintf(&output, "Parse failed: %s\n", result.Error)
		writeTextList(&output, "Suggestions", result.Confidence.Suggestions)
		return output.String(), nil
	}

	d := result.Data
	c := d.Contact
	output.WriteString("=== CONTACT ===\n")
	writeTextField(&output, "Name", strings.TrimSpace(c.FirstName+" "+c.LastName))
	writeTextField(&output, "Title", c.DesiredJobTitle)
	writeTextField(&output, "Email", c.Email)
	writeTextField(&output, "Phone", c.Phone)
	writeTextField(&output, "Location", joinNonEmpty(", ", c.Address, c.City, c.PostCode, c.Country))
	output.WriteString("\n")

	if d.Summary != "" {
		output.WriteString("=== SUMMARY ===\n")
		output.WriteString(d.Summary)
		output.WriteString("\n\n")
	}

	if len(d.Experiences) > 0 {
		output.WriteString("=== EXPERIENCE ===\n")
		for _, e := range d.Experiences {
			fmt.Fprintf(&output, "%d. %s\n", e.ID, joinNonEmpty(" at ", e.JobTitle, e.Company))
			writeTextField(&output, "   Dates", dateRange(e.StartDate, e.EndDate))
			writeTextField(&output, "   Location", e.Location)
			if e.Description != "" {
				fmt.Fprintf(&output, "   %s\n", strings.ReplaceAll(e.Description, "\n", "\n   "))
			}
		}
		output.WriteString("\n")
	}

	if len(d.Education) > 0 {
		output.WriteString("=== EDUCATION ===\n")
		for _, e := range d.Education {
			fmt.Fprintf(&output, "%d. %s\n", e.ID, joinNonEmpty(", ", e.Degree, e.School))
			writeTextField(&output, "   Dates", dateRange(e.StartDate, e.EndDate))
			writeTextField(&output, "   Location", e.Location)
		}
		output.WriteString("\n")
	}

	if len(d.Skills) > 0 {
		skills := make([]string, 0, len(d.Skills))
		for _, s := range d.Skills {
			if s.Level != "" {
				skills = append(skills, fmt.Sprintf("%s (%s)", s.Name, s.Level))
			} else {
				skills = append(skills, s.Name)
			}
		}
		output.WriteString("=== SKILLS ===\n")
		output.WriteString(strings.Join(skills, ", "))
		output.WriteString("\n\n")
	}

	if len(d.Languages) > 0 {
		langs := make([]string, 0, len(d.Languages))
		for _, l := range d.Languages {
			langs = append(langs, joinNonEmpty(" - ", l.Name, l.Proficiency))
		}
		writeTextList(&output, "Languages", langs)
	}
	writeTextList(&output, "Certifications", titles(d.Certifications))
	writeTextList(&output, "Awards", titles(d.Awards))
	if len(d.Websites) > 0 {
		sites := make([]string, 0, len(d.Websites))
		for _, w := range d.Websites {
			sites = append(sites, fmt.Sprintf("%s: %s", w.Label, w.URL))
		}
		writeTextList(&output, "Websites", sites)
	}
	if len(d.References) > 0 {
		refs := make([]string, 0, len(d.References))
		for _, r := range d.References {
			refs = append(refs, joinNonEmpty(", ", r.Name, r.Relationship, r.ContactInfo))
		}
		writeTextList(&output, "References", refs)
	}
	writeTextList(&output, "Hobbies", d.Hobbies)

	output.WriteString("=== CONFIDENCE ===\n")
	fmt.Fprintf(&output, "Overall: %d/100\n", result.Confidence.OverallScore)
	fmt.Fprintf(&output, "Found: %s\n", strings.Join(result.Confidence.SectionsFound, ", "))
	if len(result.Confidence.MissingSections) > 0 {
		fmt.Fprintf(&output, "Missing: %s\n", strings.Join(result.Confidence.MissingSections, ", "))
	}
	m := result.Confidence.QualityMetrics
	fmt.Fprintf(&output, "Completeness %.2f, coverage %.2f, structure %.2f, accuracy %.2f, data quality %.2f\n",
		m.Completeness, m.FieldCoverage, m.Structure, m.Accuracy, m.DataQuality)
	output.WriteString("\n")
	writeTextList(&output, "Suggestions", result.Confidence.Suggestions)

	if dropped := droppedSummary(result.Dropped); dropped != "" {
		fmt.Fprintf(&output, "Dropped as ungrounded: %s\n", dropped)
	}
	fmt.Fprintf(&output, "AI used: %t, duration: %dms\n", result.AIUsed, result.DurationMs)

	return output.String(), nil
}

func (ptf *ParseTextFormatter) SupportedType() string {
	return "ParseResult"
}

// ParseMarkdownFormatter renders a parse result as markdown
type ParseMarkdownFormatter struct{}

func (pmf *ParseMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ParseResult)
	if !ok {
		return "", fmt.Errorf("expected ParseResult, got %T", data)
	}

	var output strings.Builder
	d := result.Data
	name := strings.TrimSpace(d.Contact.FirstName + " " + d.Contact.LastName)
	switch {
	case name != "":
		fmt.Fprintf(&output, "# %s\n\n", name)
	case result.SourceName != "":
		fmt.Fprintf(&output, "# %s\n\n", result.SourceName)
	default:
		output.WriteString("# Parsed Résumé\n\n")
	}

	if !result.Success {
		fmt.Fprintf(&output, "**Parse failed:** %s\n\n", result.Error)
		writeMarkdownList(&output, "Suggestions", result.Confidence.Suggestions)
		return output.String(), nil
	}

	c := d.Contact
	if c.DesiredJobTitle != "" {
		fmt.Fprintf(&output, "_%s_\n\n", c.DesiredJobTitle)
	}
	writeMarkdownField(&output, "Email", c.Email)
	writeMarkdownField(&output, "Phone", c.Phone)
	writeMarkdownField(&output, "Location", joinNonEmpty(", ", c.Address, c.City, c.PostCode, c.Country))
	output.WriteString("\n")

	if d.Summary != "" {
		fmt.Fprintf(&output, "## Summary\n\n%s\n\n", d.Summary)
	}

	if len(d.Experiences) > 0 {
		output.WriteString("## Experience\n\n")
		for _, e := range d.Experiences {
			fmt.Fprintf(&output, "### %s\n\n", joinNonEmpty(", ", e.JobTitle, e.Company))
			if dates := dateRange(e.StartDate, e.EndDate); dates != "" {
				fmt.Fprintf(&output, "*%s*\n\n", dates)
			}
			if e.Description != "" {
				fmt.Fprintf(&output, "%s\n\n", e.Description)
			}
		}
	}

	if len(d.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, e := range d.Education {
			line := joinNonEmpty(", ", e.Degree, e.School)
			if dates := dateRange(e.StartDate, e.EndDate); dates != "" {
				line += " (" + dates + ")"
			}
			fmt.Fprintf(&output, "- %s\n", line)
		}
		output.WriteString("\n")
	}

	if len(d.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		for _, s := range d.Skills {
			if s.Level != "" {
				fmt.Fprintf(&output, "- %s (%s)\n", s.Name, s.Level)
			} else {
				fmt.Fprintf(&output, "- %s\n", s.Name)
			}
		}
		output.WriteString("\n")
	}

	if len(d.Languages) > 0 {
		langs := make([]string, 0, len(d.Languages))
		for _, l := range d.Languages {
			langs = append(langs, joinNonEmpty(" - ", l.Name, l.Proficiency))
		}
		writeMarkdownList(&output, "Languages", langs)
	}
	writeMarkdownList(&output, "Certifications", titles(d.Certifications))
	writeMarkdownList(&output, "Awards", titles(d.Awards))
	if len(d.Websites) > 0 {
		sites := make([]string, 0, len(d.Websites))
		for _, w := range d.Websites {
			sites = append(sites, fmt.Sprintf("[%s](%s)", w.Label, w.URL))
		}
		writeMarkdownList(&output, "Websites", sites)
	}
	writeMarkdownList(&output, "Hobbies", d.Hobbies)

	output.WriteString("## Confidence\n\n")
	fmt.Fprintf(&output, "**Overall:** %d/100\n\n", result.Confidence.OverallScore)
	if len(result.Confidence.SectionScores) > 0 {
		output.WriteString("| Section | Score | Weight |\n|---|---|---|\n")
		names := make([]string, 0, len(result.Confidence.SectionScores))
		for name := range result.Confidence.SectionScores {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := result.Confidence.SectionScores[name]
			fmt.Fprintf(&output, "| %s | %.0f | %.2f |\n", name, s.Score, s.Weight)
		}
		output.WriteString("\n")
	}
	writeMarkdownList(&output, "Suggestions", result.Confidence.Suggestions)

	return output.String(), nil
}

func (pmf *ParseMarkdownFormatter) SupportedType() string {
	return "ParseResult"
}

func writeTextField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}

func writeTextList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "=== %s ===\n", strings.ToUpper(heading))
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeMarkdownField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "**%s:** %s  \n", label, value)
	}
}

func writeMarkdownList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func titles(ts []types.Title) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Title)
	}
	return out
}

func dateRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	}
	return end
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func droppedSummary(dropped map[string]int) string {
	if len(dropped) == 0 {
		return ""
	}
	keys := make([]string, 0, len(dropped))
	for k := range dropped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, dropped[k]))
	}
	return strings.Join(parts, ", ")
}
