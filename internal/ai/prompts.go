package ai

import "strings"

// SystemPrompts contains the system-level instructions for AI interactions
type SystemPrompts struct {
	StructureResume string
}

// UserPrompts contains user-level prompts with a %s placeholder for the résumé text
type UserPrompts struct {
	StructureResume string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	StructureResume: `You are a résumé parser with a strict commitment to accuracy. Your core principles are:

- NEVER invent, infer, embellish, or normalize away content that is not in the text
- Copy names, titles, companies, schools, degrees and dates verbatim from the source
- Leave a field as an empty string, or a list empty, when the text does not state it
- Do not summarize. Only fill "summary" when the résumé has its own summary or profile paragraph

You return a single JSON object that follows the response schema exactly.`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	StructureResume: `Extract the résumé below into the structured record.

Field guidance:
- contact: firstName, lastName, desiredJobTitle (the headline under the name), phone, email, country, city, address, postCode
- experiences: one entry per position with jobTitle, company, location, startDate, endDate ("Present" when ongoing) and description
- education: school, degree, location, startDate, endDate, description
- skills: name and level (only when the text states a level)
- languages: name and proficiency
- certifications and awards: title
- websites: label and url
- references: name, relationship, contactInfo
- hobbies: short phrases

Résumé text:
"""
%s
"""`,
}

// renderUserPrompt substitutes the résumé text into the template, appending it when the template has no placeholder
func renderUserPrompt(template, text string) string {
	if strings.Contains(template, "%s") {
		return strings.Replace(template, "%s", text, 1)
	}
	return template + "\n\n" + text
}

// resolvePrompt selects the configured prompt when set, otherwise the built-in default
func resolvePrompt(configured, fromDefault string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return fromDefault
}
