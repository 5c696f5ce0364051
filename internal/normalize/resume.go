package normalize

import (
	"strings"

	"resumeparser/internal/types"
)

// Resume canonicalizes every field of r in place, drops entries left without
// their identifying fields and renumbers ids.
func Resume(r *types.ParsedResume) {
	c := &r.Contact
	c.FirstName = DeepClean(c.FirstName)
	c.LastName = DeepClean(c.LastName)
	c.DesiredJobTitle = DeepClean(c.DesiredJobTitle)
	c.Phone = Phone(c.Phone)
	c.Email = Email(c.Email)
	if c.Email != "" && !IsEmailShaped(c.Email) {
		c.Email = ""
	}
	c.Country = DeepClean(c.Country)
	c.City = DeepClean(c.City)
	c.Address = DeepClean(c.Address)
	c.PostCode = DeepClean(c.PostCode)

	experiences := r.Experiences[:0]
	for _, e := range r.Experiences {
		e.JobTitle = DeepClean(e.JobTitle)
		e.Company = DeepClean(e.Company)
		e.Location = DeepClean(e.Location)
		e.StartDate = Date(DeepClean(e.StartDate))
		e.EndDate = Date(DeepClean(e.EndDate))
		e.Description = DeepClean(e.Description)
		if e.JobTitle == "" && e.Company == "" {
			continue
		}
		experiences = append(experiences, e)
	}
	r.Experiences = experiences

	education := r.Education[:0]
	for _, e := range r.Education {
		e.School = DeepClean(e.School)
		e.Degree = DeepClean(e.Degree)
		e.Location = DeepClean(e.Location)
		e.StartDate = Date(DeepClean(e.StartDate))
		e.EndDate = Date(DeepClean(e.EndDate))
		e.Description = DeepClean(e.Description)
		if e.School == "" && e.Degree == "" {
			continue
		}
		education = append(education, e)
	}
	r.Education = education

	skills := r.Skills[:0]
	seen := make(map[string]bool)
	for _, s := range r.Skills {
		s.Name = DeepClean(s.Name)
		s.Level = SkillLevel(DeepClean(s.Level))
		key := strings.ToLower(s.Name)
		if !ValidSkillName(s.Name) || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, s)
	}
	r.Skills = skills

	languages := r.Languages[:0]
	for _, l := range r.Languages {
		l.Name = DeepClean(l.Name)
		l.Proficiency = DeepClean(l.Proficiency)
		if l.Name == "" {
			continue
		}
		languages = append(languages, l)
	}
	r.Languages = languages

	r.Certifications = cleanTitles(r.Certifications)
	r.Awards = cleanTitles(r.Awards)

	websites := r.Websites[:0]
	for _, w := range r.Websites {
		w.Label = DeepClean(w.Label)
		w.URL = strings.TrimSpace(w.URL)
		if w.URL == "" {
			continue
		}
		websites = append(websites, w)
	}
	r.Websites = websites

	references := r.References[:0]
	for _, ref := range r.References {
		ref.Name = DeepClean(ref.Name)
		ref.Relationship = DeepClean(ref.Relationship)
		ref.ContactInfo = DeepClean(ref.ContactInfo)
		if ref.Name == "" {
			continue
		}
		references = append(references, ref)
	}
	r.References = references

	hobbies := r.Hobbies[:0]
	for _, h := range r.Hobbies {
		if h = DeepClean(h); h != "" {
			hobbies = append(hobbies, h)
		}
	}
	r.Hobbies = hobbies

	r.Summary = DeepClean(r.Summary)
	Renumber(r)
}

func cleanTitles(in []types.Title) []types.Title {
	out := in[:0]
	for _, t := range in {
		if t.Title = DeepClean(t.Title); t.Title != "" {
			out = append(out, t)
		}
	}
	return out
}

// Renumber assigns ids 1..n in every list and replaces nil lists with empty ones
func Renumber(r *types.ParsedResume) {
	if r.Experiences == nil {
		r.Experiences = []types.Experience{}
	}
	for i := range r.Experiences {
		r.Experiences[i].ID = i + 1
	}
	if r.Education == nil {
		r.Education = []types.Education{}
	}
	for i := range r.Education {
		r.Education[i].ID = i + 1
	}
	if r.Skills == nil {
		r.Skills = []types.Skill{}
	}
	for i := range r.Skills {
		r.Skills[i].ID = i + 1
	}
	if r.Languages == nil {
		r.Languages = []types.Language{}
	}
	for i := range r.Languages {
		r.Languages[i].ID = i + 1
	}
	if r.Certifications == nil {
		r.Certifications = []types.Title{}
	}
	for i := range r.Certifications {
		r.Certifications[i].ID = i + 1
	}
	if r.Awards == nil {
		r.Awards = []types.Title{}
	}
	for i := range r.Awards {
		r.Awards[i].ID = i + 1
	}
	if r.Websites == nil {
		r.Websites = []types.Website{}
	}
	for i := range r.Websites {
		r.Websites[i].ID = i + 1
	}
	if r.References == nil {
		r.References = []types.Reference{}
	}
	for i := range r.References {
		r.References[i].ID = i + 1
	}
	if r.Hobbies == nil {
		r.Hobbies = []string{}
	}
}
