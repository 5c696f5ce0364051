package confidence

import "resumeparser/internal/types"

// sectionItems flattens a section into field maps; an absent section has no items
func sectionItems(name string, r *types.ParsedResume) []map[string]string {
	var out []map[string]string
	switch name {
	case SectionContact:
		if !r.Contact.IsEmpty() {
			c := r.Contact
			out = append(out, map[string]string{
				"firstName": c.FirstName, "lastName": c.LastName, "desiredJobTitle": c.DesiredJobTitle,
				"phone": c.Phone, "email": c.Email, "country": c.Country, "city": c.City,
				"address": c.Address, "postCode": c.PostCode,
			})
		}
	case SectionExperience:
		for _, e := range r.Experiences {
			out = append(out, map[string]string{
				"jobTitle": e.JobTitle, "company": e.Company, "location": e.Location,
				"startDate": e.StartDate, "endDate": e.EndDate, "description": e.Description,
			})
		}
	case SectionEducation:
		for _, e := range r.Education {
			out = append(out, map[string]string{
				"school": e.School, "degree": e.Degree, "location": e.Location,
				"startDate": e.StartDate, "endDate": e.EndDate, "description": e.Description,
			})
		}
	case SectionSkills:
		for _, s := range r.Skills {
			out = append(out, map[string]string{"name": s.Name, "level": s.Level})
		}
	case SectionSummary:
		if r.Summary != "" {
			out = append(out, map[string]string{"summary": r.Summary})
		}
	case SectionLanguages:
		for _, l := range r.Languages {
			out = append(out, map[string]string{"name": l.Name, "proficiency": l.Proficiency})
		}
	case SectionCertifications:
		for _, t := range r.Certifications {
			out = append(out, map[string]string{"title": t.Title})
		}
	case SectionAwards:
		for _, t := range r.Awards {
			out = append(out, map[string]string{"title": t.Title})
		}
	case SectionWebsites:
		for _, w := range r.Websites {
			out = append(out, map[string]string{"label": w.Label, "url": w.URL})
		}
	case SectionReferences:
		for _, ref := range r.References {
			out = append(out, map[string]string{
				"name": ref.Name, "relationship": ref.Relationship, "contactInfo": ref.ContactInfo,
			})
		}
	case SectionHobbies:
		for _, h := range r.Hobbies {
			out = append(out, map[string]string{"hobby": h})
		}
	}
	return out
}

func anyHas(items []map[string]string, field string) bool {
	for _, item := range items {
		if item[field] != "" {
			return true
		}
	}
	return false
}
