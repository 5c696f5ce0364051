// Package merge lays an AI-structured record over the heuristic one.
package merge

import "resumeparser/internal/types"

// Merge returns heuristic with ai laid over it. Non-empty AI contact fields
// overwrite, each non-empty AI list replaces the heuristic list wholesale and
// a non-empty AI summary replaces the heuristic summary. A nil ai returns
// heuristic unchanged. Neither argument is modified.
func Merge(heuristic, ai *types.ParsedResume) types.ParsedResume {
	out := clone(heuristic)
	if ai == nil {
		return out
	}

	out.Contact = mergeContact(out.Contact, ai.Contact)

	out.Experiences = pick(out.Experiences, ai.Experiences)
	out.Education = pick(out.Education, ai.Education)
	out.Skills = pick(out.Skills, ai.Skills)
	out.Languages = pick(out.Languages, ai.Languages)
	out.Certifications = pick(out.Certifications, ai.Certifications)
	out.Awards = pick(out.Awards, ai.Awards)
	out.Websites = pick(out.Websites, ai.Websites)
	out.References = pick(out.References, ai.References)
	out.Hobbies = pick(out.Hobbies, ai.Hobbies)

	if ai.Summary != "" {
		out.Summary = ai.Summary
	}
	return out
}

func mergeContact(base, over types.Contact) types.Contact {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.FirstName, over.FirstName)
	set(&base.LastName, over.LastName)
	set(&base.DesiredJobTitle, over.DesiredJobTitle)
	set(&base.Phone, over.Phone)
	set(&base.Email, over.Email)
	set(&base.Country, over.Country)
	set(&base.City, over.City)
	set(&base.Address, over.Address)
	set(&base.PostCode, over.PostCode)
	return base
}

func pick[T any](base, over []T) []T {
	if len(over) == 0 {
		return base
	}
	return append(make([]T, 0, len(over)), over...)
}

func clone(r *types.ParsedResume) types.ParsedResume {
	if r == nil {
		return types.NewParsedResume()
	}
	out := *r
	out.Experiences = cloneList(r.Experiences)
	out.Education = cloneList(r.Education)
	out.Skills = cloneList(r.Skills)
	out.Languages = cloneList(r.Languages)
	out.Certifications = cloneList(r.Certifications)
	out.Awards = cloneList(r.Awards)
	out.Websites = cloneList(r.Websites)
	out.References = cloneList(r.References)
	out.Hobbies = cloneList(r.Hobbies)
	return out
}

func cloneList[T any](in []T) []T {
	return append(make([]T, 0, len(in)), in...)
}
