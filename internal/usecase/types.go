package usecase

import (
	"encoding/base64"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
)

// NewSavePayload flattens an aggregated resume into the persistence body.
func NewSavePayload(r model.Resume) domain.SavePayload {
	p := domain.SavePayload{
		Name:               r.Personal.Name,
		Email:              r.Personal.Email,
		Phone:              r.Personal.Phone,
		DOB:                r.Personal.DateOfBirth,
		Location:           r.Personal.Location,
		LinkedIn:           r.Personal.LinkedinURL,
		GitHub:             r.Personal.GithubURL,
		Objective:          r.Personal.Objective,
		Declaration:        r.Declaration,
		Experience:         make([]domain.ExperienceItem, 0, len(r.Experience)),
		Education:          make([]domain.EducationItem, 0, len(r.Education)),
		Projects:           make([]domain.ProjectItem, 0, len(r.Projects)),
		PersonalSkills:     nonNil(r.Skills.Personal),
		ProfessionalSkills: nonNil(r.Skills.Professional),
		TechnicalSkills:    nonNil(r.Skills.Technical),
		Hobbies:            pointers(r.Hobbies),
		Certifications:     pointers(r.Certifications),
	}
	if ph := r.Personal.Photo; ph != nil && len(ph.Data) > 0 {
		p.Photo = "data:" + ph.ContentType + ";base64," + base64.StdEncoding.EncodeToString(ph.Data)
	}
	for _, e := range r.Experience {
		p.Experience = append(p.Experience, domain.ExperienceItem{
			Company:    e.Company,
			JobRole:    e.JobRole,
			StartDate:  e.StartDate,
			EndDate:    e.EndDate,
			Experience: e.Duration,
		})
	}
	for _, e := range r.Education {
		p.Education = append(p.Education, domain.EducationItem{
			College:    e.College,
			University: e.University,
			Course:     e.Course,
			Year:       e.Year,
			CGPA:       e.CGPA,
		})
	}
	for _, e := range r.Projects {
		p.Projects = append(p.Projects, domain.ProjectItem{
			Title:       e.Title,
			Description: e.Description,
			Link:        e.Link,
			Company:     e.Organization,
		})
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// pointers converts aggregated items for the wire. Aggregation has already
// dropped blanks, so the builder never sends null entries; the save endpoint
// still skips nulls from other clients.
func pointers(items []string) []*string {
	out := make([]*string, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
