package usecase

import (
	"strings"

	"resume-builder/internal/model"
	"resume-builder/internal/session"
)

// Aggregate builds a fresh Resume from the visible sections of st. Text is
// trimmed but never escaped; blank entries are dropped from the document
// while they stay in the session.
func Aggregate(st *session.State) model.Resume {
	p := st.Personal
	r := model.Resume{
		Personal: model.PersonalInfo{
			Name:        trim(p.Name),
			Email:       trim(p.Email),
			Phone:       trim(p.Phone),
			DateOfBirth: trim(p.DateOfBirth),
			Location:    trim(p.Location),
			LinkedinURL: trim(p.LinkedinURL),
			GithubURL:   trim(p.GithubURL),
			Photo:       p.Photo,
			Objective:   trim(p.Objective),
		},
		Experience:     []model.ExperienceEntry{},
		Education:      []model.EducationEntry{},
		Projects:       []model.ProjectEntry{},
		Skills:         model.SkillSet{Personal: []string{}, Professional: []string{}, Technical: []string{}},
		Hobbies:        []string{},
		Certifications: []string{},
		Declaration:    trim(st.Declaration),
	}

	if st.Visible(model.SectionExperience) {
		for _, e := range st.Experience {
			if !e.AnyFilled() {
				continue
			}
			out := model.ExperienceEntry{
				ID:        e.ID,
				Company:   trim(e.Company),
				JobRole:   trim(e.JobRole),
				StartDate: trim(e.StartDate),
				EndDate:   trim(e.EndDate),
			}
			out.Duration, _ = session.Duration(out.StartDate, out.EndDate)
			r.Experience = append(r.Experience, out)
		}
	}
	if st.Visible(model.SectionEducation) {
		for _, e := range st.Education {
			if !e.Significant() {
				continue
			}
			r.Education = append(r.Education, model.EducationEntry{
				ID:         e.ID,
				College:    trim(e.College),
				University: trim(e.University),
				Course:     trim(e.Course),
				Year:       trim(e.Year),
				CGPA:       trim(e.CGPA),
			})
		}
	}
	if st.Visible(model.SectionProjects) {
		for _, e := range st.Projects {
			if !e.Significant() {
				continue
			}
			r.Projects = append(r.Projects, model.ProjectEntry{
				ID:           e.ID,
				Title:        trim(e.Title),
				Description:  trim(e.Description),
				Link:         trim(e.Link),
				Organization: trim(e.Organization),
			})
		}
	}
	if st.Visible(model.SectionSkills) {
		r.Skills = model.SkillSet{
			Personal:     compact(st.Skills.Personal),
			Professional: compact(st.Skills.Professional),
			Technical:    compact(st.Skills.Technical),
		}
	}
	if st.Visible(model.SectionHobbies) {
		r.Hobbies = texts(st.Hobbies)
	}
	if st.Visible(model.SectionCertifications) {
		r.Certifications = texts(st.Certifications)
	}
	return r
}

func trim(s string) string { return strings.TrimSpace(s) }

// compact trims every item and drops the blank ones.
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if v := trim(it); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func texts(entries []model.TextEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if v := trim(e.Text); v != "" {
			out = append(out, v)
		}
	}
	return out
}
