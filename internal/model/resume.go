package model

import "strings"

// Go models for the resume document. The same structs back the editing
// session (entries carry an ID) and the aggregated, serialisable Resume.

// Section names a hideable group of resume fields. Personal info is not a
// Section: it is always present and always validated.
type Section string

const (
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionProjects       Section = "projects"
	SectionSkills         Section = "skills"
	SectionHobbies        Section = "hobbies"
	SectionCertifications Section = "certifications"
)

// Sections lists every hideable section in validation order.
var Sections = []Section{
	SectionExperience,
	SectionEducation,
	SectionProjects,
	SectionSkills,
	SectionHobbies,
	SectionCertifications,
}

func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

// Repeatable reports whether the section holds add/remove entries.
func (s Section) Repeatable() bool {
	return s != SectionSkills
}

// Photo is an opaque uploaded image.
type Photo struct {
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

type PersonalInfo struct {
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email" yaml:"email"`
	Phone       string `json:"phone" yaml:"phone"`
	DateOfBirth string `json:"dob" yaml:"dob"`
	Location    string `json:"location" yaml:"location"`
	LinkedinURL string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	GithubURL   string `json:"github,omitempty" yaml:"github,omitempty"`
	Photo       *Photo `json:"photo,omitempty" yaml:"-"`
	Objective   string `json:"objective" yaml:"objective"`
}

type ExperienceEntry struct {
	ID        string `json:"id,omitempty" yaml:"-"`
	Company   string `json:"company" yaml:"company"`
	JobRole   string `json:"jobRole" yaml:"jobRole"`
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`
	// Duration is derived from the dates and never set by callers.
	Duration string `json:"duration,omitempty" yaml:"-"`
}

// AnyFilled reports whether the entry has at least one significant field.
func (e ExperienceEntry) AnyFilled() bool {
	return anyFilled(e.Company, e.JobRole, e.StartDate, e.EndDate)
}

type EducationEntry struct {
	ID         string `json:"id,omitempty" yaml:"-"`
	College    string `json:"college" yaml:"college"`
	University string `json:"university" yaml:"university"`
	Course     string `json:"course" yaml:"course"`
	Year       string `json:"year" yaml:"year"`
	CGPA       string `json:"cgpa,omitempty" yaml:"cgpa,omitempty"`
}

// AnyFilled decides whether the entry takes part in validation; a lone CGPA
// counts, so that it is reported rather than silently dropped.
func (e EducationEntry) AnyFilled() bool {
	return anyFilled(e.College, e.University, e.Course, e.Year, e.CGPA)
}

// Significant decides whether the entry contributes to the aggregate.
func (e EducationEntry) Significant() bool {
	return anyFilled(e.College, e.University, e.Course, e.Year)
}

type ProjectEntry struct {
	ID           string `json:"id,omitempty" yaml:"-"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	Link         string `json:"link,omitempty" yaml:"link,omitempty"`
	Organization string `json:"organization" yaml:"organization"`
}

func (e ProjectEntry) AnyFilled() bool {
	return anyFilled(e.Title, e.Description, e.Link, e.Organization)
}

// Significant ignores the link: a project with only a link is validated
// (and fails) but never rendered.
func (e ProjectEntry) Significant() bool {
	return anyFilled(e.Title, e.Description, e.Organization)
}

type SkillSet struct {
	Personal     []string `json:"personal" yaml:"personal"`
	Professional []string `json:"professional" yaml:"professional"`
	Technical    []string `json:"technical" yaml:"technical"`
}

// Empty reports whether no list holds a non-blank skill.
func (s SkillSet) Empty() bool {
	for _, list := range [][]string{s.Personal, s.Professional, s.Technical} {
		if anyFilled(list...) {
			return false
		}
	}
	return true
}

// TextEntry is a single free-text hobby or certification.
type TextEntry struct {
	ID   string `json:"id,omitempty" yaml:"-"`
	Text string `json:"text" yaml:"text"`
}

// Resume is the aggregate root built fresh on every preview.
type Resume struct {
	Personal       PersonalInfo      `json:"personal" yaml:"personal"`
	Experience     []ExperienceEntry `json:"experience" yaml:"experience"`
	Education      []EducationEntry  `json:"education" yaml:"education"`
	Projects       []ProjectEntry    `json:"projects" yaml:"projects"`
	Skills         SkillSet          `json:"skills" yaml:"skills"`
	Hobbies        []string          `json:"hobbies" yaml:"hobbies"`
	Certifications []string          `json:"certifications" yaml:"certifications"`
	Declaration    string            `json:"declaration" yaml:"declaration"`
}

func anyFilled(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
