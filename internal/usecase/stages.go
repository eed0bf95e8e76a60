package usecase

import (
	"strings"

	"resume-builder/internal/model"
	"resume-builder/internal/session"
	"resume-builder/internal/validate"
)

// SectionPersonal names the always-validated personal block in results.
const SectionPersonal = "personal"

// SectionResult holds the validation state of one section. Errors has an
// entry for every slot the section owns; "" marks a pass.
type SectionResult struct {
	Section string
	Valid   bool
	Errors  map[string]string
}

func newResult(section string) *SectionResult {
	return &SectionResult{Section: section, Valid: true, Errors: map[string]string{}}
}

func (r *SectionResult) set(key, msg string) {
	r.Errors[key] = msg
	if msg != "" {
		r.Valid = false
	}
}

// PersonalValidator checks every personal field independently so all
// failures surface at once.
func PersonalValidator(st *session.State) *SectionResult {
	res := newResult(SectionPersonal)
	p := st.Personal
	key := func(f string) string { return SectionPersonal + "." + f }

	res.set(key("name"), required(p.Name, "Name is required."))
	res.set(key("email"), check(validate.Email(p.Email), "Valid email is required."))
	res.set(key("phone"), check(validate.Phone(p.Phone), "Valid phone number is required."))
	res.set(key("dob"), check(validDate(p.DateOfBirth), "Date of birth is required."))
	res.set(key("location"), required(p.Location, "Location is required."))
	res.set(key("linkedin"), optionalURL(p.LinkedinURL, "LinkedIn URL is invalid."))
	res.set(key("github"), optionalURL(p.GithubURL, "GitHub URL is invalid."))
	res.set(key("objective"), required(p.Objective, "Objective is required."))
	return res
}

// ExperienceValidator applies the job role, company, dates, ordering chain
// to every partially filled entry.
func ExperienceValidator(st *session.State) *SectionResult {
	res := newResult(string(model.SectionExperience))
	for _, e := range st.Experience {
		k := session.ErrorKey(model.SectionExperience, e.ID)
		if !st.Visible(model.SectionExperience) || !e.AnyFilled() {
			res.set(k, "")
			continue
		}
		res.set(k, firstFailure(
			required(e.JobRole, "Job role is required."),
			required(e.Company, "Company name is required."),
			bothDates(e.StartDate, e.EndDate),
			dateOrder(e.StartDate, e.EndDate),
		))
	}
	return res
}

func EducationValidator(st *session.State) *SectionResult {
	res := newResult(string(model.SectionEducation))
	for _, e := range st.Education {
		k := session.ErrorKey(model.SectionEducation, e.ID)
		if !st.Visible(model.SectionEducation) || !e.AnyFilled() {
			res.set(k, "")
			continue
		}
		res.set(k, firstFailure(
			required(e.College, "College is required."),
			required(e.University, "University is required."),
			required(e.Course, "Course is required."),
			check(validate.Year(e.Year), "Year must be a 4-digit number."),
			optional(e.CGPA, validate.Number, "CGPA must be a number."),
		))
	}
	return res
}

func ProjectsValidator(st *session.State) *SectionResult {
	res := newResult(string(model.SectionProjects))
	for _, e := range st.Projects {
		k := session.ErrorKey(model.SectionProjects, e.ID)
		if !st.Visible(model.SectionProjects) || !e.AnyFilled() {
			res.set(k, "")
			continue
		}
		res.set(k, firstFailure(
			required(e.Title, "Project title is required."),
			required(e.Description, "Project description is required."),
			optionalURL(e.Link, "Project link is invalid."),
			required(e.Organization, "Company name is required."),
		))
	}
	return res
}

// SkillsValidator never blocks; it only refreshes the skill list slots.
func SkillsValidator(st *session.State) *SectionResult {
	res := newResult(string(model.SectionSkills))
	for _, f := range []string{"personal", "professional", "technical"} {
		res.set(string(model.SectionSkills)+"."+f, "")
	}
	return res
}

func HobbiesValidator(st *session.State) *SectionResult {
	return clearText(model.SectionHobbies, st.Hobbies)
}

func CertificationsValidator(st *session.State) *SectionResult {
	return clearText(model.SectionCertifications, st.Certifications)
}

func clearText(sec model.Section, entries []model.TextEntry) *SectionResult {
	res := newResult(string(sec))
	for _, e := range entries {
		res.set(session.ErrorKey(sec, e.ID), "")
	}
	return res
}

func required(v, msg string) string {
	return check(validate.Required(v), msg)
}

func check(ok bool, msg string) string {
	if ok {
		return ""
	}
	return msg
}

func optional(v string, fn func(string) bool, msg string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return check(fn(v), msg)
}

func optionalURL(v, msg string) string {
	return optional(v, validate.URL, msg)
}

// validDate treats an unparseable date as missing.
func validDate(v string) bool {
	_, ok := validate.ParseDate(v)
	return ok
}

func bothDates(start, end string) string {
	_, okStart := validate.ParseDate(start)
	_, okEnd := validate.ParseDate(end)
	return check(okStart && okEnd, "Join and last working dates are required.")
}

func dateOrder(start, end string) string {
	_, msg := session.Duration(start, end)
	return msg
}

// firstFailure returns the first non-empty message in rule order.
func firstFailure(msgs ...string) string {
	for _, m := range msgs {
		if m != "" {
			return m
		}
	}
	return ""
}
