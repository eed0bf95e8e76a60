package usecase

import (
	"strings"

	"resume-builder/internal/session"
)

// ValidationResult is the outcome of one orchestrator run.
type ValidationResult struct {
	Valid    bool
	Sections []*SectionResult
	// Errors holds only the failing slots.
	Errors map[string]string
}

type sectionValidator func(st *session.State) *SectionResult

// validators run in this order on every call.
var validators = []sectionValidator{
	PersonalValidator,
	ExperienceValidator,
	EducationValidator,
	ProjectsValidator,
	SkillsValidator,
	HobbiesValidator,
	CertificationsValidator,
}

// Validate runs every section validator and writes each section's error
// state back into st, so a fixed field never keeps a stale message. It must
// be called with the session lock held (inside Session.Update).
func Validate(st *session.State) ValidationResult {
	out := ValidationResult{Valid: true, Errors: map[string]string{}}
	for _, v := range validators {
		res := v(st)
		clearSection(st, res.Section)
		for k, msg := range res.Errors {
			st.SetError(k, msg)
			if msg != "" {
				out.Errors[k] = msg
			}
		}
		out.Valid = out.Valid && res.Valid
		out.Sections = append(out.Sections, res)
	}
	return out
}

func clearSection(st *session.State, section string) {
	prefix := section + "."
	for k := range st.Errors {
		if strings.HasPrefix(k, prefix) {
			delete(st.Errors, k)
		}
	}
}
