// Package session owns the editing state of one resume: the section models,
// their entry lists, visibility flags, error state and the last preview.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

// ErrUnknownKind is returned for section names that do not hold entries.
var ErrUnknownKind = errors.New("unknown entry kind")

// DefaultDeclaration pre-fills the declaration text of a new session.
const DefaultDeclaration = "I hereby declare that the information furnished above is true to the best of my knowledge and belief."

// State is the data behind one editing session. Error keys are
// "personal.<field>", "<section>.<entryID>" and "declaration".
type State struct {
	Personal       model.PersonalInfo      `json:"personal"`
	Experience     []model.ExperienceEntry `json:"experience"`
	Education      []model.EducationEntry  `json:"education"`
	Projects       []model.ProjectEntry    `json:"projects"`
	Skills         model.SkillSet          `json:"skills"`
	Hobbies        []model.TextEntry       `json:"hobbies"`
	Certifications []model.TextEntry       `json:"certifications"`
	Visibility     map[model.Section]bool  `json:"visibility"`
	Declaration    string                  `json:"declaration"`
	Accepted       bool                    `json:"declarationAccepted"`
	IncludePhoto   bool                    `json:"includePhoto"`
	Errors         map[string]string       `json:"errors"`
	// Preview is the markup of the last successful preview, "" if none.
	Preview string `json:"-"`
}

// Visible reports the visibility flag of sec.
func (st *State) Visible(sec model.Section) bool {
	return st.Visibility[sec]
}

// SetError records msg under key; an empty msg clears it.
func (st *State) SetError(key, msg string) {
	if msg == "" {
		delete(st.Errors, key)
		return
	}
	st.Errors[key] = msg
}

// Clone returns a deep copy safe to read without the session lock.
func (st *State) Clone() State {
	c := *st
	c.Experience = append([]model.ExperienceEntry(nil), st.Experience...)
	c.Education = append([]model.EducationEntry(nil), st.Education...)
	c.Projects = append([]model.ProjectEntry(nil), st.Projects...)
	c.Hobbies = append([]model.TextEntry(nil), st.Hobbies...)
	c.Certifications = append([]model.TextEntry(nil), st.Certifications...)
	c.Skills = model.SkillSet{
		Personal:     append([]string(nil), st.Skills.Personal...),
		Professional: append([]string(nil), st.Skills.Professional...),
		Technical:    append([]string(nil), st.Skills.Technical...),
	}
	c.Visibility = make(map[model.Section]bool, len(st.Visibility))
	for k, v := range st.Visibility {
		c.Visibility[k] = v
	}
	c.Errors = make(map[string]string, len(st.Errors))
	for k, v := range st.Errors {
		c.Errors[k] = v
	}
	if st.Personal.Photo != nil {
		p := *st.Personal.Photo
		c.Personal.Photo = &p
	}
	return c
}

func newState() State {
	st := State{
		Experience:     []model.ExperienceEntry{{ID: uuid.NewString()}},
		Education:      []model.EducationEntry{{ID: uuid.NewString()}},
		Projects:       []model.ProjectEntry{{ID: uuid.NewString()}},
		Hobbies:        []model.TextEntry{{ID: uuid.NewString()}},
		Certifications: []model.TextEntry{{ID: uuid.NewString()}},
		Visibility:     make(map[model.Section]bool, len(model.Sections)),
		Declaration:    DefaultDeclaration,
		IncludePhoto:   true,
		Errors:         map[string]string{},
	}
	for _, sec := range model.Sections {
		st.Visibility[sec] = true
	}
	return st
}

// Session serializes every mutation of its State behind one mutex.
type Session struct {
	ID string

	mu        sync.Mutex
	st        State
	updatedAt time.Time

	// exporting is held for the duration of one export of this session.
	exporting sync.Mutex
}

// New returns a session in its start state: every section visible and one
// blank entry per repeatable section.
func New(id string) *Session {
	return &Session{ID: id, st: newState(), updatedAt: time.Now()}
}

// Update runs fn with exclusive access to the state.
func (s *Session) Update(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
	return fn(&s.st)
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// BeginExport claims the session's export slot. It reports false while
// another export of the same session is running; EndExport releases it.
func (s *Session) BeginExport() bool {
	return s.exporting.TryLock()
}

func (s *Session) EndExport() {
	s.exporting.Unlock()
}

// Reset discards every entry and value and restores the start state.
func (s *Session) Reset() {
	_ = s.Update(func(st *State) error {
		*st = newState()
		return nil
	})
}

// SetPersonal replaces the personal fields, keeping an uploaded photo.
func (s *Session) SetPersonal(p model.PersonalInfo) {
	_ = s.Update(func(st *State) error {
		photo := st.Personal.Photo
		st.Personal = p
		st.Personal.Photo = photo
		return nil
	})
}

func (s *Session) SetPhoto(p *model.Photo) {
	_ = s.Update(func(st *State) error {
		st.Personal.Photo = p
		return nil
	})
}

func (s *Session) SetVisibility(sec model.Section, visible bool) {
	_ = s.Update(func(st *State) error {
		st.Visibility[sec] = visible
		return nil
	})
}

func (s *Session) SetSkills(sk model.SkillSet) {
	_ = s.Update(func(st *State) error {
		st.Skills = sk
		return nil
	})
}

// SetDeclaration stores the declaration text and its acceptance. A non-nil
// includePhoto also sets whether the photo goes into exports.
func (s *Session) SetDeclaration(text string, accepted bool, includePhoto *bool) {
	_ = s.Update(func(st *State) error {
		st.Declaration = text
		st.Accepted = accepted
		if includePhoto != nil {
			st.IncludePhoto = *includePhoto
		}
		if accepted {
			st.SetError("declaration", "")
		}
		return nil
	})
}

// AddEntry appends a blank entry to a repeatable section and returns its ID.
func (s *Session) AddEntry(kind model.Section) (string, error) {
	id := uuid.NewString()
	err := s.Update(func(st *State) error {
		switch kind {
		case model.SectionExperience:
			st.Experience = append(st.Experience, model.ExperienceEntry{ID: id})
		case model.SectionEducation:
			st.Education = append(st.Education, model.EducationEntry{ID: id})
		case model.SectionProjects:
			st.Projects = append(st.Projects, model.ProjectEntry{ID: id})
		case model.SectionHobbies:
			st.Hobbies = append(st.Hobbies, model.TextEntry{ID: id})
		case model.SectionCertifications:
			st.Certifications = append(st.Certifications, model.TextEntry{ID: id})
		default:
			return fmt.Errorf("add %q: %w", kind, ErrUnknownKind)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RemoveEntry detaches exactly the entry with id; siblings keep their IDs
// and order.
func (s *Session) RemoveEntry(kind model.Section, id string) error {
	return s.Update(func(st *State) error {
		var ok bool
		switch kind {
		case model.SectionExperience:
			st.Experience, ok = removeByID(st.Experience, id, func(e model.ExperienceEntry) string { return e.ID })
		case model.SectionEducation:
			st.Education, ok = removeByID(st.Education, id, func(e model.EducationEntry) string { return e.ID })
		case model.SectionProjects:
			st.Projects, ok = removeByID(st.Projects, id, func(e model.ProjectEntry) string { return e.ID })
		case model.SectionHobbies:
			st.Hobbies, ok = removeByID(st.Hobbies, id, func(e model.TextEntry) string { return e.ID })
		case model.SectionCertifications:
			st.Certifications, ok = removeByID(st.Certifications, id, func(e model.TextEntry) string { return e.ID })
		default:
			return fmt.Errorf("remove %q: %w", kind, ErrUnknownKind)
		}
		if !ok {
			return fmt.Errorf("%s entry %s: %w", kind, id, domain.ErrNotFound)
		}
		st.SetError(ErrorKey(kind, id), "")
		return nil
	})
}

// UpdateExperience overwrites the editable fields of an experience entry and
// recomputes its duration. The returned entry carries the new duration; a
// non-empty message means the dates are out of order.
func (s *Session) UpdateExperience(id string, in model.ExperienceEntry) (model.ExperienceEntry, string, error) {
	var (
		out model.ExperienceEntry
		msg string
	)
	err := s.Update(func(st *State) error {
		i := indexOf(st.Experience, id, func(e model.ExperienceEntry) string { return e.ID })
		if i < 0 {
			return fmt.Errorf("experience entry %s: %w", id, domain.ErrNotFound)
		}
		e := &st.Experience[i]
		e.Company, e.JobRole, e.StartDate, e.EndDate = in.Company, in.JobRole, in.StartDate, in.EndDate
		msg = recompute(st, e)
		out = *e
		return nil
	})
	return out, msg, err
}

// RecomputeDuration refreshes the derived duration of an experience entry.
func (s *Session) RecomputeDuration(id string) (string, string, error) {
	var dur, msg string
	err := s.Update(func(st *State) error {
		i := indexOf(st.Experience, id, func(e model.ExperienceEntry) string { return e.ID })
		if i < 0 {
			return fmt.Errorf("experience entry %s: %w", id, domain.ErrNotFound)
		}
		msg = recompute(st, &st.Experience[i])
		dur = st.Experience[i].Duration
		return nil
	})
	return dur, msg, err
}

func recompute(st *State, e *model.ExperienceEntry) string {
	dur, msg := Duration(e.StartDate, e.EndDate)
	e.Duration = dur
	st.SetError(ErrorKey(model.SectionExperience, e.ID), msg)
	return msg
}

func (s *Session) UpdateEducation(id string, in model.EducationEntry) (model.EducationEntry, error) {
	var out model.EducationEntry
	err := s.Update(func(st *State) error {
		i := indexOf(st.Education, id, func(e model.EducationEntry) string { return e.ID })
		if i < 0 {
			return fmt.Errorf("education entry %s: %w", id, domain.ErrNotFound)
		}
		in.ID = id
		st.Education[i] = in
		out = in
		return nil
	})
	return out, err
}

func (s *Session) UpdateProject(id string, in model.ProjectEntry) (model.ProjectEntry, error) {
	var out model.ProjectEntry
	err := s.Update(func(st *State) error {
		i := indexOf(st.Projects, id, func(e model.ProjectEntry) string { return e.ID })
		if i < 0 {
			return fmt.Errorf("project entry %s: %w", id, domain.ErrNotFound)
		}
		in.ID = id
		st.Projects[i] = in
		out = in
		return nil
	})
	return out, err
}

// UpdateText sets the text of a hobby or certification entry.
func (s *Session) UpdateText(kind model.Section, id, text string) error {
	return s.Update(func(st *State) error {
		var list []model.TextEntry
		switch kind {
		case model.SectionHobbies:
			list = st.Hobbies
		case model.SectionCertifications:
			list = st.Certifications
		default:
			return fmt.Errorf("update %q: %w", kind, ErrUnknownKind)
		}
		i := indexOf(list, id, func(e model.TextEntry) string { return e.ID })
		if i < 0 {
			return fmt.Errorf("%s entry %s: %w", kind, id, domain.ErrNotFound)
		}
		list[i].Text = text
		return nil
	})
}

// ErrorKey names the error slot of one entry.
func ErrorKey(sec model.Section, id string) string {
	return string(sec) + "." + id
}

func indexOf[T any](list []T, id string, idOf func(T) string) int {
	for i, v := range list {
		if idOf(v) == id {
			return i
		}
	}
	return -1
}

func removeByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	i := indexOf(list, id, idOf)
	if i < 0 {
		return list, false
	}
	return append(list[:i:i], list[i+1:]...), true
}
