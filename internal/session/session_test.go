package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name, start, end, want, msg string
	}{
		{"two whole years", "2020-01-01", "2022-01-01", "2 years 0 months", ""},
		{"singular units", "2020-01-15", "2021-02-15", "1 year 1 month", ""},
		{"day borrow", "2020-01-31", "2020-02-29", "0 years 0 months", ""},
		{"borrow across year", "2019-03-20", "2021-03-19", "1 year 11 months", ""},
		{"same day", "2020-01-01", "2020-01-01", "", MsgDateOrder},
		{"end before start", "2020-01-01", "2019-01-01", "", MsgDateOrder},
		{"missing end", "2020-01-01", "", "", ""},
		{"garbage", "yesterday", "2020-01-01", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := Duration(tt.start, tt.end)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestNew_DefaultEntries(t *testing.T) {
	st := New("s1").Snapshot()

	assert.Len(t, st.Experience, 1)
	assert.Len(t, st.Education, 1)
	assert.Len(t, st.Projects, 1)
	assert.Len(t, st.Hobbies, 1)
	assert.Len(t, st.Certifications, 1)
	for _, sec := range model.Sections {
		assert.True(t, st.Visible(sec), sec)
	}
	assert.Equal(t, DefaultDeclaration, st.Declaration)
	assert.False(t, st.Accepted)
	assert.Empty(t, st.Preview)
}

func TestSession_AddRemoveKeepsSiblingIDs(t *testing.T) {
	s := New("s1")
	first := s.Snapshot().Experience[0].ID

	second, err := s.AddEntry(model.SectionExperience)
	require.NoError(t, err)
	third, err := s.AddEntry(model.SectionExperience)
	require.NoError(t, err)

	require.NoError(t, s.RemoveEntry(model.SectionExperience, second))

	exp := s.Snapshot().Experience
	require.Len(t, exp, 2)
	assert.Equal(t, first, exp[0].ID)
	assert.Equal(t, third, exp[1].ID)

	err = s.RemoveEntry(model.SectionExperience, second)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSession_AddEntry_UnknownKind(t *testing.T) {
	_, err := New("s1").AddEntry(model.SectionSkills)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestSession_UpdateExperience(t *testing.T) {
	s := New("s1")
	id := s.Snapshot().Experience[0].ID

	e, msg, err := s.UpdateExperience(id, model.ExperienceEntry{Company: "Acme", JobRole: "Engineer", StartDate: "2020-01-01", EndDate: "2022-01-01", Duration: "99 years"})
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Equal(t, "2 years 0 months", e.Duration, "duration is derived, not copied")

	e, msg, err = s.UpdateExperience(id, model.ExperienceEntry{Company: "Acme", JobRole: "Engineer", StartDate: "2020-01-01", EndDate: "2019-01-01"})
	require.NoError(t, err)
	assert.Equal(t, MsgDateOrder, msg)
	assert.Empty(t, e.Duration)
	assert.Equal(t, MsgDateOrder, s.Snapshot().Errors[ErrorKey(model.SectionExperience, id)])

	dur, msg, err := s.RecomputeDuration(id)
	require.NoError(t, err)
	assert.Empty(t, dur)
	assert.Equal(t, MsgDateOrder, msg)

	_, _, err = s.UpdateExperience("nope", model.ExperienceEntry{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSession_UpdateText(t *testing.T) {
	s := New("s1")
	id := s.Snapshot().Hobbies[0].ID
	require.NoError(t, s.UpdateText(model.SectionHobbies, id, "chess"))
	assert.Equal(t, "chess", s.Snapshot().Hobbies[0].Text)

	assert.ErrorIs(t, s.UpdateText(model.SectionProjects, id, "x"), ErrUnknownKind)
}

func TestSession_SetPersonalKeepsPhoto(t *testing.T) {
	s := New("s1")
	s.SetPhoto(&model.Photo{ContentType: "image/png", Data: []byte{1}})
	s.SetPersonal(model.PersonalInfo{Name: "Asha"})

	st := s.Snapshot()
	assert.Equal(t, "Asha", st.Personal.Name)
	require.NotNil(t, st.Personal.Photo)
}

func TestSession_Reset(t *testing.T) {
	s := New("s1")
	_, err := s.AddEntry(model.SectionEducation)
	require.NoError(t, err)
	s.SetVisibility(model.SectionProjects, false)
	s.SetPersonal(model.PersonalInfo{Name: "Asha"})
	before := s.Snapshot().Education[0].ID

	s.Reset()

	st := s.Snapshot()
	assert.Len(t, st.Education, 1)
	assert.NotEqual(t, before, st.Education[0].ID, "no entry persists across reset")
	assert.True(t, st.Visible(model.SectionProjects))
	assert.Empty(t, st.Personal.Name)
}

func TestState_CloneIsDeep(t *testing.T) {
	s := New("s1")
	snap := s.Snapshot()
	snap.Experience[0].Company = "mutated"
	snap.Visibility[model.SectionSkills] = false

	st := s.Snapshot()
	assert.Empty(t, st.Experience[0].Company)
	assert.True(t, st.Visible(model.SectionSkills))
}

func TestSession_ConcurrentMutationsSerialized(t *testing.T) {
	s := New("s1")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddEntry(model.SectionHobbies)
		}()
	}
	wg.Wait()
	assert.Len(t, s.Snapshot().Hobbies, 51)
}

func TestSession_SetDeclarationKeepsPhotoFlag(t *testing.T) {
	s := New("s1")
	no := false
	s.SetDeclaration("text", true, &no)
	assert.False(t, s.Snapshot().IncludePhoto)

	s.SetDeclaration("other", false, nil)
	st := s.Snapshot()
	assert.False(t, st.IncludePhoto)
	assert.Equal(t, "other", st.Declaration)
	assert.False(t, st.Accepted)
}

func TestSession_OneExportAtATime(t *testing.T) {
	a, b := New("a"), New("b")
	require.True(t, a.BeginExport())
	assert.False(t, a.BeginExport())
	assert.True(t, b.BeginExport())

	a.EndExport()
	assert.True(t, a.BeginExport())
	a.EndExport()
	b.EndExport()
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s := r.Create()

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Delete(s.ID))
	_, err = r.Get(s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(s.ID), domain.ErrNotFound)
}

func TestRegistry_Expire(t *testing.T) {
	r := NewRegistry()
	r.Create()
	assert.Equal(t, 0, r.Expire(time.Hour, time.Now()))
	assert.Equal(t, 1, r.Expire(time.Hour, time.Now().Add(2*time.Hour)))
	assert.Equal(t, 0, r.Len())
}
