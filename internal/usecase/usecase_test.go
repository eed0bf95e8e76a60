package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-builder/internal/domain"
	"resume-builder/internal/export"
	"resume-builder/internal/metrics"
	"resume-builder/internal/model"
	"resume-builder/internal/session"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ashaPersonal = model.PersonalInfo{
	Name:        "Asha Rao",
	Email:       "asha@x.com",
	Phone:       "9876543210",
	DateOfBirth: "1995-05-05",
	Location:    "Pune",
	Objective:   "Build things",
}

var yes = true

// newAsha returns a session holding the canonical example resume with one
// experience entry.
func newAsha(t *testing.T, endDate string) (*session.Session, string) {
	t.Helper()
	s := session.New("s1")
	s.SetPersonal(ashaPersonal)
	id := s.Snapshot().Experience[0].ID
	_, _, err := s.UpdateExperience(id, model.ExperienceEntry{Company: "Acme", JobRole: "Engineer", StartDate: "2020-01-01", EndDate: endDate})
	require.NoError(t, err)
	s.SetDeclaration(session.DefaultDeclaration, true, &yes)
	return s, id
}

func validateSession(s *session.Session) ValidationResult {
	var res ValidationResult
	_ = s.Update(func(st *session.State) error {
		res = Validate(st)
		return nil
	})
	return res
}

func TestValidate_PersonalReportsEveryFailure(t *testing.T) {
	s := session.New("s1")
	s.SetPersonal(model.PersonalInfo{Email: "nope", LinkedinURL: "not a url", GithubURL: "github.com/asha"})

	res := validateSession(s)
	assert.False(t, res.Valid)
	assert.Equal(t, map[string]string{
		"personal.name":      "Name is required.",
		"personal.email":     "Valid email is required.",
		"personal.phone":     "Valid phone number is required.",
		"personal.dob":       "Date of birth is required.",
		"personal.location":  "Location is required.",
		"personal.linkedin":  "LinkedIn URL is invalid.",
		"personal.objective": "Objective is required.",
	}, res.Errors)
}

func TestValidate_BlankEntriesNeverFail(t *testing.T) {
	s := session.New("s1")
	s.SetPersonal(ashaPersonal)
	_, err := s.AddEntry(model.SectionProjects)
	require.NoError(t, err)

	for _, visible := range []bool{true, false} {
		for _, sec := range model.Sections {
			s.SetVisibility(sec, visible)
		}
		res := validateSession(s)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)

		var r model.Resume
		_ = s.Update(func(st *session.State) error { r = Aggregate(st); return nil })
		assert.Empty(t, r.Experience)
		assert.Empty(t, r.Education)
		assert.Empty(t, r.Projects)
		assert.Empty(t, r.Hobbies)
	}
}

func TestValidate_ExperienceChain(t *testing.T) {
	tests := []struct {
		name string
		in   model.ExperienceEntry
		want string
	}{
		{"role first", model.ExperienceEntry{Company: "Acme"}, "Job role is required."},
		{"company", model.ExperienceEntry{JobRole: "Eng"}, "Company name is required."},
		{"dates", model.ExperienceEntry{JobRole: "Eng", Company: "Acme", StartDate: "2020-01-01"}, "Join and last working dates are required."},
		{"order", model.ExperienceEntry{JobRole: "Eng", Company: "Acme", StartDate: "2020-01-01", EndDate: "2020-01-01"}, "Last working date must be after join date."},
		{"ok", model.ExperienceEntry{JobRole: "Eng", Company: "Acme", StartDate: "2020-01-01", EndDate: "2020-02-01"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New("s1")
			s.SetPersonal(ashaPersonal)
			id := s.Snapshot().Experience[0].ID
			_, _, err := s.UpdateExperience(id, tt.in)
			require.NoError(t, err)

			res := validateSession(s)
			assert.Equal(t, tt.want, res.Errors[session.ErrorKey(model.SectionExperience, id)])
			assert.Equal(t, tt.want == "", res.Valid)
		})
	}
}

func TestValidate_EducationRules(t *testing.T) {
	base := model.EducationEntry{College: "COEP", University: "SPPU", Course: "BTech"}
	tests := []struct {
		name string
		year string
		cgpa string
		want string
	}{
		{"short year", "23", "", "Year must be a 4-digit number."},
		{"bad cgpa", "2023", "abc", "CGPA must be a number."},
		{"good cgpa", "2023", "8.5", ""},
		{"no cgpa", "2023", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New("s1")
			s.SetPersonal(ashaPersonal)
			id := s.Snapshot().Education[0].ID
			e := base
			e.Year, e.CGPA = tt.year, tt.cgpa
			_, err := s.UpdateEducation(id, e)
			require.NoError(t, err)

			res := validateSession(s)
			assert.Equal(t, tt.want, res.Errors[session.ErrorKey(model.SectionEducation, id)])
			assert.Equal(t, tt.want == "", res.Valid)
		})
	}
}

func TestValidate_EducationOnlyCGPA(t *testing.T) {
	s := session.New("s1")
	s.SetPersonal(ashaPersonal)
	id := s.Snapshot().Education[0].ID
	_, err := s.UpdateEducation(id, model.EducationEntry{CGPA: "9"})
	require.NoError(t, err)

	res := validateSession(s)
	assert.Equal(t, "College is required.", res.Errors[session.ErrorKey(model.SectionEducation, id)])
}

func TestValidate_ProjectChain(t *testing.T) {
	s := session.New("s1")
	s.SetPersonal(ashaPersonal)
	id := s.Snapshot().Projects[0].ID
	key := session.ErrorKey(model.SectionProjects, id)

	_, err := s.UpdateProject(id, model.ProjectEntry{Link: "bad link"})
	require.NoError(t, err)
	assert.Equal(t, "Project title is required.", validateSession(s).Errors[key])

	_, err = s.UpdateProject(id, model.ProjectEntry{Title: "T", Description: "D", Link: "bad link"})
	require.NoError(t, err)
	assert.Equal(t, "Project link is invalid.", validateSession(s).Errors[key])

	_, err = s.UpdateProject(id, model.ProjectEntry{Title: "T", Description: "D", Link: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Company name is required.", validateSession(s).Errors[key])
}

func TestValidate_Idempotent(t *testing.T) {
	s, _ := newAsha(t, "2019-01-01")
	first := validateSession(s)
	second := validateSession(s)
	assert.Equal(t, first.Valid, second.Valid)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, s.Snapshot().Errors, s.Snapshot().Errors)
}

func TestValidate_ClearsStaleErrors(t *testing.T) {
	s := session.New("s1")
	res := validateSession(s)
	require.False(t, res.Valid)
	require.NotEmpty(t, s.Snapshot().Errors)

	s.SetPersonal(ashaPersonal)
	res = validateSession(s)
	assert.True(t, res.Valid)
	assert.Empty(t, s.Snapshot().Errors)
}

func TestValidate_VisibilityToggleRestoresOutcome(t *testing.T) {
	s, id := newAsha(t, "2019-01-01")
	key := session.ErrorKey(model.SectionExperience, id)

	before := validateSession(s)
	require.False(t, before.Valid)

	s.SetVisibility(model.SectionExperience, false)
	hidden := validateSession(s)
	assert.True(t, hidden.Valid)
	assert.Empty(t, s.Snapshot().Errors[key])

	s.SetVisibility(model.SectionExperience, true)
	after := validateSession(s)
	assert.Equal(t, before.Valid, after.Valid)
	assert.Equal(t, before.Errors, after.Errors)
}

func TestAggregate(t *testing.T) {
	s, _ := newAsha(t, "2022-01-01")
	st := s.Snapshot()
	st.Personal.Name = "  Asha Rao  "
	st.Skills = model.SkillSet{Technical: []string{" Go ", "", "  "}}
	st.Hobbies = append(st.Hobbies, model.TextEntry{ID: "h2", Text: "chess & <go>"})
	st.Education[0].CGPA = "9"

	r := Aggregate(&st)
	assert.Equal(t, "Asha Rao", r.Personal.Name)
	require.Len(t, r.Experience, 1)
	assert.Equal(t, "2 years 0 months", r.Experience[0].Duration)
	assert.Empty(t, r.Education, "cgpa alone is not significant")
	assert.Equal(t, []string{"Go"}, r.Skills.Technical)
	assert.Equal(t, []string{"chess & <go>"}, r.Hobbies, "text is not escaped")

	st.Visibility[model.SectionExperience] = false
	st.Visibility[model.SectionSkills] = false
	r = Aggregate(&st)
	assert.Empty(t, r.Experience)
	assert.True(t, r.Skills.Empty())
}

type fakeSaver struct {
	got domain.SavePayload
	err error
}

func (f *fakeSaver) Save(_ context.Context, p domain.SavePayload) (domain.SaveResult, error) {
	f.got = p
	if f.err != nil {
		return domain.SaveResult{}, f.err
	}
	return domain.SaveResult{Success: true, ResumeID: "7"}, nil
}

type fakeExporter struct {
	html string
	opts export.Options
}

func (f *fakeExporter) Export(_ context.Context, html string, opts export.Options) (export.Artifact, error) {
	f.html, f.opts = html, opts
	if strings.TrimSpace(html) == "" {
		return export.Artifact{}, domain.ErrNoPreview
	}
	return export.Artifact{FileName: "resume.pdf", Pages: 1}, nil
}

// blockingExporter holds the export of the first preview it sees until
// release is closed.
type blockingExporter struct {
	blockHTML string
	started   chan struct{}
	release   chan struct{}
}

func (b *blockingExporter) Export(_ context.Context, html string, _ export.Options) (export.Artifact, error) {
	if html == b.blockHTML {
		close(b.started)
		<-b.release
	}
	return export.Artifact{FileName: "resume.pdf", Pages: 1}, nil
}

func TestProcessor_ExportSerializedPerSession(t *testing.T) {
	a, _ := newAsha(t, "2022-01-01")
	b, _ := newAsha(t, "2021-01-01")
	exp := &blockingExporter{started: make(chan struct{}), release: make(chan struct{})}
	p := NewProcessor(nil, exp, nil, nil)

	resA, err := p.Preview(context.Background(), a)
	require.NoError(t, err)
	_, err = p.Preview(context.Background(), b)
	require.NoError(t, err)
	exp.blockHTML = resA.HTML

	done := make(chan error, 1)
	go func() {
		_, err := p.Export(context.Background(), a, export.ModeRaster, nil)
		done <- err
	}()
	<-exp.started

	art, err := p.Export(context.Background(), b, export.ModeRaster, nil)
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", art.FileName)

	_, err = p.Export(context.Background(), a, export.ModeRaster, nil)
	assert.ErrorIs(t, err, domain.ErrExportInProgress)

	close(exp.release)
	require.NoError(t, <-done)
	require.True(t, a.BeginExport(), "slot released after the export finished")
	a.EndExport()
}

func TestProcessor_PreviewEndToEnd(t *testing.T) {
	s, _ := newAsha(t, "2022-01-01")
	m := metrics.Nop()
	p := NewProcessor(&fakeSaver{}, &fakeExporter{}, m, nil)

	res, err := p.Preview(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, res.Resume.Experience, 1)
	assert.Equal(t, "2 years 0 months", res.Resume.Experience[0].Duration)
	assert.Contains(t, res.HTML, "WORK EXPERIENCE")
	assert.Equal(t, 1, strings.Count(res.HTML, `class="experience-item"`))
	assert.Equal(t, res.HTML, s.Snapshot().Preview)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Previews.WithLabelValues("ok")))
}

func TestProcessor_PreviewBlockedByDateOrder(t *testing.T) {
	s, id := newAsha(t, "2019-01-01")
	p := NewProcessor(nil, &fakeExporter{}, nil, nil)

	_, err := p.Preview(context.Background(), s)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Last working date must be after join date.", ve.Fields[session.ErrorKey(model.SectionExperience, id)])
	assert.Empty(t, s.Snapshot().Preview)
}

func TestProcessor_PreviewRejectsMalformedDateOfBirth(t *testing.T) {
	s, _ := newAsha(t, "2022-01-01")
	personal := ashaPersonal
	personal.DateOfBirth = "05/05/1995"
	s.SetPersonal(personal)
	p := NewProcessor(nil, &fakeExporter{}, nil, nil)

	_, err := p.Preview(context.Background(), s)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, map[string]string{"personal.dob": "Date of birth is required."}, ve.Fields)
	assert.Empty(t, s.Snapshot().Preview)
}

func TestProcessor_PreviewRequiresDeclaration(t *testing.T) {
	s, _ := newAsha(t, "2022-01-01")
	s.SetDeclaration("text", false, nil)
	p := NewProcessor(nil, &fakeExporter{}, nil, nil)

	_, err := p.Preview(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrDeclarationRequired)
	st := s.Snapshot()
	assert.Equal(t, domain.ErrDeclarationRequired.Message, st.Errors["declaration"])
	assert.Empty(t, st.Preview)
}

func TestProcessor_FailedPreviewKeepsLastGoodOne(t *testing.T) {
	s, id := newAsha(t, "2022-01-01")
	p := NewProcessor(nil, &fakeExporter{}, nil, nil)
	res, err := p.Preview(context.Background(), s)
	require.NoError(t, err)

	_, _, err = s.UpdateExperience(id, model.ExperienceEntry{Company: "Acme", JobRole: "Engineer", StartDate: "2020-01-01", EndDate: "2019-01-01"})
	require.NoError(t, err)
	_, err = p.Preview(context.Background(), s)
	require.Error(t, err)
	assert.Equal(t, res.HTML, s.Snapshot().Preview)
}

func TestProcessor_SaveFailureKeepsExportAvailable(t *testing.T) {
	s, _ := newAsha(t, "2022-01-01")
	saver := &fakeSaver{err: &domain.CollaboratorError{Op: "save resume", Err: errors.New("unreachable")}}
	exp := &fakeExporter{}
	p := NewProcessor(saver, exp, nil, nil)

	res, err := p.Preview(context.Background(), s)
	require.NoError(t, err)
	_, err = p.Save(context.Background(), res.Resume)
	var ce *domain.CollaboratorError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Asha Rao", saver.got.Name)
	require.Len(t, saver.got.Experience, 1)
	assert.Equal(t, "2 years 0 months", saver.got.Experience[0].Experience)

	art, err := p.Export(context.Background(), s, export.ModeRaster, nil)
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", art.FileName)
	assert.Equal(t, res.HTML, exp.html)
}

func TestProcessor_SaveWithoutSaver(t *testing.T) {
	p := NewProcessor(nil, &fakeExporter{}, nil, nil)
	_, err := p.Save(context.Background(), model.Resume{})
	var ce *domain.CollaboratorError
	assert.True(t, errors.As(err, &ce))
}

func TestProcessor_ExportBeforePreview(t *testing.T) {
	s, _ := newAsha(t, "2022-01-01")
	p := NewProcessor(nil, &fakeExporter{}, nil, nil)
	_, err := p.Export(context.Background(), s, export.ModeRaster, nil)
	assert.ErrorIs(t, err, domain.ErrNoPreview)
}

func TestProcessor_ExportPhotoOverride(t *testing.T) {
	s, _ := newAsha(t, "2022-01-01")
	exp := &fakeExporter{}
	p := NewProcessor(nil, exp, nil, nil)
	_, err := p.Preview(context.Background(), s)
	require.NoError(t, err)

	_, err = p.Export(context.Background(), s, export.ModePrint, nil)
	require.NoError(t, err)
	assert.True(t, exp.opts.IncludePhoto)
	assert.Equal(t, export.ModePrint, exp.opts.Mode)

	no := false
	_, err = p.Export(context.Background(), s, export.ModeRaster, &no)
	require.NoError(t, err)
	assert.False(t, exp.opts.IncludePhoto)
}

func TestNewSavePayload_BlankHobbiesNeverSent(t *testing.T) {
	s, _ := newAsha(t, "2022-01-01")
	_ = s.Update(func(st *session.State) error {
		st.Hobbies = []model.TextEntry{{ID: "h1", Text: "chess"}, {ID: "h2", Text: "  "}}
		return nil
	})
	var r model.Resume
	_ = s.Update(func(st *session.State) error {
		r = Aggregate(st)
		return nil
	})

	p := NewSavePayload(r)
	require.Len(t, p.Hobbies, 1)
	assert.Equal(t, "chess", *p.Hobbies[0])
}

func TestNewSavePayload(t *testing.T) {
	r := model.Resume{
		Personal:       ashaPersonal,
		Projects:       []model.ProjectEntry{{Title: "T", Description: "D", Organization: "Acme"}},
		Hobbies:        []string{"chess", "go"},
		Certifications: []string{},
	}
	r.Personal.Photo = &model.Photo{ContentType: "image/png", Data: []byte("png")}

	p := NewSavePayload(r)
	assert.Equal(t, "1995-05-05", p.DOB)
	assert.Equal(t, "Acme", p.Projects[0].Company)
	assert.Equal(t, "data:image/png;base64,cG5n", p.Photo)
	require.Len(t, p.Hobbies, 2)
	assert.Equal(t, "chess", *p.Hobbies[0])
	assert.Equal(t, "go", *p.Hobbies[1])
	assert.NotNil(t, p.PersonalSkills)
	assert.NotNil(t, p.Certifications)
}
