package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResume() Resume {
	return Resume{
		Personal: PersonalInfo{
			Name:        "Asha Rao",
			Email:       "asha@x.com",
			Phone:       "9876543210",
			DateOfBirth: "1995-05-05",
			Location:    "Pune",
			Objective:   "Build things",
		},
		Experience:     []ExperienceEntry{{Company: "Acme", JobRole: "Engineer", StartDate: "2020-01-01", EndDate: "2022-01-01"}},
		Education:      []EducationEntry{},
		Projects:       []ProjectEntry{},
		Hobbies:        []string{},
		Certifications: []string{},
	}
}

func TestParseSection(t *testing.T) {
	s, ok := ParseSection("education")
	assert.True(t, ok)
	assert.Equal(t, SectionEducation, s)

	_, ok = ParseSection("personal")
	assert.False(t, ok, "personal info is never hideable")
}

func TestSection_Repeatable(t *testing.T) {
	assert.True(t, SectionHobbies.Repeatable())
	assert.False(t, SectionSkills.Repeatable())
}

func TestEducationEntry_AnyFilledVsSignificant(t *testing.T) {
	onlyCGPA := EducationEntry{CGPA: "8.5"}
	assert.True(t, onlyCGPA.AnyFilled())
	assert.False(t, onlyCGPA.Significant())

	assert.False(t, EducationEntry{College: "  "}.AnyFilled())
}

func TestProjectEntry_LinkOnly(t *testing.T) {
	p := ProjectEntry{Link: "example.com"}
	assert.True(t, p.AnyFilled())
	assert.False(t, p.Significant())
}

func TestSkillSet_Empty(t *testing.T) {
	assert.True(t, SkillSet{}.Empty())
	assert.True(t, SkillSet{Personal: []string{" ", ""}}.Empty())
	assert.False(t, SkillSet{Technical: []string{"Go"}}.Empty())
}

func TestValidateDocument(t *testing.T) {
	require.NoError(t, ValidateDocument(validResume()))

	r := validResume()
	r.Education = []EducationEntry{{College: "COEP", University: "SPPU", Course: "BTech", Year: "23"}}
	err := ValidateDocument(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")

	r = validResume()
	r.Experience = nil
	assert.Error(t, ValidateDocument(r), "experience must be an array")
}

func TestValidatePayload(t *testing.T) {
	ok := `{"name":"Asha","email":"asha@x.com","phone":"9876543210","dob":"1995-05-05","location":"Pune","objective":"x","hobbies":["chess",null]}`
	assert.NoError(t, ValidatePayload([]byte(ok)))

	missing := `{"email":"asha@x.com"}`
	assert.Error(t, ValidatePayload([]byte(missing)))

	wrongType := `{"name":"Asha","email":"asha@x.com","phone":"1","dob":"x","location":"y","objective":"z","experience":"none"}`
	assert.Error(t, ValidatePayload([]byte(wrongType)))

	assert.Error(t, ValidatePayload([]byte("{")), "malformed JSON")
}
