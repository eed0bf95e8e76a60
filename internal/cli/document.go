package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"resume-builder/internal/model"
	"resume-builder/internal/session"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk resume format.
type Document struct {
	Personal       model.PersonalInfo      `json:"personal" yaml:"personal"`
	Photo          string                  `json:"photo,omitempty" yaml:"photo,omitempty"`
	Experience     []model.ExperienceEntry `json:"experience" yaml:"experience"`
	Education      []model.EducationEntry  `json:"education" yaml:"education"`
	Projects       []model.ProjectEntry    `json:"projects" yaml:"projects"`
	Skills         model.SkillSet          `json:"skills" yaml:"skills"`
	Hobbies        []string                `json:"hobbies" yaml:"hobbies"`
	Certifications []string                `json:"certifications" yaml:"certifications"`
	// Hidden lists sections left out of validation and output.
	Hidden      []string `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Declaration string   `json:"declaration,omitempty" yaml:"declaration,omitempty"`
	Accepted    bool     `json:"accepted" yaml:"accepted"`
}

// loadDocument reads a .json file as JSON and anything else as YAML. A photo
// path is resolved against the document's directory.
func loadDocument(path string) (*Document, *model.Photo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading resume: %w", err)
	}
	var doc Document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &doc)
	} else {
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	for _, h := range doc.Hidden {
		if _, ok := model.ParseSection(h); !ok {
			return nil, nil, fmt.Errorf("unknown hidden section %q", h)
		}
	}

	if doc.Photo == "" {
		return &doc, nil, nil
	}
	photoPath := doc.Photo
	if !filepath.IsAbs(photoPath) {
		photoPath = filepath.Join(filepath.Dir(path), photoPath)
	}
	data, err := os.ReadFile(photoPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading photo: %w", err)
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return nil, nil, fmt.Errorf("photo %s is %s, not an image", doc.Photo, ct)
	}
	return &doc, &model.Photo{ContentType: ct, Data: data}, nil
}

// toSession loads doc into a fresh editing session. Entries get their
// 1-based position as ID so error keys read "experience.2".
func toSession(doc *Document, photo *model.Photo, includePhoto bool) *session.Session {
	s := session.New("resumectl")
	_ = s.Update(func(st *session.State) error {
		st.Personal = doc.Personal
		st.Personal.Photo = photo

		st.Experience = make([]model.ExperienceEntry, len(doc.Experience))
		for i, e := range doc.Experience {
			e.ID = strconv.Itoa(i + 1)
			st.Experience[i] = e
		}
		st.Education = make([]model.EducationEntry, len(doc.Education))
		for i, e := range doc.Education {
			e.ID = strconv.Itoa(i + 1)
			st.Education[i] = e
		}
		st.Projects = make([]model.ProjectEntry, len(doc.Projects))
		for i, e := range doc.Projects {
			e.ID = strconv.Itoa(i + 1)
			st.Projects[i] = e
		}
		st.Skills = doc.Skills
		st.Hobbies = textEntries(doc.Hobbies)
		st.Certifications = textEntries(doc.Certifications)

		for _, h := range doc.Hidden {
			sec, _ := model.ParseSection(h)
			st.Visibility[sec] = false
		}
		if doc.Declaration != "" {
			st.Declaration = doc.Declaration
		}
		st.Accepted = doc.Accepted
		st.IncludePhoto = includePhoto && photo != nil
		return nil
	})
	return s
}

func textEntries(items []string) []model.TextEntry {
	out := make([]model.TextEntry, len(items))
	for i, t := range items {
		out[i] = model.TextEntry{ID: strconv.Itoa(i + 1), Text: t}
	}
	return out
}
