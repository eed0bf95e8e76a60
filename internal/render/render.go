// Package render turns an aggregated Resume into preview markup. All user
// text passes through html/template, which is the only place escaping happens.
package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/validate"
)

//go:embed templates/resume.html templates/style.css
var files embed.FS

var tpl = template.Must(template.New("resume.html").Funcs(template.FuncMap{
	"monthYear": MonthYear,
	"dob":       DateOfBirth,
	"href":      Href,
	"column":    func(title string, items []string) skillColumn { return skillColumn{title, items} },
}).ParseFS(files, "templates/resume.html"))

var css = func() template.CSS {
	b, err := files.ReadFile("templates/style.css")
	if err != nil {
		panic(err)
	}
	return template.CSS(b)
}()

// PhotoElementID is the id of the <img> that exports may hide.
const PhotoElementID = "previewPhoto"

// Options controls optional parts of the preview.
type Options struct {
	IncludePhoto bool
}

type skillColumn struct {
	Title string
	Items []string
}

type page struct {
	Resume model.Resume
	CSS    template.CSS
	Photo  template.URL
}

// HTML renders r as a standalone document with the stylesheet inlined.
func HTML(r model.Resume, opts Options) (string, error) {
	data := page{Resume: r, CSS: css}
	if opts.IncludePhoto {
		data.Photo = photoURI(r.Personal.Photo)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render resume: %w", err)
	}
	return buf.String(), nil
}

// photoURI inlines an uploaded image; anything that is not an image is dropped.
func photoURI(p *model.Photo) template.URL {
	if p == nil || len(p.Data) == 0 || !strings.HasPrefix(p.ContentType, "image/") {
		return ""
	}
	return template.URL("data:" + p.ContentType + ";base64," + base64.StdEncoding.EncodeToString(p.Data))
}

var months = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthYear formats a YYYY-MM-DD date as "Jan 2023". The day is discarded.
func MonthYear(v string) string {
	t, ok := validate.ParseDate(v)
	if !ok {
		return ""
	}
	return months[t.Month()-1] + " " + fmt.Sprint(t.Year())
}

// DateOfBirth formats like the en-IN locale: "05 May 1995", "09 Sept 2001".
func DateOfBirth(v string) string {
	t, ok := validate.ParseDate(v)
	if !ok {
		return v
	}
	mon := months[t.Month()-1]
	if t.Month() == time.September {
		mon = "Sept"
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), mon, t.Year())
}

// Href makes a scheme-less link absolute.
func Href(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	return "https://" + v
}
