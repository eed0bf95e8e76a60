package render

import (
	"fmt"
	"strings"

	"resume-builder/internal/model"

	"github.com/charmbracelet/glamour"
)

// Markdown renders r as a plain markdown document, following the same
// omission rules as the HTML preview.
func Markdown(r model.Resume) string {
	var sb strings.Builder
	p := r.Personal
	fmt.Fprintf(&sb, "# %s\n\n", p.Name)
	fmt.Fprintf(&sb, "%s | %s | %s\n\n", p.Email, p.Phone, p.Location)
	var links []string
	for _, l := range []string{p.LinkedinURL, p.GithubURL} {
		if l != "" {
			links = append(links, fmt.Sprintf("[%s](%s)", l, Href(l)))
		}
	}
	if len(links) > 0 {
		sb.WriteString(strings.Join(links, " | ") + "\n\n")
	}
	if p.DateOfBirth != "" {
		fmt.Fprintf(&sb, "Date of Birth: %s\n\n", DateOfBirth(p.DateOfBirth))
	}

	sb.WriteString("## PROFESSIONAL SUMMARY\n\n" + p.Objective + "\n\n")

	if len(r.Experience) > 0 {
		sb.WriteString("## WORK EXPERIENCE\n\n")
		for _, e := range r.Experience {
			fmt.Fprintf(&sb, "### %s\n\n%s, %s - %s", e.JobRole, e.Company, MonthYear(e.StartDate), MonthYear(e.EndDate))
			if e.Duration != "" {
				fmt.Fprintf(&sb, " (%s)", e.Duration)
			}
			sb.WriteString("\n\n")
		}
	}
	if len(r.Education) > 0 {
		sb.WriteString("## EDUCATION\n\n")
		for _, e := range r.Education {
			fmt.Fprintf(&sb, "### %s\n\n%s, %s, %s\n", e.Course, e.College, e.University, e.Year)
			if e.CGPA != "" {
				fmt.Fprintf(&sb, "\nCGPA: %s\n", e.CGPA)
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Projects) > 0 {
		sb.WriteString("## PROJECTS\n\n")
		for _, e := range r.Projects {
			fmt.Fprintf(&sb, "### %s\n\n%s\n\n", e.Title, e.Organization)
			if e.Link != "" {
				fmt.Fprintf(&sb, "[%s](%s)\n\n", e.Link, Href(e.Link))
			}
			sb.WriteString(e.Description + "\n\n")
		}
	}
	if !r.Skills.Empty() {
		sb.WriteString("## SKILLS\n\n")
		list(&sb, "Personal Skills", r.Skills.Personal)
		list(&sb, "Professional Skills", r.Skills.Professional)
		list(&sb, "Technical Skills", r.Skills.Technical)
	}
	if len(r.Hobbies) > 0 {
		list(&sb, "## INTERESTS & HOBBIES", r.Hobbies)
	}
	if len(r.Certifications) > 0 {
		list(&sb, "## CERTIFICATIONS", r.Certifications)
	}
	fmt.Fprintf(&sb, "## DECLARATION\n\n%s\n\n**%s**\n", r.Declaration, p.Name)
	return sb.String()
}

func list(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	if !strings.HasPrefix(title, "#") {
		title = "**" + title + "**"
	}
	sb.WriteString(title + "\n\n")
	for _, it := range items {
		sb.WriteString("- " + it + "\n")
	}
	sb.WriteString("\n")
}

// Terminal renders the markdown form of r for a terminal.
func Terminal(r model.Resume, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := tr.Render(Markdown(r))
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
