package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/session"
)

// Skill types stored in skills.skill_type.
const (
	SkillPersonal     = "Personal"
	SkillProfessional = "Professional"
	SkillTechnical    = "Technical"
)

type ResumeRepo struct {
	db     DB
	logger *slog.Logger
}

func NewResumeRepo(db DB, logger *slog.Logger) *ResumeRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResumeRepo{db: db, logger: logger}
}

// Save writes the whole resume in one transaction and returns its id. Any
// failed insert rolls everything back.
func (r *ResumeRepo) Save(ctx context.Context, p domain.SavePayload) (id int64, err error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Warn("warning: rollback failed", "error", rbErr)
			}
		}
	}()

	title := p.Name
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	if err = tx.QueryRow(ctx, `INSERT INTO resumes (title, status) VALUES ($1, 'Active') RETURNING id`,
		title+" - Resume").Scan(&id); err != nil {
		return 0, fmt.Errorf("insert resume: %w", err)
	}

	if _, err = tx.Exec(ctx, `INSERT INTO personal_information
		(resume_id, full_name, email, phone, date_of_birth, location, photo, linkedin_url, github_url, objective, declaration)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		id, p.Name, p.Email, p.Phone, p.DOB, p.Location, p.Photo, p.LinkedIn, p.GitHub, p.Objective, p.Declaration); err != nil {
		return 0, fmt.Errorf("insert personal information: %w", err)
	}

	for _, e := range p.Experience {
		if strings.TrimSpace(e.Company) == "" {
			continue
		}
		exp := e.Experience
		if exp == "" {
			exp, _ = session.Duration(e.StartDate, e.EndDate)
		}
		if _, err = tx.Exec(ctx, `INSERT INTO work_experience
			(resume_id, company_name, job_role, date_of_join, last_working_date, experience)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			id, e.Company, e.JobRole, nullDate(e.StartDate), nullDate(e.EndDate), exp); err != nil {
			return 0, fmt.Errorf("insert work experience: %w", err)
		}
	}

	for _, e := range p.Education {
		if strings.TrimSpace(e.College) == "" {
			continue
		}
		if _, err = tx.Exec(ctx, `INSERT INTO education (resume_id, college, university, course, year, cgpa)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			id, e.College, e.University, e.Course, r.parseInt("year", e.Year), r.parseFloat("cgpa", e.CGPA)); err != nil {
			return 0, fmt.Errorf("insert education: %w", err)
		}
	}

	for _, e := range p.Projects {
		if strings.TrimSpace(e.Title) == "" {
			continue
		}
		if _, err = tx.Exec(ctx, `INSERT INTO projects (resume_id, title, link, organization, description)
			VALUES ($1,$2,$3,$4,$5)`,
			id, e.Title, e.Link, e.Company, e.Description); err != nil {
			return 0, fmt.Errorf("insert project: %w", err)
		}
	}

	skills := []struct {
		kind  string
		names []string
	}{
		{SkillPersonal, p.PersonalSkills},
		{SkillProfessional, p.ProfessionalSkills},
		{SkillTechnical, p.TechnicalSkills},
	}
	for _, group := range skills {
		for _, name := range group.names {
			if strings.TrimSpace(name) == "" {
				continue
			}
			if _, err = tx.Exec(ctx, `INSERT INTO skills (resume_id, skill_type, skill_name) VALUES ($1,$2,$3)`,
				id, group.kind, name); err != nil {
				return 0, fmt.Errorf("insert skill: %w", err)
			}
		}
	}

	for _, c := range p.Certifications {
		if c == nil || strings.TrimSpace(*c) == "" {
			continue
		}
		if _, err = tx.Exec(ctx, `INSERT INTO certifications (resume_id, name) VALUES ($1,$2)`, id, *c); err != nil {
			return 0, fmt.Errorf("insert certification: %w", err)
		}
	}

	for _, h := range p.Hobbies {
		if h == nil || strings.TrimSpace(*h) == "" {
			continue
		}
		if _, err = tx.Exec(ctx, `INSERT INTO interests (resume_id, name) VALUES ($1,$2)`, id, *h); err != nil {
			return 0, fmt.Errorf("insert interest: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	r.logger.Info("resume saved", "resume_id", id, "experience", len(p.Experience),
		"education", len(p.Education), "projects", len(p.Projects))
	return id, nil
}

// nullDate keeps empty dates out of DATE columns.
func nullDate(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func (r *ResumeRepo) parseInt(field, s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		r.logger.Warn("warning: invalid value stored as null", "field", field, "value", s)
		return nil
	}
	return v
}

func (r *ResumeRepo) parseFloat(field, s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		r.logger.Warn("warning: invalid value stored as null", "field", field, "value", s)
		return nil
	}
	return v
}
