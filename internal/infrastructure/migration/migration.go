package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgconn"
)

// Execer runs a statement. pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Migration represents a database migration
type Migration struct {
	Name string
	SQL  string
}

// Migrations creates the resume and user tables. Every statement is
// idempotent so the list runs on each start.
var Migrations = []Migration{
	{
		Name: "create_resumes",
		SQL: `CREATE TABLE IF NOT EXISTS resumes (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Active',
			visitor_count INTEGER NOT NULL DEFAULT 0,
			download_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "create_personal_information",
		SQL: `CREATE TABLE IF NOT EXISTS personal_information (
			id BIGSERIAL PRIMARY KEY,
			resume_id BIGINT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			date_of_birth DATE,
			location TEXT,
			photo TEXT,
			linkedin_url TEXT,
			github_url TEXT,
			objective TEXT,
			declaration TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "create_work_experience",
		SQL: `CREATE TABLE IF NOT EXISTS work_experience (
			id BIGSERIAL PRIMARY KEY,
			resume_id BIGINT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			company_name TEXT NOT NULL,
			job_role TEXT,
			date_of_join DATE,
			last_working_date DATE,
			experience TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "create_education",
		SQL: `CREATE TABLE IF NOT EXISTS education (
			id BIGSERIAL PRIMARY KEY,
			resume_id BIGINT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			college TEXT NOT NULL,
			university TEXT,
			course TEXT,
			year INTEGER,
			cgpa NUMERIC(4,2),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "create_projects",
		SQL: `CREATE TABLE IF NOT EXISTS projects (
			id BIGSERIAL PRIMARY KEY,
			resume_id BIGINT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			link TEXT,
			organization TEXT,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "create_skills",
		SQL: `CREATE TABLE IF NOT EXISTS skills (
			id BIGSERIAL PRIMARY KEY,
			resume_id BIGINT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			skill_type TEXT NOT NULL CHECK (skill_type IN ('Personal', 'Professional', 'Technical')),
			skill_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "create_certifications",
		SQL: `CREATE TABLE IF NOT EXISTS certifications (
			id BIGSERIAL PRIMARY KEY,
			resume_id BIGINT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "create_interests",
		SQL: `CREATE TABLE IF NOT EXISTS interests (
			id BIGSERIAL PRIMARY KEY,
			resume_id BIGINT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "create_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			city TEXT,
			user_type TEXT,
			onboarding_date DATE,
			last_active TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, db Execer) error {
	return Run(ctx, db, Migrations)
}

func Run(ctx context.Context, db Execer, migrations []Migration) error {
	slog.Info("Starting database migrations")

	for _, m := range migrations {
		if _, err := db.Exec(ctx, m.SQL); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}
