package repository

import (
	"context"
	"fmt"

	"resume-builder/internal/dashboard"

	"github.com/google/uuid"
)

// UsersRepo stores registered users and lists them for the dashboard.
type UsersRepo struct {
	db Querier
}

func NewUsersRepo(db Querier) *UsersRepo {
	return &UsersRepo{db: db}
}

// Insert stores u, assigning an id when it has none.
func (r *UsersRepo) Insert(ctx context.Context, u dashboard.User) (dashboard.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, err := r.db.Exec(ctx, `INSERT INTO users (id, name, status, city, user_type, onboarding_date)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Name, u.Status, u.City, u.UserType, nullDate(u.OnboardingDate)); err != nil {
		return dashboard.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Users implements dashboard.Source.
func (r *UsersRepo) Users(ctx context.Context) ([]dashboard.User, error) {
	var users []dashboard.User
	err := queryJSON(ctx, r.db, &users, `SELECT coalesce(json_agg(json_build_object(
		'id', u.id::text,
		'name', u.name,
		'status', u.status,
		'city', u.city,
		'userType', u.user_type,
		'onboardingDate', coalesce(to_char(u.onboarding_date, 'YYYY-MM-DD'), ''),
		'lastActive', to_char(u.last_active, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
	) ORDER BY u.created_at DESC), '[]') FROM users u`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
