package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/webpv/webpv-backend/internal/model"
)

// UserRepo reads and mutates the 'users' table.  Users are provisioned by a
// separate seeding process; this service never inserts or deletes them, it
// only looks them up and maintains the failed-attempt counter and blocked
// flag during authentication.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// GetByID fetches a user by its external id.  Returns ErrNotFound when no
// such user exists.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,role,route,password_hash,is_active,is_blocked,failed_attempts,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Role, &u.Route, &u.PasswordHash, &u.Active, &u.Blocked, &u.FailedAttempts, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// UpdateFailedAttempts persists the failed-attempt counter for a user.
// The counter and the blocked flag are updated independently so policy can
// change either without touching the other.
func (r *UserRepo) UpdateFailedAttempts(ctx context.Context, id string, attempts int) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_attempts=?, updated_at=NOW() WHERE id=?",
		attempts, id)
	return err
}

// SetBlocked persists the blocked flag for a user.
func (r *UserRepo) SetBlocked(ctx context.Context, id string, blocked bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_blocked=?, updated_at=NOW() WHERE id=?",
		blocked, id)
	return err
}
