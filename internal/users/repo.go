package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// User is an account able to log in. PasswordHash never leaves the service.
type User struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	FullName     string    `json:"full_name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	SubmittedBy  string    `json:"submitted_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Count returns the number of stored users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// GetByUsername returns nil, nil when no user has that login name.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, full_name, username, email, password, submitted_by, updated_at
		FROM users WHERE username = $1
	`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Type, &u.FullName, &u.Username, &u.Email, &u.PasswordHash, &u.SubmittedBy, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateIfAbsent inserts u unless its username is taken.
// It reports whether a row was written and fills u.ID when it was.
func (r *Repository) CreateIfAbsent(ctx context.Context, u *User) (bool, error) {
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (type, full_name, username, email, password, submitted_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO NOTHING
		RETURNING id
	`, u.Type, u.FullName, u.Username, u.Email, u.PasswordHash, u.SubmittedBy, u.UpdatedAt)
	if err := row.Scan(&u.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
