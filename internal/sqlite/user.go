package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/crmdesk/internal/domain/user"
	"github.com/rpggio/crmdesk/internal/repository"
)

// UserRepository implements user.Repository for SQLite
type UserRepository struct {
	q querier
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{q: db.DB}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, avatar,
	theme_preference, timezone, created_at, updated_at`

// Create inserts a new user. A duplicate email yields repository.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.q.ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Avatar,
		string(u.Theme),
		u.Timezone,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		return translateWriteError("create user", err)
	}
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// Update writes the profile fields of u
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET first_name = ?, last_name = ?, phone = ?, avatar = ?,
		    theme_preference = ?, timezone = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Avatar,
		string(u.Theme),
		u.Timezone,
		formatTime(u.UpdatedAt),
		u.ID,
	)
	if err != nil {
		return translateWriteError("update user", err)
	}
	return requireAffected(result)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*user.User, error) {
	var u user.User
	var theme string
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.Avatar,
		&theme,
		&u.Timezone,
		scanTime(&u.CreatedAt),
		scanTime(&u.UpdatedAt),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.Theme = user.Theme(theme)
	return &u, nil
}

// requireAffected turns a write that matched no rows into ErrNotFound.
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
