package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// GetUserByUsername retrieves a user from the database by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var result models.User

	defer r.observe("get_user_by_username", time.Now())
	query := `SELECT id, username, password, role, department, phone FROM users WHERE username = $1`

	err := r.db.QueryRow(ctx, query, username).Scan(
		&result.ID, &result.Username, &result.PasswordHash, &result.Role, &result.Department, &result.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("user '%s': %w", username, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return result, nil
}

// CreateUser inserts a new user. A taken username yields ErrAlreadyExists.
func (r *Repository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	defer r.observe("create_user", time.Now())
	query := `
		INSERT INTO users (username, password, role, department, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`

	err := r.db.QueryRow(ctx, query, user.Username, user.PasswordHash, user.Role, user.Department, user.Phone).
		Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return models.User{}, fmt.Errorf("user '%s': %w", user.Username, ErrAlreadyExists)
		}
		return models.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}

// EnsureUser inserts the user unless the username is already taken.
// It reports whether a row was created.
func (r *Repository) EnsureUser(ctx context.Context, user models.User) (bool, error) {
	defer r.observe("ensure_user", time.Now())
	query := `
		INSERT INTO users (username, password, role, department, phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING;
	`

	tag, err := r.db.Exec(ctx, query, user.Username, user.PasswordHash, user.Role, user.Department, user.Phone)
	if err != nil {
		return false, fmt.Errorf("failed to ensure user: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdatePassword replaces the stored password hash of a user.
func (r *Repository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	defer r.observe("update_password", time.Now())

	tag, err := r.db.Exec(ctx, "UPDATE users SET password = $1 WHERE username = $2", passwordHash, username)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user '%s': %w", username, ErrNotFound)
	}

	return nil
}

// ListPhonesByDepartment returns the non-empty phone numbers of a department's users.
func (r *Repository) ListPhonesByDepartment(ctx context.Context, department string) ([]string, error) {
	defer r.observe("list_phones", time.Now())

	query := `SELECT phone FROM users WHERE department = $1 AND phone <> '' ORDER BY id`

	rows, err := r.db.Query(ctx, query, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list phones of '%s': %w", department, err)
	}
	defer rows.Close()

	phones := make([]string, 0)
	for rows.Next() {
		var phone string
		if err = rows.Scan(&phone); err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		phones = append(phones, phone)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over phones: %w", err)
	}

	return phones, nil
}
