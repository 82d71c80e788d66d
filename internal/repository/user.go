package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/ugmi/ugmi/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
	ErrTokenConflict = errors.New("token already assigned")
)

const userColumns = `id, username, name, email, password_hash, role, api_token, token_expires_at, created_at`

// CreateUser inserts a new user and fills in its ID and CreatedAt.
// Uniqueness of username and email is enforced by the table constraints,
// so concurrent registrations with the same values cannot both succeed.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		switch uniqueViolation(err) {
		case constraintUsersUsername:
			return ErrUsernameTaken
		case constraintUsersEmail:
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetUserByUsername retrieves a user by exact username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

// GetUserByToken retrieves the user currently holding token.
func (r *Repository) GetUserByToken(ctx context.Context, token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE api_token = $1`
	return scanUser(r.pool.QueryRow(ctx, query, token))
}

// UsernameExists reports whether username is registered.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// EmailExists reports whether email is registered.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// SetUserToken replaces the user's token and expiry in a single statement,
// so readers observe either the old pair or the new pair.
func (r *Repository) SetUserToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET api_token = $2, token_expires_at = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, userID, token, expiresAt)
	if err != nil {
		if uniqueViolation(err) == constraintUsersToken {
			return ErrTokenConflict
		}
		return fmt.Errorf("failed to set user token: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// PromoteAdmins grants the admin role to existing users whose email is in
// emails. Returns the number of users changed.
func (r *Repository) PromoteAdmins(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}

	query := `
		UPDATE users
		SET role = $2
		WHERE email = ANY($1) AND role <> $2
	`

	result, err := r.pool.Exec(ctx, query, pq.Array(emails), string(model.RoleAdmin))
	if err != nil {
		return 0, fmt.Errorf("failed to promote admins: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanUser scans a single row into a User model.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var role string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.APIToken,
		&user.TokenExpiresAt,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Role = model.Role(role)
	return &user, nil
}
