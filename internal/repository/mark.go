package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ugmi/ugmi/internal/model"
)

// ErrMarkNotFound is returned when a mark does not exist.
var ErrMarkNotFound = errors.New("mark not found")

// CreateMark inserts a mark and fills in its ID and CreatedAt.
func (r *Repository) CreateMark(ctx context.Context, mark *model.Mark) error {
	query := `
		INSERT INTO marks (title)
		VALUES ($1)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(ctx, query, mark.Title).Scan(&mark.ID, &mark.CreatedAt); err != nil {
		return fmt.Errorf("failed to create mark: %w", err)
	}

	return nil
}

// GetMarkByID retrieves a mark by ID.
func (r *Repository) GetMarkByID(ctx context.Context, id int64) (*model.Mark, error) {
	query := `SELECT id, title, created_at FROM marks WHERE id = $1`

	var mark model.Mark
	err := r.pool.QueryRow(ctx, query, id).Scan(&mark.ID, &mark.Title, &mark.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMarkNotFound
		}
		return nil, fmt.Errorf("failed to get mark: %w", err)
	}

	return &mark, nil
}

// MarkExists reports whether a mark with id exists.
func (r *Repository) MarkExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM marks WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check mark: %w", err)
	}
	return exists, nil
}
