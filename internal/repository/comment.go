package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ugmi/ugmi/internal/model"
)

// PostgreSQL error code for foreign_key_violation.
const foreignKeyViolationCode = "23503"

// CreateComment appends a comment to its mark and fills in ID and CreatedAt.
// Returns ErrMarkNotFound if the mark vanished between lookup and insert.
func (r *Repository) CreateComment(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (mark_id, user_id, body, stars)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		comment.MarkID,
		comment.UserID,
		comment.Body,
		comment.Stars,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err, "comments_mark_id_fkey") {
			return ErrMarkNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// PageWindow picks the slice of a mark's comments to read once the total
// count is known. A non-nil error aborts the read and is returned as is.
type PageWindow func(total int64) (offset, limit int64, err error)

// CountComments returns the number of comments on a mark.
func (r *Repository) CountComments(ctx context.Context, markID int64) (int64, error) {
	return countComments(ctx, r.pool, markID)
}

// ListComments returns up to limit comments of a mark starting at offset,
// in insertion order, joined with the author's name.
func (r *Repository) ListComments(ctx context.Context, markID, offset, limit int64) ([]model.CommentView, error) {
	return listComments(ctx, r.pool, markID, offset, limit)
}

// CommentPage counts a mark's comments and reads the window chosen by
// window from the same REPEATABLE READ snapshot, so the slice always agrees
// with the returned total.
func (r *Repository) CommentPage(ctx context.Context, markID int64, window PageWindow) (int64, []model.CommentView, error) {
	var (
		total int64
		views []model.CommentView
	)

	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := r.withTx(ctx, opts, func(ctx context.Context, tx querier) error {
		n, err := countComments(ctx, tx, markID)
		if err != nil {
			return err
		}
		total = n

		offset, limit, err := window(n)
		if err != nil {
			return err
		}
		if limit <= 0 {
			views = []model.CommentView{}
			return nil
		}

		views, err = listComments(ctx, tx, markID, offset, limit)
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	return total, views, nil
}

func countComments(ctx context.Context, q querier, markID int64) (int64, error) {
	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE mark_id = $1`, markID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}

func listComments(ctx context.Context, q querier, markID, offset, limit int64) ([]model.CommentView, error) {
	query := `
		SELECT c.body, u.name, c.stars
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.mark_id = $1
		ORDER BY c.id ASC
		OFFSET $2
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, markID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	views := []model.CommentView{}
	for rows.Next() {
		var v model.CommentView
		if err := rows.Scan(&v.Body, &v.AuthorName, &v.Stars); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return views, nil
}
