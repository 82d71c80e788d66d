package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ugmi/ugmi/internal/metrics"
	"github.com/ugmi/ugmi/internal/model"
	"github.com/ugmi/ugmi/internal/repository"
)

// CommentStore is the persistence CommentService needs.
type CommentStore interface {
	MarkExists(ctx context.Context, id int64) (bool, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	CommentPage(ctx context.Context, markID int64, window repository.PageWindow) (int64, []model.CommentView, error)
}

// CommentService handles comments on marks.
type CommentService struct {
	store   CommentStore
	metrics metrics.Recorder
}

// NewCommentService creates a new CommentService.
func NewCommentService(store CommentStore, recorder metrics.Recorder) *CommentService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CommentService{store: store, metrics: recorder}
}

// AddCommentInput defines input for adding a comment.
type AddCommentInput struct {
	UserID int64
	MarkID int64
	Stars  int64
	Body   string
}

// AddComment validates and appends a comment. Repeated calls add
// repeated comments.
func (s *CommentService) AddComment(ctx context.Context, input AddCommentInput) (*model.Comment, error) {
	if !model.StarsInRange(input.Stars) || utf8.RuneCountInString(input.Body) > model.MaxCommentBodyLen {
		return nil, ErrInvalidComment
	}

	exists, err := s.store.MarkExists(ctx, input.MarkID)
	if err != nil {
		return nil, fmt.Errorf("failed to check mark: %w", err)
	}
	if !exists {
		return nil, ErrMarkNotFound
	}

	comment := &model.Comment{
		MarkID: input.MarkID,
		UserID: input.UserID,
		Body:   input.Body,
		Stars:  int(input.Stars),
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrMarkNotFound) {
			return nil, ErrMarkNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.metrics.IncCommentAdded()
	return comment, nil
}

// CommentPage is one window of a mark's comments.
type CommentPage struct {
	Total    int64
	Start    int64
	Finish   int64
	Comments []model.CommentView
}

// ListComments returns comments [start, min(start+cnt, total)) of a mark in
// insertion order. A start equal to total yields an empty page.
func (s *CommentService) ListComments(ctx context.Context, markID, start, cnt int64) (*CommentPage, error) {
	exists, err := s.store.MarkExists(ctx, markID)
	if err != nil {
		return nil, fmt.Errorf("failed to check mark: %w", err)
	}
	if !exists {
		return nil, ErrMarkNotFound
	}

	var finish int64
	window := func(total int64) (int64, int64, error) {
		if start < 0 || start > total {
			return 0, 0, &StartRangeError{Start: start, Total: total}
		}
		finish = pageBounds(start, cnt, total)
		return start, finish - start, nil
	}

	total, views, err := s.store.CommentPage(ctx, markID, window)
	if err != nil {
		if errors.Is(err, ErrStartOutOfRange) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	s.metrics.IncCommentsListed()
	return &CommentPage{
		Total:    total,
		Start:    start,
		Finish:   finish,
		Comments: views,
	}, nil
}

// pageBounds returns min(start+cnt, total) without overflowing, never below
// start. start must already be within [0, total].
func pageBounds(start, cnt, total int64) int64 {
	switch {
	case cnt <= 0:
		return start
	case cnt >= total-start:
		return total
	default:
		return start + cnt
	}
}
