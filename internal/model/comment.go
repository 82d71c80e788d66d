package model

import "time"

// Comment limits.
const (
	MinStars          = 0
	MaxStars          = 5
	MaxCommentBodyLen = 2048
)

// Mark is the rated entity comments attach to.
type Mark struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a rating left by a user on a mark.
// Comments are append-only; ID order is insertion order.
type Comment struct {
	ID        int64     `json:"id"`
	MarkID    int64     `json:"mark_id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment joined with its author's display name.
type CommentView struct {
	Body       string
	AuthorName string
	Stars      int
}

// StarsInRange reports whether stars is an allowed rating.
func StarsInRange(stars int64) bool {
	return stars >= MinStars && stars <= MaxStars
}
