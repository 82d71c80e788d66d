package dto

import "github.com/ugmi/ugmi/internal/model"

// CommentItem is one comment in a comment page.
type CommentItem struct {
	Body  string `json:"body"`
	Name  string `json:"name"`
	Stars int    `json:"stars"`
}

// CommentItems converts views in order. The result is never nil so it
// encodes as [].
func CommentItems(views []model.CommentView) []CommentItem {
	items := make([]CommentItem, 0, len(views))
	for _, v := range views {
		items = append(items, CommentItem{Body: v.Body, Name: v.AuthorName, Stars: v.Stars})
	}
	return items
}

// CommentPage is the data part of a comment page reply. cnt is the total
// number of comments on the mark.
func CommentPage(total, start, finish int64, views []model.CommentView) map[string]any {
	return map[string]any{
		"cnt":      total,
		"start":    start,
		"finish":   finish,
		"comments": CommentItems(views),
	}
}
