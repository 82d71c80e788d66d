package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ugmi/ugmi/internal/handler/dto"
	"github.com/ugmi/ugmi/internal/pipeline"
	"github.com/ugmi/ugmi/internal/service"
)

// AddComment appends a rating to a mark on behalf of the caller.
// POST /api/comment/add
func (h *Handler) AddComment(req *pipeline.Request) *pipeline.Response {
	markID := req.IntField("mark_id")

	_, err := h.comments.AddComment(req.HTTP.Context(), service.AddCommentInput{
		UserID: req.User.ID,
		MarkID: markID,
		Stars:  req.IntField("stars"),
		Body:   req.StringField("body"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidComment):
			return pipeline.Fail(http.StatusBadRequest, 1, "Incorrect request.")
		case errors.Is(err, service.ErrMarkNotFound):
			return pipeline.Fail(http.StatusNotFound, 2, fmt.Sprintf("Mark with ID %d not found.", markID))
		}
		return h.internalError(req, "add_comment", err)
	}

	return pipeline.Success("Comment successfully added.", nil)
}

// GetComments returns a window of a mark's comments.
// POST /api/comment/get
func (h *Handler) GetComments(req *pipeline.Request) *pipeline.Response {
	markID := req.IntField("mark_id")
	start := req.IntField("start")

	page, err := h.comments.ListComments(req.HTTP.Context(), markID, start, req.IntField("cnt"))
	if err != nil {
		var rangeErr *service.StartRangeError
		switch {
		case errors.Is(err, service.ErrMarkNotFound):
			return pipeline.Fail(http.StatusNotFound, 1, fmt.Sprintf("Mark with ID %d not found.", markID))
		case errors.As(err, &rangeErr):
			return pipeline.Fail(http.StatusBadRequest, 2,
				fmt.Sprintf("Cant start from %d bcs mark has only %d comments.", rangeErr.Start, rangeErr.Total))
		}
		return h.internalError(req, "get_comments", err)
	}

	return pipeline.Success(
		fmt.Sprintf("Comments from %d to %d", page.Start, page.Finish),
		dto.CommentPage(page.Total, page.Start, page.Finish, page.Comments),
	)
}
