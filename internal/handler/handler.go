// Package handler provides HTTP request handlers.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/ugmi/ugmi/internal/middleware"
	"github.com/ugmi/ugmi/internal/pipeline"
	"github.com/ugmi/ugmi/internal/service"
)

// Handler serves the account and comment endpoints.
type Handler struct {
	users    *service.UserService
	comments *service.CommentService
	logger   *slog.Logger
}

// New creates a new Handler.
func New(users *service.UserService, comments *service.CommentService, logger *slog.Logger) *Handler {
	return &Handler{
		users:    users,
		comments: comments,
		logger:   logger,
	}
}

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	pipeline.Write(w, pipeline.NotFound)
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	pipeline.Write(w, pipeline.MethodNotAllowed)
}

// internalError logs an unmapped error and returns the generic 500 reply.
func (h *Handler) internalError(req *pipeline.Request, op string, err error) *pipeline.Response {
	h.logger.Error("request failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(req.HTTP.Context())),
	)
	return pipeline.InternalError
}
