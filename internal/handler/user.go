package handler

import (
	"errors"
	"net/http"

	"github.com/ugmi/ugmi/internal/handler/dto"
	"github.com/ugmi/ugmi/internal/pipeline"
	"github.com/ugmi/ugmi/internal/service"
)

// Register creates an account and returns its first token.
// POST /api/user/register
func (h *Handler) Register(req *pipeline.Request) *pipeline.Response {
	result, err := h.users.Register(req.HTTP.Context(), service.RegisterInput{
		Username: req.StringField("username"),
		Name:     req.StringField("name"),
		Email:    req.StringField("email"),
		Password: req.StringField("password"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFormat):
			return pipeline.Fail(http.StatusBadRequest, 1, "Incorrect request.")
		case errors.Is(err, service.ErrUsernameTaken):
			return pipeline.Fail(http.StatusBadRequest, 2, "Username already taken.")
		case errors.Is(err, service.ErrEmailTaken):
			return pipeline.Fail(http.StatusBadRequest, 3, "Email already registered.")
		}
		return h.internalError(req, "register", err)
	}

	return pipeline.Success("User successfully registered.", dto.TokenPayload(result.Token))
}

// Info returns the public profile of another user.
// POST /api/user/info
func (h *Handler) Info(req *pipeline.Request) *pipeline.Response {
	username := req.StringField("username")

	user, err := h.users.GetInfo(req.HTTP.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return pipeline.Fail(http.StatusNotFound, 1, "User with username '"+username+"' not found.")
		}
		return h.internalError(req, "user_info", err)
	}

	return pipeline.Success("Info about user "+username, dto.UserInfo(user))
}

// Login checks credentials and returns a fresh token.
// POST /api/user/login
func (h *Handler) Login(req *pipeline.Request) *pipeline.Response {
	username := req.StringField("username")

	result, err := h.users.Login(req.HTTP.Context(), username, req.StringField("password"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return pipeline.Fail(http.StatusNotFound, 2, "User with username '"+username+"' not found.")
		case errors.Is(err, service.ErrIncorrectPassword):
			return pipeline.Fail(http.StatusUnauthorized, 3, "Incorrect password.")
		}
		return h.internalError(req, "login", err)
	}

	return pipeline.Success("Successfully authorized.", dto.TokenPayload(result.Token))
}
