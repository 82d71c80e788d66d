// Package dto shapes domain values into API response payloads.
package dto

import (
	"strconv"

	"github.com/ugmi/ugmi/internal/model"
)

// TokenPayload is the data part of register and login replies.
func TokenPayload(token string) map[string]any {
	return map[string]any{"token": token}
}

// UserInfo is the data part of a user info reply. The ID is a decimal
// string.
func UserInfo(user *model.User) map[string]any {
	return map[string]any{
		"id":       strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"email":    user.Email,
		"name":     user.Name,
		"role":     string(user.Role),
	}
}
