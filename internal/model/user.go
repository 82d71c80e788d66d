// Package model defines domain entities for the application.
package model

import "time"

// Role is the closed set of user roles.
type Role string

// Role values.
const (
	RoleDefault Role = "default"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleDefault || r == RoleAdmin
}

// IsAdmin reports whether r grants admin privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is a registered account.
// APIToken and TokenExpiresAt are either both set or both nil.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"` // Never serialize
	Role           Role       `json:"role"`
	APIToken       *string    `json:"-"`
	TokenExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
}

// HasToken returns true if a token has been issued to the user.
func (u *User) HasToken() bool {
	return u.APIToken != nil && u.TokenExpiresAt != nil
}

// TokenExpired reports whether the stored token is expired at now.
// A user without a token is treated as expired.
func (u *User) TokenExpired(now time.Time) bool {
	if !u.HasToken() {
		return true
	}
	return !now.Before(*u.TokenExpiresAt)
}

// SetToken stores a token and its expiry together.
func (u *User) SetToken(token string, expiresAt time.Time) {
	u.APIToken = &token
	u.TokenExpiresAt = &expiresAt
}
