package service

import (
	"strings"
	"time"
)

// Policy holds the deployment-level rules services apply.
type Policy struct {
	// TokenTTL is the lifetime of issued API tokens.
	TokenTTL time.Duration
	// AdminEmails are normalized (lowercase) addresses granted the admin
	// role when they register.
	AdminEmails []string
}

// IsAdminEmail reports whether a normalized email is on the allow-list.
func (p Policy) IsAdminEmail(email string) bool {
	for _, admin := range p.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}
