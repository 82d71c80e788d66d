// Package confirm delivers email confirmation requests for new accounts
// through a Redis stream.
package confirm

import (
	"crypto/rand"
	"fmt"
	"net/mail"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/ugmi/ugmi/internal/model"
)

const maxFieldLength = 64

// Request is a pending confirmation email for one account.
type Request struct {
	ID          string
	UserID      int64
	Email       string
	Name        string
	RequestedAt time.Time
}

// NewRequest builds a request for user stamped at now.
func NewRequest(user *model.User, now time.Time) Request {
	return Request{
		ID:          ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		RequestedAt: now.UTC(),
	}
}

// values is the stream entry layout.
func (r Request) values() map[string]interface{} {
	return map[string]interface{}{
		"id":           r.ID,
		"user_id":      strconv.FormatInt(r.UserID, 10),
		"email":        r.Email,
		"name":         r.Name,
		"requested_at": strconv.FormatInt(r.RequestedAt.UnixMilli(), 10),
	}
}

// parseRequest decodes a stream entry. The returned reason labels the
// dead-letter entry when err is non-nil.
func parseRequest(values map[string]interface{}) (Request, string, error) {
	get := func(key string) (string, bool) {
		v, ok := values[key].(string)
		return v, ok
	}

	id, ok := get("id")
	if !ok {
		return Request{}, "invalid_format", fmt.Errorf("id field missing")
	}
	rawUser, ok := get("user_id")
	if !ok {
		return Request{}, "invalid_format", fmt.Errorf("user_id field missing")
	}
	email, ok := get("email")
	if !ok {
		return Request{}, "invalid_format", fmt.Errorf("email field missing")
	}
	name, _ := get("name")
	rawAt, ok := get("requested_at")
	if !ok {
		return Request{}, "invalid_format", fmt.Errorf("requested_at field missing")
	}

	userID, err := strconv.ParseInt(rawUser, 10, 64)
	if err != nil {
		return Request{}, "parse_error", fmt.Errorf("user_id: %w", err)
	}
	millis, err := strconv.ParseInt(rawAt, 10, 64)
	if err != nil {
		return Request{}, "parse_error", fmt.Errorf("requested_at: %w", err)
	}

	req := Request{
		ID:          id,
		UserID:      userID,
		Email:       email,
		Name:        name,
		RequestedAt: time.UnixMilli(millis).UTC(),
	}
	if err := validateRequest(req); err != nil {
		return Request{}, "validation_error", err
	}
	return req, "", nil
}

func validateRequest(req Request) error {
	if _, err := ulid.ParseStrict(req.ID); err != nil {
		return fmt.Errorf("id is not a ulid: %w", err)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("user_id must be positive")
	}
	if req.Email == "" || utf8.RuneCountInString(req.Email) > maxFieldLength {
		return fmt.Errorf("email length out of bounds")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("email is not an address")
	}
	if utf8.RuneCountInString(req.Name) > maxFieldLength {
		return fmt.Errorf("name too long")
	}
	if req.RequestedAt.UnixMilli() <= 0 {
		return fmt.Errorf("requested_at must be set")
	}
	return nil
}
