package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ugmi/ugmi/internal/metrics"
	"github.com/ugmi/ugmi/internal/model"
	"github.com/ugmi/ugmi/internal/repository"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// TokenStore persists the token/expiry pair on user records.
// SetUserToken must write both columns in one atomic update.
type TokenStore interface {
	GetUserByToken(ctx context.Context, token string) (*model.User, error)
	SetUserToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
}

// Status is the outcome of verifying a token.
type Status int

// Verification outcomes. The zero value is StatusInvalid.
const (
	StatusInvalid Status = iota
	StatusExpired
	StatusValid
)

// String returns the log label of the status.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// Verification is the result of Authority.Verify.
// User is set only when Status is StatusValid.
type Verification struct {
	Status Status
	User   *model.User
}

// Valid reports whether the token authenticated a user.
func (v Verification) Valid() bool {
	return v.Status == StatusValid && v.User != nil
}

// Authority issues and verifies API tokens.
type Authority struct {
	store   TokenStore
	ttl     time.Duration
	now     func() time.Time
	metrics metrics.Recorder
}

// NewAuthority creates a token authority with the given TTL.
// A non-positive ttl falls back to DefaultTokenTTL.
func NewAuthority(store TokenStore, ttl time.Duration, recorder metrics.Recorder) *Authority {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Authority{
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		metrics: recorder,
	}
}

// SetClock overrides the time source. Intended for tests.
func (a *Authority) SetClock(now func() time.Time) {
	if now != nil {
		a.now = now
	}
}

// TTL returns the token lifetime.
func (a *Authority) TTL() time.Duration {
	return a.ttl
}

// Issue mints a new token for user, replacing any previous one, and
// persists it with expiry now+TTL. The user value is updated on success.
func (a *Authority) Issue(ctx context.Context, user *model.User) (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", err
	}

	expiresAt := a.now().UTC().Add(a.ttl)
	if err := a.store.SetUserToken(ctx, user.ID, token, expiresAt); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	user.SetToken(token, expiresAt)
	a.metrics.IncTokenIssued()

	return token, nil
}

// Verify resolves token to its user. Unknown tokens are StatusInvalid and
// tokens at or past their expiry are StatusExpired. Expired tokens are left
// in place. The error is non-nil only for storage faults.
func (a *Authority) Verify(ctx context.Context, token string) (Verification, error) {
	if !ValidTokenFormat(token) {
		return Verification{Status: StatusInvalid}, nil
	}

	user, err := a.store.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Verification{Status: StatusInvalid}, nil
		}
		return Verification{}, fmt.Errorf("lookup token: %w", err)
	}

	if user.TokenExpired(a.now()) {
		return Verification{Status: StatusExpired}, nil
	}

	return Verification{Status: StatusValid, User: user}, nil
}
