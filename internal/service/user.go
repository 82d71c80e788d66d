// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ugmi/ugmi/internal/auth"
	"github.com/ugmi/ugmi/internal/metrics"
	"github.com/ugmi/ugmi/internal/model"
	"github.com/ugmi/ugmi/internal/repository"
)

// UserStore is the persistence UserService needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// TokenIssuer mints API tokens for users.
type TokenIssuer interface {
	Issue(ctx context.Context, user *model.User) (string, error)
}

// Confirmer hands a new account to the email confirmation channel.
// It must not block and never reports failure to the caller.
type Confirmer interface {
	RequestConfirmation(user *model.User)
}

type noopConfirmer struct{}

func (noopConfirmer) RequestConfirmation(*model.User) {}

// UserService handles accounts and logins.
type UserService struct {
	store     UserStore
	tokens    TokenIssuer
	confirmer Confirmer
	policy    Policy
	metrics   metrics.Recorder
}

// NewUserService creates a new UserService. A nil confirmer disables
// confirmation requests.
func NewUserService(store UserStore, tokens TokenIssuer, confirmer Confirmer, policy Policy, recorder metrics.Recorder) *UserService {
	if confirmer == nil {
		confirmer = noopConfirmer{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:     store,
		tokens:    tokens,
		confirmer: confirmer,
		policy:    policy,
		metrics:   recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Username string
	Name     string
	Email    string
	Password string
}

// AuthResult is a user together with the token just issued to them.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register validates and creates a new account, then issues its first token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	result, err := s.register(ctx, input)
	if err != nil {
		s.metrics.IncRegistration(metrics.OutcomeFailure)
		return nil, err
	}
	s.metrics.IncRegistration(metrics.OutcomeSuccess)
	return result, nil
}

func (s *UserService) register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = NormalizeName(input.Name)
	input.Username = NormalizeUsername(input.Username)
	input.Email = NormalizeEmail(input.Email)

	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	exists, err := s.store.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	exists, err = s.store.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleDefault
	if s.policy.IsAdminEmail(input.Email) {
		role = model.RoleAdmin
	}

	user := &model.User{
		Username:     input.Username,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}

	// The pre-checks above can race; the table constraints decide.
	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.confirmer.RequestConfirmation(user)

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login checks credentials and issues a fresh token, invalidating the
// previous one.
func (s *UserService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	result, err := s.login(ctx, username, password)
	if err != nil {
		s.metrics.IncLogin(metrics.OutcomeFailure)
		return nil, err
	}
	s.metrics.IncLogin(metrics.OutcomeSuccess)
	return result, nil
}

func (s *UserService) login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, ErrIncorrectPassword
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetInfo returns the public profile of the user with username.
func (s *UserService) GetInfo(ctx context.Context, username string) (*model.User, error) {
	return s.lookup(ctx, username)
}

func (s *UserService) lookup(ctx context.Context, username string) (*model.User, error) {
	user, err := s.store.GetUserByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
