package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrInvalidFormat     = errors.New("invalid registration data")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidComment    = errors.New("invalid comment")
	ErrMarkNotFound      = errors.New("mark not found")
	ErrStartOutOfRange   = errors.New("start out of range")
)

// StartRangeError reports a comment page start outside [0, Total].
// It matches ErrStartOutOfRange with errors.Is.
type StartRangeError struct {
	Start int64
	Total int64
}

func (e *StartRangeError) Error() string {
	return fmt.Sprintf("start %d out of range [0, %d]", e.Start, e.Total)
}

// Is lets errors.Is(err, ErrStartOutOfRange) match.
func (e *StartRangeError) Is(target error) bool {
	return target == ErrStartOutOfRange
}
