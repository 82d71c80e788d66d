package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Registration field limits, counted in characters.
const (
	minFieldLen    = 3
	maxFieldLen    = 64
	minPasswordLen = 8
	maxPasswordLen = 256
)

var (
	nameRegex     = regexp.MustCompile(`^[A-Za-zА-Яа-я ]*$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]*$`)
)

// NormalizeName trims name and title-cases each word.
func NormalizeName(name string) string {
	// Casers are stateful and not safe for concurrent use.
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// validateRegistration checks normalized registration fields in order.
func validateRegistration(in RegisterInput) error {
	if !lengthBetween(in.Name, minFieldLen, maxFieldLen) || !nameRegex.MatchString(in.Name) {
		return ErrInvalidFormat
	}
	if !lengthBetween(in.Username, minFieldLen, maxFieldLen) || !usernameRegex.MatchString(in.Username) {
		return ErrInvalidFormat
	}
	if !lengthBetween(in.Email, minFieldLen, maxFieldLen) || !strings.Contains(in.Email, "@") {
		return ErrInvalidFormat
	}
	if !lengthBetween(in.Password, minPasswordLen, maxPasswordLen) {
		return ErrInvalidFormat
	}
	return nil
}
