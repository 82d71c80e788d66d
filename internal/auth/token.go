package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// TokenBytes is the amount of randomness in an API token.
const TokenBytes = 32

// tokenFormatRegex matches tokens produced by GenerateToken.
var tokenFormatRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// GenerateToken returns a fresh opaque API token (64 lowercase hex chars).
func GenerateToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidTokenFormat reports whether token looks like a token we issued.
// Used to skip the store lookup for obvious garbage.
func ValidTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}
