package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Session token format: fs_{secret}
// Example: fs_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	TokenPrefix    = "fs_"
	TokenSecretLen = 32 // hex encoded 16 bytes

	// SessionCookieName carries the token for browser clients.
	SessionCookieName = "fs_session"
)

var (
	// ErrInvalidTokenFormat indicates the session token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")
	tokenFormatRegex      = regexp.MustCompile(`^fs_[a-f0-9]{32}$`)
)

// GenerateSessionToken creates a new random session token.
// The plaintext is returned to the client once; only SessionKey(token) is stored.
func GenerateSessionToken() (string, error) {
	secret := make([]byte, TokenSecretLen/2)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return TokenPrefix + hex.EncodeToString(secret), nil
}

// ValidateTokenFormat checks if the token matches the expected format.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}

// SessionKey derives the storage key for a token.
func SessionKey(token string) (string, error) {
	if !ValidateTokenFormat(token) {
		return "", ErrInvalidTokenFormat
	}
	return QuickHash(token), nil
}
