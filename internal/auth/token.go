// Package auth guards the admin surface. Operators configure a bcrypt
// hash of the admin token; plaintext tokens never touch the config file.
package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minTokenLength = 12

// ValidateToken checks minimal token requirements before hashing.
func ValidateToken(token string) error {
	if len(token) < minTokenLength {
		return fmt.Errorf("admin token must be at least %d characters", minTokenLength)
	}
	return nil
}

// HashToken hashes one plaintext admin token for the config file.
func HashToken(token string) (string, error) {
	if err := ValidateToken(token); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyToken verifies a presented token against the configured bcrypt
// hash. An empty hash means the admin surface is disabled and nothing
// verifies.
func VerifyToken(tokenHash, candidate string) bool {
	if strings.TrimSpace(tokenHash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(candidate)) == nil
}
