package service

import (
	"crypto/sha256"
	"strings"
)

// Login hashing rules:
// - email_hash = sha256(lower(trimmed email))
// - password_hash = sha256(password), independent of the account
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func HashEmail(email string) []byte {
	sum := sha256.Sum256([]byte(normalizeEmail(email)))
	return sum[:]
}

func HashPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}
