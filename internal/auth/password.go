package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects passwords longer than 72 bytes instead of silently
// truncating; surface that to callers before hashing.
const maxPasswordBytes = 72

var errPasswordTooLong = errors.New("auth: password exceeds 72 bytes")

// HashPassword hashes the password with bcrypt at the default cost. The
// returned string embeds the cost and salt, so stored hashes survive future
// cost changes.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", errPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the bcrypt hash. A
// mismatch is (false, nil); a malformed or non-bcrypt hash is an error.
func VerifyPassword(encoded, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("auth: verify password: %w", err)
}
