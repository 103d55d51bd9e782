package users

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrInvalidName    = errors.New("name is required")
	ErrWeakPassword   = errors.New("password must be at least 8 characters")
	ErrBadCredentials = errors.New("invalid email or password")
)

// User is a patient account. PasswordHash never leaves the package boundary
// in API responses.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the request body for creating a user account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate normalizes and validates the registration request.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Name == "" {
		return ErrInvalidName
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrInvalidEmail
	}
	if len(r.Password) < 8 {
		return ErrWeakPassword
	}
	return nil
}
