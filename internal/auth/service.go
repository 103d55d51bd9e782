package auth

import (
	"context"
	"fmt"

	"github.com/clinicdesk/receptionist/internal/users"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

// Service registers accounts and exchanges credentials for access tokens.
type Service struct {
	repo   users.Repository
	issuer *TokenIssuer
	logger *logging.Logger
}

// NewService creates an auth service.
func NewService(repo users.Repository, issuer *TokenIssuer, logger *logging.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, logger: logger}
}

// Register creates a new account. The validation errors from users and
// users.ErrEmailTaken pass through for the handler to map.
func (s *Service) Register(ctx context.Context, req *users.RegisterRequest) (*users.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &users.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "email", user.Email)
	return user, nil
}

// Login verifies credentials and returns a signed access token. Unknown
// email and wrong password both return users.ErrBadCredentials so the
// response does not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, *users.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == users.ErrUserNotFound {
			return "", nil, users.ErrBadCredentials
		}
		return "", nil, fmt.Errorf("auth: load user: %w", err)
	}
	ok, err := VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return "", nil, fmt.Errorf("auth: verify password: %w", err)
	}
	if !ok {
		return "", nil, users.ErrBadCredentials
	}
	token, err := s.issuer.Issue(user.Email, user.Name)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
