package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/repository"
	"github.com/stylecloset/wardrobe-service/internal/security"
)

// ErrInvalidCredentials deliberately covers both unknown email and wrong
// password so responses cannot be used for account enumeration.
var ErrInvalidCredentials = errors.New("invalid email or password")

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type AuthService struct {
	users      repository.UserRepository
	bcryptCost int
}

func NewAuthService(users repository.UserRepository, bcryptCost int) *AuthService {
	return &AuthService{users: users, bcryptCost: bcryptCost}
}

// Register creates a user under the normalized (lower-cased) email. The
// repository's unique index settles concurrent registrations; both paths
// surface repository.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	digest, err := security.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: &digest,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, repository.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login authenticates by normalized email and password. Accounts without a
// password digest (federated-only) fail the same way as a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if !security.VerifyPassword(password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
