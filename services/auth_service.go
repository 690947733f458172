package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const RoleOrganizer = "organizer"

type Organizer struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*Organizer, error)
}

// authService checks the single organizer account configured for the
// deployment. Without an email and password hash every login fails.
type authService struct {
	email        string
	passwordHash []byte
}

func NewAuthService(email, passwordHash string) AuthService {
	return &authService{
		email:        strings.TrimSpace(email),
		passwordHash: []byte(passwordHash),
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*Organizer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.email == "" || len(s.passwordHash) == 0 {
		return nil, ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(input.Email), s.email) {
		return nil, ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	return &Organizer{Email: s.email, Role: RoleOrganizer}, nil
}
