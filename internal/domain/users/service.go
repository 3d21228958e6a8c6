package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both "no such account" and "wrong password" on
// login; the two are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// BcryptCost is the cost factor for bcrypt password hashing.
const BcryptCost = 12

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type SignupParams struct {
	Username string
	Email    string
	PhotoURL string
	Password string
}

// Signup creates an account with a salted bcrypt hash of the password.
// The plaintext is never stored. Duplicate emails fail with ErrEmailTaken.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*User, error) {
	email := normalizeEmail(params.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Insert(ctx, CreateParams{
		Username:     strings.TrimSpace(params.Username),
		Email:        email,
		PhotoURL:     strings.TrimSpace(params.PhotoURL),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login resolves the account by email and verifies the password. Unknown
// email and hash mismatch both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Profile returns the account behind a verified token subject.
func (s *Service) Profile(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
