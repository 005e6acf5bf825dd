package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials means the username exists but the password
	// does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidUserData means a signup or update request is missing
	// required fields.
	ErrInvalidUserData = errors.New("invalid user data")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignUp creates an account with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, name, email, username, password string) (*User, error) {

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrInvalidUserData
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the password against the stored bcrypt hash. An unknown
// username surfaces as ErrNotFound, a mismatch as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Get looks up an account by username.
func (s *Service) Get(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Update changes the name, email, and optionally the password of an
// existing account. A blank password keeps the current hash.
func (s *Service) Update(ctx context.Context, username, name, email, password string) (*User, error) {

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = hash
	}

	return s.repo.Update(ctx, user)
}
