package services

import (
	"context"
	"errors"
	"strings"

	"SportClubAPI/internal/model"
	"SportClubAPI/internal/repository"
)

type AuthService struct {
	Users UserStore
}

func NewAuthService(u UserStore) *AuthService {
	return &AuthService{Users: u}
}

// Login authenticates using email + password and returns the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// do not reveal whether email exists
		if !errors.Is(err, repository.ErrNotFound) {
			log.Errorf("Login lookup %v: %v", email, err)
		}
		return nil, ErrInvalidCredentials
	}
	if !ValidPassword(password, u.Hash, u.Salt) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser returns the user with the given id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.Users.GetByID(ctx, id)
}
