package service

import (
	"fmt"
	"strings"

	"github.com/MiraclePlan/miracleplan-backend/internal/auth"
	"github.com/MiraclePlan/miracleplan-backend/internal/domain"
	"github.com/MiraclePlan/miracleplan-backend/internal/storage"
)

type UserService struct {
	storage *storage.Storage
	auth    *auth.Authenticator
}

func NewUserService(s *storage.Storage, a *auth.Authenticator) *UserService {
	return &UserService{storage: s, auth: a}
}

func (s *UserService) Register(username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty: %w", domain.ErrInvalid)
	}
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty: %w", domain.ErrInvalid)
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       username,
		HashedPassword: hash,
	}
	if err := s.storage.CreateUser(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a username/password pair. It returns
// domain.ErrBadCredentials for both unknown users and wrong passwords so
// the two cases are indistinguishable to a caller.
func (s *UserService) Authenticate(username, password string) (*domain.User, error) {
	user, err := s.storage.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !s.auth.CheckPassword(user.HashedPassword, password) {
		return nil, domain.ErrBadCredentials
	}
	return user, nil
}

func (s *UserService) Get(id int64) (*domain.User, error) {
	user, err := s.storage.GetUserByID(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return user, nil
}
