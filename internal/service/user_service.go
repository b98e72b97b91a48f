package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNameEmailRequired = errors.New("name and email are required")
)

// CreateUserInput carries the fields for a new user
type CreateUserInput struct {
	Name    string
	Email   string
	PhoneNo string
	Address string
}

// UserService defines the interface for user business logic
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new instance of UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Create validates and persists a new user. Email uniqueness is checked with
// a pre-insert lookup for the friendly error; the database constraint closes
// the race between concurrent creations.
func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, ErrNameEmailRequired
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	user := &domain.User{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		PhoneNo:   input.PhoneNo,
		Address:   input.Address,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// List returns all users
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Delete removes a user by id. Orders that reference the user keep the
// stale id and surface without user details.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
