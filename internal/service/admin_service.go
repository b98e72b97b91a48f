package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

var (
	ErrCredentialsRequired = errors.New("username and password are required")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AdminClaims is the JWT payload issued on admin login
type AdminClaims struct {
	AdminID string `json:"admin_id"`
	jwt.RegisteredClaims
}

// AdminService defines the interface for admin business logic
type AdminService interface {
	Create(ctx context.Context, username, password string) (*domain.Admin, error)
	Login(ctx context.Context, username, password string) (*domain.Admin, string, error)
	List(ctx context.Context) ([]*domain.Admin, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.AdminPatch) (*domain.Admin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	repo      repository.AdminRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(repo repository.AdminRepository, jwtSecret string, tokenTTL time.Duration) AdminService {
	return &adminService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Create stores a new admin with a bcrypt-hashed password. The plaintext
// never reaches storage.
func (s *adminService) Create(ctx context.Context, username, password string) (*domain.Admin, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrAdminNotFound) {
		return nil, fmt.Errorf("failed to check existing admin: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrAdminAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.Admin{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}

	return admin, nil
}

// Login authenticates an admin and issues a signed token. Unknown usernames
// and wrong passwords fail identically.
func (s *adminService) Login(ctx context.Context, username, password string) (*domain.Admin, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrCredentialsRequired
	}

	admin, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(admin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return admin, token, nil
}

// List returns all admins
func (s *adminService) List(ctx context.Context) ([]*domain.Admin, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update; a supplied password is re-hashed
func (s *adminService) Update(ctx context.Context, id uuid.UUID, patch domain.AdminPatch) (*domain.Admin, error) {
	if patch.Username != nil && *patch.Username == "" {
		return nil, ErrCredentialsRequired
	}
	if patch.Password != nil && *patch.Password == "" {
		return nil, ErrCredentialsRequired
	}

	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		admin.Username = *patch.Username
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		admin.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, err
	}

	return admin, nil
}

// Delete removes an admin by id
func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *adminService) generateToken(admin *domain.Admin) (string, error) {
	now := time.Now()
	claims := &AdminClaims{
		AdminID: admin.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
