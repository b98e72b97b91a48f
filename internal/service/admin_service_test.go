package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

type mockAdminRepository struct {
	admins map[uuid.UUID]*domain.Admin
}

func newMockAdminRepository() *mockAdminRepository {
	return &mockAdminRepository{admins: make(map[uuid.UUID]*domain.Admin)}
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	for _, existing := range m.admins {
		if existing.Username == admin.Username {
			return repository.ErrAdminAlreadyExists
		}
	}
	m.admins[admin.ID] = admin
	return nil
}

func (m *mockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	admin, ok := m.admins[id]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}
	copy := *admin
	return &copy, nil
}

func (m *mockAdminRepository) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	for _, admin := range m.admins {
		if admin.Username == username {
			copy := *admin
			return &copy, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (m *mockAdminRepository) List(ctx context.Context) ([]*domain.Admin, error) {
	admins := []*domain.Admin{}
	for _, a := range m.admins {
		admins = append(admins, a)
	}
	return admins, nil
}

func (m *mockAdminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	if _, ok := m.admins[admin.ID]; !ok {
		return repository.ErrAdminNotFound
	}
	m.admins[admin.ID] = admin
	return nil
}

func (m *mockAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.admins[id]; !ok {
		return repository.ErrAdminNotFound
	}
	delete(m.admins, id)
	return nil
}

const testJWTSecret = "test-secret-key"

func newAdminFixture() (AdminService, *mockAdminRepository) {
	repo := newMockAdminRepository()
	return NewAdminService(repo, testJWTSecret, 15*time.Minute), repo
}

func TestProperty_StoredPasswordsAreBcryptHashes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("stored hash verifies against the plaintext and never equals it", prop.ForAll(
		func(username string, password string) bool {
			svc, repo := newAdminFixture()

			admin, err := svc.Create(context.Background(), username, password)
			if err != nil {
				t.Logf("unexpected error: %v", err)
				return false
			}

			stored := repo.admins[admin.ID]
			if stored.PasswordHash == password {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) == nil
		},
		gen.RegexMatch(`[a-z][a-z0-9]{2,15}`),
		gen.RegexMatch(`[a-zA-Z0-9!@#$%]{8,24}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCreateAdminRequiresCredentials(t *testing.T) {
	svc, repo := newAdminFixture()
	ctx := context.Background()

	for _, tc := range []struct{ username, password string }{
		{"", "secret123"},
		{"admin", ""},
		{"", ""},
	} {
		if _, err := svc.Create(ctx, tc.username, tc.password); !errors.Is(err, ErrCredentialsRequired) {
			t.Fatalf("Create(%q, %q): expected ErrCredentialsRequired, got %v", tc.username, tc.password, err)
		}
	}
	if len(repo.admins) != 0 {
		t.Fatalf("expected no persisted admins, found %d", len(repo.admins))
	}
}

func TestCreateAdminRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newAdminFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "admin", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Create(ctx, "admin", "othersecret")
	if !errors.Is(err, repository.ErrAdminAlreadyExists) {
		t.Fatalf("expected ErrAdminAlreadyExists, got %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAdminFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "admin", "correct-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, unknownUserErr := svc.Login(ctx, "nobody", "correct-password")
	_, _, wrongPasswordErr := svc.Login(ctx, "admin", "wrong-password")

	if !errors.Is(unknownUserErr, ErrInvalidCredentials) {
		t.Fatalf("unknown username: expected ErrInvalidCredentials, got %v", unknownUserErr)
	}
	if !errors.Is(wrongPasswordErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPasswordErr)
	}
	if unknownUserErr.Error() != wrongPasswordErr.Error() {
		t.Fatalf("failure messages differ: %q vs %q", unknownUserErr, wrongPasswordErr)
	}
}

func TestLoginIssuesTokenCarryingAdminID(t *testing.T) {
	svc, _ := newAdminFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin, tokenString, err := svc.Login(ctx, "admin", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.ID != created.ID {
		t.Fatalf("login returned wrong admin: %s", admin.ID)
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.AdminID != created.ID.String() {
		t.Fatalf("expected admin_id %s, got %s", created.ID, claims.AdminID)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatal("token must carry a future expiry")
	}
}

func TestUpdateAdminRehashesPassword(t *testing.T) {
	svc, repo := newAdminFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin", "old-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	oldHash := repo.admins[created.ID].PasswordHash

	newPassword := "new-password"
	if _, err := svc.Update(ctx, created.ID, domain.AdminPatch{Password: &newPassword}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.admins[created.ID]
	if stored.PasswordHash == oldHash {
		t.Fatal("password hash was not replaced")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(newPassword)); err != nil {
		t.Fatalf("new hash does not verify: %v", err)
	}

	if _, _, err := svc.Login(ctx, "admin", "old-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "admin", newPassword); err != nil {
		t.Fatalf("new password must work: %v", err)
	}
}

func TestUpdateAdminRejectsEmptyFields(t *testing.T) {
	svc, _ := newAdminFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := ""
	if _, err := svc.Update(ctx, created.ID, domain.AdminPatch{Username: &empty}); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("empty username: expected ErrCredentialsRequired, got %v", err)
	}
	if _, err := svc.Update(ctx, created.ID, domain.AdminPatch{Password: &empty}); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("empty password: expected ErrCredentialsRequired, got %v", err)
	}
}

func TestDeleteUnknownAdmin(t *testing.T) {
	svc, _ := newAdminFixture()

	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, repository.ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}
}
