package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type mockAuthRepo struct {
	user           *models.User
	passwordHash   string
	lastLoginCalls int
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.user == nil || m.user.Email != email {
		return nil, sql.ErrNoRows
	}
	copied := *m.user
	return &copied, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *m.user
	return &copied, nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.passwordHash = passwordHash
	return nil
}

func (m *mockAuthRepo) TouchLastLogin(ctx context.Context, id string) error {
	m.lastLoginCalls++
	return nil
}

func newAuthFixture(t *testing.T, roles ...string) (*AuthService, *mockAuthRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           "u1",
		Email:        "admin@tutorlink.test",
		PasswordHash: string(hash),
		FullName:     "Admin",
		Active:       true,
	}
	for _, name := range roles {
		user.Roles = append(user.Roles, models.Role{ID: name, Name: name})
	}

	repo := &mockAuthRepo{user: user}
	svc := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "test"})
	return svc, repo
}

func TestLoginIssuesToken(t *testing.T) {
	svc, repo := newAuthFixture(t, "ADMIN")

	result, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@tutorlink.test",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, models.RoleAdmin, result.Role)
	assert.Equal(t, int64(3600), result.ExpiresIn)
	assert.Equal(t, 1, repo.lastLoginCalls)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t, "ADMIN")

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@tutorlink.test",
		Password: "wrong-password",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, repo := newAuthFixture(t, "ADMIN")
	repo.user.Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@tutorlink.test",
		Password: "correct-horse",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	svc, _ := newAuthFixture(t, "ADMIN")

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@tutorlink.test",
		Password: "correct-horse",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := newAuthFixture(t, "ADMIN")
	result, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@tutorlink.test",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	other := NewAuthService(&mockAuthRepo{}, nil, zap.NewNop(), AuthConfig{Secret: "different-secret"})
	_, err = other.ValidateToken(result.AccessToken)
	require.Error(t, err)
}

func TestPrimaryRolePrecedence(t *testing.T) {
	toRoles := func(names ...string) []models.Role {
		roles := make([]models.Role, 0, len(names))
		for _, name := range names {
			roles = append(roles, models.Role{Name: name})
		}
		return roles
	}

	assert.Equal(t, models.RoleSuperAdmin, PrimaryRole(toRoles("PARENT", "SUPERADMIN", "ADMIN")))
	assert.Equal(t, models.RoleAdmin, PrimaryRole(toRoles("PROFESSOR", "ADMIN")))
	assert.Equal(t, models.RoleProfessor, PrimaryRole(toRoles("PROFESSOR", "PARENT")))
	assert.Equal(t, models.RoleParent, PrimaryRole(toRoles("PARENT")))
	assert.Equal(t, models.RoleParent, PrimaryRole(nil))
}

func TestChangePasswordRequiresOldPassword(t *testing.T) {
	svc, repo := newAuthFixture(t, "ADMIN")

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "brand-new-password",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "correct-horse",
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.passwordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.passwordHash), []byte("brand-new-password")))
}
