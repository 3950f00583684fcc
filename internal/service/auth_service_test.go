package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type fakeAuthAdminRepo struct {
	admin *models.AdminUser
}

func (f *fakeAuthAdminRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if f.admin != nil && f.admin.Email == email {
		return f.admin, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthAdminRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

type fakeAuthGuardianRepo struct {
	guardian *models.Guardian
}

func (f *fakeAuthGuardianRepo) FindByEmail(ctx context.Context, email string) (*models.Guardian, error) {
	if f.guardian != nil && f.guardian.Email == email {
		return f.guardian, nil
	}
	return nil, sql.ErrNoRows
}

type fakeAuthClassRepo struct {
	class *models.Class
}

func (f *fakeAuthClassRepo) FindByCode(ctx context.Context, schoolID, code string) (*models.Class, error) {
	if f.class != nil && f.class.SchoolID == schoolID && f.class.ClassCode == code {
		return f.class, nil
	}
	return nil, sql.ErrNoRows
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthServiceForTest(admins *fakeAuthAdminRepo, guardians *fakeAuthGuardianRepo, classes *fakeAuthClassRepo) *AuthService {
	return NewAuthService(admins, guardians, mapleKinder(), classes, nil, zap.NewNop(), AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "sodachi-api-test",
	})
}

func TestGuardianLoginIssuesGuardianSession(t *testing.T) {
	guardians := &fakeAuthGuardianRepo{guardian: &models.Guardian{
		ID:           "g-1",
		SchoolID:     "school-1",
		Email:        "mika@example.com",
		DisplayName:  "Mika",
		PasswordHash: mustHash(t, "correct horse"),
	}}
	svc := newAuthServiceForTest(&fakeAuthAdminRepo{}, guardians, &fakeAuthClassRepo{})

	resp, err := svc.GuardianLogin(context.Background(), models.GuardianLoginRequest{
		Email:    "mika@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuardian, resp.Role)
	assert.Equal(t, "Mika", resp.DisplayName)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuardian, claims.Role)
	assert.Equal(t, "g-1", claims.GuardianID)
	assert.Equal(t, "school-1", claims.SchoolID)
}

func TestGuardianLoginWrongPassword(t *testing.T) {
	guardians := &fakeAuthGuardianRepo{guardian: &models.Guardian{
		ID:           "g-1",
		Email:        "mika@example.com",
		PasswordHash: mustHash(t, "correct horse"),
	}}
	svc := newAuthServiceForTest(&fakeAuthAdminRepo{}, guardians, &fakeAuthClassRepo{})

	_, err := svc.GuardianLogin(context.Background(), models.GuardianLoginRequest{
		Email:    "mika@example.com",
		Password: "battery staple",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAdminLoginInactiveAccount(t *testing.T) {
	admins := &fakeAuthAdminRepo{admin: &models.AdminUser{
		ID:           "a-1",
		Email:        "ops@example.com",
		PasswordHash: mustHash(t, "secret123"),
		Active:       false,
	}}
	svc := newAuthServiceForTest(admins, &fakeAuthGuardianRepo{}, &fakeAuthClassRepo{})

	_, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{
		Email:    "ops@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestClassLoginIssuesParentSession(t *testing.T) {
	classes := &fakeAuthClassRepo{class: &models.Class{
		ID:        "class-1",
		SchoolID:  "school-1",
		Name:      "Tulip",
		ClassCode: "TULIP2026",
	}}
	svc := newAuthServiceForTest(&fakeAuthAdminRepo{}, &fakeAuthGuardianRepo{}, classes)

	resp, err := svc.ClassLogin(context.Background(), models.ClassLoginRequest{
		SchoolSlug: "maple-kinder",
		ClassCode:  "TULIP2026",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleParent, resp.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleParent, claims.Role)
	assert.Equal(t, "school-1", claims.SchoolID)
	assert.Equal(t, "class-1", claims.ClassID)
	assert.Empty(t, claims.GuardianID)
}

func TestClassLoginBadCode(t *testing.T) {
	svc := newAuthServiceForTest(&fakeAuthAdminRepo{}, &fakeAuthGuardianRepo{}, &fakeAuthClassRepo{})

	_, err := svc.ClassLogin(context.Background(), models.ClassLoginRequest{
		SchoolSlug: "maple-kinder",
		ClassCode:  "WRONG",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidClassCode)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthServiceForTest(&fakeAuthAdminRepo{}, &fakeAuthGuardianRepo{}, &fakeAuthClassRepo{})

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := newAuthServiceForTest(&fakeAuthAdminRepo{}, &fakeAuthGuardianRepo{}, &fakeAuthClassRepo{
		class: &models.Class{ID: "class-1", SchoolID: "school-1", ClassCode: "TULIP2026"},
	})
	resp, err := issuer.ClassLogin(context.Background(), models.ClassLoginRequest{
		SchoolSlug: "maple-kinder",
		ClassCode:  "TULIP2026",
	})
	require.NoError(t, err)

	verifier := NewAuthService(&fakeAuthAdminRepo{}, &fakeAuthGuardianRepo{}, mapleKinder(), &fakeAuthClassRepo{}, nil, zap.NewNop(), AuthConfig{Secret: "other-secret"})
	_, err = verifier.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}
