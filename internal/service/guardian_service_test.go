package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type fakeGuardianRepo struct {
	byEmail  map[string]*models.Guardian
	byID     map[string]*models.Guardian
	children []*models.Child
}

func (f *fakeGuardianRepo) GetByID(ctx context.Context, id string) (*models.Guardian, error) {
	if g, ok := f.byID[id]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeGuardianRepo) FindByEmail(ctx context.Context, email string) (*models.Guardian, error) {
	if g, ok := f.byEmail[email]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeGuardianRepo) List(ctx context.Context, filter models.GuardianFilter) ([]models.Guardian, int, error) {
	return nil, 0, nil
}

func (f *fakeGuardianRepo) Create(ctx context.Context, guardian *models.Guardian) error {
	guardian.ID = "g-new"
	return nil
}

func (f *fakeGuardianRepo) Update(ctx context.Context, guardian *models.Guardian) error { return nil }
func (f *fakeGuardianRepo) Delete(ctx context.Context, id string) error                 { return nil }

func (f *fakeGuardianRepo) ListChildren(ctx context.Context, guardianID string) ([]models.Child, error) {
	return nil, nil
}

func (f *fakeGuardianRepo) CreateChild(ctx context.Context, child *models.Child) error {
	child.ID = "c-new"
	f.children = append(f.children, child)
	return nil
}

func (f *fakeGuardianRepo) DeleteChild(ctx context.Context, id string) error { return nil }

func newGuardianServiceForTest(repo *fakeGuardianRepo) *GuardianService {
	return NewGuardianService(repo, validator.New(), zap.NewNop())
}

func TestCreateGuardianHashesPassword(t *testing.T) {
	repo := &fakeGuardianRepo{byEmail: map[string]*models.Guardian{}}
	svc := newGuardianServiceForTest(repo)

	guardian, err := svc.Create(context.Background(), GuardianCreateRequest{
		SchoolID:    "11111111-2222-4333-8444-555555555555",
		Email:       "mika@example.com",
		Password:    "correct horse",
		DisplayName: "Mika",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", guardian.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(guardian.PasswordHash), []byte("correct horse")))
}

func TestCreateGuardianDuplicateEmail(t *testing.T) {
	repo := &fakeGuardianRepo{byEmail: map[string]*models.Guardian{
		"mika@example.com": {ID: "g-1", Email: "mika@example.com"},
	}}
	svc := newGuardianServiceForTest(repo)

	_, err := svc.Create(context.Background(), GuardianCreateRequest{
		SchoolID:    "11111111-2222-4333-8444-555555555555",
		Email:       "mika@example.com",
		Password:    "correct horse",
		DisplayName: "Mika",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAddChildInheritsGuardianSchool(t *testing.T) {
	repo := &fakeGuardianRepo{byID: map[string]*models.Guardian{
		"g-1": {ID: "g-1", SchoolID: "school-1"},
	}}
	svc := newGuardianServiceForTest(repo)

	birthday := time.Date(2022, 5, 10, 0, 0, 0, 0, time.UTC)
	child, err := svc.AddChild(context.Background(), "g-1", ChildRequest{
		ClassID:  "22222222-3333-4444-8555-666666666666",
		Name:     "Haru",
		Birthday: &birthday,
	})
	require.NoError(t, err)
	assert.Equal(t, "school-1", child.SchoolID)
	assert.Equal(t, "g-1", child.GuardianID)
}

func TestUpdateGuardianKeepsPasswordWhenBlank(t *testing.T) {
	hash, err := HashPassword("original pass")
	require.NoError(t, err)
	repo := &fakeGuardianRepo{byID: map[string]*models.Guardian{
		"g-1": {ID: "g-1", Email: "mika@example.com", DisplayName: "Mika", PasswordHash: hash},
	}}
	svc := newGuardianServiceForTest(repo)

	updated, err := svc.Update(context.Background(), "g-1", GuardianUpdateRequest{
		Email:       "mika@example.com",
		DisplayName: "Mika N.",
	})
	require.NoError(t, err)
	assert.Equal(t, hash, updated.PasswordHash)
	assert.Equal(t, "Mika N.", updated.DisplayName)
}
