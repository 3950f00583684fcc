package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type fakeSchoolRepo struct {
	taken   map[string]bool
	created *models.School
}

func (f *fakeSchoolRepo) GetBySlug(ctx context.Context, slug string) (*models.School, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeSchoolRepo) GetByID(ctx context.Context, id string) (*models.School, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeSchoolRepo) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, int, error) {
	return nil, 0, nil
}
func (f *fakeSchoolRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return f.taken[slug], nil
}
func (f *fakeSchoolRepo) Create(ctx context.Context, school *models.School) error {
	school.ID = "school-new"
	f.created = school
	return nil
}
func (f *fakeSchoolRepo) Update(ctx context.Context, school *models.School) error { return nil }
func (f *fakeSchoolRepo) Delete(ctx context.Context, id string) error             { return nil }

type fakeClassRepo struct{}

func (f *fakeClassRepo) ListBySchool(ctx context.Context, schoolID string) ([]models.Class, error) {
	return nil, nil
}
func (f *fakeClassRepo) GetByID(ctx context.Context, id string) (*models.Class, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeClassRepo) Create(ctx context.Context, class *models.Class) error { return nil }
func (f *fakeClassRepo) Update(ctx context.Context, class *models.Class) error { return nil }
func (f *fakeClassRepo) Delete(ctx context.Context, id string) error           { return nil }

func newSchoolServiceForTest(repo *fakeSchoolRepo) *SchoolService {
	return NewSchoolService(repo, &fakeClassRepo{}, validator.New(), zap.NewNop())
}

func TestCreateSchoolDerivesSlugFromName(t *testing.T) {
	repo := &fakeSchoolRepo{}
	svc := newSchoolServiceForTest(repo)

	school, err := svc.Create(context.Background(), SchoolRequest{Name: "Maple Kinder 2"})
	require.NoError(t, err)
	assert.Equal(t, "maple-kinder-2", school.Slug)
}

func TestCreateSchoolSuffixesTakenSlug(t *testing.T) {
	repo := &fakeSchoolRepo{taken: map[string]bool{"maple": true}}
	svc := newSchoolServiceForTest(repo)

	school, err := svc.Create(context.Background(), SchoolRequest{Name: "Maple"})
	require.NoError(t, err)
	assert.NotEqual(t, "maple", school.Slug)
	assert.Regexp(t, `^maple-\d{4}$`, school.Slug)
}

func TestCreateSchoolRejectsBadDisplayMode(t *testing.T) {
	mode := "carousel"
	svc := newSchoolServiceForTest(&fakeSchoolRepo{})

	_, err := svc.Create(context.Background(), SchoolRequest{Name: "Maple", PopDisplayMode: &mode})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Maple Kinder", "maple-kinder"},
		{"  Sunny -- Hill  ", "sunny-hill"},
		{"Class 3B", "class-3b"},
		{"ひまわり幼稚園", "school"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slugify(tc.name), tc.name)
	}
}
