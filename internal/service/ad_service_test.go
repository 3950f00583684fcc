package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

type fakeAdRepo struct {
	prerolls []models.PrerollAd
	midrolls []models.MidrollAd
	calls    int
}

func (f *fakeAdRepo) ListEligiblePrerolls(ctx context.Context, schoolID string, now time.Time) ([]models.PrerollAd, error) {
	f.calls++
	return f.prerolls, nil
}

func (f *fakeAdRepo) ListEligibleMidrolls(ctx context.Context, schoolID string, now time.Time) ([]models.MidrollAd, error) {
	return f.midrolls, nil
}

func (f *fakeAdRepo) ListPrerolls(ctx context.Context) ([]models.PrerollAd, error) {
	return f.prerolls, nil
}
func (f *fakeAdRepo) GetPreroll(ctx context.Context, id string) (*models.PrerollAd, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeAdRepo) CreatePreroll(ctx context.Context, ad *models.PrerollAd) error { return nil }
func (f *fakeAdRepo) UpdatePreroll(ctx context.Context, ad *models.PrerollAd) error { return nil }
func (f *fakeAdRepo) DeletePreroll(ctx context.Context, id string) error            { return nil }
func (f *fakeAdRepo) ListMidrolls(ctx context.Context) ([]models.MidrollAd, error) {
	return f.midrolls, nil
}
func (f *fakeAdRepo) GetMidroll(ctx context.Context, id string) (*models.MidrollAd, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeAdRepo) CreateMidroll(ctx context.Context, ad *models.MidrollAd) error { return nil }
func (f *fakeAdRepo) UpdateMidroll(ctx context.Context, ad *models.MidrollAd) error { return nil }
func (f *fakeAdRepo) DeleteMidroll(ctx context.Context, id string) error            { return nil }

type fakeSchoolResolver struct {
	schools map[string]*models.School
}

func (f *fakeSchoolResolver) GetBySlug(ctx context.Context, slug string) (*models.School, error) {
	if school, ok := f.schools[slug]; ok {
		return school, nil
	}
	return nil, sql.ErrNoRows
}

func mapleKinder() *fakeSchoolResolver {
	return &fakeSchoolResolver{schools: map[string]*models.School{
		"maple-kinder": {ID: "school-1", Name: "Maple Kinder", Slug: "maple-kinder"},
	}}
}

func preroll(id string, priority int) models.PrerollAd {
	return models.PrerollAd{ID: id, Name: id, VideoURL: "https://cdn/" + id + ".mp4", Priority: priority, IsActive: true}
}

func TestSelectPrerollPicksHighestPriority(t *testing.T) {
	repo := &fakeAdRepo{prerolls: []models.PrerollAd{
		preroll("low", 1),
		preroll("top", 10),
		preroll("mid", 5),
	}}
	svc := NewAdService(repo, mapleKinder(), nil, nil, zap.NewNop(), time.Minute)

	ad, err := svc.SelectPreroll(context.Background(), "maple-kinder", time.Now())
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, "top", ad.ID)
}

func TestSelectPrerollOnlyDrawsFromMaxPrioritySubset(t *testing.T) {
	repo := &fakeAdRepo{prerolls: []models.PrerollAd{
		preroll("a", 10),
		preroll("b", 10),
		preroll("c", 3),
	}}
	svc := NewAdService(repo, mapleKinder(), nil, nil, zap.NewNop(), time.Minute)

	for i := 0; i < 100; i++ {
		ad, err := svc.SelectPreroll(context.Background(), "maple-kinder", time.Now())
		require.NoError(t, err)
		require.NotNil(t, ad)
		assert.NotEqual(t, "c", ad.ID)
	}
}

func TestSelectPrerollTieBreakIsRoughlyUniform(t *testing.T) {
	repo := &fakeAdRepo{prerolls: []models.PrerollAd{
		preroll("a", 7),
		preroll("b", 7),
	}}
	svc := NewAdService(repo, mapleKinder(), nil, nil, zap.NewNop(), time.Minute)

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		ad, err := svc.SelectPreroll(context.Background(), "maple-kinder", time.Now())
		require.NoError(t, err)
		counts[ad.ID]++
	}
	// Each of the two tied ads should win close to half the draws.
	assert.Greater(t, counts["a"], 350)
	assert.Greater(t, counts["b"], 350)
}

func TestSelectPrerollDeterministicWithInjectedRand(t *testing.T) {
	repo := &fakeAdRepo{prerolls: []models.PrerollAd{
		preroll("a", 10),
		preroll("b", 10),
	}}
	svc := NewAdService(repo, mapleKinder(), nil, nil, zap.NewNop(), time.Minute)
	svc.intn = func(n int) int { return 1 }

	ad, err := svc.SelectPreroll(context.Background(), "maple-kinder", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "b", ad.ID)
}

func TestSelectPrerollNoCandidates(t *testing.T) {
	svc := NewAdService(&fakeAdRepo{}, mapleKinder(), nil, nil, zap.NewNop(), time.Minute)

	ad, err := svc.SelectPreroll(context.Background(), "maple-kinder", time.Now())
	require.NoError(t, err)
	assert.Nil(t, ad)
}

func TestSelectPrerollUnknownSchool(t *testing.T) {
	svc := NewAdService(&fakeAdRepo{prerolls: []models.PrerollAd{preroll("a", 1)}}, mapleKinder(), nil, nil, zap.NewNop(), time.Minute)

	ad, err := svc.SelectPreroll(context.Background(), "nope", time.Now())
	require.NoError(t, err)
	assert.Nil(t, ad)
}

func TestListMidrollsUnknownSchoolIsEmpty(t *testing.T) {
	svc := NewAdService(&fakeAdRepo{}, mapleKinder(), nil, nil, zap.NewNop(), time.Minute)

	ads, err := svc.ListMidrolls(context.Background(), "nope", time.Now())
	require.NoError(t, err)
	assert.Empty(t, ads)
	assert.NotNil(t, ads)
}

type fakeAdCache struct {
	store map[string][]byte
	sets  int
	hits  int
}

func (f *fakeAdCache) Get(ctx context.Context, key string, dest interface{}) error {
	// The test cache only records traffic; lookups always miss.
	return assert.AnError
}

func (f *fakeAdCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.sets++
	return nil
}

func (f *fakeAdCache) DeleteByPattern(ctx context.Context, pattern string) error { return nil }

func TestSelectPrerollWritesCandidateCache(t *testing.T) {
	repo := &fakeAdRepo{prerolls: []models.PrerollAd{preroll("a", 1)}}
	cache := &fakeAdCache{}
	svc := NewAdService(repo, mapleKinder(), cache, nil, zap.NewNop(), time.Minute)

	_, err := svc.SelectPreroll(context.Background(), "maple-kinder", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, repo.calls)
}

// replayAdCache hands back a fixed candidate set on every lookup, the way
// Redis would for the lifetime of a cached entry.
type replayAdCache struct {
	prerolls []models.PrerollAd
}

func (f *replayAdCache) Get(ctx context.Context, key string, dest interface{}) error {
	*dest.(*[]models.PrerollAd) = f.prerolls
	return nil
}

func (f *replayAdCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (f *replayAdCache) DeleteByPattern(ctx context.Context, pattern string) error { return nil }

func TestSelectPrerollSkipsExpiredCachedCandidates(t *testing.T) {
	now := time.Now()
	expiredAt := now.Add(-time.Hour)
	expired := preroll("expired", 5)
	expired.ValidTo = &expiredAt
	cache := &replayAdCache{prerolls: []models.PrerollAd{expired}}
	svc := NewAdService(&fakeAdRepo{}, mapleKinder(), cache, nil, zap.NewNop(), time.Minute)

	ad, err := svc.SelectPreroll(context.Background(), "maple-kinder", now)
	require.NoError(t, err)
	assert.Nil(t, ad)
}

func TestSelectPrerollSkipsCachedCandidatesNotYetValid(t *testing.T) {
	now := time.Now()
	startsAt := now.Add(time.Hour)
	pending := preroll("pending", 5)
	pending.ValidFrom = &startsAt
	live := preroll("live", 1)
	cache := &replayAdCache{prerolls: []models.PrerollAd{pending, live}}
	svc := NewAdService(&fakeAdRepo{}, mapleKinder(), cache, nil, zap.NewNop(), time.Minute)

	ad, err := svc.SelectPreroll(context.Background(), "maple-kinder", now)
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, "live", ad.ID)
}
