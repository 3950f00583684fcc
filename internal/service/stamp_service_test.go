package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

type fakeStampRepo struct {
	isNew     bool
	stamps    []models.Stamp
	yearAsked int
}

func (f *fakeStampRepo) RecordLogin(ctx context.Context, guardianID string, now time.Time) (bool, []models.Stamp, error) {
	return f.isNew, f.stamps, nil
}

func (f *fakeStampRepo) ListForYear(ctx context.Context, guardianID string, year int) ([]models.Stamp, error) {
	f.yearAsked = year
	return f.stamps, nil
}

func TestRecordLoginReportsNewStamp(t *testing.T) {
	repo := &fakeStampRepo{isNew: true, stamps: []models.Stamp{{ID: "st-1"}, {ID: "st-2"}}}
	svc := NewStampService(repo, zap.NewNop())

	result, err := svc.RecordLogin(context.Background(), "g-1")
	require.NoError(t, err)
	assert.True(t, result.IsNew)
	assert.Equal(t, 2, result.Total)
}

func TestRecordLoginSecondCallSameDay(t *testing.T) {
	repo := &fakeStampRepo{isNew: false, stamps: []models.Stamp{{ID: "st-1"}}}
	svc := NewStampService(repo, zap.NewNop())

	result, err := svc.RecordLogin(context.Background(), "g-1")
	require.NoError(t, err)
	assert.False(t, result.IsNew)
	assert.Equal(t, 1, result.Total)
}

func TestCardDefaultsToCurrentYear(t *testing.T) {
	repo := &fakeStampRepo{}
	svc := NewStampService(repo, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) }

	result, err := svc.Card(context.Background(), "g-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2026, repo.yearAsked)
	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Stamps)
}
