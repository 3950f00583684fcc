package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

type fakeAnalyticsRepo struct {
	summary []models.AnalyticsSummary
	calls   int
}

func (f *fakeAnalyticsRepo) SummaryBySchool(ctx context.Context, from, to time.Time) ([]models.AnalyticsSummary, error) {
	f.calls++
	return f.summary, nil
}

type fakePerformanceRepo struct {
	report []models.SponsorPerformance
}

func (f *fakePerformanceRepo) PerformanceReport(ctx context.Context, from, to time.Time) ([]models.SponsorPerformance, error) {
	return f.report, nil
}

func TestSponsorReportCSV(t *testing.T) {
	sponsors := &fakePerformanceRepo{report: []models.SponsorPerformance{
		{SponsorName: "Bakery", Impressions: 120, Clicks: 14, Supports: 3},
	}}
	svc := NewAnalyticsService(&fakeAnalyticsRepo{}, sponsors, nil, zap.NewNop(), 0)

	out, contentType, err := svc.SponsorReport(context.Background(), time.Now().AddDate(0, -1, 0), time.Now(), ReportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	body := string(out)
	assert.Contains(t, body, "sponsor,impressions,clicks,supports")
	assert.Contains(t, body, "Bakery,120,14,3")
}

func TestSponsorReportPDF(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{}, &fakePerformanceRepo{}, nil, zap.NewNop(), 0)

	out, contentType, err := svc.SponsorReport(context.Background(), time.Now().AddDate(0, -1, 0), time.Now(), ReportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestSponsorReportUnknownFormat(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{}, &fakePerformanceRepo{}, nil, zap.NewNop(), 0)

	_, _, err := svc.SponsorReport(context.Background(), time.Now(), time.Now(), ReportFormat("xlsx"))
	require.Error(t, err)
}

func TestSummaryCachesResult(t *testing.T) {
	repo := &fakeAnalyticsRepo{summary: []models.AnalyticsSummary{{SchoolName: "Maple Kinder", ViewCount: 40}}}
	cache := &fakeAdCache{}
	svc := NewAnalyticsService(repo, &fakePerformanceRepo{}, cache, zap.NewNop(), time.Minute)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Summary(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.sets)
}
