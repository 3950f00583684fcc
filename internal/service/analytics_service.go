package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/export"
)

type analyticsRepository interface {
	SummaryBySchool(ctx context.Context, from, to time.Time) ([]models.AnalyticsSummary, error)
}

type analyticsSponsorRepository interface {
	PerformanceReport(ctx context.Context, from, to time.Time) ([]models.SponsorPerformance, error)
}

// ReportFormat selects the sponsor report output encoding.
type ReportFormat string

const (
	ReportCSV ReportFormat = "csv"
	ReportPDF ReportFormat = "pdf"
)

// AnalyticsService builds the admin engagement summary and sponsor
// reports. Summaries are cached since they aggregate large tables.
type AnalyticsService struct {
	repo     analyticsRepository
	sponsors analyticsSponsorRepository
	cache    adCache
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	ttl      time.Duration
}

// NewAnalyticsService constructs the service. cache may be nil.
func NewAnalyticsService(repo analyticsRepository, sponsors analyticsSponsorRepository, cache adCache, logger *zap.Logger, cacheTTL time.Duration) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &AnalyticsService{
		repo:     repo,
		sponsors: sponsors,
		cache:    cache,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		ttl:      cacheTTL,
	}
}

// Summary aggregates views, reactions and sponsor events per school over
// a date range.
func (s *AnalyticsService) Summary(ctx context.Context, from, to time.Time) ([]models.AnalyticsSummary, error) {
	key := fmt.Sprintf("analytics:summary:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if s.cache != nil {
		var cached []models.AnalyticsSummary
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	summary, err := s.repo.SummaryBySchool(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analytics summary")
	}
	if summary == nil {
		summary = []models.AnalyticsSummary{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, s.ttl); err != nil {
			s.logger.Warn("failed to cache analytics summary", zap.Error(err))
		}
	}
	return summary, nil
}

// SponsorReport renders the per-sponsor event totals as CSV or PDF.
func (s *AnalyticsService) SponsorReport(ctx context.Context, from, to time.Time, format ReportFormat) ([]byte, string, error) {
	report, err := s.sponsors.PerformanceReport(ctx, from, to)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build sponsor report")
	}

	dataset := export.Dataset{
		Headers: []string{"sponsor", "impressions", "clicks", "supports"},
		Rows:    make([]map[string]string, 0, len(report)),
	}
	for _, row := range report {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"sponsor":     row.SponsorName,
			"impressions": strconv.Itoa(row.Impressions),
			"clicks":      strconv.Itoa(row.Clicks),
			"supports":    strconv.Itoa(row.Supports),
		})
	}

	switch format {
	case ReportPDF:
		title := fmt.Sprintf("Sponsor Report %s - %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
		out, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return out, "application/pdf", nil
	case ReportCSV:
		out, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return out, "text/csv", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unknown report format")
	}
}
