package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// AdminAnalyticsHandler serves the engagement summary and sponsor
// report exports.
type AdminAnalyticsHandler struct {
	analytics *service.AnalyticsService
	sponsors  *service.SponsorService
}

// NewAdminAnalyticsHandler creates a new handler.
func NewAdminAnalyticsHandler(analytics *service.AnalyticsService, sponsors *service.SponsorService) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{analytics: analytics, sponsors: sponsors}
}

// Summary godoc
// @Summary Engagement summary per school
// @Description Views, reactions and sponsor events per school over a date range
// @Tags Admin/Analytics
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /admin/analytics/summary [get]
func (h *AdminAnalyticsHandler) Summary(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.analytics.Summary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// SponsorPerformance godoc
// @Summary Sponsor event totals
// @Tags Admin/Analytics
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /admin/analytics/sponsors [get]
func (h *AdminAnalyticsHandler) SponsorPerformance(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.sponsors.Performance(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// SponsorReport godoc
// @Summary Export the sponsor report
// @Description Download sponsor event totals as CSV or PDF
// @Tags Admin/Analytics
// @Produce octet-stream
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /admin/analytics/sponsors/export [get]
func (h *AdminAnalyticsHandler) SponsorReport(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))
	out, contentType, err := h.analytics.SponsorReport(c.Request.Context(), from, to, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("sponsor-report-%s.%s", to.Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, out)
}

// dateRange parses from/to query params, defaulting to the last 30 days.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid from date")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid to date")
		}
		// Include the whole end day.
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}
	return from, to, nil
}
