package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

func newSponsorRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSponsorRepositoryListActiveForSchool(t *testing.T) {
	db, mock, cleanup := newSponsorRepoMock(t)
	defer cleanup()
	repo := NewSponsorRepository(db)

	now := time.Now()
	expired := now.AddDate(0, -2, 0)
	rows := sqlmock.NewRows([]string{
		"id", "name", "image_url", "link_url", "priority", "is_active",
		"valid_from", "valid_to", "school_id", "created_at", "updated_at",
	}).
		AddRow("sp-1", "Bakery", "https://cdn/sp1.png", "", 9, true, nil, nil, nil, now, now).
		// Active sponsors surface even when their window has passed.
		AddRow("sp-2", "Florist", "https://cdn/sp2.png", "", 4, true, nil, expired, "school-1", now, now)

	mock.ExpectQuery(`SELECT (.+) FROM sponsors\s+WHERE is_active = TRUE AND \(school_id IS NULL OR school_id = \$1\)\s+ORDER BY priority DESC`).
		WithArgs("school-1").
		WillReturnRows(rows)

	sponsors, err := repo.ListActiveForSchool(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, sponsors, 2)
	assert.Equal(t, "sp-1", sponsors[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSponsorRepositoryInsertEvent(t *testing.T) {
	db, mock, cleanup := newSponsorRepoMock(t)
	defer cleanup()
	repo := NewSponsorRepository(db)

	mock.ExpectExec("INSERT INTO sponsor_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.SponsorEvent{SponsorID: "sp-1", EventType: models.SponsorEventClick}
	require.NoError(t, repo.InsertEvent(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSponsorRepositoryPerformanceReport(t *testing.T) {
	db, mock, cleanup := newSponsorRepoMock(t)
	defer cleanup()
	repo := NewSponsorRepository(db)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	mock.ExpectQuery("SELECT s.id AS sponsor_id, s.name AS sponsor_name").
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"sponsor_id", "sponsor_name", "impressions", "clicks", "supports"}).
			AddRow("sp-1", "Bakery", 120, 14, 3))

	report, err := repo.PerformanceReport(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, 120, report[0].Impressions)
	assert.Equal(t, 14, report[0].Clicks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
