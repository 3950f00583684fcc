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

func newAdRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func prerollRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "video_url", "link_url", "cta_text", "skip_after_seconds", "priority",
		"is_active", "valid_from", "valid_to", "school_id", "sponsor_id", "created_at", "updated_at",
	})
}

func TestAdRepositoryListEligiblePrerolls(t *testing.T) {
	db, mock, cleanup := newAdRepoMock(t)
	defer cleanup()
	repo := NewAdRepository(db)

	now := time.Now()
	rows := prerollRows().
		AddRow("ad-1", "Spring", "https://cdn/ad1.mp4", "", "", 5, 10, true, nil, nil, nil, nil, now, now).
		AddRow("ad-2", "Local", "https://cdn/ad2.mp4", "", "", 5, 3, true, nil, nil, "school-1", nil, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM preroll_ads WHERE is_active = TRUE`).
		WithArgs("school-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	ads, err := repo.ListEligiblePrerolls(context.Background(), "school-1", now)
	require.NoError(t, err)
	assert.Len(t, ads, 2)
	assert.Equal(t, 10, ads[0].Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdRepositoryListEligibleMidrollsOrder(t *testing.T) {
	db, mock, cleanup := newAdRepoMock(t)
	defer cleanup()
	repo := NewAdRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "video_url", "link_url", "cta_text", "skip_after_seconds", "trigger_type",
		"trigger_value", "priority", "is_active", "valid_from", "valid_to", "school_id", "sponsor_id",
		"created_at", "updated_at",
	}).
		AddRow("m-1", "Mid A", "https://cdn/m1.mp4", "", "", 0, models.MidrollTriggerPercentage, 50, 8, true, nil, nil, nil, nil, now, now).
		AddRow("m-2", "Mid B", "https://cdn/m2.mp4", "", "", 0, models.MidrollTriggerTime, 30, 2, true, nil, nil, nil, nil, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM midroll_ads WHERE is_active = TRUE AND \(school_id IS NULL OR school_id = \$1\)(.+)ORDER BY priority DESC, created_at DESC`).
		WithArgs("school-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	ads, err := repo.ListEligibleMidrolls(context.Background(), "school-1", now)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, "m-1", ads[0].ID)
	assert.Equal(t, models.MidrollTriggerPercentage, ads[0].TriggerType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdRepositoryCreatePreroll(t *testing.T) {
	db, mock, cleanup := newAdRepoMock(t)
	defer cleanup()
	repo := NewAdRepository(db)

	mock.ExpectExec("INSERT INTO preroll_ads").
		WillReturnResult(sqlmock.NewResult(1, 1))

	ad := &models.PrerollAd{Name: "Spring", VideoURL: "https://cdn/ad.mp4", Priority: 5, IsActive: true}
	require.NoError(t, repo.CreatePreroll(context.Background(), ad))
	assert.NotEmpty(t, ad.ID)
	assert.False(t, ad.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdRepositoryDeleteMidroll(t *testing.T) {
	db, mock, cleanup := newAdRepoMock(t)
	defer cleanup()
	repo := NewAdRepository(db)

	mock.ExpectExec("DELETE FROM midroll_ads WHERE id = \\$1").
		WithArgs("m-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteMidroll(context.Background(), "m-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
