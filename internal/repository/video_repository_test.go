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

func newVideoRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestVideoRepositoryListPublishedOnly(t *testing.T) {
	db, mock, cleanup := newVideoRepoMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "school_id", "class_id", "title", "description", "storage_key",
		"thumbnail_key", "duration_seconds", "published_at", "created_at", "updated_at",
	}).AddRow("v-1", "school-1", nil, "Sports day", "", "videos/school-1/v-1", nil, 120, now, now, now)

	mock.ExpectQuery("SELECT (.+) FROM videos WHERE").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM videos WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	videos, total, err := repo.List(context.Background(), models.VideoFilter{
		SchoolID:      "school-1",
		PublishedOnly: true,
		Page:          1,
		PageSize:      20,
	})
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepositoryDeleteWithDependents(t *testing.T) {
	db, mock, cleanup := newVideoRepoMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM video_views WHERE video_id").
		WithArgs("v-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM reaction_logs WHERE video_id").
		WithArgs("v-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM video_face_tags WHERE video_id").
		WithArgs("v-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM favorites WHERE video_id").
		WithArgs("v-1").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM videos WHERE id").
		WithArgs("v-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteWithDependents(context.Background(), "v-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepositoryDeleteWithDependentsRollsBack(t *testing.T) {
	db, mock, cleanup := newVideoRepoMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM video_views WHERE video_id").
		WithArgs("v-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM reaction_logs WHERE video_id").
		WithArgs("v-1").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.DeleteWithDependents(context.Background(), "v-1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
