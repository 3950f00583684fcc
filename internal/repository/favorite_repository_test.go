package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFavoriteRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestFavoriteRepositoryToggleAdds(t *testing.T) {
	db, mock, cleanup := newFavoriteRepoMock(t)
	defer cleanup()
	repo := NewFavoriteRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM favorites WHERE guardian_id").
		WithArgs("g-1", "v-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO favorites").
		WithArgs(sqlmock.AnyArg(), "g-1", "v-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	favorited, err := repo.Toggle(context.Background(), "g-1", "v-1")
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepositoryToggleRemoves(t *testing.T) {
	db, mock, cleanup := newFavoriteRepoMock(t)
	defer cleanup()
	repo := NewFavoriteRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM favorites WHERE guardian_id").
		WithArgs("g-1", "v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	favorited, err := repo.Toggle(context.Background(), "g-1", "v-1")
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepositoryListVideos(t *testing.T) {
	db, mock, cleanup := newFavoriteRepoMock(t)
	defer cleanup()
	repo := NewFavoriteRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "school_id", "class_id", "title", "description", "storage_key",
		"thumbnail_key", "duration_seconds", "published_at", "created_at", "updated_at",
	}).AddRow("v-1", "school-1", nil, "Sports day", "", "videos/school-1/v-1", nil, 120, now, now, now)

	mock.ExpectQuery("SELECT v.id, v.school_id(.+)FROM favorites f JOIN videos v").
		WithArgs("g-1").
		WillReturnRows(rows)

	videos, err := repo.ListVideos(context.Background(), "g-1")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Sports day", videos[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
