package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// FavoriteRepository provides persistence for video favorites.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository creates the repository.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Toggle flips the favorite state for (guardian, video) in one
// transaction. Returns the resulting state: true when the row now exists.
// The unique constraint on (guardian_id, video_id) absorbs concurrent
// toggles.
func (r *FavoriteRepository) Toggle(ctx context.Context, guardianID, videoID string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle favorite: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, "DELETE FROM favorites WHERE guardian_id = $1 AND video_id = $2", guardianID, videoID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete favorite result: %w", err)
	}

	favorited := false
	if deleted == 0 {
		const insert = `INSERT INTO favorites (id, guardian_id, video_id, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (guardian_id, video_id) DO NOTHING`
		if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), guardianID, videoID, time.Now().UTC()); err != nil {
			return false, fmt.Errorf("insert favorite: %w", err)
		}
		favorited = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle favorite: %w", err)
	}
	return favorited, nil
}

// ListVideos returns the guardian's favorited videos, newest first.
func (r *FavoriteRepository) ListVideos(ctx context.Context, guardianID string) ([]models.Video, error) {
	const query = `SELECT v.id, v.school_id, v.class_id, v.title, v.description, v.storage_key,
v.thumbnail_key, v.duration_seconds, v.published_at, v.created_at, v.updated_at
FROM favorites f JOIN videos v ON v.id = f.video_id
WHERE f.guardian_id = $1
ORDER BY f.created_at DESC`
	var videos []models.Video
	if err := r.db.SelectContext(ctx, &videos, query, guardianID); err != nil {
		return nil, fmt.Errorf("list favorite videos: %w", err)
	}
	return videos, nil
}
