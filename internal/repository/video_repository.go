package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// VideoRepository provides persistence for videos.
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository creates the repository.
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoColumns = `id, school_id, class_id, title, description, storage_key, thumbnail_key,
duration_seconds, published_at, created_at, updated_at`

// List returns videos matching the filter with a total count.
func (r *VideoRepository) List(ctx context.Context, filter models.VideoFilter) ([]models.Video, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.SchoolID != "" {
		where += fmt.Sprintf(" AND school_id = $%d", len(args)+1)
		args = append(args, filter.SchoolID)
	}
	if filter.ClassID != "" {
		where += fmt.Sprintf(" AND (class_id IS NULL OR class_id = $%d)", len(args)+1)
		args = append(args, filter.ClassID)
	}
	if filter.PublishedOnly {
		where += " AND published_at IS NOT NULL AND published_at <= NOW()"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	query := fmt.Sprintf("SELECT %s FROM videos %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		videoColumns, where, size, (page-1)*size)
	var videos []models.Video
	if err := r.db.SelectContext(ctx, &videos, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM videos %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}
	return videos, total, nil
}

// GetByID returns a video by identifier.
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := fmt.Sprintf("SELECT %s FROM videos WHERE id = $1", videoColumns)
	var video models.Video
	if err := r.db.GetContext(ctx, &video, query, id); err != nil {
		return nil, err
	}
	return &video, nil
}

// Create inserts a new video.
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now
	query := `INSERT INTO videos (id, school_id, class_id, title, description, storage_key, thumbnail_key,
duration_seconds, published_at, created_at, updated_at)
VALUES (:id, :school_id, :class_id, :title, :description, :storage_key, :thumbnail_key,
:duration_seconds, :published_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, video); err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

// Update modifies an existing video.
func (r *VideoRepository) Update(ctx context.Context, video *models.Video) error {
	video.UpdatedAt = time.Now().UTC()
	query := `UPDATE videos SET title = :title, description = :description, class_id = :class_id,
thumbnail_key = :thumbnail_key, duration_seconds = :duration_seconds, published_at = :published_at,
updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, video); err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return nil
}

// DeleteWithDependents removes the video and every dependent record
// (views, reactions, face tags, favorites) in one transaction so a failure
// cannot leave a partially deleted video behind.
func (r *VideoRepository) DeleteWithDependents(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete video: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	steps := []string{
		"DELETE FROM video_views WHERE video_id = $1",
		"DELETE FROM reaction_logs WHERE video_id = $1",
		"DELETE FROM video_face_tags WHERE video_id = $1",
		"DELETE FROM favorites WHERE video_id = $1",
		"DELETE FROM videos WHERE id = $1",
	}
	for _, stmt := range steps {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete video dependents: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete video: %w", err)
	}
	return nil
}
