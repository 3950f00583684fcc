package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// FaceTagRepository provides persistence for the face-tag review queue.
type FaceTagRepository struct {
	db *sqlx.DB
}

// NewFaceTagRepository creates the repository.
func NewFaceTagRepository(db *sqlx.DB) *FaceTagRepository {
	return &FaceTagRepository{db: db}
}

const faceTagColumns = "id, video_id, child_id, confidence, status, reviewed_by, reviewed_at, created_at"

// ListPending returns tags awaiting review, oldest first.
func (r *FaceTagRepository) ListPending(ctx context.Context, limit int) ([]models.VideoFaceTag, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM video_face_tags WHERE status = 'PENDING' ORDER BY created_at LIMIT %d",
		faceTagColumns, limit)
	var tags []models.VideoFaceTag
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list pending face tags: %w", err)
	}
	return tags, nil
}

// GetByID returns a face tag by identifier.
func (r *FaceTagRepository) GetByID(ctx context.Context, id string) (*models.VideoFaceTag, error) {
	query := fmt.Sprintf("SELECT %s FROM video_face_tags WHERE id = $1", faceTagColumns)
	var tag models.VideoFaceTag
	if err := r.db.GetContext(ctx, &tag, query, id); err != nil {
		return nil, err
	}
	return &tag, nil
}

// Insert stores a newly detected tag in PENDING state.
func (r *FaceTagRepository) Insert(ctx context.Context, tag *models.VideoFaceTag) error {
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now().UTC()
	}
	if tag.Status == "" {
		tag.Status = models.FaceTagPending
	}
	query := `INSERT INTO video_face_tags (id, video_id, child_id, confidence, status, created_at)
VALUES (:id, :video_id, :child_id, :confidence, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tag); err != nil {
		return fmt.Errorf("insert face tag: %w", err)
	}
	return nil
}

// Review transitions a PENDING tag to the given status. Returns the number
// of rows updated so the caller can detect an already-reviewed tag.
func (r *FaceTagRepository) Review(ctx context.Context, id string, status models.FaceTagStatus, reviewer string, ts time.Time) (int64, error) {
	const query = `UPDATE video_face_tags SET status = $1, reviewed_by = $2, reviewed_at = $3
WHERE id = $4 AND status = 'PENDING'`
	res, err := r.db.ExecContext(ctx, query, status, reviewer, ts, id)
	if err != nil {
		return 0, fmt.Errorf("review face tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("review face tag result: %w", err)
	}
	return affected, nil
}

// ListVideoIDsForSchool returns the video IDs to analyze for a school.
func (r *FaceTagRepository) ListVideoIDsForSchool(ctx context.Context, schoolID string) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, "SELECT id FROM videos WHERE school_id = $1", schoolID); err != nil {
		return nil, fmt.Errorf("list video ids: %w", err)
	}
	return ids, nil
}
