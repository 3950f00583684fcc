package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// TrackingRepository appends immutable telemetry rows. No update or delete
// path exists for these tables.
type TrackingRepository struct {
	db *sqlx.DB
}

// NewTrackingRepository creates the repository.
func NewTrackingRepository(db *sqlx.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// InsertView appends a playback record.
func (r *TrackingRepository) InsertView(ctx context.Context, view *models.VideoView) error {
	if view.ID == "" {
		view.ID = uuid.NewString()
	}
	if view.CreatedAt.IsZero() {
		view.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO video_views (id, video_id, guardian_id, watched_seconds, created_at)
VALUES (:id, :video_id, :guardian_id, :watched_seconds, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, view); err != nil {
		return fmt.Errorf("insert video view: %w", err)
	}
	return nil
}

// InsertReaction appends a reaction record.
func (r *TrackingRepository) InsertReaction(ctx context.Context, reaction *models.ReactionLog) error {
	if reaction.ID == "" {
		reaction.ID = uuid.NewString()
	}
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO reaction_logs (id, video_id, guardian_id, reaction_type, created_at)
VALUES (:id, :video_id, :guardian_id, :reaction_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reaction); err != nil {
		return fmt.Errorf("insert reaction: %w", err)
	}
	return nil
}

// InsertEvent appends a free-form analytics event.
func (r *TrackingRepository) InsertEvent(ctx context.Context, event *models.AnalyticsEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO analytics_events (id, event_type, payload, school_id, created_at)
VALUES (:id, :event_type, :payload, :school_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

// SummaryBySchool aggregates engagement per school over a date range.
func (r *TrackingRepository) SummaryBySchool(ctx context.Context, from, to time.Time) ([]models.AnalyticsSummary, error) {
	const query = `SELECT sc.id AS school_id, sc.name AS school_name,
(SELECT COUNT(*) FROM video_views vv JOIN videos v ON v.id = vv.video_id
 WHERE v.school_id = sc.id AND vv.created_at >= $1 AND vv.created_at < $2) AS view_count,
(SELECT COUNT(*) FROM reaction_logs rl JOIN videos v ON v.id = rl.video_id
 WHERE v.school_id = sc.id AND rl.created_at >= $1 AND rl.created_at < $2) AS reaction_count,
(SELECT COUNT(*) FROM sponsor_events se
 WHERE se.school_id = sc.id AND se.created_at >= $1 AND se.created_at < $2) AS sponsor_events
FROM schools sc
ORDER BY sc.name`
	var rows []models.AnalyticsSummary
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("analytics summary: %w", err)
	}
	return rows, nil
}
