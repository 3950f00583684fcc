package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// SponsorRepository provides persistence for sponsors and their events.
type SponsorRepository struct {
	db *sqlx.DB
}

// NewSponsorRepository creates the repository.
func NewSponsorRepository(db *sqlx.DB) *SponsorRepository {
	return &SponsorRepository{db: db}
}

const sponsorColumns = "id, name, image_url, link_url, priority, is_active, valid_from, valid_to, school_id, created_at, updated_at"

// ListActiveForSchool returns active sponsors visible to a school (school
// or global scope), highest priority first. The banner path intentionally
// does not filter on the validity window.
func (r *SponsorRepository) ListActiveForSchool(ctx context.Context, schoolID string) ([]models.Sponsor, error) {
	query := fmt.Sprintf(`SELECT %s FROM sponsors
WHERE is_active = TRUE AND (school_id IS NULL OR school_id = $1)
ORDER BY priority DESC`, sponsorColumns)
	var sponsors []models.Sponsor
	if err := r.db.SelectContext(ctx, &sponsors, query, schoolID); err != nil {
		return nil, fmt.Errorf("list active sponsors: %w", err)
	}
	return sponsors, nil
}

// List returns every sponsor for the admin console.
func (r *SponsorRepository) List(ctx context.Context) ([]models.Sponsor, error) {
	query := fmt.Sprintf("SELECT %s FROM sponsors ORDER BY priority DESC, created_at DESC", sponsorColumns)
	var sponsors []models.Sponsor
	if err := r.db.SelectContext(ctx, &sponsors, query); err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	return sponsors, nil
}

// GetByID returns a sponsor by identifier.
func (r *SponsorRepository) GetByID(ctx context.Context, id string) (*models.Sponsor, error) {
	query := fmt.Sprintf("SELECT %s FROM sponsors WHERE id = $1", sponsorColumns)
	var sponsor models.Sponsor
	if err := r.db.GetContext(ctx, &sponsor, query, id); err != nil {
		return nil, err
	}
	return &sponsor, nil
}

// Create inserts a new sponsor.
func (r *SponsorRepository) Create(ctx context.Context, sponsor *models.Sponsor) error {
	if sponsor.ID == "" {
		sponsor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sponsor.CreatedAt.IsZero() {
		sponsor.CreatedAt = now
	}
	sponsor.UpdatedAt = now
	query := `INSERT INTO sponsors (id, name, image_url, link_url, priority, is_active, valid_from, valid_to, school_id, created_at, updated_at)
VALUES (:id, :name, :image_url, :link_url, :priority, :is_active, :valid_from, :valid_to, :school_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sponsor); err != nil {
		return fmt.Errorf("create sponsor: %w", err)
	}
	return nil
}

// Update modifies an existing sponsor.
func (r *SponsorRepository) Update(ctx context.Context, sponsor *models.Sponsor) error {
	sponsor.UpdatedAt = time.Now().UTC()
	query := `UPDATE sponsors SET name = :name, image_url = :image_url, link_url = :link_url,
priority = :priority, is_active = :is_active, valid_from = :valid_from, valid_to = :valid_to,
school_id = :school_id, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, sponsor); err != nil {
		return fmt.Errorf("update sponsor: %w", err)
	}
	return nil
}

// Delete removes a sponsor. Ads referencing it keep their sponsor_id.
func (r *SponsorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sponsors WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete sponsor: %w", err)
	}
	return nil
}

// InsertEvent appends a sponsor interaction record.
func (r *SponsorRepository) InsertEvent(ctx context.Context, event *models.SponsorEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO sponsor_events (id, sponsor_id, event_type, school_id, created_at)
VALUES (:id, :sponsor_id, :event_type, :school_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert sponsor event: %w", err)
	}
	return nil
}

// PerformanceReport aggregates tracked events per sponsor over a date range.
func (r *SponsorRepository) PerformanceReport(ctx context.Context, from, to time.Time) ([]models.SponsorPerformance, error) {
	const query = `SELECT s.id AS sponsor_id, s.name AS sponsor_name,
COUNT(*) FILTER (WHERE e.event_type = 'impression') AS impressions,
COUNT(*) FILTER (WHERE e.event_type = 'click') AS clicks,
COUNT(*) FILTER (WHERE e.event_type = 'support') AS supports
FROM sponsors s
LEFT JOIN sponsor_events e ON e.sponsor_id = s.id AND e.created_at >= $1 AND e.created_at < $2
GROUP BY s.id, s.name
ORDER BY impressions DESC`
	var rows []models.SponsorPerformance
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("sponsor performance report: %w", err)
	}
	return rows, nil
}
