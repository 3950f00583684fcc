package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// AdRepository provides persistence for preroll and midroll ads.
type AdRepository struct {
	db *sqlx.DB
}

// NewAdRepository creates the repository.
func NewAdRepository(db *sqlx.DB) *AdRepository {
	return &AdRepository{db: db}
}

const prerollColumns = `id, name, video_url, link_url, cta_text, skip_after_seconds, priority,
is_active, valid_from, valid_to, school_id, sponsor_id, created_at, updated_at`

const midrollColumns = `id, name, video_url, link_url, cta_text, skip_after_seconds, trigger_type,
trigger_value, priority, is_active, valid_from, valid_to, school_id, sponsor_id, created_at, updated_at`

// Eligibility: active, scoped to the school or global, and inside the
// validity window. Both bounds are inclusive; an absent bound is unbounded.
const eligibleClause = `is_active = TRUE
AND (school_id IS NULL OR school_id = $1)
AND (valid_from IS NULL OR valid_from <= $2)
AND (valid_to IS NULL OR valid_to >= $2)`

// ListEligiblePrerolls returns all prerolls visible to a school at the
// given instant, in no particular order.
func (r *AdRepository) ListEligiblePrerolls(ctx context.Context, schoolID string, now time.Time) ([]models.PrerollAd, error) {
	query := fmt.Sprintf("SELECT %s FROM preroll_ads WHERE %s", prerollColumns, eligibleClause)
	var ads []models.PrerollAd
	if err := r.db.SelectContext(ctx, &ads, query, schoolID, now); err != nil {
		return nil, fmt.Errorf("list eligible prerolls: %w", err)
	}
	return ads, nil
}

// ListEligibleMidrolls returns all midrolls visible to a school at the
// given instant, ordered by priority then recency.
func (r *AdRepository) ListEligibleMidrolls(ctx context.Context, schoolID string, now time.Time) ([]models.MidrollAd, error) {
	query := fmt.Sprintf("SELECT %s FROM midroll_ads WHERE %s ORDER BY priority DESC, created_at DESC",
		midrollColumns, eligibleClause)
	var ads []models.MidrollAd
	if err := r.db.SelectContext(ctx, &ads, query, schoolID, now); err != nil {
		return nil, fmt.Errorf("list eligible midrolls: %w", err)
	}
	return ads, nil
}

// ListPrerolls returns every preroll ad for the admin console.
func (r *AdRepository) ListPrerolls(ctx context.Context) ([]models.PrerollAd, error) {
	query := fmt.Sprintf("SELECT %s FROM preroll_ads ORDER BY priority DESC, created_at DESC", prerollColumns)
	var ads []models.PrerollAd
	if err := r.db.SelectContext(ctx, &ads, query); err != nil {
		return nil, fmt.Errorf("list prerolls: %w", err)
	}
	return ads, nil
}

// GetPreroll returns a preroll ad by identifier.
func (r *AdRepository) GetPreroll(ctx context.Context, id string) (*models.PrerollAd, error) {
	query := fmt.Sprintf("SELECT %s FROM preroll_ads WHERE id = $1", prerollColumns)
	var ad models.PrerollAd
	if err := r.db.GetContext(ctx, &ad, query, id); err != nil {
		return nil, err
	}
	return &ad, nil
}

// CreatePreroll inserts a new preroll ad.
func (r *AdRepository) CreatePreroll(ctx context.Context, ad *models.PrerollAd) error {
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now
	query := `INSERT INTO preroll_ads (id, name, video_url, link_url, cta_text, skip_after_seconds, priority,
is_active, valid_from, valid_to, school_id, sponsor_id, created_at, updated_at)
VALUES (:id, :name, :video_url, :link_url, :cta_text, :skip_after_seconds, :priority,
:is_active, :valid_from, :valid_to, :school_id, :sponsor_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ad); err != nil {
		return fmt.Errorf("create preroll: %w", err)
	}
	return nil
}

// UpdatePreroll modifies an existing preroll ad.
func (r *AdRepository) UpdatePreroll(ctx context.Context, ad *models.PrerollAd) error {
	ad.UpdatedAt = time.Now().UTC()
	query := `UPDATE preroll_ads SET name = :name, video_url = :video_url, link_url = :link_url,
cta_text = :cta_text, skip_after_seconds = :skip_after_seconds, priority = :priority,
is_active = :is_active, valid_from = :valid_from, valid_to = :valid_to,
school_id = :school_id, sponsor_id = :sponsor_id, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, ad); err != nil {
		return fmt.Errorf("update preroll: %w", err)
	}
	return nil
}

// DeletePreroll removes a preroll ad.
func (r *AdRepository) DeletePreroll(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM preroll_ads WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete preroll: %w", err)
	}
	return nil
}

// ListMidrolls returns every midroll ad for the admin console.
func (r *AdRepository) ListMidrolls(ctx context.Context) ([]models.MidrollAd, error) {
	query := fmt.Sprintf("SELECT %s FROM midroll_ads ORDER BY priority DESC, created_at DESC", midrollColumns)
	var ads []models.MidrollAd
	if err := r.db.SelectContext(ctx, &ads, query); err != nil {
		return nil, fmt.Errorf("list midrolls: %w", err)
	}
	return ads, nil
}

// GetMidroll returns a midroll ad by identifier.
func (r *AdRepository) GetMidroll(ctx context.Context, id string) (*models.MidrollAd, error) {
	query := fmt.Sprintf("SELECT %s FROM midroll_ads WHERE id = $1", midrollColumns)
	var ad models.MidrollAd
	if err := r.db.GetContext(ctx, &ad, query, id); err != nil {
		return nil, err
	}
	return &ad, nil
}

// CreateMidroll inserts a new midroll ad.
func (r *AdRepository) CreateMidroll(ctx context.Context, ad *models.MidrollAd) error {
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now
	query := `INSERT INTO midroll_ads (id, name, video_url, link_url, cta_text, skip_after_seconds,
trigger_type, trigger_value, priority, is_active, valid_from, valid_to, school_id, sponsor_id, created_at, updated_at)
VALUES (:id, :name, :video_url, :link_url, :cta_text, :skip_after_seconds,
:trigger_type, :trigger_value, :priority, :is_active, :valid_from, :valid_to, :school_id, :sponsor_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ad); err != nil {
		return fmt.Errorf("create midroll: %w", err)
	}
	return nil
}

// UpdateMidroll modifies an existing midroll ad.
func (r *AdRepository) UpdateMidroll(ctx context.Context, ad *models.MidrollAd) error {
	ad.UpdatedAt = time.Now().UTC()
	query := `UPDATE midroll_ads SET name = :name, video_url = :video_url, link_url = :link_url,
cta_text = :cta_text, skip_after_seconds = :skip_after_seconds, trigger_type = :trigger_type,
trigger_value = :trigger_value, priority = :priority, is_active = :is_active,
valid_from = :valid_from, valid_to = :valid_to, school_id = :school_id, sponsor_id = :sponsor_id,
updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, ad); err != nil {
		return fmt.Errorf("update midroll: %w", err)
	}
	return nil
}

// DeleteMidroll removes a midroll ad.
func (r *AdRepository) DeleteMidroll(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM midroll_ads WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete midroll: %w", err)
	}
	return nil
}
