package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// DeviceTokenRepository provides persistence for push registrations.
type DeviceTokenRepository struct {
	db *sqlx.DB
}

// NewDeviceTokenRepository creates the repository.
func NewDeviceTokenRepository(db *sqlx.DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

// Upsert registers a device token, refreshing last_seen_at and ownership
// when the token already exists.
func (r *DeviceTokenRepository) Upsert(ctx context.Context, token *models.DeviceToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now
	}
	token.LastSeenAt = now
	const query = `INSERT INTO device_tokens (id, guardian_id, token, platform, created_at, last_seen_at)
VALUES (:id, :guardian_id, :token, :platform, :created_at, :last_seen_at)
ON CONFLICT (token) DO UPDATE SET guardian_id = EXCLUDED.guardian_id, platform = EXCLUDED.platform,
last_seen_at = EXCLUDED.last_seen_at`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("upsert device token: %w", err)
	}
	return nil
}

// ListByGuardians returns tokens for a set of guardians.
func (r *DeviceTokenRepository) ListByGuardians(ctx context.Context, guardianIDs []string) ([]models.DeviceToken, error) {
	const query = `SELECT id, guardian_id, token, platform, created_at, last_seen_at
FROM device_tokens WHERE guardian_id = ANY($1)`
	var tokens []models.DeviceToken
	if err := r.db.SelectContext(ctx, &tokens, query, pq.Array(guardianIDs)); err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	return tokens, nil
}

// ListForSchool returns tokens for every guardian of a school, used when a
// new video is published.
func (r *DeviceTokenRepository) ListForSchool(ctx context.Context, schoolID string) ([]models.DeviceToken, error) {
	const query = `SELECT dt.id, dt.guardian_id, dt.token, dt.platform, dt.created_at, dt.last_seen_at
FROM device_tokens dt JOIN guardians g ON g.id = dt.guardian_id
WHERE g.school_id = $1`
	var tokens []models.DeviceToken
	if err := r.db.SelectContext(ctx, &tokens, query, schoolID); err != nil {
		return nil, fmt.Errorf("list school device tokens: %w", err)
	}
	return tokens, nil
}

// Delete removes a token, e.g. when the push provider reports it dead.
func (r *DeviceTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM device_tokens WHERE token = $1", token); err != nil {
		return fmt.Errorf("delete device token: %w", err)
	}
	return nil
}
