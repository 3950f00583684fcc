package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// StampRepository provides persistence for the yearly stamp ledger.
type StampRepository struct {
	db *sqlx.DB
}

// NewStampRepository creates the repository.
func NewStampRepository(db *sqlx.DB) *StampRepository {
	return &StampRepository{db: db}
}

// RecordLogin ensures a card exists for (guardian, year) and appends at
// most one stamp for the calendar day of now. The unique index on
// (card_id, stamp_date) makes the operation idempotent per day even under
// concurrent logins; everything runs in one transaction.
func (r *StampRepository) RecordLogin(ctx context.Context, guardianID string, now time.Time) (bool, []models.Stamp, error) {
	now = now.UTC()
	year := now.Year()
	day := now.Truncate(24 * time.Hour)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, nil, fmt.Errorf("begin record login: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	cardID := uuid.NewString()
	const upsertCard = `INSERT INTO stamp_cards (id, guardian_id, year, last_stamped_at)
VALUES ($1, $2, $3, 'epoch'::timestamptz)
ON CONFLICT (guardian_id, year) DO UPDATE SET guardian_id = EXCLUDED.guardian_id
RETURNING id`
	if err := tx.GetContext(ctx, &cardID, upsertCard, cardID, guardianID, year); err != nil {
		return false, nil, fmt.Errorf("upsert stamp card: %w", err)
	}

	const insertStamp = `INSERT INTO stamps (id, card_id, stamp_date, stamp_type)
VALUES ($1, $2, $3, $4)
ON CONFLICT (card_id, stamp_date) DO NOTHING`
	res, err := tx.ExecContext(ctx, insertStamp, uuid.NewString(), cardID, day, models.StampTypeLogin)
	if err != nil {
		return false, nil, fmt.Errorf("insert stamp: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, nil, fmt.Errorf("insert stamp result: %w", err)
	}
	isNew := affected > 0

	if isNew {
		if _, err := tx.ExecContext(ctx, "UPDATE stamp_cards SET last_stamped_at = $1 WHERE id = $2", now, cardID); err != nil {
			return false, nil, fmt.Errorf("update last stamped: %w", err)
		}
	}

	const listStamps = `SELECT id, card_id, stamp_date, stamp_type FROM stamps
WHERE card_id = $1 ORDER BY stamp_date`
	var stamps []models.Stamp
	if err := tx.SelectContext(ctx, &stamps, listStamps, cardID); err != nil {
		return false, nil, fmt.Errorf("list stamps: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, nil, fmt.Errorf("commit record login: %w", err)
	}
	return isNew, stamps, nil
}

// ListForYear returns the stamps on a guardian's card for the given year.
func (r *StampRepository) ListForYear(ctx context.Context, guardianID string, year int) ([]models.Stamp, error) {
	const query = `SELECT s.id, s.card_id, s.stamp_date, s.stamp_type
FROM stamps s JOIN stamp_cards c ON c.id = s.card_id
WHERE c.guardian_id = $1 AND c.year = $2
ORDER BY s.stamp_date`
	var stamps []models.Stamp
	if err := r.db.SelectContext(ctx, &stamps, query, guardianID, year); err != nil {
		return nil, fmt.Errorf("list stamps for year: %w", err)
	}
	return stamps, nil
}
