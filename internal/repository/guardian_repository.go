package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// GuardianRepository provides persistence for guardians and children.
type GuardianRepository struct {
	db *sqlx.DB
}

// NewGuardianRepository creates the repository.
func NewGuardianRepository(db *sqlx.DB) *GuardianRepository {
	return &GuardianRepository{db: db}
}

const guardianColumns = "id, school_id, email, password_hash, display_name, created_at, updated_at"

// FindByEmail returns the guardian with the given email.
func (r *GuardianRepository) FindByEmail(ctx context.Context, email string) (*models.Guardian, error) {
	query := fmt.Sprintf("SELECT %s FROM guardians WHERE email = $1 LIMIT 1", guardianColumns)
	var guardian models.Guardian
	if err := r.db.GetContext(ctx, &guardian, query, email); err != nil {
		return nil, err
	}
	return &guardian, nil
}

// GetByID returns a guardian by identifier.
func (r *GuardianRepository) GetByID(ctx context.Context, id string) (*models.Guardian, error) {
	query := fmt.Sprintf("SELECT %s FROM guardians WHERE id = $1", guardianColumns)
	var guardian models.Guardian
	if err := r.db.GetContext(ctx, &guardian, query, id); err != nil {
		return nil, err
	}
	return &guardian, nil
}

// List returns guardians matching the filter with a total count.
func (r *GuardianRepository) List(ctx context.Context, filter models.GuardianFilter) ([]models.Guardian, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.SchoolID != "" {
		where += fmt.Sprintf(" AND school_id = $%d", len(args)+1)
		args = append(args, filter.SchoolID)
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (email ILIKE $%d OR display_name ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	query := fmt.Sprintf("SELECT %s FROM guardians %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		guardianColumns, where, size, (page-1)*size)
	var guardians []models.Guardian
	if err := r.db.SelectContext(ctx, &guardians, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list guardians: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM guardians %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count guardians: %w", err)
	}
	return guardians, total, nil
}

// Create inserts a new guardian.
func (r *GuardianRepository) Create(ctx context.Context, guardian *models.Guardian) error {
	if guardian.ID == "" {
		guardian.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if guardian.CreatedAt.IsZero() {
		guardian.CreatedAt = now
	}
	guardian.UpdatedAt = now
	query := `INSERT INTO guardians (id, school_id, email, password_hash, display_name, created_at, updated_at)
VALUES (:id, :school_id, :email, :password_hash, :display_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, guardian); err != nil {
		return fmt.Errorf("create guardian: %w", err)
	}
	return nil
}

// Update modifies an existing guardian.
func (r *GuardianRepository) Update(ctx context.Context, guardian *models.Guardian) error {
	guardian.UpdatedAt = time.Now().UTC()
	query := `UPDATE guardians SET email = :email, password_hash = :password_hash, display_name = :display_name, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, guardian); err != nil {
		return fmt.Errorf("update guardian: %w", err)
	}
	return nil
}

// Delete removes a guardian.
func (r *GuardianRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM guardians WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete guardian: %w", err)
	}
	return nil
}

// ListChildren returns the children linked to a guardian.
func (r *GuardianRepository) ListChildren(ctx context.Context, guardianID string) ([]models.Child, error) {
	const query = `SELECT id, school_id, class_id, guardian_id, name, birthday, created_at
FROM children WHERE guardian_id = $1 ORDER BY name`
	var children []models.Child
	if err := r.db.SelectContext(ctx, &children, query, guardianID); err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return children, nil
}

// CreateChild inserts a child record.
func (r *GuardianRepository) CreateChild(ctx context.Context, child *models.Child) error {
	if child.ID == "" {
		child.ID = uuid.NewString()
	}
	if child.CreatedAt.IsZero() {
		child.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO children (id, school_id, class_id, guardian_id, name, birthday, created_at)
VALUES (:id, :school_id, :class_id, :guardian_id, :name, :birthday, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, child); err != nil {
		return fmt.Errorf("create child: %w", err)
	}
	return nil
}

// DeleteChild removes a child record.
func (r *GuardianRepository) DeleteChild(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM children WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	return nil
}
