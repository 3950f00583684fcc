package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// SchoolRepository provides persistence for schools and classes.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository creates the repository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

const schoolColumns = "id, name, slug, pop_display_mode, created_at, updated_at"

// GetBySlug returns the school with the given slug.
func (r *SchoolRepository) GetBySlug(ctx context.Context, slug string) (*models.School, error) {
	query := fmt.Sprintf("SELECT %s FROM schools WHERE slug = $1 LIMIT 1", schoolColumns)
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, slug); err != nil {
		return nil, err
	}
	return &school, nil
}

// GetByID returns a school by identifier.
func (r *SchoolRepository) GetByID(ctx context.Context, id string) (*models.School, error) {
	query := fmt.Sprintf("SELECT %s FROM schools WHERE id = $1", schoolColumns)
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		return nil, err
	}
	return &school, nil
}

// List returns schools matching the filter with a total count.
func (r *SchoolRepository) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR slug ILIKE $%d)", len(args)+1, len(args)+1)
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

	query := fmt.Sprintf("SELECT %s FROM schools %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		schoolColumns, where, size, (page-1)*size)
	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schools: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM schools %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schools: %w", err)
	}
	return schools, total, nil
}

// SlugExists reports whether a slug is already taken.
func (r *SchoolRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM schools WHERE slug = $1)", slug); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new school.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if school.CreatedAt.IsZero() {
		school.CreatedAt = now
	}
	school.UpdatedAt = now
	query := `INSERT INTO schools (id, name, slug, pop_display_mode, created_at, updated_at)
VALUES (:id, :name, :slug, :pop_display_mode, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}

// Update modifies an existing school.
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	school.UpdatedAt = time.Now().UTC()
	query := `UPDATE schools SET name = :name, pop_display_mode = :pop_display_mode, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	return nil
}

// Delete removes a school.
func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM schools WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	return nil
}
