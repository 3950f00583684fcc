package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

// ClassRepository provides persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = "id, school_id, name, class_code, created_at"

// ListBySchool returns all classes for a school.
func (r *ClassRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE school_id = $1 ORDER BY name", classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, schoolID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// GetByID returns a class by identifier.
func (r *ClassRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindByCode returns the class in a school matching the shared class code.
func (r *ClassRepository) FindByCode(ctx context.Context, schoolID, code string) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE school_id = $1 AND class_code = $2 LIMIT 1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, schoolID, code); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO classes (id, school_id, name, class_code, created_at)
VALUES (:id, :school_id, :name, :class_code, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies a class name or code.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	query := `UPDATE classes SET name = :name, class_code = :class_code WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM classes WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
