package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
)

// CategoryRepository reads service categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs a CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.ServiceCategory, error) {
	const query = `SELECT category_id, category_name FROM service_category ORDER BY category_name`
	var categories []models.ServiceCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindByID fetches one category.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.ServiceCategory, error) {
	const query = `SELECT category_id, category_name FROM service_category WHERE category_id = $1`
	var category models.ServiceCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}
