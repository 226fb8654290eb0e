package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
)

const workerColumns = `w.worker_id, w.worker_name, w.email, w.phone_no, w.skill_type, w.experience_years,
	w.category_id, sc.category_name AS category_name, w.rating, w.availability_status,
	w.street, w.city, w.pincode, w.created_at`

// WorkerRepository manages persistence for workers.
type WorkerRepository struct {
	db *sqlx.DB
}

// NewWorkerRepository constructs a WorkerRepository.
func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// FindByID fetches a worker by ID.
func (r *WorkerRepository) FindByID(ctx context.Context, id string) (*models.Worker, error) {
	query := fmt.Sprintf(`SELECT %s FROM worker w
		LEFT JOIN service_category sc ON w.category_id = sc.category_id
		WHERE w.worker_id = $1`, workerColumns)
	var worker models.Worker
	if err := r.db.GetContext(ctx, &worker, query, id); err != nil {
		return nil, err
	}
	return &worker, nil
}

// ListByCategory returns workers in a category. A nil category means every
// worker regardless of category.
func (r *WorkerRepository) ListByCategory(ctx context.Context, categoryID *string) ([]models.Worker, error) {
	query := fmt.Sprintf(`SELECT %s FROM worker w
		LEFT JOIN service_category sc ON w.category_id = sc.category_id
		WHERE ($1::uuid IS NULL OR w.category_id = $1)
		ORDER BY w.worker_name`, workerColumns)
	var workers []models.Worker
	if err := r.db.SelectContext(ctx, &workers, query, categoryID); err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return workers, nil
}
