package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
)

// UserRepository manages the per-role account tables. Each role maps to a
// fixed table through a dedicated method; table and column names never come
// from caller input.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindAdminByEmail fetches an admin account by email.
func (r *UserRepository) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const query = `SELECT admin_id, name, email, password, created_at FROM admin WHERE LOWER(email) = LOWER($1)`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindCustomerByEmail fetches a customer account by email.
func (r *UserRepository) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	const query = `SELECT customer_id, name, email, phone, password, street, city, pincode, created_at
		FROM customer WHERE LOWER(email) = LOWER($1)`
	var customer models.Customer
	if err := r.db.GetContext(ctx, &customer, query, email); err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindWorkerByEmail fetches a worker account by email.
func (r *UserRepository) FindWorkerByEmail(ctx context.Context, email string) (*models.Worker, error) {
	const query = `SELECT worker_id, worker_name, email, phone_no, password, skill_type, experience_years,
		category_id, rating, availability_status, street, city, pincode, created_at
		FROM worker WHERE LOWER(email) = LOWER($1)`
	var worker models.Worker
	if err := r.db.GetContext(ctx, &worker, query, email); err != nil {
		return nil, err
	}
	return &worker, nil
}

// CustomerEmailExists checks whether a customer already uses the email.
func (r *UserRepository) CustomerEmailExists(ctx context.Context, email string) (bool, error) {
	return r.emailExists(ctx, `SELECT 1 FROM customer WHERE LOWER(email) = LOWER($1) LIMIT 1`, email)
}

// WorkerEmailExists checks whether a worker already uses the email.
func (r *UserRepository) WorkerEmailExists(ctx context.Context, email string) (bool, error) {
	return r.emailExists(ctx, `SELECT 1 FROM worker WHERE LOWER(email) = LOWER($1) LIMIT 1`, email)
}

func (r *UserRepository) emailExists(ctx context.Context, query, email string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// CreateCustomer inserts a new customer account.
func (r *UserRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO customer (customer_id, name, email, phone, password, street, city, pincode, created_at)
		VALUES (:customer_id, :name, :email, :phone, :password, :street, :city, :pincode, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, customer); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// CreateWorker inserts a new worker account.
func (r *UserRepository) CreateWorker(ctx context.Context, worker *models.Worker) error {
	if worker.ID == "" {
		worker.ID = uuid.NewString()
	}
	if worker.CreatedAt.IsZero() {
		worker.CreatedAt = time.Now().UTC()
	}
	if worker.AvailabilityStatus == "" {
		worker.AvailabilityStatus = string(models.StateAvailable)
	}
	const query = `INSERT INTO worker (worker_id, worker_name, email, phone_no, password, skill_type, experience_years,
			category_id, rating, availability_status, street, city, pincode, created_at)
		VALUES (:worker_id, :worker_name, :email, :phone_no, :password, :skill_type, :experience_years,
			:category_id, :rating, :availability_status, :street, :city, :pincode, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, worker); err != nil {
		return fmt.Errorf("create worker: %w", err)
	}
	return nil
}
