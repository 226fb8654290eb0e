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

// PaymentRepository manages payment rows with upsert semantics.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// FindByBooking fetches the payment for a booking.
func (r *PaymentRepository) FindByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	const query = `SELECT payment_id, booking_id, payment_method, amount, status, transaction_id, created_at, updated_at
		FROM payment WHERE booking_id = $1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, bookingID); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Upsert inserts the payment when the booking has none, otherwise updates the
// existing row. Both paths run inside one transaction and always write
// completed status.
func (r *PaymentRepository) Upsert(ctx context.Context, payment *models.Payment) error {
	now := time.Now().UTC()
	payment.Status = models.PaymentCompleted
	payment.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	err = tx.GetContext(ctx, &existingID, `SELECT payment_id FROM payment WHERE booking_id = $1`, payment.BookingID)
	switch {
	case err == sql.ErrNoRows:
		if payment.ID == "" {
			payment.ID = uuid.NewString()
		}
		payment.CreatedAt = now
		const insert = `INSERT INTO payment (payment_id, booking_id, payment_method, amount, status, transaction_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.ExecContext(ctx, insert,
			payment.ID, payment.BookingID, payment.Method, payment.Amount,
			payment.Status, payment.TransactionID, payment.CreatedAt, payment.UpdatedAt); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
	case err != nil:
		return fmt.Errorf("find payment: %w", err)
	default:
		payment.ID = existingID
		const update = `UPDATE payment SET payment_method = $1, amount = $2, status = $3, transaction_id = $4, updated_at = $5
			WHERE payment_id = $6`
		if _, err := tx.ExecContext(ctx, update,
			payment.Method, payment.Amount, payment.Status, payment.TransactionID, payment.UpdatedAt, payment.ID); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment: %w", err)
	}
	return nil
}
