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

// FeedbackRepository manages feedback rows and the derived worker rating.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// ExistsForBooking checks whether feedback was already left on the booking.
func (r *FeedbackRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	const query = `SELECT 1 FROM feedback WHERE booking_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, bookingID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check feedback: %w", err)
	}
	return true, nil
}

// Create inserts the feedback row and refreshes the worker's aggregate rating
// in the same transaction.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback, workerID string) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin feedback: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insert = `INSERT INTO feedback (feedback_id, booking_id, rating, comments, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, insert,
		feedback.ID, feedback.BookingID, feedback.Rating, feedback.Comments, feedback.CreatedAt); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}

	const refresh = `UPDATE worker SET rating = (
			SELECT COALESCE(AVG(f.rating), 0)
			FROM feedback f
			JOIN booking b ON f.booking_id = b.booking_id
			WHERE b.worker_id = $1
		) WHERE worker_id = $1`
	if _, err := tx.ExecContext(ctx, refresh, workerID); err != nil {
		return fmt.Errorf("refresh worker rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit feedback: %w", err)
	}
	return nil
}
