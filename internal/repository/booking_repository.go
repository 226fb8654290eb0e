package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
)

const bookingColumns = `b.booking_id, b.customer_id, b.worker_id, b.category_id, b.slot_id,
	to_char(b.service_date, 'YYYY-MM-DD') AS service_date,
	to_char(b.service_time, 'HH24:MI') AS service_time,
	b.service_description, b.total_amount, b.status, b.created_at`

const bookingDetailColumns = bookingColumns + `,
	c.name AS customer_name, c.phone AS customer_phone,
	w.worker_name AS worker_name, sc.category_name AS category_name`

const bookingDetailJoins = `FROM booking b
	JOIN customer c ON b.customer_id = c.customer_id
	LEFT JOIN worker w ON b.worker_id = w.worker_id
	LEFT JOIN service_category sc ON b.category_id = sc.category_id`

// BookingRepository manages persistence for bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking request.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO booking (booking_id, customer_id, worker_id, category_id, slot_id,
			service_description, service_date, service_time, status, total_amount, created_at)
		VALUES (:booking_id, :customer_id, :worker_id, :category_id, :slot_id,
			:service_description, :service_date, :service_time, :status, :total_amount, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// FindByID fetches a booking by ID.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM booking b WHERE b.booking_id = $1`, bookingColumns)
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindPendingByID fetches a booking that is still awaiting assignment. Returns
// sql.ErrNoRows when the booking does not exist or is already assigned.
func (r *BookingRepository) FindPendingByID(ctx context.Context, id string) (*models.BookingDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE b.booking_id = $1 AND b.status = $2 AND b.worker_id IS NULL`,
		bookingDetailColumns, bookingDetailJoins)
	var detail models.BookingDetail
	if err := r.db.GetContext(ctx, &detail, query, id, models.BookingPending); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListForCustomer returns all bookings created by the customer, newest first.
func (r *BookingRepository) ListForCustomer(ctx context.Context, customerID string) ([]models.BookingDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE b.customer_id = $1 ORDER BY b.created_at DESC`,
		bookingDetailColumns, bookingDetailJoins)
	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, customerID); err != nil {
		return nil, fmt.Errorf("list customer bookings: %w", err)
	}
	return bookings, nil
}

// ListForWorker returns all bookings assigned to the worker, newest first.
func (r *BookingRepository) ListForWorker(ctx context.Context, workerID string) ([]models.BookingDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE b.worker_id = $1 ORDER BY b.service_date, b.service_time`,
		bookingDetailColumns, bookingDetailJoins)
	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, workerID); err != nil {
		return nil, fmt.Errorf("list worker bookings: %w", err)
	}
	return bookings, nil
}

// List returns bookings matching the filter along with the total count.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error) {
	base := bookingDetailJoins + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY b.created_at DESC LIMIT %d OFFSET %d",
		bookingDetailColumns, base, size, offset)
	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	return bookings, total, nil
}

// AssignParams carries everything the pending-to-confirmed transition needs.
type AssignParams struct {
	BookingID  string
	WorkerID   string
	CategoryID *string
	SlotID     *string
	Amount     float64
}

// Assign confirms a pending booking in a single transaction: the booking row
// is updated only while it is still pending and unassigned, and the matched
// availability slot (if any) is flipped to booked in the same transaction.
// A slot consumed by a concurrent assignment is dropped from the booking and
// params.SlotID is cleared to match. Returns sql.ErrNoRows when the booking
// itself was already taken.
func (r *BookingRepository) Assign(ctx context.Context, params *AssignParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assign: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const update = `UPDATE booking
		SET worker_id = $1, category_id = COALESCE($2, category_id), slot_id = $3,
			total_amount = $4, status = $5
		WHERE booking_id = $6 AND status = $7 AND worker_id IS NULL`
	result, err := tx.ExecContext(ctx, update,
		params.WorkerID, params.CategoryID, params.SlotID, params.Amount,
		models.BookingConfirmed, params.BookingID, models.BookingPending)
	if err != nil {
		return fmt.Errorf("assign booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign booking: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if params.SlotID != nil {
		const flip = `UPDATE availability SET status = $1 WHERE slot_id = $2 AND status = $3`
		flipResult, err := tx.ExecContext(ctx, flip, models.SlotBooked, *params.SlotID, models.SlotAvailable)
		if err != nil {
			return fmt.Errorf("mark slot booked: %w", err)
		}
		flipped, err := flipResult.RowsAffected()
		if err != nil {
			return fmt.Errorf("mark slot booked: %w", err)
		}
		if flipped == 0 {
			// The slot was consumed between matching and assignment; keep the
			// assignment but drop the stale slot reference.
			const clear = `UPDATE booking SET slot_id = NULL WHERE booking_id = $1`
			if _, err := tx.ExecContext(ctx, clear, params.BookingID); err != nil {
				return fmt.Errorf("clear stale slot: %w", err)
			}
			params.SlotID = nil
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assign: %w", err)
	}
	return nil
}

// UpdateStatus writes a new status guarded by the expected current status, so
// a concurrent close cannot be overwritten. Returns sql.ErrNoRows when the
// booking no longer matches.
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus) error {
	const query = `UPDATE booking SET status = $1 WHERE booking_id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, to, bookingID, from)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
