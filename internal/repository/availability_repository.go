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

const slotColumns = `a.slot_id, a.worker_id,
	to_char(a.available_date, 'YYYY-MM-DD') AS available_date,
	to_char(a.available_time, 'HH24:MI') AS available_time,
	a.status, a.created_at`

const defaultColumns = `d.default_id, d.worker_id, d.day_of_week,
	to_char(d.start_time, 'HH24:MI') AS start_time,
	to_char(d.end_time, 'HH24:MI') AS end_time`

const overrideColumns = `u.unavailability_id, u.worker_id,
	to_char(u.unavailable_date, 'YYYY-MM-DD') AS unavailable_date,
	to_char(u.unavailable_start_time, 'HH24:MI') AS unavailable_start_time,
	to_char(u.unavailable_end_time, 'HH24:MI') AS unavailable_end_time,
	u.reason`

// AvailabilityRepository manages explicit slots, the default weekly schedule
// and unavailability overrides.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// FindSlotAt fetches the explicit slot for (worker, date, time), any status.
func (r *AvailabilityRepository) FindSlotAt(ctx context.Context, workerID, date, at string) (*models.Slot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability a
		WHERE a.worker_id = $1 AND a.available_date = $2 AND a.available_time = $3`, slotColumns)
	var slot models.Slot
	if err := r.db.GetContext(ctx, &slot, query, workerID, date, at); err != nil {
		return nil, err
	}
	return &slot, nil
}

// SlotExists checks for a duplicate (worker, date, time) slot.
func (r *AvailabilityRepository) SlotExists(ctx context.Context, workerID, date, at string) (bool, error) {
	const query = `SELECT 1 FROM availability
		WHERE worker_id = $1 AND available_date = $2 AND available_time = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, workerID, date, at); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check slot: %w", err)
	}
	return true, nil
}

// CreateSlot inserts a new availability slot in available status.
func (r *AvailabilityRepository) CreateSlot(ctx context.Context, slot *models.Slot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	slot.Status = models.SlotAvailable
	const query = `INSERT INTO availability (slot_id, worker_id, available_date, available_time, status, created_at)
		VALUES (:slot_id, :worker_id, :available_date, :available_time, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

// DeleteSlot removes an owned slot while it is still available. Returns
// sql.ErrNoRows when nothing matched.
func (r *AvailabilityRepository) DeleteSlot(ctx context.Context, slotID, workerID string) error {
	const query = `DELETE FROM availability WHERE slot_id = $1 AND worker_id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, slotID, workerID, models.SlotAvailable)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListSlotsForWorker returns all of a worker's slots in date/time order.
func (r *AvailabilityRepository) ListSlotsForWorker(ctx context.Context, workerID string) ([]models.Slot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability a
		WHERE a.worker_id = $1 ORDER BY a.available_date, a.available_time`, slotColumns)
	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, query, workerID); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// ReplaceDefaults swaps the worker's entire weekly schedule in one
// transaction. Entries must already be one-per-weekday.
func (r *AvailabilityRepository) ReplaceDefaults(ctx context.Context, workerID string, entries []models.DefaultScheduleEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace defaults: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM worker_default_availability WHERE worker_id = $1`, workerID); err != nil {
		return fmt.Errorf("clear defaults: %w", err)
	}

	const insert = `INSERT INTO worker_default_availability (default_id, worker_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)`
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, insert, id, workerID, entry.DayOfWeek, entry.StartTime, entry.EndTime); err != nil {
			return fmt.Errorf("insert default %s: %w", entry.DayOfWeek, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace defaults: %w", err)
	}
	return nil
}

// ListDefaults returns the worker's weekly schedule in Monday..Sunday order.
func (r *AvailabilityRepository) ListDefaults(ctx context.Context, workerID string) ([]models.DefaultScheduleEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM worker_default_availability d
		WHERE d.worker_id = $1
		ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], d.day_of_week)`,
		defaultColumns)
	var entries []models.DefaultScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, workerID); err != nil {
		return nil, fmt.Errorf("list defaults: %w", err)
	}
	return entries, nil
}

// FindDefaultForDay fetches the schedule entry for one weekday.
func (r *AvailabilityRepository) FindDefaultForDay(ctx context.Context, workerID, dayOfWeek string) (*models.DefaultScheduleEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM worker_default_availability d
		WHERE d.worker_id = $1 AND d.day_of_week = $2`, defaultColumns)
	var entry models.DefaultScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, workerID, dayOfWeek); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateOverride inserts an unavailability override.
func (r *AvailabilityRepository) CreateOverride(ctx context.Context, override *models.UnavailabilityOverride) error {
	if override.ID == "" {
		override.ID = uuid.NewString()
	}
	const query = `INSERT INTO worker_unavailability
			(unavailability_id, worker_id, unavailable_date, unavailable_start_time, unavailable_end_time, reason)
		VALUES (:unavailability_id, :worker_id, :unavailable_date, :unavailable_start_time, :unavailable_end_time, :reason)`
	if _, err := r.db.NamedExecContext(ctx, query, override); err != nil {
		return fmt.Errorf("create override: %w", err)
	}
	return nil
}

// DeleteOverride removes an owned override. Returns sql.ErrNoRows when
// nothing matched.
func (r *AvailabilityRepository) DeleteOverride(ctx context.Context, overrideID, workerID string) error {
	const query = `DELETE FROM worker_unavailability WHERE unavailability_id = $1 AND worker_id = $2`
	result, err := r.db.ExecContext(ctx, query, overrideID, workerID)
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListOverridesForDate returns every override the worker holds on a date.
func (r *AvailabilityRepository) ListOverridesForDate(ctx context.Context, workerID, date string) ([]models.UnavailabilityOverride, error) {
	query := fmt.Sprintf(`SELECT %s FROM worker_unavailability u
		WHERE u.worker_id = $1 AND u.unavailable_date = $2
		ORDER BY u.unavailable_start_time`, overrideColumns)
	var overrides []models.UnavailabilityOverride
	if err := r.db.SelectContext(ctx, &overrides, query, workerID, date); err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return overrides, nil
}

// ListUpcomingOverrides returns overrides on or after fromDate.
func (r *AvailabilityRepository) ListUpcomingOverrides(ctx context.Context, workerID, fromDate string) ([]models.UnavailabilityOverride, error) {
	query := fmt.Sprintf(`SELECT %s FROM worker_unavailability u
		WHERE u.worker_id = $1 AND u.unavailable_date >= $2
		ORDER BY u.unavailable_date, u.unavailable_start_time`, overrideColumns)
	var overrides []models.UnavailabilityOverride
	if err := r.db.SelectContext(ctx, &overrides, query, workerID, fromDate); err != nil {
		return nil, fmt.Errorf("list upcoming overrides: %w", err)
	}
	return overrides, nil
}
