package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
)

func newAvailabilityRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAvailabilityRepositoryFindSlotAt(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)
	rows := sqlmock.NewRows([]string{"slot_id", "worker_id", "available_date", "available_time", "status", "created_at"}).
		AddRow("slot-1", "worker-1", "2026-09-07", "10:00", "booked", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.slot_id")).
		WithArgs("worker-1", "2026-09-07", "10:00").
		WillReturnRows(rows)

	slot, err := repo.FindSlotAt(context.Background(), "worker-1", "2026-09-07", "10:00")
	require.NoError(t, err)
	require.Equal(t, models.SlotBooked, slot.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositorySlotExists(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM availability")).
		WithArgs("worker-1", "2026-09-07", "10:00").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	exists, err := repo.SlotExists(context.Background(), "worker-1", "2026-09-07", "10:00")
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM availability")).
		WithArgs("worker-1", "2026-09-08", "10:00").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	exists, err = repo.SlotExists(context.Background(), "worker-1", "2026-09-08", "10:00")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryCreateSlotForcesAvailable(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	slot := &models.Slot{WorkerID: "worker-1", Date: "2026-09-07", Time: "10:00", Status: models.SlotBooked}
	require.NoError(t, repo.CreateSlot(context.Background(), slot))
	require.Equal(t, models.SlotAvailable, slot.Status)
	require.NotEmpty(t, slot.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryDeleteSlotBookedOrMissing(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability")).
		WithArgs("slot-1", "worker-1", models.SlotAvailable).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteSlot(context.Background(), "slot-1", "worker-1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceDefaults(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)
	entries := []models.DefaultScheduleEntry{
		{WorkerID: "worker-1", DayOfWeek: "Monday", StartTime: "09:00", EndTime: "17:00"},
		{WorkerID: "worker-1", DayOfWeek: "Tuesday", StartTime: "10:00", EndTime: "16:00"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM worker_default_availability WHERE worker_id = $1")).
		WithArgs("worker-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO worker_default_availability")).
		WithArgs(sqlmock.AnyArg(), "worker-1", "Monday", "09:00", "17:00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO worker_default_availability")).
		WithArgs(sqlmock.AnyArg(), "worker-1", "Tuesday", "10:00", "16:00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceDefaults(context.Background(), "worker-1", entries))
	require.NoError(t, mock.ExpectationsWereMet())
}
