package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
)

func newPaymentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPaymentRepositoryUpsertInserts(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()

	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payment_id FROM payment WHERE booking_id = $1")).
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	payment := &models.Payment{BookingID: "booking-1", Method: "cash", Amount: 120.0}
	require.NoError(t, repo.Upsert(context.Background(), payment))
	require.NotEmpty(t, payment.ID)
	require.Equal(t, models.PaymentCompleted, payment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryUpsertUpdatesExisting(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()

	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payment_id FROM payment WHERE booking_id = $1")).
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}).AddRow("pay-1"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET payment_method = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment := &models.Payment{BookingID: "booking-1", Method: "card", Amount: 120.0}
	require.NoError(t, repo.Upsert(context.Background(), payment))
	require.Equal(t, "pay-1", payment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
