package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type paymentRepoStub struct {
	upserted *models.Payment
	existing *models.Payment
	findErr  error
}

func (s *paymentRepoStub) FindByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.existing, nil
}

func (s *paymentRepoStub) Upsert(ctx context.Context, payment *models.Payment) error {
	payment.ID = "payment-new"
	payment.Status = models.PaymentCompleted
	s.upserted = payment
	return nil
}

func TestRecordPaymentAmountFromBooking(t *testing.T) {
	booking := completedBooking()
	booking.TotalAmount = 180.0
	bookings := &bookingRepoStub{byID: map[string]*models.Booking{feedbackBookingID: booking}}
	repo := &paymentRepoStub{}
	svc := NewPaymentService(repo, bookings, nil, zap.NewNop())

	payment, err := svc.Record(context.Background(), customerIdentity(), RecordPaymentRequest{
		BookingID: feedbackBookingID,
		Method:    "cash",
	})
	require.NoError(t, err)
	require.Equal(t, 180.0, payment.Amount)
	require.Equal(t, models.PaymentCompleted, payment.Status)
}

func TestRecordPaymentOnlyCompletedBookings(t *testing.T) {
	booking := completedBooking()
	booking.Status = models.BookingConfirmed
	bookings := &bookingRepoStub{byID: map[string]*models.Booking{feedbackBookingID: booking}}
	svc := NewPaymentService(&paymentRepoStub{}, bookings, nil, zap.NewNop())

	_, err := svc.Record(context.Background(), customerIdentity(), RecordPaymentRequest{
		BookingID: feedbackBookingID,
		Method:    "cash",
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}

func TestRecordPaymentOnlyOwner(t *testing.T) {
	bookings := &bookingRepoStub{byID: map[string]*models.Booking{feedbackBookingID: completedBooking()}}
	svc := NewPaymentService(&paymentRepoStub{}, bookings, nil, zap.NewNop())

	_, err := svc.Record(context.Background(),
		models.Identity{UserID: "cust-2", Role: models.RoleCustomer},
		RecordPaymentRequest{BookingID: feedbackBookingID, Method: "card"})
	requireAppError(t, err, appErrors.ErrForbidden.Code)
}

func TestRecordPaymentRejectsUnknownMethod(t *testing.T) {
	bookings := &bookingRepoStub{byID: map[string]*models.Booking{feedbackBookingID: completedBooking()}}
	svc := NewPaymentService(&paymentRepoStub{}, bookings, nil, zap.NewNop())

	_, err := svc.Record(context.Background(), customerIdentity(), RecordPaymentRequest{
		BookingID: feedbackBookingID,
		Method:    "barter",
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}
