package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type feedbackRepoStub struct {
	exists    bool
	created   *models.Feedback
	forWorker string
}

func (s *feedbackRepoStub) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	return s.exists, nil
}

func (s *feedbackRepoStub) Create(ctx context.Context, feedback *models.Feedback, workerID string) error {
	feedback.ID = "feedback-new"
	s.created = feedback
	s.forWorker = workerID
	return nil
}

const feedbackBookingID = "a9d5f3a0-57a1-4f6f-9a46-0f1b2c3d4e5f"

func completedBooking() *models.Booking {
	workerID := "worker-1"
	return &models.Booking{
		ID:         feedbackBookingID,
		CustomerID: "cust-1",
		WorkerID:   &workerID,
		Status:     models.BookingCompleted,
	}
}

func TestSubmitFeedback(t *testing.T) {
	repo := &feedbackRepoStub{}
	bookings := &bookingRepoStub{byID: map[string]*models.Booking{feedbackBookingID: completedBooking()}}
	svc := NewFeedbackService(repo, bookings, nil, zap.NewNop())

	feedback, err := svc.Submit(context.Background(), customerIdentity(), SubmitFeedbackRequest{
		BookingID: feedbackBookingID,
		Rating:    4.5,
	})
	require.NoError(t, err)
	require.Equal(t, 4.5, feedback.Rating)
	require.Equal(t, "worker-1", repo.forWorker)
}

func TestSubmitFeedbackOnlyOnce(t *testing.T) {
	repo := &feedbackRepoStub{exists: true}
	bookings := &bookingRepoStub{byID: map[string]*models.Booking{feedbackBookingID: completedBooking()}}
	svc := NewFeedbackService(repo, bookings, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), customerIdentity(), SubmitFeedbackRequest{
		BookingID: feedbackBookingID,
		Rating:    4.0,
	})
	requireAppError(t, err, appErrors.ErrConflict.Code)
}

func TestSubmitFeedbackOnlyWhenCompleted(t *testing.T) {
	booking := completedBooking()
	booking.Status = models.BookingInProgress
	bookings := &bookingRepoStub{byID: map[string]*models.Booking{feedbackBookingID: booking}}
	svc := NewFeedbackService(&feedbackRepoStub{}, bookings, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), customerIdentity(), SubmitFeedbackRequest{
		BookingID: feedbackBookingID,
		Rating:    4.0,
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}

func TestSubmitFeedbackOnlyOwner(t *testing.T) {
	bookings := &bookingRepoStub{byID: map[string]*models.Booking{feedbackBookingID: completedBooking()}}
	svc := NewFeedbackService(&feedbackRepoStub{}, bookings, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(),
		models.Identity{UserID: "cust-2", Role: models.RoleCustomer},
		SubmitFeedbackRequest{BookingID: feedbackBookingID, Rating: 4.0})
	requireAppError(t, err, appErrors.ErrForbidden.Code)
}

func TestSubmitFeedbackRatingBounds(t *testing.T) {
	bookings := &bookingRepoStub{byID: map[string]*models.Booking{feedbackBookingID: completedBooking()}}
	svc := NewFeedbackService(&feedbackRepoStub{}, bookings, nil, zap.NewNop())

	for _, rating := range []float64{-1, 5.5, 6} {
		_, err := svc.Submit(context.Background(), customerIdentity(), SubmitFeedbackRequest{
			BookingID: feedbackBookingID,
			Rating:    rating,
		})
		requireAppError(t, err, appErrors.ErrValidation.Code)
	}
}
