package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type bookingRepoStub struct {
	created      *models.Booking
	byID         map[string]*models.Booking
	updateErr    error
	updateCalled bool
	updateFrom   models.BookingStatus
	updateTo     models.BookingStatus
}

func (s *bookingRepoStub) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = "booking-new"
	s.created = booking
	return nil
}

func (s *bookingRepoStub) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if b, ok := s.byID[id]; ok {
		return b, nil
	}
	return nil, sql.ErrNoRows
}

func (s *bookingRepoStub) ListForCustomer(ctx context.Context, customerID string) ([]models.BookingDetail, error) {
	return nil, nil
}

func (s *bookingRepoStub) ListForWorker(ctx context.Context, workerID string) ([]models.BookingDetail, error) {
	return nil, nil
}

func (s *bookingRepoStub) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error) {
	return nil, 0, nil
}

func (s *bookingRepoStub) UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus) error {
	s.updateCalled = true
	s.updateFrom = from
	s.updateTo = to
	return s.updateErr
}

type categoryFinderStub struct {
	known map[string]bool
}

func (s *categoryFinderStub) FindByID(ctx context.Context, id string) (*models.ServiceCategory, error) {
	if s.known[id] {
		return &models.ServiceCategory{ID: id, Name: "Plumbing"}, nil
	}
	return nil, sql.ErrNoRows
}

func customerIdentity() models.Identity {
	return models.Identity{UserID: "cust-1", Role: models.RoleCustomer, FullName: "Jordan"}
}

func TestCreateRequestStartsPendingAndUnassigned(t *testing.T) {
	repo := &bookingRepoStub{}
	svc := NewBookingService(repo, &categoryFinderStub{}, nil, zap.NewNop())

	booking, err := svc.CreateRequest(context.Background(), customerIdentity(), CreateBookingRequest{
		ServiceDate: "2026-09-07",
		ServiceTime: "10:00",
	})
	require.NoError(t, err)
	require.Equal(t, models.BookingPending, booking.Status)
	require.Nil(t, booking.WorkerID)
	require.Zero(t, booking.TotalAmount)
	require.Equal(t, "cust-1", booking.CustomerID)
}

func TestCreateRequestRejectsUnknownCategory(t *testing.T) {
	repo := &bookingRepoStub{}
	svc := NewBookingService(repo, &categoryFinderStub{}, nil, zap.NewNop())

	categoryID := "0c7c4f7e-9a1b-4d2e-8f3a-1b2c3d4e5f60"
	_, err := svc.CreateRequest(context.Background(), customerIdentity(), CreateBookingRequest{
		CategoryID:  &categoryID,
		ServiceDate: "2026-09-07",
		ServiceTime: "10:00",
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}

func TestCreateRequestRejectsBadDate(t *testing.T) {
	svc := NewBookingService(&bookingRepoStub{}, &categoryFinderStub{}, nil, zap.NewNop())

	_, err := svc.CreateRequest(context.Background(), customerIdentity(), CreateBookingRequest{
		ServiceDate: "07-09-2026",
		ServiceTime: "10:00",
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}

func TestCreateRequestCustomerOnly(t *testing.T) {
	svc := NewBookingService(&bookingRepoStub{}, &categoryFinderStub{}, nil, zap.NewNop())

	_, err := svc.CreateRequest(context.Background(), adminIdentity(), CreateBookingRequest{
		ServiceDate: "2026-09-07",
		ServiceTime: "10:00",
	})
	requireAppError(t, err, appErrors.ErrForbidden.Code)
}

func assignedBooking(workerID string, status models.BookingStatus) *models.Booking {
	return &models.Booking{
		ID:         "booking-1",
		CustomerID: "cust-1",
		WorkerID:   &workerID,
		Status:     status,
	}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	repo := &bookingRepoStub{byID: map[string]*models.Booking{
		"booking-1": assignedBooking("worker-1", models.BookingConfirmed),
	}}
	svc := NewBookingService(repo, &categoryFinderStub{}, nil, zap.NewNop())

	booking, err := svc.UpdateStatus(context.Background(),
		models.Identity{UserID: "worker-1", Role: models.RoleWorker},
		"booking-1", UpdateStatusRequest{Status: models.BookingInProgress})
	require.NoError(t, err)
	require.Equal(t, models.BookingInProgress, booking.Status)
	require.True(t, repo.updateCalled)
	require.Equal(t, models.BookingConfirmed, repo.updateFrom)
	require.Equal(t, models.BookingInProgress, repo.updateTo)
}

func TestUpdateStatusRejectsOtherWorker(t *testing.T) {
	repo := &bookingRepoStub{byID: map[string]*models.Booking{
		"booking-1": assignedBooking("worker-1", models.BookingConfirmed),
	}}
	svc := NewBookingService(repo, &categoryFinderStub{}, nil, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(),
		models.Identity{UserID: "worker-2", Role: models.RoleWorker},
		"booking-1", UpdateStatusRequest{Status: models.BookingInProgress})
	requireAppError(t, err, appErrors.ErrForbidden.Code)
	require.False(t, repo.updateCalled)
}

func TestUpdateStatusClosedBookingImmutable(t *testing.T) {
	for _, closed := range []models.BookingStatus{models.BookingCompleted, models.BookingCancelled} {
		repo := &bookingRepoStub{byID: map[string]*models.Booking{
			"booking-1": assignedBooking("worker-1", closed),
		}}
		svc := NewBookingService(repo, &categoryFinderStub{}, nil, zap.NewNop())

		_, err := svc.UpdateStatus(context.Background(),
			models.Identity{UserID: "worker-1", Role: models.RoleWorker},
			"booking-1", UpdateStatusRequest{Status: models.BookingInProgress})
		requireAppError(t, err, appErrors.ErrBookingClosed.Code)
		require.False(t, repo.updateCalled)
	}
}

func TestUpdateStatusConcurrentCloseDetected(t *testing.T) {
	repo := &bookingRepoStub{
		byID: map[string]*models.Booking{
			"booking-1": assignedBooking("worker-1", models.BookingInProgress),
		},
		updateErr: sql.ErrNoRows,
	}
	svc := NewBookingService(repo, &categoryFinderStub{}, nil, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(),
		models.Identity{UserID: "worker-1", Role: models.RoleWorker},
		"booking-1", UpdateStatusRequest{Status: models.BookingCompleted})
	requireAppError(t, err, appErrors.ErrBookingClosed.Code)
}

func TestUpdateStatusUnknownStatusRejected(t *testing.T) {
	repo := &bookingRepoStub{byID: map[string]*models.Booking{
		"booking-1": assignedBooking("worker-1", models.BookingConfirmed),
	}}
	svc := NewBookingService(repo, &categoryFinderStub{}, nil, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(),
		models.Identity{UserID: "worker-1", Role: models.RoleWorker},
		"booking-1", UpdateStatusRequest{Status: "done"})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}

func TestGetEnforcesVisibility(t *testing.T) {
	repo := &bookingRepoStub{byID: map[string]*models.Booking{
		"booking-1": assignedBooking("worker-1", models.BookingConfirmed),
	}}
	svc := NewBookingService(repo, &categoryFinderStub{}, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), customerIdentity(), "booking-1")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(),
		models.Identity{UserID: "cust-2", Role: models.RoleCustomer}, "booking-1")
	requireAppError(t, err, appErrors.ErrForbidden.Code)

	_, err = svc.Get(context.Background(), adminIdentity(), "booking-1")
	require.NoError(t, err)
}
