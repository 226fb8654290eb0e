package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type bookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	ListForCustomer(ctx context.Context, customerID string) ([]models.BookingDetail, error)
	ListForWorker(ctx context.Context, workerID string) ([]models.BookingDetail, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error)
	UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus) error
}

type categoryFinder interface {
	FindByID(ctx context.Context, id string) (*models.ServiceCategory, error)
}

// CreateBookingRequest is a customer's new service request.
type CreateBookingRequest struct {
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid4"`
	ServiceDate string  `json:"service_date" validate:"required"`
	ServiceTime string  `json:"service_time" validate:"required"`
	Description *string `json:"service_description" validate:"omitempty,max=500"`
}

// UpdateStatusRequest moves an assigned booking to a new lifecycle state.
type UpdateStatusRequest struct {
	Status models.BookingStatus `json:"status" validate:"required"`
}

// BookingListPage is an admin booking listing with pagination metadata.
type BookingListPage struct {
	Bookings   []models.BookingDetail `json:"bookings"`
	Pagination models.Pagination      `json:"pagination"`
}

// BookingService handles the booking lifecycle from customer request through
// worker status reporting.
type BookingService struct {
	repo       bookingRepository
	categories categoryFinder
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(repo bookingRepository, categories categoryFinder, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{repo: repo, categories: categories, validator: validate, logger: logger}
}

// CreateRequest records a new pending booking for the calling customer. The
// booking starts unpriced and unassigned.
func (s *BookingService) CreateRequest(ctx context.Context, identity models.Identity, req CreateBookingRequest) (*models.Booking, error) {
	if err := requireRole(identity, models.RoleCustomer); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	if err := validDate(req.ServiceDate); err != nil {
		return nil, err
	}
	if err := validClock(req.ServiceTime); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown service category")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category")
		}
	}

	booking := &models.Booking{
		CustomerID:  identity.UserID,
		CategoryID:  req.CategoryID,
		ServiceDate: req.ServiceDate,
		ServiceTime: req.ServiceTime,
		Description: req.Description,
		Status:      models.BookingPending,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	s.logger.Info("booking requested",
		zap.String("booking_id", booking.ID),
		zap.String("customer_id", identity.UserID))
	return booking, nil
}

// ListMine returns the calling customer's bookings.
func (s *BookingService) ListMine(ctx context.Context, identity models.Identity) ([]models.BookingDetail, error) {
	if err := requireRole(identity, models.RoleCustomer); err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListForCustomer(ctx, identity.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	return bookings, nil
}

// ListAssigned returns bookings assigned to the calling worker.
func (s *BookingService) ListAssigned(ctx context.Context, identity models.Identity) ([]models.BookingDetail, error) {
	if err := requireRole(identity, models.RoleWorker); err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListForWorker(ctx, identity.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	return bookings, nil
}

// ListAll returns the admin booking listing with optional status filter.
func (s *BookingService) ListAll(ctx context.Context, identity models.Identity, filter models.BookingFilter) (*BookingListPage, error) {
	if err := requireRole(identity, models.RoleAdmin); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown booking status")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	return &BookingListPage{
		Bookings: bookings,
		Pagination: models.Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalCount: total,
		},
	}, nil
}

// Get fetches one booking. Customers see their own, workers their assigned
// ones, admins everything.
func (s *BookingService) Get(ctx context.Context, identity models.Identity, bookingID string) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	if !canView(identity, booking) {
		return nil, appErrors.ErrForbidden
	}
	return booking, nil
}

// UpdateStatus applies a worker-reported status change to an assigned booking.
// Closed bookings are immutable and the write is guarded against concurrent
// transitions.
func (s *BookingService) UpdateStatus(ctx context.Context, identity models.Identity, bookingID string, req UpdateStatusRequest) (*models.Booking, error) {
	if err := requireRole(identity, models.RoleWorker); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown booking status")
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	if booking.WorkerID == nil || *booking.WorkerID != identity.UserID {
		return nil, appErrors.ErrForbidden
	}
	if !booking.Status.CanTransition(req.Status) {
		return nil, appErrors.ErrBookingClosed
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, booking.Status, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrBookingClosed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking status")
	}

	s.logger.Info("booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("worker_id", identity.UserID),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(req.Status)))

	booking.Status = req.Status
	return booking, nil
}

func canView(identity models.Identity, booking *models.Booking) bool {
	switch identity.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return booking.CustomerID == identity.UserID
	case models.RoleWorker:
		return booking.WorkerID != nil && *booking.WorkerID == identity.UserID
	}
	return false
}
