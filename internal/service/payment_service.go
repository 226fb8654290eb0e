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

type paymentRepository interface {
	FindByBooking(ctx context.Context, bookingID string) (*models.Payment, error)
	Upsert(ctx context.Context, payment *models.Payment) error
}

// RecordPaymentRequest settles a completed booking.
type RecordPaymentRequest struct {
	BookingID     string  `json:"booking_id" validate:"required,uuid4"`
	Method        string  `json:"payment_method" validate:"required,oneof=cash card upi online"`
	TransactionID *string `json:"transaction_id" validate:"omitempty,max=100"`
}

// PaymentService records settlements for completed bookings.
type PaymentService struct {
	repo      paymentRepository
	bookings  bookingFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, bookings bookingFinder, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, bookings: bookings, validator: validate, logger: logger}
}

// Record settles a booking. The amount always comes from the booking itself,
// never from the request. Re-recording updates the existing row.
func (s *PaymentService) Record(ctx context.Context, identity models.Identity, req RecordPaymentRequest) (*models.Payment, error) {
	if err := requireRole(identity, models.RoleCustomer); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	if booking.CustomerID != identity.UserID {
		return nil, appErrors.ErrForbidden
	}
	if booking.Status != models.BookingCompleted {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payment is only allowed on completed bookings")
	}

	payment := &models.Payment{
		BookingID:     req.BookingID,
		Method:        req.Method,
		Amount:        booking.TotalAmount,
		TransactionID: req.TransactionID,
	}
	if err := s.repo.Upsert(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	s.logger.Info("payment recorded",
		zap.String("booking_id", req.BookingID),
		zap.Float64("amount", payment.Amount),
		zap.String("method", payment.Method))
	return payment, nil
}

// GetForBooking fetches the payment attached to a booking the caller may view.
func (s *PaymentService) GetForBooking(ctx context.Context, identity models.Identity, bookingID string) (*models.Payment, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	if !canView(identity, booking) {
		return nil, appErrors.ErrForbidden
	}

	payment, err := s.repo.FindByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no payment recorded for this booking")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}
