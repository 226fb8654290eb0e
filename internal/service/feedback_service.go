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

type feedbackRepository interface {
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	Create(ctx context.Context, feedback *models.Feedback, workerID string) error
}

type bookingFinder interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
}

// SubmitFeedbackRequest is the customer's review of a completed booking.
type SubmitFeedbackRequest struct {
	BookingID string  `json:"booking_id" validate:"required,uuid4"`
	Rating    float64 `json:"rating" validate:"gte=0,lte=5"`
	Comments  *string `json:"comments" validate:"omitempty,max=1000"`
}

// FeedbackService records customer feedback on completed bookings and keeps
// the worker rating aggregate up to date.
type FeedbackService struct {
	repo      feedbackRepository
	bookings  bookingFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(repo feedbackRepository, bookings bookingFinder, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, bookings: bookings, validator: validate, logger: logger}
}

// Submit records feedback. Only the booking's customer may review, only once,
// and only after the booking completed.
func (s *FeedbackService) Submit(ctx context.Context, identity models.Identity, req SubmitFeedbackRequest) (*models.Feedback, error) {
	if err := requireRole(identity, models.RoleCustomer); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
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
		return nil, appErrors.Clone(appErrors.ErrValidation, "feedback is only allowed on completed bookings")
	}
	if booking.WorkerID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "booking has no assigned worker")
	}

	exists, err := s.repo.ExistsForBooking(ctx, req.BookingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check feedback")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "feedback was already submitted for this booking")
	}

	feedback := &models.Feedback{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comments:  req.Comments,
	}
	if err := s.repo.Create(ctx, feedback, *booking.WorkerID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save feedback")
	}

	s.logger.Info("feedback submitted",
		zap.String("booking_id", req.BookingID),
		zap.String("worker_id", *booking.WorkerID),
		zap.Float64("rating", req.Rating))
	return feedback, nil
}
