package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	"github.com/taskmanager-pro/service-booking-api/internal/repository"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type assignmentBookingRepository interface {
	FindPendingByID(ctx context.Context, id string) (*models.BookingDetail, error)
	Assign(ctx context.Context, params *repository.AssignParams) error
}

type assignmentWorkerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Worker, error)
	ListByCategory(ctx context.Context, categoryID *string) ([]models.Worker, error)
}

type slotFinder interface {
	FindSlotAt(ctx context.Context, workerID, date, at string) (*models.Slot, error)
}

type availabilityResolver interface {
	Resolve(ctx context.Context, workerID, date, at string) (models.AvailabilityState, error)
}

// AssignRequest confirms a pending booking against a worker with a price.
type AssignRequest struct {
	BookingID string  `json:"booking_id" validate:"required,uuid4"`
	WorkerID  string  `json:"worker_id" validate:"required,uuid4"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

// CandidateList is the ranked worker list for one pending booking.
type CandidateList struct {
	Booking    *models.BookingDetail `json:"booking"`
	Candidates []models.RankedWorker `json:"candidates"`
}

// AssignmentService builds candidate lists for pending bookings and performs
// the atomic assignment that confirms them.
type AssignmentService struct {
	bookings  assignmentBookingRepository
	workers   assignmentWorkerRepository
	slots     slotFinder
	resolver  availabilityResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(
	bookings assignmentBookingRepository,
	workers assignmentWorkerRepository,
	slots slotFinder,
	resolver availabilityResolver,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		bookings:  bookings,
		workers:   workers,
		slots:     slots,
		resolver:  resolver,
		validator: validate,
		logger:    logger,
	}
}

// Candidates returns workers in the booking's category ranked for assignment.
// Ranking is stable: availability tier first, then rating descending, with the
// repository's name ordering breaking remaining ties.
func (s *AssignmentService) Candidates(ctx context.Context, identity models.Identity, bookingID string) (*CandidateList, error) {
	if err := requireRole(identity, models.RoleAdmin); err != nil {
		return nil, err
	}

	booking, err := s.bookings.FindPendingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAlreadyAssigned
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}

	workers, err := s.workers.ListByCategory(ctx, booking.CategoryID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workers")
	}

	candidates := make([]models.RankedWorker, 0, len(workers))
	for _, worker := range workers {
		state, err := s.resolver.Resolve(ctx, worker.ID, booking.ServiceDate, booking.ServiceTime)
		if err != nil {
			s.logger.Warn("availability resolution failed",
				zap.String("worker_id", worker.ID),
				zap.String("booking_id", bookingID),
				zap.Error(err))
			continue
		}
		candidate := models.RankedWorker{Worker: worker, Availability: state}
		if state == models.StateAvailable {
			slot, err := s.slots.FindSlotAt(ctx, worker.ID, booking.ServiceDate, booking.ServiceTime)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to match slot")
			}
			if slot != nil && slot.Status == models.SlotAvailable {
				candidate.SlotID = &slot.ID
			}
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].Availability.RankPriority(), candidates[j].Availability.RankPriority()
		if pi != pj {
			return pi < pj
		}
		return candidates[i].Worker.Rating > candidates[j].Worker.Rating
	})

	return &CandidateList{Booking: booking, Candidates: candidates}, nil
}

// Assign confirms a pending booking: it binds the worker, sets the price,
// moves the status to confirmed and consumes the worker's matching slot, all
// in one transaction. A booking already taken yields ErrAlreadyAssigned.
func (s *AssignmentService) Assign(ctx context.Context, identity models.Identity, req AssignRequest) (*models.BookingDetail, error) {
	if err := requireRole(identity, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	booking, err := s.bookings.FindPendingByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAlreadyAssigned
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}

	worker, err := s.workers.FindByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "worker not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker")
	}
	if booking.CategoryID != nil && worker.CategoryID != nil && *booking.CategoryID != *worker.CategoryID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "worker does not serve the requested category")
	}

	params := repository.AssignParams{
		BookingID:  req.BookingID,
		WorkerID:   req.WorkerID,
		CategoryID: worker.CategoryID,
		Amount:     req.Amount,
	}
	slot, err := s.slots.FindSlotAt(ctx, req.WorkerID, booking.ServiceDate, booking.ServiceTime)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to match slot")
	}
	if slot != nil && slot.Status == models.SlotAvailable {
		params.SlotID = &slot.ID
	}

	if err := s.bookings.Assign(ctx, &params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAlreadyAssigned
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign booking")
	}

	s.logger.Info("booking assigned",
		zap.String("booking_id", req.BookingID),
		zap.String("worker_id", req.WorkerID),
		zap.Float64("amount", req.Amount),
		zap.String("admin_id", identity.UserID))

	booking.WorkerID = &worker.ID
	booking.WorkerName = &worker.Name
	booking.CategoryID = worker.CategoryID
	booking.CategoryName = worker.CategoryName
	booking.SlotID = params.SlotID
	booking.TotalAmount = req.Amount
	booking.Status = models.BookingConfirmed
	return booking, nil
}
