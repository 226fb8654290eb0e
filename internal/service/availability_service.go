package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type availabilityRepository interface {
	FindSlotAt(ctx context.Context, workerID, date, at string) (*models.Slot, error)
	SlotExists(ctx context.Context, workerID, date, at string) (bool, error)
	CreateSlot(ctx context.Context, slot *models.Slot) error
	DeleteSlot(ctx context.Context, slotID, workerID string) error
	ListSlotsForWorker(ctx context.Context, workerID string) ([]models.Slot, error)
	ReplaceDefaults(ctx context.Context, workerID string, entries []models.DefaultScheduleEntry) error
	ListDefaults(ctx context.Context, workerID string) ([]models.DefaultScheduleEntry, error)
	FindDefaultForDay(ctx context.Context, workerID, dayOfWeek string) (*models.DefaultScheduleEntry, error)
	CreateOverride(ctx context.Context, override *models.UnavailabilityOverride) error
	DeleteOverride(ctx context.Context, overrideID, workerID string) error
	ListOverridesForDate(ctx context.Context, workerID, date string) ([]models.UnavailabilityOverride, error)
	ListUpcomingOverrides(ctx context.Context, workerID, fromDate string) ([]models.UnavailabilityOverride, error)
}

// DayWindow is one weekday's working hours in a schedule setup request.
type DayWindow struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// SetupScheduleRequest replaces the worker's entire weekly schedule.
type SetupScheduleRequest struct {
	Days []DayWindow `json:"days" validate:"required,min=1,dive"`
}

// AddSlotRequest creates one explicit availability slot.
type AddSlotRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// AddOverrideRequest blocks out an unavailability interval on one date.
type AddOverrideRequest struct {
	Date      string  `json:"date" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Reason    *string `json:"reason" validate:"omitempty,max=200"`
}

// WorkerAvailability bundles everything the worker's availability page shows.
type WorkerAvailability struct {
	Defaults  []models.DefaultScheduleEntry   `json:"defaults"`
	Slots     []models.Slot                   `json:"slots"`
	Overrides []models.UnavailabilityOverride `json:"overrides"`
}

// AvailabilityService resolves worker availability and manages the three
// signals it is derived from: explicit slots, the default weekly schedule and
// unavailability overrides.
type AvailabilityService struct {
	repo      availabilityRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(repo availabilityRepository, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, validator: validate, logger: logger}
}

// Resolve determines whether a worker is bookable at (date, at).
//
// Precedence: an explicit booked slot always wins; an unavailability override
// covering the time forces unavailable next; an explicit available slot comes
// third; otherwise the default weekly window decides, with no window meaning
// unavailable.
func (s *AvailabilityService) Resolve(ctx context.Context, workerID, date, at string) (models.AvailabilityState, error) {
	slot, err := s.repo.FindSlotAt(ctx, workerID, date, at)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	if slot != nil && slot.Status == models.SlotBooked {
		return models.StateBooked, nil
	}

	overrides, err := s.repo.ListOverridesForDate(ctx, workerID, date)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load overrides")
	}
	for _, override := range overrides {
		if override.Covers(at) {
			return models.StateUnavailable, nil
		}
	}

	if slot != nil && slot.Status == models.SlotAvailable {
		return models.StateAvailable, nil
	}

	day, err := models.WeekdayOf(date)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	entry, err := s.repo.FindDefaultForDay(ctx, workerID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StateUnavailable, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load default schedule")
	}
	if entry.WithinWindow(at) {
		return models.StateAvailable, nil
	}
	return models.StateUnavailable, nil
}

// SetupSchedule replaces the caller's default weekly schedule.
func (s *AvailabilityService) SetupSchedule(ctx context.Context, identity models.Identity, req SetupScheduleRequest) error {
	if err := requireRole(identity, models.RoleWorker); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	seen := make(map[string]struct{}, len(req.Days))
	entries := make([]models.DefaultScheduleEntry, 0, len(req.Days))
	for _, window := range req.Days {
		if !validWeekday(window.Day) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown weekday "+window.Day)
		}
		if _, dup := seen[window.Day]; dup {
			return appErrors.Clone(appErrors.ErrValidation, "duplicate weekday "+window.Day)
		}
		seen[window.Day] = struct{}{}
		if err := validClockRange(window.StartTime, window.EndTime); err != nil {
			return err
		}
		entries = append(entries, models.DefaultScheduleEntry{
			WorkerID:  identity.UserID,
			DayOfWeek: window.Day,
			StartTime: window.StartTime,
			EndTime:   window.EndTime,
		})
	}

	if err := s.repo.ReplaceDefaults(ctx, identity.UserID, entries); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	return nil
}

// AddSlot creates an explicit availability slot for the caller.
func (s *AvailabilityService) AddSlot(ctx context.Context, identity models.Identity, req AddSlotRequest) (*models.Slot, error) {
	if err := requireRole(identity, models.RoleWorker); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	if err := validDate(req.Date); err != nil {
		return nil, err
	}
	if err := validClock(req.Time); err != nil {
		return nil, err
	}

	exists, err := s.repo.SlotExists(ctx, identity.UserID, req.Date, req.Time)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you already have a slot at this date and time")
	}

	slot := &models.Slot{WorkerID: identity.UserID, Date: req.Date, Time: req.Time}
	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add slot")
	}
	return slot, nil
}

// RemoveSlot deletes an owned slot that has not been consumed yet.
func (s *AvailabilityService) RemoveSlot(ctx context.Context, identity models.Identity, slotID string) error {
	if err := requireRole(identity, models.RoleWorker); err != nil {
		return err
	}
	if err := s.repo.DeleteSlot(ctx, slotID, identity.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "slot not found or already booked")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete slot")
	}
	return nil
}

// AddOverride blocks out an unavailability interval for the caller.
func (s *AvailabilityService) AddOverride(ctx context.Context, identity models.Identity, req AddOverrideRequest) (*models.UnavailabilityOverride, error) {
	if err := requireRole(identity, models.RoleWorker); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unavailability payload")
	}
	if err := validDate(req.Date); err != nil {
		return nil, err
	}
	if err := validClockRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	override := &models.UnavailabilityOverride{
		WorkerID:  identity.UserID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := s.repo.CreateOverride(ctx, override); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark unavailability")
	}
	return override, nil
}

// RemoveOverride deletes an owned unavailability interval.
func (s *AvailabilityService) RemoveOverride(ctx context.Context, identity models.Identity, overrideID string) error {
	if err := requireRole(identity, models.RoleWorker); err != nil {
		return err
	}
	if err := s.repo.DeleteOverride(ctx, overrideID, identity.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "unavailability not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove unavailability")
	}
	return nil
}

// Overview returns the caller's schedule, slots and upcoming overrides.
func (s *AvailabilityService) Overview(ctx context.Context, identity models.Identity) (*WorkerAvailability, error) {
	if err := requireRole(identity, models.RoleWorker); err != nil {
		return nil, err
	}

	defaults, err := s.repo.ListDefaults(ctx, identity.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	slots, err := s.repo.ListSlotsForWorker(ctx, identity.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slots")
	}
	today := time.Now().UTC().Format("2006-01-02")
	overrides, err := s.repo.ListUpcomingOverrides(ctx, identity.UserID, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load unavailability")
	}

	return &WorkerAvailability{Defaults: defaults, Slots: slots, Overrides: overrides}, nil
}

func validWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

func validDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	return nil
}

func validClock(at string) error {
	if _, err := time.Parse("15:04", at); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid time, expected HH:MM")
	}
	return nil
}

func validClockRange(start, end string) error {
	if err := validClock(start); err != nil {
		return err
	}
	if err := validClock(end); err != nil {
		return err
	}
	if start >= end {
		return appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}
	return nil
}

func requireRole(identity models.Identity, role models.UserRole) error {
	if identity.Role != role {
		return appErrors.ErrForbidden
	}
	return nil
}
